package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func entry(score int, started time.Time) SessionEntry {
	return SessionEntry{
		StartedAt:  started,
		Duration:   90 * time.Second,
		Score:      score,
		Frames:     score * 100,
		EndReason:  "death",
		ReplayPath: "",
	}
}

func TestStoreOpenCreatesNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreSaveAndTopSessions(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	for i, score := range []int{10, 42, 7} {
		if _, err := store.SaveSession(entry(score, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("SaveSession() failed: %v", err)
		}
	}

	top, err := store.TopSessions(10)
	if err != nil {
		t.Fatalf("TopSessions() failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("Expected 3 sessions, got %d", len(top))
	}
	if top[0].Score != 42 || top[1].Score != 10 || top[2].Score != 7 {
		t.Errorf("Sessions not sorted by score: %d, %d, %d", top[0].Score, top[1].Score, top[2].Score)
	}
	if top[0].Duration != 90*time.Second {
		t.Errorf("Duration round-tripped as %v, want 90s", top[0].Duration)
	}
	if top[0].EndReason != "death" {
		t.Errorf("EndReason round-tripped as %q", top[0].EndReason)
	}
}

func TestStoreTopSessionsLimit(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		store.SaveSession(entry((i+1)*10, base.Add(time.Duration(i)*time.Minute)))
	}

	top, err := store.TopSessions(3)
	if err != nil {
		t.Fatalf("TopSessions() failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("Expected 3 sessions with limit, got %d", len(top))
	}
	if top[0].Score != 50 || top[1].Score != 40 || top[2].Score != 30 {
		t.Errorf("Top sessions out of order: %v", top)
	}
}

func TestStoreRecentSessions(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	for i, score := range []int{100, 5, 60} {
		store.SaveSession(entry(score, base.Add(time.Duration(i)*time.Minute)))
	}

	recent, err := store.RecentSessions(2)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 sessions, got %d", len(recent))
	}
	if recent[0].Score != 60 || recent[1].Score != 5 {
		t.Errorf("Recent sessions out of order: %d, %d", recent[0].Score, recent[1].Score)
	}
}

func TestStoreBestScore(t *testing.T) {
	store := openTestStore(t)

	best, err := store.BestScore()
	if err != nil {
		t.Fatalf("BestScore() failed: %v", err)
	}
	if best != 0 {
		t.Errorf("Expected best score of 0 for empty store, got %d", best)
	}

	base := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	store.SaveSession(entry(10, base))
	store.SaveSession(entry(30, base.Add(time.Minute)))
	store.SaveSession(entry(20, base.Add(2*time.Minute)))

	best, err = store.BestScore()
	if err != nil {
		t.Fatalf("BestScore() failed: %v", err)
	}
	if best != 30 {
		t.Errorf("Expected best score of 30, got %d", best)
	}
}

func TestStoreByReplayPath(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	e := entry(15, base)
	e.ReplayPath = "/tmp/replays/2026-08-24T12:00:00.json"
	if _, err := store.SaveSession(e); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}

	got, err := store.ByReplayPath(e.ReplayPath)
	if err != nil {
		t.Fatalf("ByReplayPath() failed: %v", err)
	}
	if got == nil || got.Score != 15 {
		t.Fatalf("ByReplayPath() = %v, want the stored session", got)
	}

	missing, err := store.ByReplayPath("/nowhere.json")
	if err != nil {
		t.Fatalf("ByReplayPath() failed: %v", err)
	}
	if missing != nil {
		t.Error("ByReplayPath() invented a session for an unknown file")
	}
}
