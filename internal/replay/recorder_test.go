package replay

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/mazebrawl/internal/core"
)

func testFrame(score int) core.Frame {
	return core.Frame{
		Hero:  core.Hero{Color: 'v', X: 5000, Y: 5000, Angle: 225},
		Score: score,
	}
}

func TestRecorderKeepsOpeningGrid(t *testing.T) {
	dir := t.TempDir()
	r := NewRecorder(dir, 30)
	start := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

	// A session opens with a grid-bearing frame; the grid never comes
	// again unless the window moves.
	first := testFrame(0)
	first.Maze = []string{"vvv", "v0v", "vvv"}
	r.Observe(first, start)
	for i := 1; i <= 5; i++ {
		r.Observe(testFrame(i), start.Add(time.Duration(i)*40*time.Millisecond))
	}

	path, err := r.Dump(start.Add(time.Second))
	if err != nil {
		t.Fatalf("Dump failed: %v", err)
	}
	frames, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(frames) == 0 || !frames[0].HasMaze() {
		t.Fatal("The first replay record must carry the maze; playback has nothing to inherit otherwise")
	}
	if frames[0].Delay != 0 {
		t.Errorf("Opening record delay = %d, expected 0", frames[0].Delay)
	}
}

func TestRecorderSamplesAtRate(t *testing.T) {
	r := NewRecorder(t.TempDir(), 30) // one sample per ~33ms
	start := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

	r.Observe(testFrame(0), start)
	if r.Len() != 1 {
		t.Fatalf("First observation should be kept, got %d samples", r.Len())
	}

	r.Observe(testFrame(1), start.Add(40*time.Millisecond))
	if r.Len() != 2 {
		t.Fatalf("Expected 2 samples after the interval passed, got %d", r.Len())
	}

	// Too soon for the next scheduled sample
	r.Observe(testFrame(2), start.Add(60*time.Millisecond))
	if r.Len() != 2 {
		t.Fatalf("Expected the early frame to be skipped, got %d samples", r.Len())
	}

	r.Observe(testFrame(3), start.Add(80*time.Millisecond))
	if r.Len() != 3 {
		t.Fatalf("Expected 3 samples, got %d", r.Len())
	}
}

func TestRecorderSamplingSurvivesEarlyTicks(t *testing.T) {
	r := NewRecorder(t.TempDir(), 10) // one sample per 100ms
	start := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

	// Ticks arriving 1ms early, every 99ms. Jitter must shift a sample
	// to the next tick, not drop it and halve the effective rate.
	for i := 0; i <= 10; i++ {
		r.Observe(testFrame(i), start.Add(time.Duration(i)*99*time.Millisecond))
	}
	if r.Len() != 10 {
		t.Errorf("Kept %d of 11 early ticks, expected 10", r.Len())
	}
}

func TestRecorderStampsElapsedTime(t *testing.T) {
	r := NewRecorder(t.TempDir(), 30)
	start := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

	r.Observe(testFrame(0), start)
	r.Observe(testFrame(1), start.Add(40*time.Millisecond))
	r.Observe(testFrame(2), start.Add(75*time.Millisecond))

	if r.frames[0].Delay != 0 {
		t.Errorf("Opening sample delay = %d, expected 0", r.frames[0].Delay)
	}
	if r.frames[1].Delay != 40 {
		t.Errorf("Second sample delay = %d, expected 40", r.frames[1].Delay)
	}
	if r.frames[2].Delay != 35 {
		t.Errorf("Third sample delay = %d, expected 35", r.frames[2].Delay)
	}
}

func TestRecorderDumpAndLoad(t *testing.T) {
	dir := t.TempDir()
	r := NewRecorder(dir, 30)
	start := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

	r.Observe(testFrame(0), start)
	r.Observe(testFrame(1), start.Add(40*time.Millisecond))
	r.Observe(testFrame(2), start.Add(80*time.Millisecond))

	path, err := r.Dump(start.Add(100 * time.Millisecond))
	if err != nil {
		t.Fatalf("Dump failed: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("Dump wrote to %s, expected directory %s", path, dir)
	}
	name := filepath.Base(path)
	if !strings.HasSuffix(name, ".json") || !strings.HasPrefix(name, "2026-08-23T12:00:00") {
		t.Errorf("Replay filename = %q, expected ISO timestamp with .json suffix", name)
	}

	frames, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(frames) != 3 {
		t.Fatalf("Loaded %d frames, expected 3", len(frames))
	}
	want := testFrame(1)
	want.Delay = 40
	if !reflect.DeepEqual(frames[1], want) {
		t.Errorf("Second loaded frame = %+v, expected %+v", frames[1], want)
	}
}

func TestRecorderDisabled(t *testing.T) {
	r := NewRecorder("", 30)
	r.Observe(testFrame(0), time.Now())
	r.Observe(testFrame(1), time.Now().Add(time.Second))
	if r.Enabled() || r.Len() != 0 {
		t.Error("A recorder without a directory should keep nothing")
	}

	path, err := r.Dump(time.Now())
	if err != nil || path != "" {
		t.Errorf("Disabled Dump = (%q, %v), expected no file and no error", path, err)
	}

	var nilRec *Recorder
	nilRec.Observe(testFrame(0), time.Now()) // must not panic
	if nilRec.Enabled() || nilRec.Len() != 0 {
		t.Error("A nil recorder should keep nothing")
	}
}

func TestRecorderReset(t *testing.T) {
	r := NewRecorder(t.TempDir(), 30)
	start := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	r.Observe(testFrame(0), start)
	r.Observe(testFrame(1), start.Add(40*time.Millisecond))
	if r.Len() != 2 {
		t.Fatalf("Expected 2 samples before reset, got %d", r.Len())
	}

	r.Reset()
	if r.Len() != 0 {
		t.Errorf("Expected no samples after reset, got %d", r.Len())
	}

	// The schedule re-arms: the next observation opens a fresh session
	// and is kept with a zero delay, however long the gap was.
	r.Observe(testFrame(2), start.Add(10*time.Second))
	if r.Len() != 1 || r.frames[0].Delay != 0 {
		t.Errorf("First observation after reset should open the recording, got %d samples", r.Len())
	}
}
