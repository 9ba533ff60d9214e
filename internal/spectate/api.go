package spectate

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/vovakirdan/mazebrawl/internal/storage"
)

// Service is the spectator HTTP server: live frames on /ws, stored
// replays and scores under /api.
type Service struct {
	hub    *Hub
	dir    string
	store  *storage.Store
	logger *log.Logger
	srv    *http.Server
}

// New wires the service. replayDir may be empty (no stored replays)
// and store may be nil (no scores); the endpoints then serve empty
// lists rather than errors.
func New(addr, replayDir string, store *storage.Store, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Service{
		hub:    NewHub(logger),
		dir:    replayDir,
		store:  store,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Get("/ws", s.hub.ServeWS)
	r.Route("/api", func(r chi.Router) {
		r.Get("/replays", s.handleReplays)
		r.Get("/replays/{name}", s.handleReplayFile)
		r.Get("/scores", s.handleScores)
	})

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Hub returns the broadcast hub; the session publishes into it.
func (s *Service) Hub() *Hub {
	return s.hub
}

// Handler exposes the router for tests.
func (s *Service) Handler() http.Handler {
	return s.srv.Handler
}

// ListenAndServe blocks until Shutdown.
func (s *Service) ListenAndServe() error {
	s.logger.Info("spectate service listening", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server gracefully.
func (s *Service) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

type replayInfo struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	Modified  time.Time `json:"modified"`
	Score     *int      `json:"score,omitempty"`
	EndReason string    `json:"end_reason,omitempty"`
}

func (s *Service) handleReplays(w http.ResponseWriter, r *http.Request) {
	infos := []replayInfo{}
	if s.dir != "" {
		entries, err := os.ReadDir(s.dir)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			s.fail(w, "cannot list replays", err)
			return
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
				continue
			}
			fi, err := e.Info()
			if err != nil {
				continue
			}
			info := replayInfo{Name: e.Name(), Size: fi.Size(), Modified: fi.ModTime()}
			if s.store != nil {
				if stored, err := s.store.ByReplayPath(filepath.Join(s.dir, e.Name())); err == nil && stored != nil {
					info.Score = &stored.Score
					info.EndReason = stored.EndReason
				}
			}
			infos = append(infos, info)
		}
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name > infos[j].Name })
	writeJSON(w, infos)
}

func (s *Service) handleReplayFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" || name != filepath.Base(name) || !strings.HasSuffix(name, ".json") {
		http.Error(w, "bad replay name", http.StatusBadRequest)
		return
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		http.Error(w, "no such replay", http.StatusNotFound)
		return
	}
	if err != nil {
		s.fail(w, "cannot read replay", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

type scoreInfo struct {
	StartedAt  time.Time `json:"started_at"`
	Score      int       `json:"score"`
	DurationMS int64     `json:"duration_ms"`
	Frames     int       `json:"frames"`
	EndReason  string    `json:"end_reason"`
	Replay     string    `json:"replay,omitempty"`
}

func (s *Service) handleScores(w http.ResponseWriter, r *http.Request) {
	infos := []scoreInfo{}
	if s.store != nil {
		entries, err := s.store.TopSessions(20)
		if err != nil {
			s.fail(w, "cannot query scores", err)
			return
		}
		for _, e := range entries {
			infos = append(infos, scoreInfo{
				StartedAt:  e.StartedAt,
				Score:      e.Score,
				DurationMS: e.Duration.Milliseconds(),
				Frames:     e.Frames,
				EndReason:  e.EndReason,
				Replay:     filepath.Base(e.ReplayPath),
			})
		}
	}
	writeJSON(w, infos)
}

func (s *Service) fail(w http.ResponseWriter, msg string, err error) {
	s.logger.Error(msg, "error", err)
	http.Error(w, msg, http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
