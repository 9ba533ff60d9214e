package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/mazebrawl/internal/config"
	"github.com/vovakirdan/mazebrawl/internal/game"
	"github.com/vovakirdan/mazebrawl/internal/platform/tui"
	"github.com/vovakirdan/mazebrawl/internal/replay"
	"github.com/vovakirdan/mazebrawl/internal/session"
	"github.com/vovakirdan/mazebrawl/internal/spectate"
	"github.com/vovakirdan/mazebrawl/internal/storage"
)

var flagSeed int64

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the control server",
	Long: `Start the control server and play connecting programs one at a time.

Each connection gets a fresh game: the server streams frames and reads
one command per frame until the hero dies or the peer disconnects.
Finished sessions are recorded as replays and saved to the results
database.

With spectate.enabled the server also streams live frames over
websocket and serves stored replays and scores over HTTP. With
ssh.enabled it hosts the replay browser over SSH alongside the game.

Examples:
  mazebrawl serve
  mazebrawl serve --config ./mazebrawl.yaml
  mazebrawl serve --seed 42`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().Int64Var(&flagSeed, "seed", 0, "Maze seed (0 = random based on time)")
}

func runServe(_ *cobra.Command, _ []string) {
	if err := serve(loadConfig(), newLogger("mazebrawl")); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

// serve runs the control server until the context set up around signals
// is canceled. Returning the error instead of exiting lets the deferred
// cleanup (the results database above all) run on failure.
func serve(cfg config.Config, logger *log.Logger) error {
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		logger.Warn("could not open results database", "error", err)
		// Continue without storage - sessions still play, results are lost.
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	replayDir := expandHome(cfg.Record.Dir)
	eng := game.New(game.Options{Seed: flagSeed})

	opts := session.Options{
		TickRate: cfg.Server.TickRate,
		Timeout:  cfg.Server.Timeout(),
		Recorder: replay.NewRecorder(replayDir, cfg.Record.Rate),
		Logger:   logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var svc *spectate.Service
	if cfg.Spectate.Enabled {
		svc = spectate.New(cfg.Spectate.Addr, replayDir, store, logger)
		opts.Publisher = svc.Hub()
		go func() {
			if err := svc.ListenAndServe(); err != nil {
				logger.Error("spectate service failed", "error", err)
			}
		}()
	}

	if cfg.SSH.Enabled {
		sshSrv, err := tui.NewSSHServer(tui.SSHServerConfig{
			Address:     cfg.SSH.Addr,
			HostKeyPath: cfg.SSH.HostKey,
			ReplayDir:   cfg.Record.Dir,
			DBPath:      cfg.Storage.Path,
			IdleTimeout: 30 * time.Minute,
		})
		if err != nil {
			logger.Error("could not start SSH browser", "error", err)
		} else {
			go func() {
				if err := sshSrv.ListenAndServe(); err != nil {
					logger.Error("SSH browser failed", "error", err)
				}
			}()
		}
	}

	sink := func(res session.Result) {
		if store == nil {
			return
		}
		_, err := store.SaveSession(storage.SessionEntry{
			StartedAt:  time.Now().Add(-res.Duration),
			Duration:   res.Duration,
			Score:      res.Score,
			Frames:     res.Frames,
			EndReason:  string(res.Reason),
			ReplayPath: res.ReplayPath,
		})
		if err != nil {
			logger.Error("could not save session result", "error", err)
		}
	}

	srv := session.NewServer(eng, opts)
	if err := srv.ListenAndServe(ctx, cfg.Server.Addr(), sink); err != nil {
		return err
	}

	if svc != nil {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := svc.Shutdown(sctx); err != nil {
			logger.Error("spectate shutdown failed", "error", err)
		}
	}
	return nil
}
