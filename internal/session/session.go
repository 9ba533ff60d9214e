// Package session runs the control protocol over a single connection:
// one frame out, one command in, tick after tick, until the hero dies
// or the peer goes away. The session owns the engine for its lifetime
// and is the only caller of Step and Snapshot.
package session

import (
	"bufio"
	"errors"
	"io"
	"net"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mazebrawl/internal/core"
	"github.com/vovakirdan/mazebrawl/internal/protocol"
	"github.com/vovakirdan/mazebrawl/internal/replay"
)

// DefaultTickRate is how many frames per second a session sends when
// the options leave the rate unset.
const DefaultTickRate = 30

// Engine is the simulation a session drives. Snapshot(true) must
// include the maze grid; snapshots are copies the session may keep.
type Engine interface {
	Reset()
	Step(in core.Intent, dt time.Duration)
	Snapshot(forced bool) *core.Frame
	Dead() bool
	Score() int
	Lose()
}

// Publisher receives a copy of every frame the session sends to its
// peer. Implementations must not block; a slow spectator must never
// stall the game.
type Publisher interface {
	Publish(f *core.Frame)
}

// EndReason tells how a session ended.
type EndReason string

const (
	// EndDeath means the hero died and the peer got the end sentinel.
	EndDeath EndReason = "death"
	// EndForfeit means the peer stalled or vanished and the run was
	// forfeited with its score kept.
	EndForfeit EndReason = "forfeit"
)

// Result sums up one finished session.
type Result struct {
	Score      int
	Duration   time.Duration
	Frames     int
	Reason     EndReason
	ReplayPath string
}

// Options tune a session. The zero value plays at the default tick
// rate, blocks forever on reads, and records nothing.
type Options struct {
	TickRate  int           // frames per second
	Timeout   time.Duration // per-exchange deadline; 0 blocks forever
	Recorder  *replay.Recorder
	Publisher Publisher
	Logger    *log.Logger
}

// Run plays one full game over conn and reports how it went. The
// engine is reset first, so the peer always starts a fresh run. Run
// closes nothing: the caller owns the connection.
func Run(conn net.Conn, eng Engine, opts Options) Result {
	if opts.TickRate <= 0 {
		opts.TickRate = DefaultTickRate
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	eng.Reset()
	opts.Recorder.Reset()

	ticker := time.NewTicker(time.Second / time.Duration(opts.TickRate))
	defer ticker.Stop()

	r := bufio.NewReader(conn)
	intent := core.IdleIntent()
	start := time.Now()
	last := start
	frames := 0
	first := true
	reason := EndForfeit

loop:
	for {
		// The first frame carries the maze; afterwards the engine
		// decides when the grid needs resending.
		f := eng.Snapshot(first)
		first = false

		now := time.Now()
		opts.Recorder.Observe(*f, now)
		if opts.Publisher != nil {
			opts.Publisher.Publish(f)
		}

		if opts.Timeout > 0 {
			_ = conn.SetDeadline(now.Add(opts.Timeout))
		}
		if err := protocol.WriteFrame(conn, f); err != nil {
			logger.Warn("peer unreachable, forfeiting", "error", err)
			eng.Lose()
			break
		}
		frames++

		cmd, err := protocol.ReadCommand(r)
		switch {
		case err == nil:
			intent = cmd.Intent()
		case errors.Is(err, protocol.ErrInvalidCommand):
			// Reject the line whole; the previous intent keeps steering.
			logger.Debug("command rejected", "error", err)
		default:
			logger.Warn("peer gone, forfeiting", "error", err)
			eng.Lose()
			break loop
		}

		<-ticker.C
		now = time.Now()
		eng.Step(intent, now.Sub(last))
		last = now

		if eng.Dead() {
			reason = EndDeath
			if err := protocol.WriteSessionEnd(conn); err != nil {
				logger.Warn("could not deliver session end", "error", err)
			}
			break
		}
	}

	path, err := opts.Recorder.Dump(time.Now())
	if err != nil {
		// The game stands either way; only the recording is lost.
		logger.Error("replay lost", "error", err)
		path = ""
	}

	return Result{
		Score:      eng.Score(),
		Duration:   time.Since(start),
		Frames:     frames,
		Reason:     reason,
		ReplayPath: path,
	}
}
