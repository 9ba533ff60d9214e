package bot

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mazebrawl/internal/protocol"
)

// Summary sums up one finished bot game.
type Summary struct {
	Score    int
	Frames   int
	Duration time.Duration
}

// Play dials the control server and plays one complete game with the
// named strategy. It returns when the server sends the end sentinel;
// canceling ctx closes the connection, which unblocks any read.
func Play(ctx context.Context, addr, strategy string, logger *log.Logger) (Summary, error) {
	strat, err := Create(strategy)
	if err != nil {
		return Summary{}, err
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return Summary{}, fmt.Errorf("bot: dial %s: %w", addr, err)
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	return run(conn, strat, logger)
}

// run plays on an established connection. Split from Play so tests can
// drive a strategy over a pipe.
func run(conn net.Conn, strat Strategy, logger *log.Logger) (Summary, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	var sum Summary
	start := time.Now()
	view := &View{}
	r := bufio.NewReader(conn)

	for {
		f, err := protocol.ReadFrame(r)
		if errors.Is(err, protocol.ErrSessionEnd) {
			sum.Duration = time.Since(start)
			logger.Info("game over", "strategy", strat.Name(), "score", sum.Score, "frames", sum.Frames)
			return sum, nil
		}
		if err != nil {
			sum.Duration = time.Since(start)
			return sum, fmt.Errorf("bot: %w", err)
		}
		view.Absorb(f)
		sum.Frames++
		sum.Score = f.Score

		if err := protocol.WriteCommand(conn, strat.Act(view)); err != nil {
			sum.Duration = time.Since(start)
			return sum, fmt.Errorf("bot: %w", err)
		}
	}
}
