package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mazebrawl/internal/bot"
)

var (
	flagBotAddr     string
	flagBotStrategy string
	flagBotGames    int
	flagBotList     bool
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Play games with a built-in strategy",
	Long: `Connect to a control server and play complete games without a human.

Strategies:
  hit-and-run - hug the walls, strafe out of melee range, shoot the
                nearest enemy, and hold still to heal when wounded
  wander      - drift through open corridors and never fire

Examples:
  mazebrawl bot --list
  mazebrawl bot
  mazebrawl bot --strategy wander --games 5
  mazebrawl bot --addr example.com:42069`,
	Run: runBot,
}

func init() {
	botCmd.Flags().StringVar(&flagBotAddr, "addr", "", "Server address (default: the configured server address)")
	botCmd.Flags().StringVar(&flagBotStrategy, "strategy", "hit-and-run", "Strategy to play with")
	botCmd.Flags().IntVar(&flagBotGames, "games", 1, "How many games to play")
	botCmd.Flags().BoolVar(&flagBotList, "list", false, "List available strategies and exit")
}

func runBot(_ *cobra.Command, _ []string) {
	if flagBotList {
		fmt.Println("Available strategies:")
		for _, name := range bot.List() {
			fmt.Printf("  %s\n", name)
		}
		return
	}

	if !bot.Exists(flagBotStrategy) {
		fmt.Fprintf(os.Stderr, "Error: unknown strategy %q\n", flagBotStrategy)
		fmt.Fprintln(os.Stderr, "Run 'mazebrawl bot --list' to see available strategies.")
		os.Exit(1)
	}

	addr := flagBotAddr
	if addr == "" {
		addr = loadConfig().Server.Addr()
	}

	logger := newLogger("mazebrawl-bot")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for i := 0; i < flagBotGames; i++ {
		sum, err := bot.Play(ctx, addr, flagBotStrategy, logger)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Game %d: score %d over %d frames in %s\n",
			i+1, sum.Score, sum.Frames, sum.Duration.Round(time.Millisecond))
	}
}
