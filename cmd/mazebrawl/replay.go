package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/mazebrawl/internal/platform/tui"
	"github.com/vovakirdan/mazebrawl/internal/replay"
)

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Watch a recorded session",
	Long: `Play a recorded session back in the terminal at its original pace.

Controls:
  R          - Replay from the start
  Q/Ctrl+C   - Quit

Examples:
  mazebrawl replay ~/.mazebrawl/replays/2026-08-24T12:00:00.json`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func runReplay(_ *cobra.Command, args []string) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: replays can only be watched on a terminal")
		os.Exit(1)
	}

	frames, err := replay.Load(expandHome(args[0]))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(frames) == 0 {
		fmt.Fprintln(os.Stderr, "Error: replay is empty")
		os.Exit(1)
	}

	if err := tui.RunViewer(frames); err != nil {
		fmt.Fprintf(os.Stderr, "Error running viewer: %v\n", err)
		os.Exit(1)
	}
}
