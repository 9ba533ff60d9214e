package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/mazebrawl/internal/platform/tui"
	"github.com/vovakirdan/mazebrawl/internal/storage"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse recorded sessions interactively",
	Long: `Open a table of recorded sessions, newest first, and play the
selected one back in the terminal.

Controls:
  Up/Down    - Move the selection
  Enter      - Play the selected replay
  R          - Reload the list
  Q/Esc      - Quit

Examples:
  mazebrawl browse
  mazebrawl browse --config ./mazebrawl.yaml`,
	Run: runBrowse,
}

func runBrowse(_ *cobra.Command, _ []string) {
	cfg := loadConfig()

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open results database: %v\n", err)
		// Continue without storage - the browser shows bare replay files.
		store = nil
	}

	runErr := tui.RunBrowser(expandHome(cfg.Record.Dir), store, width, height)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running browser: %v\n", runErr)
		os.Exit(1)
	}
}
