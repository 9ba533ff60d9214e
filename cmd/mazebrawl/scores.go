package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/mazebrawl/internal/storage"
)

var (
	scoresTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	scoresHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("240"))
)

var (
	flagRecent bool
	flagLimit  int
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show stored session results",
	Long: `Display the best sessions from the results database.

Examples:
  mazebrawl scores
  mazebrawl scores --limit 25
  mazebrawl scores --recent`,
	Run: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagRecent, "recent", false, "Order by start time instead of score")
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "How many sessions to show")
}

func runScores(_ *cobra.Command, _ []string) {
	cfg := loadConfig()

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening results database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	var entries []storage.SessionEntry
	if flagRecent {
		entries, err = store.RecentSessions(flagLimit)
	} else {
		entries, err = store.TopSessions(flagLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving sessions: %v\n", err)
		os.Exit(1)
	}

	title := "Top Sessions"
	if flagRecent {
		title = "Recent Sessions"
	}
	fmt.Println(scoresTitleStyle.Render(title))
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Println("Run 'mazebrawl serve' and connect a client to play the first one.")
		return
	}

	// Print header
	header := fmt.Sprintf("  %-4s  %-8s  %-8s  %-8s  %-16s  %s", "Rank", "Score", "Length", "End", "Date", "Replay")
	fmt.Println(scoresHeaderStyle.Render(header))

	// Print sessions
	for i, e := range entries {
		replayName := "-"
		if e.ReplayPath != "" {
			replayName = filepath.Base(e.ReplayPath)
		}
		fmt.Printf("  %-4d  %-8d  %-8s  %-8s  %-16s  %s\n",
			i+1,
			e.Score,
			e.Duration.Round(time.Second),
			e.EndReason,
			e.StartedAt.Format("2006-01-02 15:04"),
			replayName,
		)
	}

	fmt.Println()
	if best, err := store.BestScore(); err == nil {
		fmt.Printf("Best: %d\n", best)
	}
}
