// mazebrawl is an endless maze shoot-em-up played by programs: the
// server streams text frames over TCP and your client answers with
// movement and fire commands, one per frame.
//
// Usage:
//
//	mazebrawl serve            - Start the control server
//	mazebrawl bot              - Play a game with a built-in strategy
//	mazebrawl replay <file>    - Watch a recorded session
//	mazebrawl browse           - Browse recorded sessions interactively
//	mazebrawl ssh              - Serve the replay browser over SSH
//	mazebrawl scores           - Show stored session results
//
// Global flags:
//
//	--config <path>  - Config YAML (default: ~/.mazebrawl/config.yaml)
//	--verbose        - Log at debug level
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/mazebrawl/internal/config"
)

var (
	// Global flags
	flagConfig  string
	flagVerbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mazebrawl",
	Short: "Maze Brawl - an endless maze shoot-em-up for programs",
	Long: `Maze Brawl is a shoot-em-up in an infinite maze, played over a plain
text protocol: write a client in any language, connect, and fight.

Available commands:
  serve    - Run the control server programs connect to
  bot      - Play a game with a built-in strategy
  replay   - Watch a recorded session in the terminal
  browse   - Pick a recorded session from a table and watch it
  ssh      - Serve the replay browser over SSH
  scores   - Show stored session results

Examples:
  mazebrawl serve
  mazebrawl bot --strategy hit-and-run
  mazebrawl replay ~/.mazebrawl/replays/2026-08-24T12:00:00.json
  mazebrawl ssh`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML (default: ~/.mazebrawl/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log at debug level")

	// Add subcommands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(botCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(sshCmd)
	rootCmd.AddCommand(scoresCmd)
}

// loadConfig reads the layered configuration, honoring --config.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// newLogger builds the logger long-running commands use.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// expandHome resolves a leading "~/" against the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
