package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mazebrawl/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var sshCmd = &cobra.Command{
	Use:   "ssh",
	Short: "Serve the replay browser over SSH",
	Long: `Start an SSH server that lets anyone browse and watch recorded
sessions from their own terminal.

Each SSH connection gets the same browser as 'mazebrawl browse', sized
to the connecting terminal.

Host key handling:
  - If --host-key or ssh.host_key is set, uses that key file
  - Otherwise, auto-generates a key at ~/.mazebrawl/host_key

Examples:
  mazebrawl ssh                          # Listen on the configured address
  mazebrawl ssh --addr :2222             # Listen on port 2222
  mazebrawl ssh --host-key ./my_host_key # Use specific host key

Viewers connect with:
  ssh localhost -p 23234`,
	Run: runSSH,
}

func init() {
	sshCmd.Flags().StringVar(&flagSSHAddr, "addr", "", "SSH server address (default: the configured ssh.addr)")
	sshCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	sshCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runSSH(_ *cobra.Command, _ []string) {
	cfg := loadConfig()

	addr := flagSSHAddr
	if addr == "" {
		addr = cfg.SSH.Addr
	}
	hostKey := flagHostKey
	if hostKey == "" {
		hostKey = cfg.SSH.HostKey
	}

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:     addr,
		HostKeyPath: hostKey,
		ReplayDir:   cfg.Record.Dir,
		DBPath:      cfg.Storage.Path,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting replay SSH server on %s\n", addr)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
