package main

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sweep/internal/platform/tui"
)

var (
	flagSSHAddr string
	flagHostKey string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scenario viewer over SSH",
	Long: `Start an SSH server that lets users browse and step through the
built-in scenarios.

Each SSH connection gets its own session with a scenario picker. Runs viewed
over SSH are recorded in the server's run database.

Examples:
  sweep serve                           # Listen on server.host:server.port from config
  sweep serve --ssh :2222               # Listen on port 2222
  sweep serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23235`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port), overrides config")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file, overrides config")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, logger := setup()

	if flagSSHAddr != "" {
		host, port, err := net.SplitHostPort(flagSSHAddr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: --ssh %q: %v\n", flagSSHAddr, err)
			os.Exit(1)
		}
		p, err := strconv.Atoi(port)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: --ssh %q: bad port\n", flagSSHAddr)
			os.Exit(1)
		}
		cfg.Server.Host, cfg.Server.Port = host, p
	}
	if flagHostKey != "" {
		cfg.Server.HostKeyPath = flagHostKey
	}

	server, err := tui.NewSSHServer(cfg, logger.WithPrefix("sweep-ssh"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting sweep SSH server on %s\n", server.Addr())
	fmt.Printf("Connect with: ssh localhost -p %d\n", cfg.Server.Port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
