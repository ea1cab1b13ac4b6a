package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/conveyorci/conveyor/logging"
	"github.com/conveyorci/conveyor/runstore"
	"github.com/conveyorci/conveyor/server"
)

var (
	serveAddr     string
	serveStoreDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the run history over a read-only HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8380", "listen address")
	serveCmd.Flags().StringVar(&serveStoreDir, "store", ".conveyor", "run history directory")
}

func runServe(cmd *cobra.Command, args []string) error {
	dir := serveStoreDir
	if !filepath.IsAbs(dir) {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		dir = filepath.Join(wd, dir)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down...")
		cancel()
	}()

	logger := logging.NewJSONLogger(os.Stderr, verbose)
	return server.New(runstore.New(dir), logger).ListenAndServe(ctx, serveAddr)
}
