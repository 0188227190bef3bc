package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/frame-diff/internal/ai"
	"github.com/kozaktomas/frame-diff/internal/config"
	"github.com/kozaktomas/frame-diff/internal/framediff"
	"github.com/kozaktomas/frame-diff/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the Frame Diff HTTP API.
The API exposes the frame index, prompt composition, frame diffs and
background sweeps over JSON.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (defaults to $WEB_PORT or 8085)")
	serveCmd.Flags().String("host", "", "Host to bind to (defaults to $WEB_HOST or 0.0.0.0)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	if port := mustGetInt(cmd, "port"); port > 0 {
		cfg.Web.Port = port
	}
	if host := mustGetString(cmd, "host"); host != "" {
		cfg.Web.Host = host
	}
	if providerName != "" {
		cfg.Provider = providerName
	}

	index, err := loadIndex(cfg)
	if err != nil {
		return err
	}
	provider, err := newProvider(context.Background(), cfg, cfg.Provider)
	if err != nil {
		return err
	}
	generator, err := ai.NewGenerator(provider, cfg.GeneratorConfig())
	if err != nil {
		return err
	}
	differ := framediff.New(index, generator, nil)

	server := web.NewServer(cfg, index, differ, provider)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting Frame Diff API on http://%s:%d (%s, %d videos)\n", cfg.Web.Host, cfg.Web.Port, provider.Name(), len(index))
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
