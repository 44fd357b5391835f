package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-redact-mcp/internal/config"
	"github.com/ironsheep/image-redact-mcp/internal/server"
)

// logLevelEnv enables debug logging when set to "debug".
const logLevelEnv = "IMAGE_REDACT_LOG_LEVEL"

// NewRootCmd creates the root command. Run without a subcommand it serves
// MCP over stdio.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image-redact-mcp",
		Short: "MCP server for redacting red-annotated regions in screenshots",
		Long: `image-redact-mcp finds the rectangles a user outlined in red on a screenshot
and redacts them with a mosaic, a blur or a solid fill.

Run without a subcommand to start the MCP server on stdin/stdout. Configure
it in your MCP client (e.g., Claude Desktop). Use the redact subcommand to
process files directly.

Environment variables:
  IMAGE_REDACT_LOG_LEVEL=debug         Enable debug logging
  IMAGE_REDACT_VISION_API_KEY          API key for vision detection
  IMAGE_REDACT_VISION_ENDPOINT         Override the vision endpoint
  IMAGE_REDACT_VISION_MODEL            Override the vision model`,
		Version:           getVersion(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              cobra.NoArgs,
		PersistentPreRunE: setupLogging,
		RunE:              runServer,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: ./"+config.DefaultConfigFile+" or the XDG config directory)")

	// Add subcommands
	cmd.AddCommand(NewRedactCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogging sends log output to stderr, since stdout carries the MCP
// protocol.
func setupLogging(cmd *cobra.Command, _ []string) error {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	if debugEnabled(cmd) {
		log.Printf("image-redact-mcp %s (commit %s, built %s)", getVersion(), getCommit(), getDate())
	}
	return nil
}

// debugEnabled reports whether --verbose or IMAGE_REDACT_LOG_LEVEL=debug is set.
func debugEnabled(cmd *cobra.Command) bool {
	if verbose, err := cmd.Flags().GetBool("verbose"); err == nil && verbose {
		return true
	}
	return os.Getenv(logLevelEnv) == "debug"
}

// loadConfig loads the configuration named by --config, or the default search.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// runServer starts the MCP stdio server.
func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	srv, err := server.NewFromConfig(cfg,
		server.WithDebug(debugEnabled(cmd)),
		server.WithVersion(getVersion()),
	)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	if err := srv.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
