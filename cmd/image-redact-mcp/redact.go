package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-redact-mcp/internal/batch"
	"github.com/ironsheep/image-redact-mcp/internal/config"
)

// NewRedactCmd creates the redact command.
func NewRedactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "redact FILE...",
		Short: "Redact red-annotated regions in image files",
		Long: `Redact finds the rectangles outlined in red in each file, redacts them and
writes <name>-redacted.png next to the input (or into --out).

Files are processed concurrently. A file that fails is reported and does
not stop the others.

Examples:
  # Pixelate with the configured defaults
  image-redact-mcp redact shot1.png shot2.png

  # Blur into a separate directory
  image-redact-mcp redact --style blur --block-size 20 --out redacted/ *.png

  # Solid black fill at full opacity
  image-redact-mcp redact --color black shot.png

  # Write a Markdown report of the run
  image-redact-mcp redact --report report.md *.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRedactCmd,
	}

	cmd.Flags().StringP("style", "s", "", "Redaction style: pixelate or blur")
	cmd.Flags().IntP("block-size", "b", 0, "Mosaic block size in pixels (blur radius is half of it)")
	cmd.Flags().String("color", "", "Solid fill color, hex or swatch name (pixelate only)")
	cmd.Flags().Float64("opacity", 1.0, "Solid fill opacity, 0 to 1")
	cmd.Flags().StringP("out", "o", "", "Output directory (default: next to each input)")
	cmd.Flags().IntP("jobs", "j", batch.DefaultJobs, "Number of files processed at once")
	cmd.Flags().StringP("report", "r", "", "Write a Markdown report to the given file")

	return cmd
}

// runRedactCmd executes the redact command.
func runRedactCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyRenderFlags(cmd, cfg); err != nil {
		return err
	}
	params, err := cfg.Parameters()
	if err != nil {
		return err
	}

	outDir, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	reportPath, err := cmd.Flags().GetString("report")
	if err != nil {
		return err
	}

	logger := log.New(os.Stderr, "", log.Ltime)
	p := batch.NewProcessor(params, cfg.DetectionOptions(),
		batch.WithOutputDir(outDir),
		batch.WithJobs(jobs),
		batch.WithLogger(logger),
	)

	ctx, cancel := signalContext()
	defer cancel()

	results, err := p.Run(ctx, args)
	if err != nil {
		return err
	}

	if reportPath != "" {
		if err := writeReport(reportPath, results); err != nil {
			return err
		}
	}

	summary := batch.Summarize(results)
	fmt.Fprintln(cmd.OutOrStdout(), summary)
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", summary.Failed, summary.Total)
	}
	return nil
}

// writeReport writes the Markdown report, creating parent directories.
func writeReport(path string, results []batch.Result) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	if err := batch.WriteMarkdown(f, results, time.Now()); err != nil {
		f.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	return f.Close()
}

// applyRenderFlags overrides the render section with the flags the user set,
// then validates the result.
func applyRenderFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("style") {
		v, err := flags.GetString("style")
		if err != nil {
			return err
		}
		cfg.Render.Style = v
	}
	if flags.Changed("block-size") {
		v, err := flags.GetInt("block-size")
		if err != nil {
			return err
		}
		cfg.Render.BlockSize = v
	}
	if flags.Changed("color") {
		v, err := flags.GetString("color")
		if err != nil {
			return err
		}
		cfg.Render.SolidColor = v
	}
	if flags.Changed("opacity") {
		v, err := flags.GetFloat64("opacity")
		if err != nil {
			return err
		}
		cfg.Render.Opacity = v
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}
