package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-redact-mcp/internal/config"
)

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Init writes a commented configuration file with the built-in defaults.

Examples:
  # Create .image-redact.yaml in the current directory
  image-redact-mcp init

  # Create the config file at a specific path
  image-redact-mcp init -o ~/.config/image-redact/config.yaml

  # Force overwrite an existing file
  image-redact-mcp init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if err := config.WriteTemplate(outputPath, force); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to change:")
	fmt.Fprintln(out, "  - Red detection grid size and threshold")
	fmt.Fprintln(out, "  - Default redaction style, block size and fill color")
	fmt.Fprintln(out, "  - Vision endpoint and model (set the API key via IMAGE_REDACT_VISION_API_KEY)")
	return nil
}
