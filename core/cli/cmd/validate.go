package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hyperterse/covidcol/core/cli/internal"
	"github.com/hyperterse/covidcol/core/config"
	"github.com/hyperterse/covidcol/core/logger"
	"github.com/hyperterse/covidcol/core/observability"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:           "validate [path]",
	Short:         "Validate a covidcol configuration file",
	RunE:          validateConfig,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	log := logger.New("validate")
	target, err := resolveValidatePathArg(args)
	if err != nil {
		return err
	}

	cfg, err := internal.LoadConfig(target)
	if err != nil {
		return logger.Errorf("validate", "validation failed: %w", err)
	}

	loadFrom := target
	if loadFrom == "" {
		loadFrom = "built-in defaults"
		if _, statErr := os.Stat(config.DefaultFile); statErr == nil {
			loadFrom = config.DefaultFile
		}
	}

	printValidationSummary(cmd.OutOrStdout(), loadFrom, cfg)
	log.Successf("Configuration is valid: %s", loadFrom)
	return nil
}

// resolveValidatePathArg picks the file to validate: the positional path
// (a file, or a directory holding covidcol.yaml) or --config.
func resolveValidatePathArg(args []string) (string, error) {
	if len(args) == 0 {
		return configFile, nil
	}
	if configFile != "" {
		return "", logger.Errorf("validate", "cannot combine path argument with --config")
	}

	target := args[0]
	info, err := os.Stat(target)
	if err != nil {
		return "", logger.Errorf("validate", "invalid validate path %q: %w", target, err)
	}
	if info.IsDir() {
		return filepath.Join(target, config.DefaultFile), nil
	}
	return target, nil
}

func printValidationSummary(w io.Writer, loadFrom string, cfg config.Config) {
	fmt.Fprintln(w, "Validation report:")
	fmt.Fprintf(w, "  config: %s\n", loadFrom)
	fmt.Fprintf(w, "  source: %s\n", cfg.SourceURL())
	fmt.Fprintf(w, "  region field: %s\n", cfg.RegionField)
	fmt.Fprintf(w, "  timeout: %s\n", cfg.Timeout)
	if cfg.AppToken != "" {
		fmt.Fprintf(w, "  app_token: %s\n", observability.RedactAttributeValue("app_token", cfg.AppToken))
	}
	fmt.Fprintf(w, "  confirm threshold: %d\n", cfg.ConfirmThreshold)
	fmt.Fprintf(w, "  fallback sample: %d\n", cfg.FallbackSampleSize)
	fmt.Fprintf(w, "  columns (%d):\n", len(cfg.Columns))
	for _, column := range cfg.Columns {
		fmt.Fprintf(w, "    - %s: %s -> %s\n", column.Attribute, column.Field, column.Header)
	}
	telemetry := "disabled"
	if cfg.Observability.Enabled {
		telemetry = cfg.Observability.Endpoint
	}
	fmt.Fprintf(w, "  telemetry: %s\n", telemetry)
}
