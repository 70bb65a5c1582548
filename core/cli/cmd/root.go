package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// version stores the version string, set via SetVersion()
var version = "dev"

// SetVersion sets the version string (called from main.init())
func SetVersion(v string) {
	version = v
}

// GetVersion returns the current version string
func GetVersion() string {
	return version
}

var (
	configFile      string
	logLevel        int
	verbose         bool
	logTags         string
	logFile         bool
	metricsTextfile string
	showVersion     bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "covidcol",
	Short: "covidcol\nConsulta de casos COVID-19 en Colombia (datos.gov.co)",
	Long: `covidcol consulta el conjunto de datos gt2j-8ykr del portal de Datos Abiertos
de Colombia. Sin subcomandos abre la sesión interactiva.`,
	SilenceUsage:  true,
	SilenceErrors: true, // Errors are already logged, suppress Cobra's error output
}

// completionCmd is a hidden command used to generate shell completions
var completionCmd = &cobra.Command{
	Use:          "completion [bash|zsh|fish|powershell]",
	Short:        "Generate shell completion script",
	Hidden:       true,
	ValidArgs:    []string{"bash", "zsh", "fish", "powershell"},
	Args:         cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(out)
		case "zsh":
			return cmd.Root().GenZshCompletion(out)
		case "fish":
			return cmd.Root().GenFishCompletion(out, true)
		case "powershell":
			return cmd.Root().GenPowerShellCompletion(out)
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// SIGINT and SIGTERM cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.AddCommand(completionCmd)
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "Print the installed version and exit")

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFile, "config", "f", "", "Path to a YAML configuration file (default ./covidcol.yaml when present)")
	flags.IntVar(&logLevel, "log-level", 0, "Log level: 1=ERROR, 2=WARN, 3=INFO, 4=DEBUG (overrides config file)")
	flags.BoolVar(&verbose, "verbose", false, "Enable verbose logging (sets log level to DEBUG)")
	flags.StringVar(&logTags, "log-tags", "", "Filter logs by tags (comma-separated, use -tag to exclude). Overrides COVIDCOL_LOG_TAGS")
	flags.BoolVar(&logFile, "log-file", false, "Stream logs to file in /tmp/.covidcol/logs/")
	flags.StringVar(&metricsTextfile, "metrics-textfile", "", "Write Prometheus metrics to this file on exit")

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		}
		return runSession(cmd, args)
	}
}

// LoadEnvFiles attempts to load .env files from multiple locations.
// It tries each location in order and stops at the first successful load.
// Priority order:
// 1. From the provided directory (if not empty)
// 2. From the current working directory
// 3. From the directory containing the executable binary
// System environment variables always take precedence over .env file values.
func LoadEnvFiles(fromDir string) {
	envFiles := []string{".env.local", ".env.development", ".env"}

	if fromDir != "" {
		for _, envFile := range envFiles {
			if err := godotenv.Load(filepath.Join(fromDir, envFile)); err == nil {
				return
			}
		}
	}

	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			return
		}
	}

	if execPath, err := os.Executable(); err == nil {
		if realPath, err := filepath.EvalSymlinks(execPath); err == nil {
			execPath = realPath
		}
		execDir := filepath.Dir(execPath)
		for _, envFile := range envFiles {
			if err := godotenv.Load(filepath.Join(execDir, envFile)); err == nil {
				return
			}
		}
	}
}
