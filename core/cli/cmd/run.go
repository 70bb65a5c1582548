package cmd

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyperterse/covidcol/core/cli/internal"
	"github.com/hyperterse/covidcol/core/infrastructure/di"
	"github.com/hyperterse/covidcol/core/logger"
	"github.com/hyperterse/covidcol/core/observability"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:           "run",
	Short:         "Start the interactive query session",
	RunE:          runSession,
	SilenceUsage:  true,
	SilenceErrors: true, // Errors are already logged, suppress Cobra's error output
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runSession(cmd *cobra.Command, args []string) error {
	app, err := PrepareApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	return app.Container.NewSession().Run(cmd.Context())
}

// App bundles the wired container with the process-level resources that must
// be released when a command finishes.
type App struct {
	Container *di.Container
	providers *observability.Providers
	log       *logger.Logger
}

// PrepareApp sets up logging, loads and validates the configuration, installs
// telemetry and wires the container to the command's input and output.
func PrepareApp(cmd *cobra.Command) (*App, error) {
	log := logger.New("main")

	// Set log level early based on CLI flags (before loading config)
	if verbose {
		logger.SetLogLevel(logger.LogLevelDebug)
	} else if logLevel > 0 {
		logger.SetLogLevel(logLevel)
	} else {
		logger.SetLogLevel(logger.LogLevelWarn)
	}
	if logTags != "" {
		logger.SetTagFilter(logTags)
	}

	var filePath string
	if logFile {
		var err error
		filePath, err = logger.SetLogFile()
		if err != nil {
			return nil, logger.Errorf("main", "failed to initialize log file: %w", err)
		}
	}

	// .env files next to the config file win over the working directory ones
	if configFile != "" {
		if configDir := filepath.Dir(configFile); configDir != "" && configDir != "." {
			LoadEnvFiles(configDir)
		}
	} else {
		LoadEnvFiles("")
	}

	cfg, err := internal.LoadConfig(configFile)
	if err != nil {
		return nil, err
	}

	if logLevel == 0 && !verbose {
		logger.SetLogLevel(internal.ResolveLogLevel(verbose, logLevel, cfg))
	}
	if tags := internal.ResolveLogTags(logTags, cfg); tags != "" {
		logger.SetTagFilter(tags)
	}
	if logFile {
		log.Infof("Log file: %s", filePath)
	}
	log.Infof("Configuration loaded")
	log.Debugf("Source: %s", cfg.SourceURL())
	log.Debugf("Columns: %d", len(cfg.Columns))

	providers, err := observability.Setup(cmd.Context(), cfg.Observability, version)
	if err != nil {
		return nil, logger.WithTag("observability", err)
	}

	container, err := di.NewContainer(cfg, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		_ = providers.Shutdown(context.Background())
		return nil, err
	}

	return &App{Container: container, providers: providers, log: log}, nil
}

// Close releases the container, flushes telemetry and writes the metrics
// textfile when one was requested.
func (a *App) Close() error {
	var errs []error
	errs = append(errs, a.Container.Close())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	errs = append(errs, a.providers.Shutdown(ctx))

	if metricsTextfile != "" {
		if err := observability.WriteTextfile(metricsTextfile); err != nil {
			errs = append(errs, err)
		} else {
			a.log.Debugf("Metrics written to %s", metricsTextfile)
		}
	}
	if logFile {
		errs = append(errs, logger.CloseLogFile())
	}

	err := errors.Join(errs...)
	if err != nil {
		a.log.Warnf("cleanup: %v", err)
	}
	return err
}
