package internal

import (
	"github.com/hyperterse/covidcol/core/config"
	"github.com/hyperterse/covidcol/core/logger"
)

// LoadConfig resolves the configuration from defaults, the optional file at
// filePath and COVIDCOL_* environment variables.
func LoadConfig(filePath string) (config.Config, error) {
	cfg, err := config.Load(filePath)
	if err != nil {
		return config.Config{}, logger.WithTag("config", err)
	}
	return cfg, nil
}

// ResolveLogLevel resolves the log level from verbose flag, CLI flag, config, or default
func ResolveLogLevel(verbose bool, cliLogLevel int, cfg config.Config) int {
	if verbose {
		return logger.LogLevelDebug
	}
	if cliLogLevel > 0 {
		return cliLogLevel
	}
	if cfg.LogLevel > 0 {
		return cfg.LogLevel
	}
	return logger.LogLevelWarn
}

// ResolveLogTags prefers the CLI flag over the configured tag filter.
func ResolveLogTags(cliTags string, cfg config.Config) string {
	if cliTags != "" {
		return cliTags
	}
	return cfg.LogTags
}
