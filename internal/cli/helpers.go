package cli

import (
	"os"

	"github.com/thurmanmarka/almagest/internal/config"
	"github.com/thurmanmarka/almagest/pkg/logger"
)

// loadConfig layers the optional config file and environment over the
// defaults.
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	path := ""
	if globals != nil {
		path = globals.Config
	}
	return config.Load(path)
}

// buildLogger honors --verbose over the configured level.
func buildLogger(globals *GlobalFlags, cfg *config.Config) logger.Logger {
	level := cfg.LogLevel
	if globals != nil && globals.Verbose {
		level = "debug"
	}
	log, err := logger.New(os.Stderr, level)
	if err != nil {
		return logger.Default()
	}
	return log
}
