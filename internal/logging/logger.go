package logging

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init initializes the global logger at the given level: debug, info, warn,
// or error (anything else falls back to info). An empty level reads the
// DABERLI_LOG_LEVEL environment variable, for hosts that initialize logging
// before loading configuration.
func Init(level string) {
	if level == "" {
		level = EnvOrDefault("DABERLI_LOG_LEVEL", "info")
	}
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}
