package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// SetupLogging configures the standard logrus logger.
func SetupLogging(cfg *Config) {
	logrus.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logrus.Warnf("unknown log level %q, using info", cfg.Log.Level)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if cfg.Log.JSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
