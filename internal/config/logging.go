package config

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the root logrus logger from the log section. Unknown
// levels fall back to info.
func (c LogConfig) NewLogger() *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetOutput(os.Stdout)
	if strings.EqualFold(c.Format, "text") {
		logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}
