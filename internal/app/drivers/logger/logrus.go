package logger

import (
	"medrecords-service/internal/app/config"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogrusLogger builds the logger used by command line tools.
func NewLogrusLogger(driverConfig *config.DriverConfig, internalConfig *config.InternalConfig) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(driverConfig.Logger.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if internalConfig.App.Env == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
