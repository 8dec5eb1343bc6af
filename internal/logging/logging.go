// Package logging provides the engine's shared structured logger.
package logging

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	once   sync.Once
	logger *logrus.Logger
)

func SetupLogging() *logrus.Logger {
	return &logrus.Logger{
		Formatter: &logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyLevel: "loglevel",
			},
		},
		Out:   os.Stdout,
		Level: logrus.InfoLevel,
	}
}

// L returns the process-wide logger, creating it on first use. The engine
// logs expected-but-noteworthy events only (range clamping, stale override
// pruning); pure computational paths never log per-row.
func L() *logrus.Logger {
	once.Do(func() { logger = SetupLogging() })
	return logger
}
