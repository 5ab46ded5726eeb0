package app

import (
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger returns the diagnostics logger. Warnings are shown by default,
// verbose enables debug output and quiet limits output to errors.
func NewLogger(out io.Writer, verbose, quiet bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    true,
	})
	switch {
	case quiet:
		log.SetLevel(logrus.ErrorLevel)
	case verbose:
		log.SetLevel(logrus.DebugLevel)
	default:
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}
