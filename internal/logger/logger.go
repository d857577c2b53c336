// Package logger initializes the shared logrus logger for the RAID-6
// engine and its CLI.
package logger

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// InitLogger configures the default logrus logger at the given level
// ("debug", "info", "warn", "error"). It writes text-formatted,
// timestamped lines to stderr, mirroring the format used by the
// engine's own tests.
func InitLogger(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("logger: invalid log level %q: %w", level, err)
	}

	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return nil
}
