// Package logging builds the single structured logrus.Logger shared by
// server, db, and cmd/pirserver. Every call site logs fields, never
// interpolated strings, so log lines stay greppable and never end up
// carrying cryptographic material by accident.
package logging

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// New builds a logrus.Logger at the given level ("debug", "info",
// "warn", "error"), writing JSON lines to stderr — the format an
// operator's log pipeline can parse without a custom grammar.
func New(level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	log := logrus.New()
	log.SetLevel(lvl)
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.JSONFormatter{})
	return log, nil
}
