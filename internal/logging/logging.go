// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Output formats accepted by Setup.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Setup sets the level and format of the standard logrus logger.
func Setup(level, format string) error {
	return Configure(logrus.StandardLogger(), level, format, os.Stderr)
}

// Configure applies level and format to logger and points it at out.
func Configure(logger *logrus.Logger, level, format string, out io.Writer) error {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case FormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("invalid log format %q: expected %s or %s", format, FormatText, FormatJSON)
	}

	logger.SetLevel(lvl)
	logger.SetOutput(out)
	return nil
}
