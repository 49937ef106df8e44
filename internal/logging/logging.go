package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. Components derive from it with For.
var Log = logrus.New()

// Setup applies level and format ("text" or "json") to Log.
func Setup(level, format string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	Log.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "json":
		Log.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("logging: unknown format %q", format)
	}
	return nil
}

// SetOutput redirects Log, e.g. away from a terminal owned by tcell.
func SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	Log.SetOutput(w)
}

// For returns a logger tagged with a component name.
func For(component string) *logrus.Entry {
	return Log.WithField("component", component)
}
