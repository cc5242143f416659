// Package logging is the process-wide structured logger. Call sites log a
// snake_case event name plus a field map; the backing logrus logger decides
// format and level.
package logging

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Fields is a set of structured log fields.
type Fields = map[string]any

var std = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Init configures the shared logger. format is "json" (default) or "text";
// an unknown level falls back to info.
func Init(level, format string) {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	std.SetLevel(lvl)
	if strings.EqualFold(format, "text") {
		std.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		std.SetFormatter(&logrus.JSONFormatter{})
	}
}

// SetOutput redirects log output.
func SetOutput(w io.Writer) { std.SetOutput(w) }

// Log writes msg at the named level.
func Log(level, msg string, fields Fields) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	std.WithFields(logrus.Fields(fields)).Log(lvl, msg)
}

func Debug(msg string, fields Fields) { Log("debug", msg, fields) }
func Info(msg string, fields Fields)  { Log("info", msg, fields) }
func Warn(msg string, fields Fields)  { Log("warn", msg, fields) }
func Error(msg string, fields Fields) { Log("error", msg, fields) }
