// Package log is a thin key/value logging facade over logrus.
package log

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "01-02 15:04:05",
	})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Setup configures the global logger. Verbose enables debug output.
func Setup(verbose bool) {
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
}

// SetFormat switches between the "text" and "json" formatters.
func SetFormat(format string) error {
	switch format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "01-02 15:04:05",
		})
	default:
		return fmt.Errorf("unknown log format %q (use 'text' or 'json')", format)
	}
	return nil
}

// SetOutput redirects log output. Used by tests.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

func Debug(msg string, keyvals ...any) {
	logger.WithFields(fields(keyvals)).Debug(msg)
}

func Info(msg string, keyvals ...any) {
	logger.WithFields(fields(keyvals)).Info(msg)
}

func Warn(msg string, keyvals ...any) {
	logger.WithFields(fields(keyvals)).Warn(msg)
}

func Error(msg string, keyvals ...any) {
	logger.WithFields(fields(keyvals)).Error(msg)
}

// fields turns alternating key/value pairs into logrus fields.
// A trailing key without a value is logged under "!BADKEY".
func fields(keyvals []any) logrus.Fields {
	f := make(logrus.Fields, len(keyvals)/2)
	for i := 0; i < len(keyvals); i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			key = fmt.Sprint(keyvals[i])
		}
		if i+1 >= len(keyvals) {
			f["!BADKEY"] = key
			break
		}
		f[key] = keyvals[i+1]
	}
	return f
}
