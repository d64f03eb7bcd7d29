package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

func init() {
	Logger = logrus.New()

	// Services log JSON to stdout; LOG_FORMAT=text switches to the CLI format
	Logger.SetOutput(os.Stdout)
	Configure(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

// Configure applies a level and a format ("json" or "text")
func Configure(level, format string) {
	SetLevel(level)
	if strings.EqualFold(strings.TrimSpace(format), "text") {
		SetText()
		return
	}
	Logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
}

// SetLevel applies a textual level; unknown values fall back to info
func SetLevel(level string) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		Logger.SetLevel(logrus.DebugLevel)
	case "warn", "warning":
		Logger.SetLevel(logrus.WarnLevel)
	case "error":
		Logger.SetLevel(logrus.ErrorLevel)
	default:
		Logger.SetLevel(logrus.InfoLevel)
	}
}

// SetText switches to a human readable formatter on stderr, used by the CLI
func SetText() {
	Logger.SetOutput(os.Stderr)
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
}

// SetOutput redirects log output
func SetOutput(w io.Writer) {
	Logger.SetOutput(w)
}

// Component returns an entry tagged with the emitting subsystem
func Component(name string) *logrus.Entry {
	return Logger.WithField("component", name)
}

func WithFields(fields logrus.Fields) *logrus.Entry {
	return Logger.WithFields(fields)
}

func WithField(key string, value interface{}) *logrus.Entry {
	return Logger.WithField(key, value)
}

func WithError(err error) *logrus.Entry {
	return Logger.WithError(err)
}

func Info(msg string) {
	Logger.Info(msg)
}

func Error(msg string) {
	Logger.Error(msg)
}

func Debug(msg string) {
	Logger.Debug(msg)
}

func Warn(msg string) {
	Logger.Warn(msg)
}
