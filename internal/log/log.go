// Package log configures the logrus standard logger and carries a
// request-scoped entry through context.Context.
package log

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

// Init sets up the standard logger: text output on stdout with full timestamps.
func Init(level logrus.Level) {
	InitWithOutput(level, os.Stdout)
}

// InitWithOutput is Init with a custom destination
func InitWithOutput(level logrus.Level, out io.Writer) {
	logrus.SetLevel(level)
	logrus.SetOutput(out)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
}

// ParseLevel parses a level name, falling back to info
func ParseLevel(name string) logrus.Level {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// ToContext returns a copy of ctx carrying entry
func ToContext(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, ctxKey{}, entry)
}

// FromContext returns the entry stored in ctx or one bound to the standard logger
func FromContext(ctx context.Context) *logrus.Entry {
	if entry, ok := ctx.Value(ctxKey{}).(*logrus.Entry); ok {
		return entry
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
