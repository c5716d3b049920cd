// Package log is the process logger: logrus behind a small facade, writing to
// a size-rotated file. The terminal front end owns stdout, so output never
// goes to the tty.
package log

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how much is logged
type Options struct {
	Enabled    bool
	File       string
	Level      string
	MaxSizeMB  int
	MaxBackups int
}

var std = newDiscardLogger()

func newDiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Setup configures the package logger and returns the closer for the log file
// Disabled logging discards all output and returns a nil closer
func Setup(opts Options) (io.Closer, error) {
	if !opts.Enabled {
		std.SetOutput(io.Discard)
		return nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return nil, err
	}

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}

	rotator := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
	}

	std.SetOutput(rotator)
	std.SetLevel(level)
	std.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	return rotator, nil
}

// Writer returns the current output; the binaries point the standard
// library logger at it
func Writer() io.Writer { return std.Out }

func WithField(key string, value any) *logrus.Entry { return std.WithField(key, value) }

func WithError(err error) *logrus.Entry { return std.WithError(err) }

func Debugf(format string, args ...any) { std.Debugf(format, args...) }

func Infof(format string, args ...any) { std.Infof(format, args...) }

func Warnf(format string, args ...any) { std.Warnf(format, args...) }

func Errorf(format string, args ...any) { std.Errorf(format, args...) }

func Info(args ...any) { std.Info(args...) }

func Warn(args ...any) { std.Warn(args...) }

func Error(args ...any) { std.Error(args...) }
