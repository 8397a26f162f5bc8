package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger *logrusLogger

type logrusLogger struct {
	root  *logrus.Logger
	entry *logrus.Entry
}

func init() {
	root := logrus.New()
	logger = &logrusLogger{
		root:  root,
		entry: logrus.NewEntry(root),
	}
}

func GetLogger() Logger {
	return logger
}

// Init applies the configuration to the global logger. Not calling it
// leaves the logrus defaults in place (info level, text, stderr).
func Init(cfg Config) error {
	if cfg.Level != "" {
		level, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		logger.root.SetLevel(level)
	}

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		logger.root.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.root.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unsupported log format: %s (must be json or text)", cfg.Format)
	}

	if cfg.File.Enabled {
		if cfg.File.Path == "" {
			return fmt.Errorf("file output requires 'path' field")
		}
		rotated := &lumberjack.Logger{
			Filename:   cfg.File.Path,
			MaxSize:    cfg.File.MaxSizeMB,
			MaxBackups: cfg.File.MaxBackups,
			MaxAge:     cfg.File.MaxAgeDays,
			Compress:   cfg.File.Compress,
		}
		logger.root.SetOutput(io.MultiWriter(os.Stdout, rotated))
	}

	return nil
}

func (l *logrusLogger) Print(args ...interface{}) {
	l.entry.Print(args...)
}

func (l *logrusLogger) Printf(format string, args ...interface{}) {
	l.entry.Printf(format, args...)
}

func (l *logrusLogger) Trace(args ...interface{}) {
	l.entry.Trace(args...)
}

func (l *logrusLogger) Tracef(format string, args ...interface{}) {
	l.entry.Tracef(format, args...)
}

func (l *logrusLogger) Debug(args ...interface{}) {
	l.entry.Debug(args...)
}

func (l *logrusLogger) Debugf(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

func (l *logrusLogger) Info(args ...interface{}) {
	l.entry.Info(args...)
}

func (l *logrusLogger) Infof(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

func (l *logrusLogger) Warn(args ...interface{}) {
	l.entry.Warn(args...)
}

func (l *logrusLogger) Warnf(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

func (l *logrusLogger) Error(args ...interface{}) {
	l.entry.Error(args...)
}

func (l *logrusLogger) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

func (l *logrusLogger) Fatal(args ...interface{}) {
	l.entry.Fatal(args...)
}

func (l *logrusLogger) Fatalf(format string, args ...interface{}) {
	l.entry.Fatalf(format, args...)
}

func (l *logrusLogger) WithField(field string, value interface{}) Logger {
	return &logrusLogger{root: l.root, entry: l.entry.WithField(field, value)}
}

func (l *logrusLogger) WithFields(fields map[string]interface{}) Logger {
	return &logrusLogger{root: l.root, entry: l.entry.WithFields(logrus.Fields(fields))}
}

func (l *logrusLogger) WithError(err error) Logger {
	return &logrusLogger{root: l.root, entry: l.entry.WithError(err)}
}

func (l *logrusLogger) IsTraceEnabled() bool {
	return l.root.IsLevelEnabled(logrus.TraceLevel)
}

func (l *logrusLogger) IsDebugEnabled() bool {
	return l.root.IsLevelEnabled(logrus.DebugLevel)
}

func (l *logrusLogger) IsInfoEnabled() bool {
	return l.root.IsLevelEnabled(logrus.InfoLevel)
}
