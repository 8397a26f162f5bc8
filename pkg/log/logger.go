// Package log provides the project logger behind a small interface so
// callers never import the logging backend directly.
package log

import (
	"fmt"
	"strings"
)

type Logger interface {
	Print(args ...interface{})
	Printf(format string, args ...interface{})

	Trace(args ...interface{})
	Tracef(format string, args ...interface{})

	Debug(args ...interface{})
	Debugf(format string, args ...interface{})

	Info(args ...interface{})
	Infof(format string, args ...interface{})

	Warn(args ...interface{})
	Warnf(format string, args ...interface{})

	Error(args ...interface{})
	Errorf(format string, args ...interface{})

	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})

	WithField(field string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
	WithError(err error) Logger

	IsTraceEnabled() bool
	IsDebugEnabled() bool
	IsInfoEnabled() bool
}

type Fields map[string]interface{}

func (f Fields) String() string {
	str := make([]string, 0)
	for k, v := range f {
		str = append(str, fmt.Sprintf("%s=%+v", k, v))
	}
	return strings.Join(str, " ")
}

// Config controls the global logger. Zero value means info level, text
// format, stdout only.
type Config struct {
	Level  string     `mapstructure:"level" yaml:"level"`
	Format string     `mapstructure:"format" yaml:"format"` // text | json
	File   FileConfig `mapstructure:"file" yaml:"file"`
}

// FileConfig enables an additional rotating log file next to stdout.
type FileConfig struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
	Path       string `mapstructure:"path" yaml:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}
