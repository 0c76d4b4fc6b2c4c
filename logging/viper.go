package logging

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

const (
	// LoggingKey is the Viper subkey under which logging should be stored.
	// FromViper *does not* assume this key.
	LoggingKey = "log"
)

// ErrStdout is returned by FromViper when the configured log file is standard output
var ErrStdout = errors.New("log entries cannot be written to stdout, which carries program output")

// Defaults returns the logging settings that apply when a configuration names none, keyed for the
// root Viper instance.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		LoggingKey + ".file":  StderrFile,
		LoggingKey + ".level": "ERROR",
	}
}

// Sub returns the standard child Viper, using LoggingKey, for this package.
// If passed nil, this function returns nil.
func Sub(v *viper.Viper) *viper.Viper {
	if v != nil {
		return v.Sub(LoggingKey)
	}

	return nil
}

func isStdout(file string) bool {
	switch strings.ToLower(file) {
	case "stdout", "/dev/stdout", "/dev/fd/1", "/proc/self/fd/1":
		return true
	default:
		return false
	}
}

// FromViper produces an Options from a (possibly nil) Viper instance.  An Options that names
// no file logs to stderr.  A file that refers to standard output results in ErrStdout.
//
// Callers should use FromViper(Sub(v)) if the standard subkey is desired.
func FromViper(v *viper.Viper) (*Options, error) {
	o := &Options{File: StderrFile}
	if v != nil {
		if err := v.Unmarshal(o); err != nil {
			return nil, err
		}

		if len(o.File) == 0 {
			o.File = StderrFile
		}
	}

	if isStdout(o.File) {
		return nil, ErrStdout
	}

	return o, nil
}
