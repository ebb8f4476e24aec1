package config

import "fmt"

// ConfigError reports a configuration load or validation failure. It is
// the only error kind returned by Load; callers should treat it as a
// startup-abort condition. No partial configuration accompanies it.
type ConfigError struct {
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ConfigError) Unwrap() error { return e.Err }

func configErrorf(format string, args ...interface{}) *ConfigError {
	return &ConfigError{Message: fmt.Sprintf(format, args...)}
}
