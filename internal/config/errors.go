package config

import "fmt"

// ConfigError reports a missing or malformed piece of configuration. Path
// points at the offending file or field, e.g. "fields[2].selector_type".
type ConfigError struct {
	Path string
	Msg  string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config: %s: %s: %v", e.Path, e.Msg, e.Err)
	}
	return fmt.Sprintf("config: %s: %s", e.Path, e.Msg)
}

func (e *ConfigError) Unwrap() error { return e.Err }
