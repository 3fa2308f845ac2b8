package config

import "fmt"

// ConfigurationError reports missing or invalid bootstrap data. It is raised
// before a session starts and is never recovered from.
type ConfigurationError struct {
	Field   string
	Source  string
	Message string
}

func (ce ConfigurationError) Error() string {
	if ce.Source != "" {
		return fmt.Sprintf("configuration error: %s (%s): %s", ce.Field, ce.Source, ce.Message)
	}
	return fmt.Sprintf("configuration error: %s: %s", ce.Field, ce.Message)
}
