package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound signals a missing ingestion source directory or file.
	ErrNotFound = errors.New("not found")

	// ErrProviderUnavailable signals a failed embedding, index or
	// generation backend call. It is propagated to the caller, never
	// masked as a normal answer.
	ErrProviderUnavailable = errors.New("provider unavailable")
)

// ConfigError reports every missing required configuration key at once.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Missing, ", "))
}
