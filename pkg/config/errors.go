package config

import (
	"fmt"
	"strings"
)

// ConfigurationError lists every problem found while loading the
// configuration. The bot must not connect when Load returns one.
type ConfigurationError struct {
	Source   string
	Problems []string
}

func (e *ConfigurationError) Error() string {
	if len(e.Problems) == 1 {
		return fmt.Sprintf("invalid configuration %s: %s", e.Source, e.Problems[0])
	}
	return fmt.Sprintf("invalid configuration %s: %d problems: %s", e.Source, len(e.Problems), strings.Join(e.Problems, "; "))
}

// Has reports whether any problem concerns the given key, e.g. "discord.channel_id".
func (e *ConfigurationError) Has(key string) bool {
	for _, p := range e.Problems {
		if strings.HasPrefix(p, key+":") {
			return true
		}
	}
	return false
}
