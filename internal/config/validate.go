package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/vtool/pkg/core"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, ok := core.ParseSeverity(c.Severity); !ok {
		return fmt.Errorf("invalid severity %q (use error|warning|info|debug)", c.Severity)
	}
	switch strings.ToLower(c.Output) {
	case OutputAuto, OutputText, OutputMarkdown, OutputJSON:
	default:
		return fmt.Errorf("invalid output format %q (use auto|text|markdown|json)", c.Output)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth)
	}
	if c.MaxErrors < 0 {
		return fmt.Errorf("max_errors must not be negative, got %d", c.MaxErrors)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative, got %d", c.CacheSize)
	}
	return nil
}

// SeverityThreshold returns the parsed severity filter.
func (c *Config) SeverityThreshold() core.Severity {
	sev, _ := core.ParseSeverity(c.Severity)
	return sev
}

// RequireDictionaries reports an error when no dictionary file is configured.
// Commands that validate call this; help and version do not.
func (c *Config) RequireDictionaries() error {
	if len(c.Dictionaries) == 0 {
		return fmt.Errorf("no dictionary configured\nHint: pass --dict or set dictionaries in %s", FileName)
	}
	return nil
}
