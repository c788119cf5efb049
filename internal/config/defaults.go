package config

import "runtime"

// Config file names, in lookup order.
const (
	FileName    = "vtool.yaml"
	FileNameAlt = "vtool.yml"
)

// Default configuration values.
const (
	DefaultStateFile = ".vtool/history.db"
	DefaultSeverity  = "info"
	DefaultOutput    = OutputAuto // Auto-detect: TTY=text, non-TTY=markdown
	DefaultMaxDepth  = 64
	DefaultCacheSize = 512
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "VTOOL_"

func defaults() map[string]any {
	return map[string]any{
		"dictionaries": []string{},
		"include":      []string{"*.lbl", "*.LBL"},
		"exclude":      []string{},
		"recursive":    false,
		"aliasing":     true,
		"max_depth":    DefaultMaxDepth,
		"max_errors":   0,
		"workers":      runtime.GOMAXPROCS(0),
		"cache_size":   DefaultCacheSize,
		"severity":     DefaultSeverity,
		"output":       DefaultOutput,
		"state_path":   DefaultStateFile,
		"verbose":      false,
	}
}

// Default returns a Config populated with default values only.
func Default() *Config {
	return &Config{
		Include:   []string{"*.lbl", "*.LBL"},
		Aliasing:  true,
		MaxDepth:  DefaultMaxDepth,
		Workers:   runtime.GOMAXPROCS(0),
		CacheSize: DefaultCacheSize,
		Severity:  DefaultSeverity,
		Output:    DefaultOutput,
		StatePath: DefaultStateFile,
	}
}
