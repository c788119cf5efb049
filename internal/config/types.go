// Package config loads vtool configuration.
//
// Values are layered with koanf. Precedence (highest to lowest):
// flags > VTOOL_ env vars > vtool.yaml > defaults.
package config

// Config holds all validation run options.
type Config struct {
	Dictionaries []string `koanf:"dictionaries"`
	Include      []string `koanf:"include"`
	Exclude      []string `koanf:"exclude"`
	Recursive    bool     `koanf:"recursive"`
	Aliasing     bool     `koanf:"aliasing"`
	MaxDepth     int      `koanf:"max_depth"`
	MaxErrors    int      `koanf:"max_errors"` // 0 means unlimited
	Workers      int      `koanf:"workers"`
	CacheSize    int      `koanf:"cache_size"` // 0 disables the report cache
	Severity     string   `koanf:"severity"`
	Output       string   `koanf:"output"`
	StatePath    string   `koanf:"state_path"` // empty disables run history
	Verbose      bool     `koanf:"verbose"`

	// ProjectRoot is the directory containing the config file, or the
	// working directory when none was found. Relative paths resolve against it.
	ProjectRoot string `koanf:"-"`
	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}

// Output modes accepted by the output key.
const (
	OutputAuto     = "auto"
	OutputText     = "text"
	OutputMarkdown = "markdown"
	OutputJSON     = "json"
)
