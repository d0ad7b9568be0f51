package config

// Config represents the complete cplx configuration
type Config struct {
	BaseDir  string                   `yaml:"-"` // Directory containing config file, for resolving relative paths
	Display  DisplayConfig            `yaml:"display"`
	Journal  JournalConfig            `yaml:"journal"`
	History  HistoryConfig            `yaml:"history"`
	Logging  LoggingConfig            `yaml:"logging"`
	Profiles map[string]DisplayConfig `yaml:"profiles"` // Named display overrides selected with -profile
}

// DisplayConfig controls how results are printed
type DisplayConfig struct {
	Locale    string `yaml:"locale"`    // BCP 47 tag used by the locale style (default: "en")
	Precision *int   `yaml:"precision"` // Fraction digits; -1 prints as many as needed
	Style     string `yaml:"style"`     // plain, fixed, or locale
}

// JournalConfig holds the evaluation journal settings
type JournalConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Driver     string `yaml:"driver"`      // sqlite (default), postgres, or mysql
	DSN        string `yaml:"dsn"`         // File path for sqlite, connection string otherwise
	MaxEntries int    `yaml:"max_entries"` // Oldest entries beyond this are dropped (0 = unlimited)
}

// HistoryConfig holds REPL line history settings
type HistoryConfig struct {
	File string `yaml:"file"` // History file (default: <tmp>/.cplx_history); "none" disables
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Output string `yaml:"output"` // stderr, stdout, none, or file path
}

// DefaultPrecision is the precision used when none is configured.
const DefaultPrecision = -1

// PrecisionOr returns the configured precision, or def when unset.
func (d DisplayConfig) PrecisionOr(def int) int {
	if d.Precision == nil {
		return def
	}
	return *d.Precision
}

// Defaults returns a Config with sensible defaults
func Defaults() *Config {
	precision := DefaultPrecision
	return &Config{
		Display: DisplayConfig{
			Locale:    "en",
			Precision: &precision,
			Style:     "plain",
		},
		Journal: JournalConfig{
			Enabled:    false,
			Driver:     "sqlite",
			MaxEntries: 1000,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Output: "stderr",
		},
	}
}
