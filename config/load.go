package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/sambeau/cplx/pkg/journal"
	"github.com/sambeau/cplx/pkg/logging"
)

// EnvConfigPath names the environment variable holding a config file path.
const EnvConfigPath = "CPLX_CONFIG"

// MaxPrecision is the largest accepted display precision.
const MaxPrecision = 20

// Load reads configuration from a file with ENV interpolation.
// If configPath is empty, it searches default locations.
func Load(configPath string, getenv func(string) string) (*Config, error) {
	cfg, _, err := LoadWithPath(configPath, getenv)
	return cfg, err
}

// LoadWithPath reads configuration and returns both the config and the
// resolved path. When no path is given and no file is found in the default
// locations, it returns Defaults() and an empty path.
func LoadWithPath(configPath string, getenv func(string) string) (*Config, string, error) {
	path, err := resolveConfigPath(configPath, getenv)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		cfg := Defaults()
		cfg.BaseDir, _ = os.Getwd()
		return cfg, "", nil
	}

	// Get absolute path and directory for resolving relative paths
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve config path: %w", err)
	}
	baseDir := filepath.Dir(absPath)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read config: %w", err)
	}

	// Interpolate environment variables
	data = interpolateEnv(data, getenv)

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.BaseDir = baseDir

	// Resolve relative paths against the config file's directory
	if isSQLite(cfg.Journal.Driver) && cfg.Journal.DSN != "" && !isSpecialSQLite(cfg.Journal.DSN) {
		cfg.Journal.DSN = resolvePath(baseDir, cfg.Journal.DSN)
	}
	if cfg.History.File != "" && cfg.History.File != "none" {
		cfg.History.File = resolvePath(baseDir, cfg.History.File)
	}
	if !isStreamOutput(cfg.Logging.Output) {
		cfg.Logging.Output = resolvePath(baseDir, cfg.Logging.Output)
	}

	if err := Validate(cfg); err != nil {
		return nil, "", err
	}

	return cfg, absPath, nil
}

// Validate checks the configuration and reports every problem at once.
func Validate(cfg *Config) error {
	var errs []string

	errs = append(errs, validateDisplay("display", cfg.Display)...)
	for _, name := range sortedProfileNames(cfg) {
		errs = append(errs, validateDisplay("profiles."+name, cfg.Profiles[name])...)
	}

	// Journal validation
	if !journal.ValidDriver(cfg.Journal.Driver) {
		errs = append(errs, fmt.Sprintf("invalid journal driver: %s (must be %s)",
			cfg.Journal.Driver, strings.Join(journal.Drivers(), ", ")))
	}
	if cfg.Journal.MaxEntries < 0 {
		errs = append(errs, fmt.Sprintf("invalid journal max_entries: %d (must be 0 or more)", cfg.Journal.MaxEntries))
	}
	if cfg.Journal.Enabled && cfg.Journal.DSN == "" && !isSQLite(cfg.Journal.Driver) {
		errs = append(errs, fmt.Sprintf("journal.dsn is required for driver %s", cfg.Journal.Driver))
	}

	// Logging validation
	if _, err := logging.ParseLevel(cfg.Logging.Level); err != nil || cfg.Logging.Level == "" {
		errs = append(errs, fmt.Sprintf("invalid log level: %s (must be debug, info, warn, or error)", cfg.Logging.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func validateDisplay(section string, d DisplayConfig) []string {
	var errs []string

	if d.Locale != "" {
		if _, err := language.Parse(d.Locale); err != nil {
			errs = append(errs, fmt.Sprintf("%s: invalid locale: %s", section, d.Locale))
		}
	}
	if p := d.PrecisionOr(DefaultPrecision); p < -1 || p > MaxPrecision {
		errs = append(errs, fmt.Sprintf("%s: invalid precision: %d (must be -1 to %d)", section, p, MaxPrecision))
	}

	validStyles := map[string]bool{"": true, "plain": true, "fixed": true, "locale": true}
	if !validStyles[d.Style] {
		errs = append(errs, fmt.Sprintf("%s: invalid style: %s (must be plain, fixed, or locale)", section, d.Style))
	}

	return errs
}

// Warnings returns non-fatal configuration issues that should be reported
// to the user.
func Warnings(cfg *Config) []string {
	var warnings []string

	if cfg.Journal.Enabled && cfg.Journal.MaxEntries == 0 {
		warnings = append(warnings, "journal: max_entries is 0 - the journal will grow without bound")
	}
	if !cfg.Journal.Enabled && cfg.Journal.DSN != "" {
		warnings = append(warnings, "journal: dsn is set but the journal is disabled")
	}

	p := cfg.Display.PrecisionOr(DefaultPrecision)
	if p > 17 {
		warnings = append(warnings, fmt.Sprintf("display: precision %d exceeds float64 accuracy (17 significant digits)", p))
	}
	if cfg.Display.Style == "plain" && cfg.Display.Precision != nil && p >= 0 {
		warnings = append(warnings, "display: precision is ignored by the plain style (use fixed or locale)")
	}

	return warnings
}

// ApplyProfile merges a named display profile over cfg.Display. Only
// non-zero profile fields override the base settings.
func ApplyProfile(cfg *Config, name string) error {
	if len(cfg.Profiles) == 0 {
		return fmt.Errorf("no display profiles defined in config")
	}

	p, ok := cfg.Profiles[name]
	if !ok {
		return fmt.Errorf("unknown display profile %q (available: %s)", name, strings.Join(sortedProfileNames(cfg), ", "))
	}

	if p.Locale != "" {
		cfg.Display.Locale = p.Locale
	}
	if p.Precision != nil {
		precision := *p.Precision
		cfg.Display.Precision = &precision
	}
	if p.Style != "" {
		cfg.Display.Style = p.Style
	}
	return nil
}

// JournalDSN returns the configured DSN, or the default journal database
// path when the driver is SQLite and no DSN is set.
func (c *Config) JournalDSN() string {
	if c.Journal.DSN != "" || !isSQLite(c.Journal.Driver) {
		return c.Journal.DSN
	}
	return DefaultJournalPath()
}

// HistoryPath returns the REPL history file, or "" when history is disabled.
func (c *Config) HistoryPath() string {
	switch c.History.File {
	case "none":
		return ""
	case "":
		return filepath.Join(os.TempDir(), ".cplx_history")
	}
	return c.History.File
}

// DefaultJournalPath is ~/.local/share/cplx/journal.db, falling back to the
// temp directory when the home directory is unknown.
func DefaultJournalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "cplx", "journal.db")
	}
	return filepath.Join(home, ".local", "share", "cplx", "journal.db")
}

// resolveConfigPath finds the config file to use.
// Search order: explicit path > CPLX_CONFIG env > ./cplx.yaml > ~/.config/cplx/cplx.yaml
// An empty result with a nil error means no file was found.
func resolveConfigPath(explicit string, getenv func(string) string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	// Try CPLX_CONFIG environment variable
	if envPath := getenv(EnvConfigPath); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("%s file not found: %s", EnvConfigPath, envPath)
		}
		return envPath, nil
	}

	// Try ./cplx.yaml
	if _, err := os.Stat("cplx.yaml"); err == nil {
		return "cplx.yaml", nil
	}

	// Try ~/.config/cplx/cplx.yaml
	home, err := os.UserHomeDir()
	if err == nil {
		xdgPath := filepath.Join(home, ".config", "cplx", "cplx.yaml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath, nil
		}
	}

	return "", nil
}

// envPattern matches ${VAR} or ${VAR:-default}
var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// interpolateEnv replaces ${VAR} and ${VAR:-default} patterns with environment values.
func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		parts := envPattern.FindSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := string(parts[1])
		value := getenv(varName)

		if value == "" && len(parts) >= 3 && len(parts[2]) > 0 {
			value = string(parts[2])
		}

		return []byte(value)
	})
}

func resolvePath(baseDir, path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

func isSQLite(driver string) bool {
	switch strings.ToLower(driver) {
	case "", "sqlite", "sqlite3":
		return true
	}
	return false
}

func isSpecialSQLite(dsn string) bool {
	return dsn == ":memory:" || strings.HasPrefix(dsn, "file:")
}

func isStreamOutput(output string) bool {
	switch output {
	case "", "stderr", "stdout", "none":
		return true
	}
	return false
}

func sortedProfileNames(cfg *Config) []string {
	names := make([]string, 0, len(cfg.Profiles))
	for name := range cfg.Profiles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
