// Package config loads tada settings from defaults, TOML files, the
// environment and root command-line flags, in that order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Makepad-fr/tada/internal/posts"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Default values.
const (
	DefaultDataFile  = "todos.json"
	DefaultTimeout   = 30 * time.Second
	DefaultTheme     = "classic"
	DefaultColor     = "auto"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"

	userConfigDir     = ".tada"
	userConfigName    = "config.toml"
	projectConfigName = "tada.toml"
)

// Config holds the full configuration for tada.
type Config struct {
	API  APIConfig  `toml:"api"`
	Todo TodoConfig `toml:"todo"`
	UI   UIConfig   `toml:"ui"`
	Log  LogConfig  `toml:"log"`

	// Files lists the config files that were read, in load order.
	Files []string `toml:"-"`
}

// APIConfig configures the posts endpoint.
type APIConfig struct {
	Endpoint          string        `toml:"endpoint"`
	PageSize          int           `toml:"page_size"`
	Timeout           time.Duration `toml:"timeout"`
	RequestsPerSecond float64       `toml:"requests_per_second"`
	UserAgent         string        `toml:"user_agent"`
}

// TodoConfig configures the local task list.
type TodoConfig struct {
	DataFile string `toml:"data_file"`
}

// UIConfig selects the theme and color behaviour.
type UIConfig struct {
	Theme string `toml:"theme"` // classic | neon | mono | dark
	Color string `toml:"color"` // auto | always | never
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `toml:"level"`  // debug | info | warn | error
	Format string `toml:"format"` // text | json | logfmt
	File   string `toml:"file"`   // empty: stderr for plain commands, discarded in the TUI
}

// Default returns a config populated with defaults.
func Default() *Config {
	return &Config{
		API: APIConfig{
			Endpoint:  posts.DefaultEndpoint,
			PageSize:  posts.DefaultPageSize,
			Timeout:   DefaultTimeout,
			UserAgent: posts.DefaultUserAgent,
		},
		Todo: TodoConfig{DataFile: DefaultDataFile},
		UI:   UIConfig{Theme: DefaultTheme, Color: DefaultColor},
		Log:  LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
	}
}

// flagValues holds root flags until we know which ones were set.
type flagValues struct {
	configPath string
	endpoint   string
	pageSize   int
	timeout    time.Duration
	rps        float64
	dataFile   string
	theme      string
	color      string
	logLevel   string
	logFile    string
}

func registerFlags(fs *flag.FlagSet) *flagValues {
	f := &flagValues{}
	fs.StringVar(&f.configPath, "config", "", "path to a TOML config file")
	fs.StringVar(&f.endpoint, "endpoint", "", "posts collection endpoint")
	fs.IntVar(&f.pageSize, "page-size", 0, "posts per page")
	fs.DurationVar(&f.timeout, "timeout", 0, "per-request timeout (0 disables)")
	fs.Float64Var(&f.rps, "rps", 0, "max requests per second to the posts API (0 disables)")
	fs.StringVar(&f.dataFile, "data", "", "todo data file")
	fs.StringVar(&f.theme, "theme", "", "theme: classic, neon, mono, dark")
	fs.StringVar(&f.color, "color", "", "color output: auto, always, never")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&f.logFile, "log-file", "", "write logs to this file")
	return f
}

func (f *flagValues) apply(cfg *Config, fs *flag.FlagSet) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "endpoint":
			cfg.API.Endpoint = f.endpoint
		case "page-size":
			cfg.API.PageSize = f.pageSize
		case "timeout":
			cfg.API.Timeout = f.timeout
		case "rps":
			cfg.API.RequestsPerSecond = f.rps
		case "data":
			cfg.Todo.DataFile = f.dataFile
		case "theme":
			cfg.UI.Theme = f.theme
		case "color":
			cfg.UI.Color = f.color
		case "log-level":
			cfg.Log.Level = f.logLevel
		case "log-file":
			cfg.Log.File = f.logFile
		}
	})
}

// Load registers the root flags on fs, parses args and resolves the
// configuration:
// 1. Defaults
// 2. User config file (~/.tada/config.toml)
// 3. Project config file (./tada.toml)
// 4. Explicit file from -config or TADA_CONFIG (replaces 2 and 3)
// 5. Environment variables
// 6. CLI flags
//
// Positional arguments are left in fs.Args().
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	f := registerFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := Default()
	explicit := f.configPath
	if explicit == "" {
		explicit = os.Getenv("TADA_CONFIG")
	}

	var files []string
	if explicit != "" {
		files = []string{expandPath(explicit)}
	} else {
		files = discoverFiles()
	}
	for _, p := range files {
		if err := loadFile(cfg, p); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", p, err)
		}
		cfg.Files = append(cfg.Files, p)
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	f.apply(cfg, fs)

	cfg.finalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// discoverFiles returns the implicit config files that exist.
func discoverFiles() []string {
	var out []string
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, userConfigDir, userConfigName)
		if fileExists(p) {
			out = append(out, p)
		}
	}
	if fileExists(projectConfigName) {
		out = append(out, projectConfigName)
	}
	return out
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}

func loadFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// loadFromEnv overrides config from TADA_* environment variables.
func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("TADA_ENDPOINT"); v != "" {
		cfg.API.Endpoint = v
	}
	if v := os.Getenv("TADA_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TADA_PAGE_SIZE: %w", err)
		}
		cfg.API.PageSize = n
	}
	if v := os.Getenv("TADA_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TADA_TIMEOUT: %w", err)
		}
		cfg.API.Timeout = d
	}
	if v := os.Getenv("TADA_RPS"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("TADA_RPS: %w", err)
		}
		cfg.API.RequestsPerSecond = r
	}
	if v := os.Getenv("TADA_USER_AGENT"); v != "" {
		cfg.API.UserAgent = v
	}
	if v := os.Getenv("TADA_DATA_FILE"); v != "" {
		cfg.Todo.DataFile = v
	}
	if v := os.Getenv("TADA_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := os.Getenv("TADA_COLOR"); v != "" {
		cfg.UI.Color = v
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		cfg.UI.Color = "never"
	}
	if v := os.Getenv("TADA_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TADA_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("TADA_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	return nil
}

func (c *Config) finalize() {
	c.API.Endpoint = strings.TrimSpace(c.API.Endpoint)
	c.Todo.DataFile = expandPath(c.Todo.DataFile)
	c.Log.File = expandPath(c.Log.File)
	c.UI.Theme = strings.ToLower(strings.TrimSpace(c.UI.Theme))
	c.UI.Color = strings.ToLower(strings.TrimSpace(c.UI.Color))
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.API.Endpoint == "" {
		errs = append(errs, errors.New("api.endpoint is empty"))
	}
	if c.API.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("api.page_size must be > 0 (got %d)", c.API.PageSize))
	}
	if c.API.Timeout < 0 {
		errs = append(errs, fmt.Errorf("api.timeout must be >= 0 (got %s)", c.API.Timeout))
	}
	if c.API.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("api.requests_per_second must be >= 0 (got %g)", c.API.RequestsPerSecond))
	}
	if c.Todo.DataFile == "" {
		errs = append(errs, errors.New("todo.data_file is empty"))
	}
	if c.UI.Theme != "" && !slices.Contains(ui.Themes(), c.UI.Theme) {
		errs = append(errs, fmt.Errorf("ui.theme must be one of %s (got %q)", strings.Join(ui.Themes(), ", "), c.UI.Theme))
	}
	switch c.UI.Color {
	case "", "auto", "always", "never":
	default:
		errs = append(errs, fmt.Errorf("ui.color must be auto, always or never (got %q)", c.UI.Color))
	}
	return errors.Join(errs...)
}

// expandPath expands a leading ~ and environment variables.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	expanded := os.ExpandEnv(p)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return filepath.Join(home, strings.TrimPrefix(expanded[1:], "/"))
	}
	return expanded
}
