package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME and the working directory at empty temp dirs and clears
// TADA_* variables so that no real config leaks into a test.
func isolate(t *testing.T) (home, wd string) {
	t.Helper()
	home, wd = t.TempDir(), t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{
		"TADA_CONFIG", "TADA_ENDPOINT", "TADA_PAGE_SIZE", "TADA_TIMEOUT", "TADA_RPS",
		"TADA_USER_AGENT", "TADA_DATA_FILE", "TADA_THEME", "TADA_COLOR",
		"TADA_LOG_LEVEL", "TADA_LOG_FORMAT", "TADA_LOG_FILE",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("NO_COLOR", "")
	os.Unsetenv("NO_COLOR")
	chdir(t, wd)
	return home, wd
}

func load(t *testing.T, args ...string) (*Config, *flag.FlagSet, error) {
	t.Helper()
	fs := flag.NewFlagSet("tada", flag.ContinueOnError)
	cfg, err := Load(fs, args)
	return cfg, fs, err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDefaults(t *testing.T) {
	isolate(t)

	cfg, fs, err := load(t, "ls")
	require.NoError(t, err)

	assert.Equal(t, "https://jsonplaceholder.typicode.com/posts", cfg.API.Endpoint)
	assert.Equal(t, 10, cfg.API.PageSize)
	assert.Equal(t, DefaultTimeout, cfg.API.Timeout)
	assert.Zero(t, cfg.API.RequestsPerSecond)
	assert.Equal(t, DefaultDataFile, cfg.Todo.DataFile)
	assert.Equal(t, "classic", cfg.UI.Theme)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Empty(t, cfg.Files)
	assert.Equal(t, []string{"ls"}, fs.Args())
}

func TestLoadUserAndProjectFiles(t *testing.T) {
	home, wd := isolate(t)

	writeFile(t, filepath.Join(home, ".tada", "config.toml"), `
[api]
page_size = 20
timeout = "5s"

[ui]
theme = "neon"
`)
	writeFile(t, filepath.Join(wd, "tada.toml"), `
[ui]
theme = "mono"

[todo]
data_file = "~/tasks.json"
`)

	cfg, _, err := load(t)
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.API.PageSize)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "mono", cfg.UI.Theme, "project file overrides user file")
	assert.Equal(t, filepath.Join(home, "tasks.json"), cfg.Todo.DataFile)
	assert.Len(t, cfg.Files, 2)
}

func TestExplicitConfigFile(t *testing.T) {
	home, wd := isolate(t)
	writeFile(t, filepath.Join(home, ".tada", "config.toml"), "[api]\npage_size = 20\n")
	explicit := filepath.Join(wd, "custom.toml")
	writeFile(t, explicit, "[api]\npage_size = 7\nrequests_per_second = 2.5\n")

	cfg, _, err := load(t, "-config", explicit)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.API.PageSize)
	assert.Equal(t, 2.5, cfg.API.RequestsPerSecond)
	assert.Equal(t, []string{explicit}, cfg.Files)
}

func TestConfigFileUnknownKey(t *testing.T) {
	_, wd := isolate(t)
	writeFile(t, filepath.Join(wd, "tada.toml"), "[api]\npagesize = 7\n")

	_, _, err := load(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api.pagesize")
}

func TestConfigFileMissingExplicit(t *testing.T) {
	isolate(t)
	_, _, err := load(t, "-config", "/does/not/exist.toml")
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("TADA_ENDPOINT", "http://localhost:3000/posts")
	t.Setenv("TADA_PAGE_SIZE", "25")
	t.Setenv("TADA_TIMEOUT", "2s")
	t.Setenv("TADA_RPS", "4")
	t.Setenv("TADA_THEME", "Dark")
	t.Setenv("TADA_LOG_LEVEL", "debug")

	cfg, _, err := load(t)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000/posts", cfg.API.Endpoint)
	assert.Equal(t, 25, cfg.API.PageSize)
	assert.Equal(t, 2*time.Second, cfg.API.Timeout)
	assert.Equal(t, 4.0, cfg.API.RequestsPerSecond)
	assert.Equal(t, "dark", cfg.UI.Theme)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	tests := map[string]string{
		"TADA_PAGE_SIZE": "ten",
		"TADA_TIMEOUT":   "soon",
		"TADA_RPS":       "fast",
	}
	for k, v := range tests {
		t.Run(k, func(t *testing.T) {
			isolate(t)
			t.Setenv(k, v)
			_, _, err := load(t)
			require.Error(t, err)
			assert.Contains(t, err.Error(), k)
		})
	}
}

func TestNoColorEnv(t *testing.T) {
	isolate(t)
	t.Setenv("NO_COLOR", "1")
	cfg, _, err := load(t)
	require.NoError(t, err)
	assert.Equal(t, "never", cfg.UI.Color)
}

func TestFlagsOverrideEverything(t *testing.T) {
	_, wd := isolate(t)
	writeFile(t, filepath.Join(wd, "tada.toml"), "[api]\npage_size = 20\n")
	t.Setenv("TADA_PAGE_SIZE", "30")

	cfg, fs, err := load(t, "-page-size", "5", "-theme", "neon", "-data", "x.json", "posts", "2")
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.API.PageSize)
	assert.Equal(t, "neon", cfg.UI.Theme)
	assert.Equal(t, "x.json", cfg.Todo.DataFile)
	assert.Equal(t, []string{"posts", "2"}, fs.Args())
}

func TestUnsetFlagsDoNotClobber(t *testing.T) {
	isolate(t)
	t.Setenv("TADA_PAGE_SIZE", "30")

	cfg, _, err := load(t, "-theme", "mono")
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.API.PageSize)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty endpoint", func(c *Config) { c.API.Endpoint = "" }, "api.endpoint"},
		{"zero page size", func(c *Config) { c.API.PageSize = 0 }, "api.page_size"},
		{"negative timeout", func(c *Config) { c.API.Timeout = -time.Second }, "api.timeout"},
		{"negative rps", func(c *Config) { c.API.RequestsPerSecond = -1 }, "requests_per_second"},
		{"empty data file", func(c *Config) { c.Todo.DataFile = "" }, "todo.data_file"},
		{"bad color", func(c *Config) { c.UI.Color = "sometimes" }, "ui.color"},
		{"unknown theme", func(c *Config) { c.UI.Theme = "solarized" }, "ui.theme"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("TADA_TEST_DIR", "/srv/data")

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"~", home},
		{"~/todos.json", filepath.Join(home, "todos.json")},
		{"/absolute/path", "/absolute/path"},
		{"relative.json", "relative.json"},
		{"$TADA_TEST_DIR/todos.json", "/srv/data/todos.json"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, expandPath(tt.input))
		})
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}
