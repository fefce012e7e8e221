package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func writeFile(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestInitConfig_CreatesDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.FileExists(t, path)

	again, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), `
[trie]
unit_bits = 16

[server]
max_limit = 10

[dict]
path = "/tmp/words.txt"
fold_case = true

[cli]
default_limit = 5
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Trie.UnitBits)
	assert.Equal(t, 10, cfg.Server.MaxLimit)
	assert.Equal(t, 60, cfg.Server.MaxPrefix, "untouched keys keep defaults")
	assert.Equal(t, "/tmp/words.txt", cfg.Dict.Path)
	assert.True(t, cfg.Dict.FoldCase)
	assert.Equal(t, 5, cfg.CLI.DefaultLimit)
}

func TestLoadConfig_PartialRecovery(t *testing.T) {
	t.Parallel()

	// max_limit has the wrong type, so strict decoding fails and the
	// remaining keys are recovered one by one.
	path := writeFile(t, t.TempDir(), `
[trie]
unit_bits = 32

[server]
max_limit = "lots"
min_prefix = 2
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Trie.UnitBits)
	assert.Equal(t, 64, cfg.Server.MaxLimit)
	assert.Equal(t, 2, cfg.Server.MinPrefix)
}

func TestLoadConfig_InvalidFallsBack(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "[trie]\nunit_bits = 12\n")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	for _, tcase := range []struct {
		Name   string
		Mutate func(*Config)
		OK     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"wide units", func(c *Config) { c.Trie.UnitBits = 16 }, true},
		{"odd units", func(c *Config) { c.Trie.UnitBits = 7 }, false},
		{"inverted prefix bounds", func(c *Config) { c.Server.MinPrefix, c.Server.MaxPrefix = 5, 2 }, false},
		{"zero limit", func(c *Config) { c.Server.MaxLimit = 0 }, false},
		{"largest rankable limit", func(c *Config) { c.Server.MaxLimit = 65535 }, true},
		{"limit past uint16 ranks", func(c *Config) { c.Server.MaxLimit = 65536 }, false},
		{"negative max words", func(c *Config) { c.Dict.MaxWords = -1 }, false},
	} {
		tcase := tcase
		t.Run(tcase.Name, func(t *testing.T) {
			cfg := DefaultConfig()
			tcase.Mutate(cfg)
			if tcase.OK {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	limit, filter := 12, false
	require.NoError(t, cfg.Update(path, &limit, nil, nil, &filter))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 12, loaded.Server.MaxLimit)
	assert.False(t, loaded.Server.EnableFilter)

	bad, prefix := 0, 3
	assert.Error(t, cfg.Update(path, &bad, &prefix, nil, nil))
	assert.Equal(t, 12, cfg.Server.MaxLimit, "a rejected update leaves the config alone")
	assert.Equal(t, DefaultConfig().Server.MinPrefix, cfg.Server.MinPrefix)
}

func TestLoadConfigWithPriority_Custom(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "[cli]\ndefault_limit = 3\n")
	cfg, used, err := LoadConfigWithPriority(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, 3, cfg.CLI.DefaultLimit)
	assert.Equal(t, utilsAbs(path), GetActiveConfigPath(path))
}

func utilsAbs(p string) string {
	abs, _ := filepath.Abs(p)
	return abs
}
