package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coby5502/dango/internal/config"
)

func TestLoader_Load_Defaults(t *testing.T) {
	loader, err := config.NewConfigLoader("")
	require.NoError(t, err)

	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://jisho.org", cfg.Dictionary.BaseURL)
	assert.Equal(t, "en", cfg.Dictionary.SourceLang)
	assert.Equal(t, "ko", cfg.Dictionary.TargetLang)
	assert.True(t, cfg.Translator.Enabled)
	assert.Equal(t, uint(3), cfg.Translator.RetryAttempts)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, filepath.Join("data", "dango.db"), cfg.Store.LocalPath)
	assert.Equal(t, 10, cfg.Store.LoadTimeoutSeconds)
	assert.Equal(t, 30, cfg.Cache.TTLDays)
}

func TestLoader_Load_FromFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
server:
  port: 9090
dictionary:
  target_lang: ja
database:
  host: db.example.com
  username: dango
store:
  local_path: /var/lib/dango/words.db
cache:
  ttl_days: 7
`), 0o644))

	loader, err := config.NewConfigLoader(configFile)
	require.NoError(t, err)

	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "ja", cfg.Dictionary.TargetLang)
	// Unset keys keep their defaults.
	assert.Equal(t, "en", cfg.Dictionary.SourceLang)
	assert.Equal(t, "db.example.com", cfg.Database.Host)
	assert.Equal(t, "/var/lib/dango/words.db", cfg.Store.LocalPath)
	assert.Equal(t, 7, cfg.Cache.TTLDays)
}

func TestLoader_Load_PasswordFromEnvironment(t *testing.T) {
	t.Setenv("DANGO_DB_PASSWORD", "s3cret")

	loader, err := config.NewConfigLoader("")
	require.NoError(t, err)

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Database.Password)
}

func TestLoader_Load_ValidationFailure(t *testing.T) {
	tests := []struct {
		name            string
		contents        string
		wantErrorString string
	}{
		{
			name: "out of range port",
			contents: `
server:
  port: 0
`,
			wantErrorString: "port",
		},
		{
			name: "bad language code",
			contents: `
dictionary:
  target_lang: korean
`,
			wantErrorString: "must be a two-letter lowercase language code",
		},
		{
			name: "bad dictionary url",
			contents: `
dictionary:
  base_url: "not a url"
`,
			wantErrorString: "base_url",
		},
		{
			name: "zero cache ttl",
			contents: `
cache:
  ttl_days: 0
`,
			wantErrorString: "ttl_days",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configFile := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(configFile, []byte(tt.contents), 0o644))

			loader, err := config.NewConfigLoader(configFile)
			require.NoError(t, err)

			_, err = loader.Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
			assert.Contains(t, err.Error(), tt.wantErrorString)
		})
	}
}
