package internal

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/papercheck/internal/checker"
	pkgconfig "github.com/starford/papercheck/pkg/config"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.AuthEnabled())
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, AuthModeDisabled, cfg.Mode)
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.AuthEnabled())
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token is empty")
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	assert.Error(t, cfg.Validate())
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, checker.DefaultRules(), cfg.Rules)
	assert.Equal(t, ":8080", cfg.App.HTTP.Address())
}

func TestFullConfig_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"auth", func(c *Config) { c.Auth.Mode = "token"; c.Auth.Token = "" }},
		{"port", func(c *Config) { c.App.HTTP.Port = 70000 }},
		{"library", func(c *Config) { c.Library.Path = "" }},
		{"history", func(c *Config) { c.History.Path = "" }},
		{"retention", func(c *Config) { c.History.Retention = -1 }},
		{"debounce", func(c *Config) { c.Watch.Debounce = time.Hour }},
		{"columns", func(c *Config) { c.Rules.Columns = 0 }},
		{"critical", func(c *Config) { c.Rules.Critical = []string{"spelling"} }},
		{"tolerance", func(c *Config) { c.Rules.SectionTolerance = 7 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_LoadYAML(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
app:
  log_level: debug
  http:
    port: 9090
library:
  path: ./thesis
history:
  retention: 5
watch:
  enabled: false
  debounce: 1s
rules:
  columns: 1
  sections: [Introduction, Conclusion]
  section_tolerance: 0
  critical: [abstract, columns]
`), 0o644))

	cfg := NewDefaultConfig()
	require.NoError(t, pkgconfig.Load(p, cfg))

	assert.Equal(t, slog.LevelDebug, cfg.App.LogLevel)
	assert.Equal(t, 9090, cfg.App.HTTP.Port)
	assert.Equal(t, "./thesis", cfg.Library.Path)
	assert.Equal(t, "./papercheck.db", cfg.History.Path)
	assert.Equal(t, 5, cfg.History.Retention)
	assert.False(t, cfg.Watch.Enabled)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
	assert.Equal(t, 1, cfg.Rules.Columns)
	assert.Equal(t, []string{"Introduction", "Conclusion"}, cfg.Rules.Sections)
	assert.Equal(t, "abstract", cfg.Rules.AbstractKeyword)
	assert.Equal(t, []string{"abstract", "columns"}, cfg.Rules.Critical)
}
