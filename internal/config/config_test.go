package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/lineage/pkg/calendar"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lineage.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `version: "1.0"
redis:
  addr: "redis.local:6380"
  db: 2
  namespace: family
display:
  calendar: julian
log:
  level: debug
`)

	config, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "redis.local:6380", config.Redis.Addr)
	assert.Equal(t, 2, config.Redis.DB)
	assert.Equal(t, "family", config.Redis.Namespace)
	assert.Equal(t, "debug", config.Log.Level)

	cal, ok := config.DisplayCalendar()
	require.True(t, ok)
	assert.Equal(t, calendar.Julian, cal)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	config, err := Load(writeConfig(t, `version: "1.0"`))
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", config.Redis.Addr)
	assert.Equal(t, "default", config.Redis.Namespace)
	assert.Equal(t, "warning", config.Log.Level)

	_, ok := config.DisplayCalendar()
	assert.False(t, ok)
}

func TestLoad_FileNotFound(t *testing.T) {
	config, err := Load("/nonexistent/lineage.yml")
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoadOrDefault(t *testing.T) {
	config, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.Equal(t, "1.0", config.Version)
	assert.NotNil(t, config.Redis)
}

func TestLoad_InvalidYAML(t *testing.T) {
	config, err := Load(writeConfig(t, `version: "1.0"
redis:
  - this is invalid
    yaml syntax
`))
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  LineageConfig
		wantErr string
	}{
		{"unsupported version", LineageConfig{Version: "2.0"}, "unsupported version: 2.0"},
		{"missing version", LineageConfig{}, "unsupported version"},
		{"unknown calendar", LineageConfig{Version: "1.0", Display: &DisplayConfig{Calendar: "mayan"}}, "display.calendar"},
		{"calendar and iso", LineageConfig{Version: "1.0", Display: &DisplayConfig{Calendar: "coptic", UseISO: true}}, "mutually exclusive"},
		{"negative db", LineageConfig{Version: "1.0", Redis: &RedisConfig{DB: -1}}, "redis.db"},
		{"bad log level", LineageConfig{Version: "1.0", Log: &LogConfig{Level: "loud"}}, "invalid log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDisplayCalendar_UseISO(t *testing.T) {
	config := LineageConfig{Version: "1.0", Display: &DisplayConfig{UseISO: true}}
	require.NoError(t, config.Validate())
	cal, ok := config.DisplayCalendar()
	require.True(t, ok)
	assert.Equal(t, calendar.Gregorian, cal)
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lineage.yml")
	require.NoError(t, Save(path, Default()))

	config, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), config)
}
