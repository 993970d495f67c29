package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.Audit.OutputDir)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.False(t, cfg.Storage.Enabled)
	assert.Equal(t, "license-audits", cfg.Storage.Bucket)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 3306, cfg.Database.Port)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("AUDIT_OUTPUT_DIR", "/tmp/audits")
	t.Setenv("STORAGE_ENABLED", "true")
	t.Setenv("DATABASE_PORT", "3307")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "/tmp/audits", cfg.Audit.OutputDir)
	assert.True(t, cfg.Storage.Enabled)
	assert.Equal(t, 3307, cfg.Database.Port)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	content := "AUDIT_SHEET=Objects\nDATABASE_DRIVER=mysql\nLOG_FORMAT=json\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o644))

	// godotenv.Overload writes into the process environment.
	t.Cleanup(func() {
		os.Unsetenv("AUDIT_SHEET")
		os.Unsetenv("DATABASE_DRIVER")
		os.Unsetenv("LOG_FORMAT")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "Objects", cfg.Audit.Sheet)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestBindValues(t *testing.T) {
	type inner struct {
		Name string `mapstructure:"name" default:"x"`
		Skip string
	}
	type outer struct {
		Inner inner `mapstructure:"inner"`
		Count int   `mapstructure:"count" default:"3"`
	}

	v := viper.New()
	bindValues(v, &outer{}, "root")

	assert.Equal(t, "x", v.Get("root.inner.name"))
	assert.Equal(t, "3", v.Get("root.count"))
	assert.False(t, v.IsSet("root.inner.skip"))
}
