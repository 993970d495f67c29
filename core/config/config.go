package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"license-auditor/core/database"
	"license-auditor/core/logger"
	"license-auditor/core/server"
	"license-auditor/core/storage"
	"license-auditor/feature/audit"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application, one section per package.
type Config struct {
	// Audit holds defaults for the check command and the audit API.
	Audit audit.Config `mapstructure:"audit"`
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Overload(filepath.Join(path, ".env"))

	v := viper.New()
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. AUDIT_OUTPUT_DIR -> audit.output_dir)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return &config, nil
}

// bindValues walks the struct type and registers every `mapstructure` key in
// Viper with the value of its `default` tag. Nested structs become dotted keys.
func bindValues(v *viper.Viper, iface any, prefix string) {
	bindType(v, reflect.TypeOf(iface), prefix)
}

func bindType(v *viper.Viper, t reflect.Type, prefix string) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindType(v, field.Type, key)
			continue
		}

		// An empty default still registers the key for AutomaticEnv.
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
