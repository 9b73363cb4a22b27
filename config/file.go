package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// MergeFile reads a YAML/JSON/TOML file with viper and copies every key the
// map does not already hold. Nested keys are flattened: "db.dsn" -> "DB_DSN".
func MergeFile(c map[string]string, path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	for _, key := range v.AllKeys() {
		envKey := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if existing, ok := c[envKey]; ok && existing != "" {
			continue
		}
		c[envKey] = fileValue(v, key)
	}
	return nil
}

func fileValue(v *viper.Viper, key string) string {
	switch v.Get(key).(type) {
	case []any, []string:
		return strings.Join(v.GetStringSlice(key), ",")
	default:
		return v.GetString(key)
	}
}
