package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence.
func LoadConfig(configPath string) (*InspectorConfig, error) {
	v := viper.New()

	d := DefaultInspectorConfig()
	v.SetDefault("inspector.host", d.Host)
	v.SetDefault("inspector.port", d.Port)
	v.SetDefault("inspector.request_timeout", d.RequestTimeout.String())
	v.SetDefault("inspector.data_dir", d.DataDir)
	v.SetDefault("inspector.max_documents", d.MaxDocuments)
	v.SetDefault("inspector.rules_file", d.RulesFile)
	v.SetDefault("inspector.auth_enabled", d.AuthEnabled)
	v.SetDefault("database.url", d.DatabaseURL)

	// FG_INSPECTOR_PORT, FG_DATABASE_URL, ...
	v.SetEnvPrefix("FG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Secrets are environment-only.
	if err := validateNoSecretsInConfig(v); err != nil {
		return nil, err
	}

	cfg := &InspectorConfig{
		Host:           v.GetString("inspector.host"),
		Port:           v.GetInt("inspector.port"),
		RequestTimeout: v.GetDuration("inspector.request_timeout"),
		DataDir:        v.GetString("inspector.data_dir"),
		MaxDocuments:   v.GetInt("inspector.max_documents"),
		RulesFile:      v.GetString("inspector.rules_file"),
		AuthEnabled:    v.GetBool("inspector.auth_enabled"),
		DatabaseURL:    v.GetString("database.url"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateConfig checks port range and positive timeout and document limit.
func validateConfig(cfg *InspectorConfig) error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", cfg.Port)
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %v", cfg.RequestTimeout)
	}
	if cfg.MaxDocuments <= 0 {
		return fmt.Errorf("max_documents must be positive, got %d", cfg.MaxDocuments)
	}
	if cfg.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	return nil
}

func validateNoSecretsInConfig(v *viper.Viper) error {
	for _, key := range []string{"editor_secret", "inspector.editor_secret", "database.password"} {
		if v.InConfig(key) {
			return fmt.Errorf("secrets not allowed in config files (use FG_EDITOR_SECRET and FG_DATABASE_URL environment variables)")
		}
	}
	return nil
}
