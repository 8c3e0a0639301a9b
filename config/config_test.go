package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected bool
	}{
		{
			name: "development environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "development"},
			},
			expected: true,
		},
		{
			name: "debug gin mode",
			config: &Config{
				Server: ServerConfig{GinMode: "debug"},
			},
			expected: true,
		},
		{
			name: "production environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "production"},
			},
			expected: false,
		},
		{
			name: "release mode",
			config: &Config{
				Server: ServerConfig{GinMode: "release", AppEnv: "production"},
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.config.IsDevelopment()
			assert.Equal(t, tt.expected, result)
		})
	}
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8081",
			AppEnv:         "production",
			BaseURL:        "https://ahlulathar.org",
			AllowedOrigins: []string{"https://ahlulathar.org"},
		},
		Database: DatabaseConfig{
			URL: "postgres://localhost:5432/ahlulathar",
		},
		I18n: I18nConfig{
			DefaultLanguage: "ar",
		},
		Notifications: NotificationsConfig{
			ToastTTLSeconds: 5,
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_Validate_MissingDatabaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.Database.URL = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestConfig_Validate_OfflineModeWithoutDatabase(t *testing.T) {
	cfg := validConfig()
	cfg.Database.URL = ""
	cfg.Database.WorkOffline = true

	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate_InvalidDefaultLanguage(t *testing.T) {
	cfg := validConfig()
	cfg.I18n.DefaultLanguage = "fr"

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DEFAULT_LANGUAGE")
}

func TestConfig_Validate_ProfilingRequiresEndpoint(t *testing.T) {
	cfg := validConfig()
	cfg.Profiling.Enabled = true

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "O11Y_PROFILING_ENDPOINT")
}
