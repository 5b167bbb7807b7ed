package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	Mail     MailConfig
	Draw     DrawConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
	// BaseURL is the externally reachable origin, used to build the
	// links in sign-in emails.
	BaseURL string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
	// InMemory switches the whole store to the in-process implementation.
	// Meant for local development and demos, nothing survives a restart.
	InMemory bool
}

// JWTConfig holds session-token configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int // seconds
}

// MailConfig holds SMTP configuration for the sign-in mailer
type MailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	// MockMailer logs links instead of sending them.
	MockMailer bool
}

// DrawConfig holds draw-timing configuration
type DrawConfig struct {
	DefaultSpinSeconds int
}

// SessionDuration returns the configured session lifetime
func (c *Config) SessionDuration() time.Duration {
	return time.Duration(c.JWT.ExpiresIn) * time.Second
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Read configuration
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Unmarshal configuration
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedHosts", []string{"http://localhost:3000"})
	viper.SetDefault("Server.BaseURL", "http://localhost:4000")
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "luckydraw")
	viper.SetDefault("MongoDB.InMemory", false)
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("Mail.Port", "587")
	viper.SetDefault("Mail.MockMailer", true)
	viper.SetDefault("Draw.DefaultSpinSeconds", 5)
	viper.SetDefault("LogLevel", "info")
}
