/*
Copyright 2024 Open Defense Cloud Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package config provides configuration loading and validation for spacelet-template.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/creasty/defaults"
)

// EnvPrefix is the prefix of every environment variable read by spacelet-template.
const EnvPrefix = "SPACELET"

// BaseConfig contains the configuration shared by every command.
type BaseConfig struct {
	// Logging configuration.
	Logging LoggingConfig `json:"logging" yaml:"logging"`

	// Registry is the OCI registry charts are pushed to.
	Registry RegistryConfig `json:"registry" yaml:"registry"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the log level (debug, info, warn, error).
	Level string `json:"level" yaml:"level" default:"info"`
	// Format is the log format (json, console).
	Format string `json:"format" yaml:"format" default:"console"`
	// Development enables development mode.
	Development bool `json:"development" yaml:"development"`
}

// RegistryConfig contains OCI registry configuration.
type RegistryConfig struct {
	// URL is the OCI repository charts are pushed below, e.g. oci://registry.example.com/apps.
	URL string `json:"url" yaml:"url"`
	// Username for registry authentication.
	Username string `json:"username" yaml:"username"`
	// Password for registry authentication.
	Password string `json:"password" yaml:"password"`
	// CredentialsFile is a docker style config.json holding registry credentials.
	CredentialsFile string `json:"credentialsFile" yaml:"credentialsFile"`
	// PlainHTTP talks to the registry without TLS.
	PlainHTTP bool `json:"plainHTTP" yaml:"plainHTTP"`
	// Retries is the number of additional push attempts.
	Retries int `json:"retries" yaml:"retries" default:"3"`
}

// DefaultBaseConfig returns a BaseConfig with sensible defaults.
func DefaultBaseConfig() BaseConfig {
	cfg := BaseConfig{}
	defaults.MustSet(&cfg)
	return cfg
}

// EnvLoader loads configuration values from environment variables.
type EnvLoader struct {
	prefix string
}

// NewEnvLoader creates a new EnvLoader with the given prefix.
// Environment variables will be looked up as PREFIX_KEY (e.g., SPACELET_LOG_LEVEL).
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{prefix: strings.ToUpper(prefix)}
}

// GetString returns the string value for the given key, or the default if not set.
func (l *EnvLoader) GetString(key, defaultValue string) string {
	envKey := l.envKey(key)
	if value := os.Getenv(envKey); value != "" {
		return value
	}
	return defaultValue
}

// GetInt returns the int value for the given key, or the default if not set or invalid.
func (l *EnvLoader) GetInt(key string, defaultValue int) int {
	envKey := l.envKey(key)
	if value := os.Getenv(envKey); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// GetBool returns the bool value for the given key, or the default if not set or invalid.
func (l *EnvLoader) GetBool(key string, defaultValue bool) bool {
	envKey := l.envKey(key)
	if value := os.Getenv(envKey); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func (l *EnvLoader) envKey(key string) string {
	key = strings.ToUpper(key)
	key = strings.ReplaceAll(key, ".", "_")
	key = strings.ReplaceAll(key, "-", "_")
	if l.prefix != "" {
		return l.prefix + "_" + key
	}
	return key
}

// ApplyEnv overrides cfg with the values found in the environment.
func (cfg *BaseConfig) ApplyEnv(loader *EnvLoader) {
	cfg.Logging.Level = loader.GetString("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = loader.GetString("LOG_FORMAT", cfg.Logging.Format)
	cfg.Logging.Development = loader.GetBool("LOG_DEVELOPMENT", cfg.Logging.Development)

	cfg.Registry.URL = loader.GetString("REGISTRY_URL", cfg.Registry.URL)
	cfg.Registry.Username = loader.GetString("REGISTRY_USERNAME", cfg.Registry.Username)
	cfg.Registry.Password = loader.GetString("REGISTRY_PASSWORD", cfg.Registry.Password)
	cfg.Registry.CredentialsFile = loader.GetString("REGISTRY_CREDENTIALS_FILE", cfg.Registry.CredentialsFile)
	cfg.Registry.PlainHTTP = loader.GetBool("REGISTRY_PLAIN_HTTP", cfg.Registry.PlainHTTP)
	cfg.Registry.Retries = loader.GetInt("REGISTRY_RETRIES", cfg.Registry.Retries)
}

// LoadBaseConfigFromEnv loads BaseConfig from defaults and environment variables.
func LoadBaseConfigFromEnv(prefix string) BaseConfig {
	cfg := DefaultBaseConfig()
	cfg.ApplyEnv(NewEnvLoader(prefix))
	return cfg
}
