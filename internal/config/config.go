// Copyright 2026 BWI GmbH and Solution Arsenal contributors
// SPDX-License-Identifier: Apache-2.0

// Package config provides the configuration file of the spacelet-template command.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/creasty/defaults"
	"go.yaml.in/yaml/v3"
	"k8s.io/apimachinery/pkg/util/validation"

	pkgconfig "github.com/kubespace/spacelet-template/pkg/config"
)

// Config is the configuration of the spacelet-template command. Values are
// applied in the order defaults, file, environment. Command line flags take
// precedence over all of them.
type Config struct {
	pkgconfig.BaseConfig `yaml:",inline"`

	// App is the application name used for the kubespace.cn/app label.
	App string `yaml:"app"`
	// Chart holds the defaults for rendered charts.
	Chart ChartConfig `yaml:"chart"`
}

// ChartConfig holds the defaults for rendered charts.
type ChartConfig struct {
	// Name defaults to the application name.
	Name string `yaml:"name"`
	// Version is the chart version.
	Version string `yaml:"version" default:"0.1.0"`
	// AppVersion defaults to Version.
	AppVersion string `yaml:"appVersion"`
	// Description is written to Chart.yaml.
	Description string `yaml:"description"`
}

// DefaultConfig returns a configuration holding only default values.
func DefaultConfig() *Config {
	c := &Config{}
	defaults.MustSet(c)
	return c
}

// LoadConfig loads configuration from a file and the environment. An empty
// path skips the file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return fromEnv(DefaultConfig()), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	c, err := ParseConfig(data)
	if err != nil {
		return nil, err
	}
	return fromEnv(c), nil
}

// ParseConfig parses configuration from YAML data on top of the defaults.
func ParseConfig(data []byte) (*Config, error) {
	c := DefaultConfig()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return c, nil
}

func fromEnv(c *Config) *Config {
	loader := pkgconfig.NewEnvLoader(pkgconfig.EnvPrefix)
	c.ApplyEnv(loader)
	c.App = loader.GetString("APP", c.App)
	c.Chart.Version = loader.GetString("CHART_VERSION", c.Chart.Version)
	return c
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	v := pkgconfig.NewValidator().BaseConfig(c.BaseConfig)

	if c.App != "" {
		v.Custom("app", func() error { return dnsLabel(c.App) })
	}
	if c.Chart.Name != "" {
		v.Custom("chart.name", func() error { return dnsLabel(c.Chart.Name) })
	}
	v.SemVer("chart.version", c.Chart.Version)

	return v.Validate()
}

func dnsLabel(value string) error {
	if errs := validation.IsDNS1123Label(value); len(errs) > 0 {
		return errors.New(strings.Join(errs, ", "))
	}
	return nil
}
