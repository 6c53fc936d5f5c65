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

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator provides configuration validation.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Required validates that a string field is not empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.errors = append(v.errors, ValidationError{
			Field:   field,
			Message: "is required",
		})
	}
	return v
}

// InRange validates that an integer is within the specified range.
func (v *Validator) InRange(field string, value, min, max int) *Validator {
	if value < min || value > max {
		v.errors = append(v.errors, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be between %d and %d", min, max),
		})
	}
	return v
}

// OneOf validates that a string is one of the allowed values.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	})
	return v
}

// FileExists validates that a file exists at the given path.
func (v *Validator) FileExists(field, path string) *Validator {
	if path == "" {
		return v
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		v.errors = append(v.errors, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("file does not exist: %s", path),
		})
	}
	return v
}

// OCIReference validates that a string is an oci:// reference with a host.
func (v *Validator) OCIReference(field, value string) *Validator {
	if value == "" {
		return v
	}
	u, err := url.Parse(value)
	if err != nil || u.Scheme != "oci" || u.Host == "" {
		v.errors = append(v.errors, ValidationError{
			Field:   field,
			Message: "must be an oci:// reference",
		})
	}
	return v
}

// SemVer validates that a string is a semantic version.
func (v *Validator) SemVer(field, value string) *Validator {
	if _, err := semver.StrictNewVersion(strings.TrimPrefix(value, "v")); err != nil {
		v.errors = append(v.errors, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be a semantic version: %v", err),
		})
	}
	return v
}

// Custom runs a custom validation function.
func (v *Validator) Custom(field string, validate func() error) *Validator {
	if err := validate(); err != nil {
		v.errors = append(v.errors, ValidationError{
			Field:   field,
			Message: err.Error(),
		})
	}
	return v
}

// Errors returns all validation errors.
func (v *Validator) Errors() ValidationErrors {
	return v.errors
}

// Validate returns an error if there are any validation errors, nil otherwise.
func (v *Validator) Validate() error {
	if v.errors.HasErrors() {
		return v.errors
	}
	return nil
}

// BaseConfig adds the checks for a BaseConfig.
func (v *Validator) BaseConfig(cfg BaseConfig) *Validator {
	v.OneOf("logging.level", cfg.Logging.Level, []string{"debug", "info", "warn", "error"})
	v.OneOf("logging.format", cfg.Logging.Format, []string{"json", "console"})

	v.OCIReference("registry.url", cfg.Registry.URL)
	v.InRange("registry.retries", cfg.Registry.Retries, 0, 10)
	v.FileExists("registry.credentialsFile", cfg.Registry.CredentialsFile)
	if cfg.Registry.Username != "" {
		v.Required("registry.password", cfg.Registry.Password)
	}

	return v
}

// ValidateBaseConfig validates a BaseConfig.
func ValidateBaseConfig(cfg BaseConfig) error {
	return NewValidator().BaseConfig(cfg).Validate()
}
