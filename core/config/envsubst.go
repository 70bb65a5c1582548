package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	apperrors "github.com/hyperterse/covidcol/core/shared/errors"
)

// envPlaceholder matches {{ env.VARIABLE_NAME }}.
var envPlaceholder = regexp.MustCompile(`\{\{\s*env\.(\w+)\s*\}\}`)

// SubstituteEnvVars replaces {{ env.NAME }} placeholders with the value of
// the named environment variable. A missing variable is an error.
func SubstituteEnvVars(value string) (string, error) {
	result := value
	seen := make(map[string]bool)

	for _, match := range envPlaceholder.FindAllStringSubmatch(value, -1) {
		placeholder, name := match[0], match[1]
		if seen[placeholder] {
			continue
		}
		seen[placeholder] = true

		envValue, ok := os.LookupEnv(name)
		if !ok {
			return "", fmt.Errorf("environment variable '%s' not found", name)
		}
		result = strings.ReplaceAll(result, placeholder, envValue)
	}
	return result, nil
}

// expandSecrets resolves placeholders in the fields that may carry
// credentials, so they can stay out of the YAML file.
func (c *Config) expandSecrets() error {
	for name, field := range map[string]*string{
		"app_token": &c.AppToken,
		"base_url":  &c.BaseURL,
	} {
		expanded, err := SubstituteEnvVars(*field)
		if err != nil {
			return apperrors.NewAppError(apperrors.ErrCodeInvalidConfig, fmt.Sprintf("config %s", name), err)
		}
		*field = expanded
	}
	return nil
}
