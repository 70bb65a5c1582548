package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperterse/covidcol/core/domain"
	apperrors "github.com/hyperterse/covidcol/core/shared/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "covidcol.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "https://www.datos.gov.co/resource/gt2j-8ykr.json", cfg.SourceURL())
	assert.Equal(t, 500, cfg.ConfirmThreshold)
	assert.Equal(t, 10, cfg.FallbackSampleSize)
	assert.Equal(t, 100, cfg.RegionSampleSize)
	assert.Equal(t, 25, cfg.MaxColWidth)
	assert.Len(t, cfg.Columns, 6)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `
dataset: abcd-1234
timeout: 3s
confirm_threshold: 50
columns:
  - attribute: edad
    field: edad
    header: Años
observability:
  enabled: true
  endpoint: collector:4317
`)
	t.Setenv("COVIDCOL_CONFIRM_THRESHOLD", "75")
	t.Setenv("COVIDCOL_OTEL_SERVICE_NAME", "covidcol-test")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "abcd-1234", cfg.Dataset)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, 75, cfg.ConfirmThreshold, "env overrides file")
	assert.Equal(t, "www.datos.gov.co", cfg.Domain, "defaults survive")
	assert.Equal(t, []domain.Column{{Attribute: domain.AttrEdad, Field: "edad", Header: "Años"}}, cfg.Columns)
	assert.True(t, cfg.Observability.Enabled)
	assert.Equal(t, "collector:4317", cfg.Observability.Endpoint)
	assert.Equal(t, "covidcol-test", cfg.Observability.ServiceName)
}

func TestLoad_MissingDefaultFileIsFine(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Dataset, cfg.Dataset)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_ExpandsSecretPlaceholders(t *testing.T) {
	path := writeConfig(t, "app_token: \"{{ env.SODA_TOKEN }}\"\nbase_url: \"https://{{env.SODA_HOST}}\"\n")
	t.Setenv("SODA_TOKEN", "s3cr3t")
	t.Setenv("SODA_HOST", "mirror.example.org")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "s3cr3t", cfg.AppToken)
	assert.Equal(t, "https://mirror.example.org/resource/gt2j-8ykr.json", cfg.SourceURL())
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("COVIDCOL_TEST_A", "uno")

	tests := []struct {
		name    string
		value   string
		want    string
		wantErr bool
	}{
		{name: "no placeholders", value: "plain", want: "plain"},
		{name: "repeated placeholder", value: "{{ env.COVIDCOL_TEST_A }}-{{env.COVIDCOL_TEST_A}}", want: "uno-uno"},
		{name: "missing variable", value: "{{ env.COVIDCOL_TEST_MISSING }}", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SubstituteEnvVars(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
	}{
		{name: "malformed yaml", content: "timeout: [1"},
		{name: "unknown attribute", content: "columns:\n  - attribute: municipio\n    field: a\n    header: b\n"},
		{name: "non-positive threshold", content: "confirm_threshold: 0\n"},
		{name: "empty columns", content: "columns: []\n"},
		{name: "bad env value", content: "{}", env: map[string]string{"COVIDCOL_TIMEOUT": "soon"}},
		{name: "sampling out of range", content: "observability:\n  sampling_ratio: 2\n"},
		{name: "unset placeholder", content: "app_token: \"{{ env.COVIDCOL_TEST_UNSET }}\"\n"},
		{name: "column without attribute", content: "columns:\n  - field: ciudad\n    header: Ciudad\n  - field: edad\n    header: Edad\n"},
		{name: "duplicate attribute", content: "columns:\n  - attribute: edad\n    field: edad\n    header: Edad\n  - attribute: edad\n    field: sexo\n    header: Sexo\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.True(t, apperrors.IsValidationError(err), "got %v", err)
		})
	}
}
