package validation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const validConfigYAML = `api:
  base_url: http://localhost:8080
  timeout: 60
  endpoints:
    resumeReview: http://98.70.54.50:8080/api/resumeReview
output:
  dir: generated
  overwrite: false
export:
  format: pdf
  page_size: A4
  font_size: 11
  table_font_size: 10
server:
  port: 8080
  allowed_origins: ["http://localhost:3000"]
`

const invalidConfigYAML = `api:
  base_url: localhost:8080
  timeout: 0
  endpoints:
    summarize: http://localhost/api/summarize
export:
  format: docx
server:
  port: 70000
extra: true
`

func TestValidateConfigBytes_Valid(t *testing.T) {
	errs := ValidateConfigBytes([]byte(validConfigYAML))
	require.Empty(t, errs, "valid config should have no errors")
}

func TestValidateConfigBytes_Empty(t *testing.T) {
	require.Empty(t, ValidateConfigBytes([]byte("  \n")))
}

func TestValidateConfigBytes_Invalid(t *testing.T) {
	errs := ValidateConfigBytes([]byte(invalidConfigYAML))
	require.NotEmpty(t, errs, "invalid config should have errors")

	joined := strings.Join(errs, "\n")
	require.Contains(t, joined, "/api/base_url")
	require.Contains(t, joined, "/api/timeout")
	require.Contains(t, joined, "summarize")
	require.Contains(t, joined, "/export/format")
	require.Contains(t, joined, "/server/port")
	require.Contains(t, joined, "extra")
}

func TestValidateConfigBytes_BadYAML(t *testing.T) {
	errs := ValidateConfigBytes([]byte("api: [unclosed"))
	require.Len(t, errs, 1)
	require.Contains(t, errs[0], "YAML parse error")
}

func TestValidateConfigFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte(validConfigYAML), 0644))
	require.NoError(t, ValidateConfigFile(good))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte(invalidConfigYAML), 0644))
	err := ValidateConfigFile(bad)
	require.Error(t, err)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	require.Equal(t, bad, verr.Path)
	require.NotEmpty(t, verr.Problems)
	require.Contains(t, err.Error(), "bad.yaml is invalid:")
}

func TestValidateConfigFile_NotFound(t *testing.T) {
	err := ValidateConfigFile("/nonexistent/.qagen.yaml")
	require.Error(t, err)
}
