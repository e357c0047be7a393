package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spboyer/qagen/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCommand_Defaults(t *testing.T) {
	isolate(t)

	stdout, _, err := runQagen(t, "", "config")
	require.NoError(t, err)
	assert.Contains(t, stdout, "# source: defaults\n")
	assert.Contains(t, stdout, "base_url: http://localhost:8080")
	assert.Contains(t, stdout, "timeout: 120")
	assert.Contains(t, stdout, "page_size: A4")
	assert.Contains(t, stdout, "port: 8080")
}

func TestConfigCommand_Precedence(t *testing.T) {
	dir := isolate(t)
	cfgFile := filepath.Join(dir, ".qagen.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(`api:
  base_url: http://file.example:9000
  timeout: 30
output:
  dir: out
`), 0o644))
	t.Setenv("QAGEN_API_TIMEOUT", "45")
	t.Setenv("QAGEN_API_URL", "http://env.example:9001")

	stdout, _, err := runQagen(t, "", "config")
	require.NoError(t, err)
	assert.Regexp(t, `# source: .*\.qagen\.yaml\n`, stdout)
	assert.Contains(t, stdout, "base_url: http://env.example:9001")
	assert.Contains(t, stdout, "timeout: 45")
	assert.Contains(t, stdout, "dir: out")

	stdout, _, err = runQagen(t, "", "config", "--api-url", "http://flag.example:9002")
	require.NoError(t, err)
	assert.Contains(t, stdout, "base_url: http://flag.example:9002")
}

func TestConfigCommand_DiscoversParentConfig(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".qagen.yaml"), []byte("api:\n  timeout: 15\n"), 0o644))
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	stdout, _, err := runQagen(t, "", "config")
	require.NoError(t, err)
	assert.Contains(t, stdout, "timeout: 15")
}

func TestConfigCommand_ExplicitFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "team.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9191\n"), 0o644))

	stdout, _, err := runQagen(t, "", "config", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "# source: "+path)
	assert.Contains(t, stdout, "port: 9191")

	_, _, err = runQagen(t, "", "config", "--config", filepath.Join(dir, "nope.yaml"))
	require.Error(t, err)
}

func TestConfigCommand_RejectsSchemaViolations(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".qagen.yaml"), []byte(`api:
  base_url: ftp://example
export:
  format: docx
unknown: true
`), 0o644))

	_, _, err := runQagen(t, "", "config")
	var schemaErr *validation.Error
	require.ErrorAs(t, err, &schemaErr)
	assert.GreaterOrEqual(t, len(schemaErr.Problems), 3)
	assert.Equal(t, ExitError, exitCode(err))
}

func TestConfigCommand_BadEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("QAGEN_API_TIMEOUT", "soon")

	_, _, err := runQagen(t, "", "config")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "QAGEN_ environment")
}

func TestConfigValidateCommand(t *testing.T) {
	dir := isolate(t)

	_, _, err := runQagen(t, "", "config", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".qagen.yaml"), []byte("export:\n  page_size: Letter\n"), 0o644))
	stdout, _, err := runQagen(t, "", "config", "validate")
	require.NoError(t, err)
	assert.Equal(t, "✅ .qagen.yaml is valid\n", stdout)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("server:\n  port: 70000\n"), 0o644))
	_, _, err = runQagen(t, "", "config", "validate", bad)
	var schemaErr *validation.Error
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, bad, schemaErr.Path)
}
