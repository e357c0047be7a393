package main

import (
	"bytes"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spboyer/qagen/internal/webserver"
	"github.com/stretchr/testify/require"
)

// isolate runs the test from an empty directory with no QAGEN_* overrides
// and returns that directory.
func isolate(t *testing.T) string {
	t.Helper()
	for _, name := range []string{
		"QAGEN_API_URL", "QAGEN_API_TIMEOUT", "QAGEN_OUTPUT_DIR", "QAGEN_OUTPUT_OVERWRITE",
		"QAGEN_EXPORT_FORMAT", "QAGEN_EXPORT_PAGE_SIZE", "QAGEN_SERVER_HOST", "QAGEN_SERVER_PORT",
	} {
		t.Setenv(name, "")
	}
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

// startMockBackend serves the mock API and returns its base URL.
func startMockBackend(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(webserver.New(webserver.Config{}).Handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

// runQagen executes the root command with args and the given stdin.
func runQagen(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

// petstorePath resolves the shared OpenAPI fixture before the test changes
// directory.
func petstorePath(t *testing.T) string {
	t.Helper()
	p, err := filepath.Abs(filepath.Join("..", "..", "internal", "swaggerdoc", "testdata", "petstore-v3.yaml"))
	require.NoError(t, err)
	return p
}
