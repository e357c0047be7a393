package swaggerdoc

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func TestInspect_OpenAPI3(t *testing.T) {
	s, err := Inspect(context.Background(), readFixture(t, "petstore-v3.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "Petstore", s.Title)
	assert.Equal(t, "1.0.0", s.Version)
	assert.Equal(t, "OpenAPI 3.0.3", s.SpecVersion)
	assert.Equal(t, []string{"http://petstore.local/v1"}, s.Servers)
	require.Len(t, s.Operations, 3)
	assert.Equal(t, Operation{Method: "GET", Path: "/pets", OperationID: "listPets", Summary: "List all pets"}, s.Operations[0])
	assert.Equal(t, "POST", s.Operations[1].Method)
	assert.Equal(t, "/pets/{petId}", s.Operations[2].Path)
}

func TestInspect_Swagger2(t *testing.T) {
	s, err := Inspect(context.Background(), readFixture(t, "orders-v2.json"))
	require.NoError(t, err)

	assert.Equal(t, "Orders", s.Title)
	assert.Equal(t, "Swagger 2.0", s.SpecVersion)
	require.Len(t, s.Operations, 2)
	assert.Equal(t, "GET", s.Operations[0].Method)
	assert.Equal(t, "DELETE", s.Operations[1].Method)
}

func TestInspect_Errors(t *testing.T) {
	_, err := Inspect(context.Background(), []byte("   "))
	assert.Error(t, err)

	_, err = Inspect(context.Background(), []byte("key: [unterminated"))
	assert.Error(t, err)

	_, err = Inspect(context.Background(), []byte("openapi: 3.0.0\ninfo:\n  title: Empty\n  version: '1'\npaths: {}\n"))
	assert.ErrorIs(t, err, ErrNoOperations)
}

func TestSummaryText(t *testing.T) {
	s := &Summary{
		Title:       "Petstore",
		Version:     "1.0.0",
		SpecVersion: "OpenAPI 3.0.3",
		Operations: []Operation{
			{Method: "GET", Path: "/pets", OperationID: "listPets", Summary: "List all pets"},
			{Method: "POST", Path: "/pets"},
		},
	}
	want := "API: Petstore (1.0.0)\nSpec: OpenAPI 3.0.3\nOperations:\n  GET /pets (listPets) - List all pets\n  POST /pets"
	assert.Equal(t, want, s.Text())
	assert.Contains(t, (&Summary{}).Text(), "Untitled API")
}

func TestInspect_Swagger2YAMLWithNumericResponseCodes(t *testing.T) {
	doc := `swagger: "2.0"
info:
  title: Pets
  version: "1"
paths:
  /pets:
    get:
      responses:
        200:
          description: ok
`
	s, err := Inspect(context.Background(), []byte(doc))
	require.NoError(t, err)
	require.Len(t, s.Operations, 1)
	assert.Equal(t, "/pets", s.Operations[0].Path)
}

func TestJSONCompatible(t *testing.T) {
	in := map[string]any{
		"responses": map[any]any{200: map[string]any{"description": "ok"}},
		"list":      []any{map[any]any{true: "x"}},
	}
	out := jsonCompatible(in).(map[string]any)

	assert.Equal(t, map[string]any{"200": map[string]any{"description": "ok"}}, out["responses"])
	assert.Equal(t, []any{map[string]any{"true": "x"}}, out["list"])
}
