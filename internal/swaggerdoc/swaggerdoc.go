// Package swaggerdoc inspects Swagger 2.0 and OpenAPI 3.x documents locally
// so a spec can be checked before it is uploaded.
package swaggerdoc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// ErrNoOperations is returned for documents without any path operations.
var ErrNoOperations = errors.New("document does not define any operations")

// Operation is one method on one path.
type Operation struct {
	Method      string
	Path        string
	OperationID string
	Summary     string
}

// Summary describes a parsed document.
type Summary struct {
	Title       string
	Version     string
	SpecVersion string
	Servers     []string
	Operations  []Operation
}

var methodOrder = map[string]int{
	http.MethodGet:     0,
	http.MethodPost:    1,
	http.MethodPut:     2,
	http.MethodPatch:   3,
	http.MethodDelete:  4,
	http.MethodHead:    5,
	http.MethodOptions: 6,
	http.MethodTrace:   7,
}

// Inspect parses data (JSON or YAML) and summarizes it. Swagger 2.0
// documents are converted to OpenAPI 3 first. The converted document is
// validated, with example validation disabled.
func Inspect(ctx context.Context, data []byte) (*Summary, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("document is empty")
	}

	var probe map[string]any
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	loader := &openapi3.Loader{Context: ctx}
	var (
		doc         *openapi3.T
		specVersion string
	)

	if v, ok := probe["swagger"]; ok {
		specVersion = "Swagger " + fmt.Sprint(v)
		raw, err := json.Marshal(jsonCompatible(probe))
		if err != nil {
			return nil, fmt.Errorf("converting swagger document: %w", err)
		}
		var v2 openapi2.T
		if err := json.Unmarshal(raw, &v2); err != nil {
			return nil, fmt.Errorf("loading swagger document: %w", err)
		}
		doc, err = openapi2conv.ToV3(&v2)
		if err != nil {
			return nil, fmt.Errorf("converting swagger document: %w", err)
		}
	} else {
		var err error
		doc, err = loader.LoadFromData(data)
		if err != nil {
			return nil, fmt.Errorf("loading openapi document: %w", err)
		}
		specVersion = "OpenAPI " + doc.OpenAPI
	}

	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("validating document: %w", err)
	}

	s := &Summary{SpecVersion: specVersion}
	if doc.Info != nil {
		s.Title = doc.Info.Title
		s.Version = doc.Info.Version
	}
	for _, srv := range doc.Servers {
		if srv != nil && srv.URL != "" {
			s.Servers = append(s.Servers, srv.URL)
		}
	}
	if doc.Paths != nil {
		for path, item := range doc.Paths.Map() {
			if item == nil {
				continue
			}
			for method, op := range item.Operations() {
				s.Operations = append(s.Operations, Operation{
					Method:      strings.ToUpper(method),
					Path:        path,
					OperationID: op.OperationID,
					Summary:     op.Summary,
				})
			}
		}
	}
	if len(s.Operations) == 0 {
		return nil, ErrNoOperations
	}

	sort.Slice(s.Operations, func(i, j int) bool {
		a, b := s.Operations[i], s.Operations[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return methodOrder[a.Method] < methodOrder[b.Method]
	})
	return s, nil
}

// Text renders the summary as the plain-text API details block used as
// generation input.
func (s *Summary) Text() string {
	var sb strings.Builder
	title := s.Title
	if title == "" {
		title = "Untitled API"
	}
	fmt.Fprintf(&sb, "API: %s", title)
	if s.Version != "" {
		fmt.Fprintf(&sb, " (%s)", s.Version)
	}
	sb.WriteString("\n")
	if s.SpecVersion != "" {
		fmt.Fprintf(&sb, "Spec: %s\n", s.SpecVersion)
	}
	if len(s.Servers) > 0 {
		fmt.Fprintf(&sb, "Servers: %s\n", strings.Join(s.Servers, ", "))
	}
	sb.WriteString("Operations:\n")
	for _, op := range s.Operations {
		fmt.Fprintf(&sb, "  %s %s", op.Method, op.Path)
		if op.OperationID != "" {
			fmt.Fprintf(&sb, " (%s)", op.OperationID)
		}
		if op.Summary != "" {
			fmt.Fprintf(&sb, " - %s", op.Summary)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// jsonCompatible rewrites YAML-decoded values so encoding/json accepts
// them: mappings with non-string keys (response codes) get string keys.
func jsonCompatible(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, v2 := range val {
			out[k] = jsonCompatible(v2)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, v2 := range val {
			out[fmt.Sprint(k)] = jsonCompatible(v2)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, v2 := range val {
			out[i] = jsonCompatible(v2)
		}
		return out
	default:
		return val
	}
}
