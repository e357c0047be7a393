package controller

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spboyer/qagen/internal/apiclient"
	"github.com/spboyer/qagen/internal/filename"
	"github.com/spboyer/qagen/internal/skills"
	"github.com/spboyer/qagen/internal/submission"
	"github.com/spboyer/qagen/internal/swaggerdoc"
	"github.com/spboyer/qagen/internal/textnorm"
)

// Swagger page messages.
const (
	MsgSwaggerRequired    = "Please provide a Swagger file or URL"
	MsgSwaggerURLOnly     = "URL parsing not implemented; please upload a file."
	MsgNoAPIDetails       = "No API details found. Parse the Swagger first."
	prefixParseFailed     = "Parse failed: "
	prefixParseError      = "Error parsing swagger: "
	prefixGenerateFailed  = "Generate Tests failed: "
	prefixGenerateError   = "Error generating tests: "
	prefixGenerateRemote  = "Error: "
	msgInvalidSwaggerFile = "Invalid Swagger document: "
)

// SwaggerSource is where the Swagger document comes from. File wins over
// URL.
type SwaggerSource struct {
	File string
	URL  string
}

// Artifact kinds returned by code generation.
const (
	KindFeatureFile    = "feature-file"
	KindAPIClass       = "api-class"
	KindPojos          = "pojos"
	KindStepDefinition = "step-definition"
)

// Artifact is one generated file.
type Artifact struct {
	Kind    string
	Title   string
	Name    string
	Content string
}

// Artifacts holds the cleaned output of code generation.
type Artifacts struct {
	FeatureFile    string
	APIClass       string
	Pojos          string
	StepDefinition string
}

// List returns the non-empty artifacts in display order, each named after
// its content. Colliding names get a numeric suffix, so two Java files
// without a public class become GeneratedFile.java and GeneratedFile_2.java.
func (a *Artifacts) List() []Artifact {
	if a == nil {
		return nil
	}
	all := []Artifact{
		{Kind: KindFeatureFile, Title: "Feature File", Name: filename.FeatureFile(a.FeatureFile), Content: a.FeatureFile},
		{Kind: KindAPIClass, Title: "API Class", Name: filename.JavaFile(a.APIClass), Content: a.APIClass},
		{Kind: KindPojos, Title: "POJOs", Name: filename.JavaFile(a.Pojos), Content: a.Pojos},
		{Kind: KindStepDefinition, Title: "Step Definition", Name: filename.JavaFile(a.StepDefinition), Content: a.StepDefinition},
	}

	list := make([]Artifact, 0, len(all))
	used := make(map[string]int, len(all))
	for _, art := range all {
		if strings.TrimSpace(art.Content) == "" {
			continue
		}
		art.Name = uniqueName(art.Name, used)
		list = append(list, art)
	}
	return list
}

func uniqueName(name string, used map[string]int) string {
	used[name]++
	n := used[name]
	if n == 1 {
		return name
	}
	ext := filepath.Ext(name)
	for {
		candidate := fmt.Sprintf("%s_%d%s", strings.TrimSuffix(name, ext), n, ext)
		if used[candidate] == 0 {
			used[candidate] = 1
			return candidate
		}
		n++
	}
}

// Get returns the artifact of the given kind.
func (a *Artifacts) Get(kind string) (Artifact, bool) {
	for _, art := range a.List() {
		if art.Kind == kind {
			return art, true
		}
	}
	return Artifact{}, false
}

// SwaggerController is the Swagger to RestAssured page. Parse and Generate
// share one busy gate.
type SwaggerController struct {
	base

	// Inspect enables a local kin-openapi check of the document before
	// it is uploaded.
	Inspect bool

	sub submission.Submission[*Artifacts]

	mu      sync.Mutex
	details string
}

// NewSwaggerController creates the Swagger page controller.
func NewSwaggerController(backend Backend, opts Options) *SwaggerController {
	c := &SwaggerController{base: newBase(backend, opts)}
	c.sub.OnTransition = c.onTransition
	return c
}

// APIDetails returns the parsed (or edited) API details.
func (c *SwaggerController) APIDetails() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.details
}

// SetAPIDetails replaces the API details, as editing the text area does.
func (c *SwaggerController) SetAPIDetails(details string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.details = details
}

// Snapshot returns the state of the last submission.
func (c *SwaggerController) Snapshot() submission.Snapshot[*Artifacts] {
	return c.sub.Snapshot()
}

// Busy reports whether a request is in flight.
func (c *SwaggerController) Busy() bool {
	return c.sub.Busy()
}

// Parse uploads the Swagger document and stores the returned API details.
func (c *SwaggerController) Parse(ctx context.Context, src SwaggerSource) (string, error) {
	if c.sub.Busy() {
		return "", submission.ErrBusy
	}
	if src.File == "" && strings.TrimSpace(src.URL) == "" {
		return "", c.invalid(MsgSwaggerRequired)
	}
	if src.File == "" {
		return "", c.invalid(MsgSwaggerURLOnly)
	}

	data, err := os.ReadFile(src.File)
	if err != nil {
		return "", c.invalid(fmt.Sprintf("Could not read %s: %v", src.File, err))
	}
	if c.Inspect {
		if _, err := swaggerdoc.Inspect(ctx, data); err != nil {
			return "", c.invalid(msgInvalidSwaggerFile + err.Error())
		}
	}

	var details string
	_, err = c.sub.Run(ctx, func(ctx context.Context) (*Artifacts, string, error) {
		prev := c.sub.Snapshot().Result
		out, err := c.backend.ParseSwagger(ctx, apiclient.Upload{
			Name:    filepath.Base(src.File),
			Content: bytes.NewReader(data),
		})
		if err != nil {
			msg, err := c.settle(c.failed(err, prefixParseFailed, prefixParseError))
			return prev, msg, err
		}
		details = out
		c.SetAPIDetails(out)
		c.logger.Debug("Parsed swagger", "file", src.File, "bytes", len(out))
		return prev, "", nil
	})
	if err != nil {
		c.report(err)
		return "", err
	}
	return details, nil
}

// Generate requests test artifacts for the current API details.
func (c *SwaggerController) Generate(ctx context.Context, testTypes *skills.Set[skills.TestType]) (*Artifacts, error) {
	if c.sub.Busy() {
		return nil, submission.ErrBusy
	}
	details := c.APIDetails()
	if strings.TrimSpace(details) == "" {
		return nil, c.invalid(MsgNoAPIDetails)
	}
	var types []string
	if testTypes != nil {
		types = testTypes.Strings()
	}

	arts, err := c.sub.Run(ctx, func(ctx context.Context) (*Artifacts, string, error) {
		resp, err := c.backend.GenerateCode(ctx, apiclient.GenerateCodeRequest{
			APIDetails: details,
			TestTypes:  types,
		})
		if err != nil {
			msg, err := c.settle(c.failed(err, prefixGenerateFailed, prefixGenerateError))
			return nil, msg, err
		}
		if resp.Error != "" {
			msg, err := c.settle(&Failure{
				Message: prefixGenerateRemote + resp.Error,
				Err:     &RemoteError{Endpoint: apiclient.EndpointGenerateCode, Message: resp.Error},
			})
			return nil, msg, err
		}
		return &Artifacts{
			FeatureFile:    textnorm.CleanCode(resp.FeatureFile),
			APIClass:       textnorm.CleanCode(resp.APIClass),
			Pojos:          textnorm.CleanCode(resp.Pojos),
			StepDefinition: textnorm.CleanCode(resp.StepDefinition),
		}, "", nil
	})
	c.report(err)
	return arts, err
}
