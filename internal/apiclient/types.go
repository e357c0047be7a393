package apiclient

import (
	"fmt"
	"io"
	"net/http"
)

// Endpoint names, used for logging and per-endpoint URL overrides.
const (
	EndpointParseSwagger        = "parseSwagger"
	EndpointGenerateCode        = "generateCode"
	EndpointGenerateFeatureFile = "generateFeatureFile"
	EndpointResumeReview        = "resumeReview"
)

// Endpoints lists every endpoint the client calls.
var Endpoints = []string{
	EndpointParseSwagger,
	EndpointGenerateCode,
	EndpointGenerateFeatureFile,
	EndpointResumeReview,
}

// Path returns the URL path of an endpoint relative to the base URL.
func Path(endpoint string) string {
	return "/api/" + endpoint
}

// Multipart field names.
const (
	FieldSwaggerFile        = "file"
	FieldName               = "name"
	FieldRoleApplied        = "roleApplied"
	FieldPresentExperience  = "presentExperience"
	FieldRelevantExperience = "relevantExperience"
	FieldFrontEndSkills     = "frontEndSkills"
	FieldBackEndSkills      = "backEndSkills"
	FieldResumeFile         = "resumeFile"
)

// RequestIDHeader carries a per-request identifier for log correlation.
const RequestIDHeader = "X-Request-ID"

// Upload is a named file to send as a multipart part.
type Upload struct {
	Name    string
	Content io.Reader
}

// GenerateCodeRequest is the JSON body of generateCode.
type GenerateCodeRequest struct {
	APIDetails string   `json:"apiDetails"`
	TestTypes  []string `json:"testTypes"`
}

// GenerateCodeResponse is the JSON body returned by generateCode. Error is
// set by the backend when generation failed despite a success status.
type GenerateCodeResponse struct {
	FeatureFile    string `json:"featureFile"`
	APIClass       string `json:"apiClass"`
	Pojos          string `json:"pojos"`
	StepDefinition string `json:"stepDefinition"`
	Error          string `json:"error,omitempty"`
}

// GenerateFeatureFileRequest is the JSON body of generateFeatureFile.
type GenerateFeatureFileRequest struct {
	TestcaseID string `json:"testcaseId"`
}

// ResumeReviewRequest holds the multipart fields of resumeReview. Skills are
// sent as JSON-encoded arrays of names.
type ResumeReviewRequest struct {
	Name               string
	RoleApplied        string
	PresentExperience  string
	RelevantExperience string
	FrontEndSkills     []string
	BackEndSkills      []string
	Resume             Upload
}

// StatusError is returned when the backend answers with a non-2xx status.
// Its message is the response body verbatim.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return e.Body
	}
	return fmt.Sprintf("%s returned %d %s", e.Endpoint, e.StatusCode, http.StatusText(e.StatusCode))
}
