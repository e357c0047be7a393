package webapi

// HealthResponse is the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// generateCodeRequest mirrors the JSON body the client sends.
type generateCodeRequest struct {
	APIDetails string   `json:"apiDetails"`
	TestTypes  []string `json:"testTypes"`
}

// generateCodeResponse mirrors the JSON body the real backend returns.
type generateCodeResponse struct {
	FeatureFile    string `json:"featureFile"`
	APIClass       string `json:"apiClass"`
	Pojos          string `json:"pojos"`
	StepDefinition string `json:"stepDefinition"`
	Error          string `json:"error,omitempty"`
}

type generateFeatureFileRequest struct {
	TestcaseID string `json:"testcaseId"`
}

// resumeSubmission is the decoded resumeReview multipart form.
type resumeSubmission struct {
	Name               string
	RoleApplied        string
	PresentExperience  string
	RelevantExperience string
	FrontEndSkills     []string
	BackEndSkills      []string
	FileName           string
	FileSize           int64
}
