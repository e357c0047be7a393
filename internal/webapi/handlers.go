// Package webapi serves a local stand-in for the QA automation backend. It
// answers the four endpoints the CLI calls with deterministic content shaped
// like the real service's responses, escapes included.
package webapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/spboyer/qagen/internal/swaggerdoc"
)

// Version is set at build time or defaults to dev.
var Version = "dev"

// maxUploadBytes bounds multipart bodies.
const maxUploadBytes = 16 << 20

// Handlers holds the HTTP handler methods of the mock backend.
type Handlers struct {
	logger *slog.Logger
}

// NewHandlers creates Handlers that log through logger (slog.Default if nil).
func NewHandlers(logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{logger: logger}
}

// HandleHealth returns a simple health check response.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: Version,
	})
}

// HandleParseSwagger summarizes an uploaded Swagger/OpenAPI document as
// plain text.
func (h *Handlers) HandleParseSwagger(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart request: "+err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close() //nolint:errcheck

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not read uploaded file")
		return
	}
	summary, err := swaggerdoc.Inspect(r.Context(), data)
	if err != nil {
		h.logger.Debug("Rejected swagger upload", "file", header.Filename, "error", err)
		writeError(w, http.StatusUnprocessableEntity, "Invalid Swagger document: "+err.Error())
		return
	}
	writeText(w, http.StatusOK, summary.Text())
}

// HandleGenerateCode returns generated RestAssured artifacts for the API
// details. Missing test types are reported through the error field with a
// 200 status, as the real backend does.
func (h *Handlers) HandleGenerateCode(w http.ResponseWriter, r *http.Request) {
	var req generateCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.APIDetails) == "" {
		writeError(w, http.StatusBadRequest, "apiDetails is required")
		return
	}
	if len(req.TestTypes) == 0 {
		writeJSON(w, http.StatusOK, generateCodeResponse{Error: "Select at least one test type"})
		return
	}

	api := parseDetails(req.APIDetails)
	writeJSON(w, http.StatusOK, generateCodeResponse{
		FeatureFile:    escapeLikeBackend(api.feature(req.TestTypes)),
		APIClass:       escapeLikeBackend(api.apiClass()),
		Pojos:          escapeLikeBackend(api.pojo()),
		StepDefinition: escapeLikeBackend(api.steps()),
	})
}

// HandleGenerateFeatureFile returns Gherkin for a test case, encoded as a
// JSON string literal (quotes, \n and unicode escapes included).
func (h *Handlers) HandleGenerateFeatureFile(w http.ResponseWriter, r *http.Request) {
	var req generateFeatureFileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id := strings.TrimSpace(req.TestcaseID)
	if id == "" {
		writeError(w, http.StatusBadRequest, "testcaseId is required")
		return
	}
	if strings.HasPrefix(strings.ToUpper(id), "MISSING") {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Test case %s not found in Spira", id))
		return
	}

	encoded, err := json.Marshal(featureForTestCase(id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeText(w, http.StatusOK, string(encoded))
}

// HandleResumeReview returns Markdown feedback fenced in triple backticks
// with literal \n escapes.
func (h *Handlers) HandleResumeReview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart request: "+err.Error())
		return
	}

	sub, err := decodeResume(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.logger.Debug("Reviewing resume", "candidate", sub.Name, "file", sub.FileName)
	writeText(w, http.StatusOK, "```"+escapeLikeBackend("\n"+reviewFeedback(sub)+"\n")+"```")
}

func decodeResume(r *http.Request) (*resumeSubmission, error) {
	sub := &resumeSubmission{
		Name:               strings.TrimSpace(r.FormValue("name")),
		RoleApplied:        strings.TrimSpace(r.FormValue("roleApplied")),
		PresentExperience:  strings.TrimSpace(r.FormValue("presentExperience")),
		RelevantExperience: strings.TrimSpace(r.FormValue("relevantExperience")),
	}
	for _, f := range []struct{ name, value string }{
		{"name", sub.Name},
		{"roleApplied", sub.RoleApplied},
		{"presentExperience", sub.PresentExperience},
		{"relevantExperience", sub.RelevantExperience},
	} {
		if f.value == "" {
			return nil, fmt.Errorf("Missing required field: %s", f.name) //nolint:staticcheck // user-facing text
		}
	}

	for _, f := range []struct {
		name string
		dst  *[]string
	}{
		{"frontEndSkills", &sub.FrontEndSkills},
		{"backEndSkills", &sub.BackEndSkills},
	} {
		raw := r.FormValue(f.name)
		if raw == "" {
			continue
		}
		if err := json.Unmarshal([]byte(raw), f.dst); err != nil {
			return nil, fmt.Errorf("%s must be a JSON array of strings", f.name)
		}
	}

	file, header, err := r.FormFile("resumeFile")
	if err != nil {
		return nil, errors.New("resumeFile is required")
	}
	defer file.Close() //nolint:errcheck
	sub.FileName = header.Filename
	sub.FileSize = header.Size
	return sub, nil
}

// RegisterRoutes registers all mock backend routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, logger *slog.Logger) {
	h := NewHandlers(logger)
	mux.HandleFunc("GET /api/health", h.HandleHealth)
	mux.HandleFunc("POST /api/parseSwagger", h.HandleParseSwagger)
	mux.HandleFunc("POST /api/generateCode", h.HandleGenerateCode)
	mux.HandleFunc("POST /api/generateFeatureFile", h.HandleGenerateFeatureFile)
	mux.HandleFunc("POST /api/resumeReview", h.HandleResumeReview)
}

// CORSMiddleware wraps a handler with CORS headers so the browser build of
// the app can call the mock from another origin.
// If allowedOrigins is empty, no CORS header is set (same-origin only).
// Otherwise, the request Origin is checked against the allowed list.
func CORSMiddleware(next http.Handler, allowedOrigins ...string) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if len(allowedOrigins) > 0 && origin != "" && (allowed[origin] || allowed["*"]) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxUploadBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("Invalid JSON body: %v", err) //nolint:staticcheck // user-facing text
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeText(w http.ResponseWriter, status int, s string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, s) //nolint:errcheck
}

// writeError answers with a plain-text body; the client shows it verbatim.
func writeError(w http.ResponseWriter, code int, msg string) {
	writeText(w, code, msg)
}
