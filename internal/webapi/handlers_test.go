package webapi

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMux() *http.ServeMux {
	mux := http.NewServeMux()
	RegisterRoutes(mux, nil)
	return mux
}

func multipartRequest(t *testing.T, path string, fields map[string]string, fileField, fileName string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, path string, v any) *http.Request {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(mux http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	rec := serve(newTestMux(), httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, Version, resp.Version)
}

func TestHandleParseSwagger(t *testing.T) {
	spec, err := os.ReadFile("../swaggerdoc/testdata/petstore-v3.yaml")
	require.NoError(t, err)

	rec := serve(newTestMux(), multipartRequest(t, "/api/parseSwagger", nil, "file", "petstore.yaml", spec))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Body.String(), "API: Petstore (1.0.0)\n"))
	assert.Contains(t, rec.Body.String(), "  GET /pets (listPets) - List all pets")
}

func TestHandleParseSwagger_Errors(t *testing.T) {
	mux := newTestMux()

	t.Run("no file", func(t *testing.T) {
		rec := serve(mux, multipartRequest(t, "/api/parseSwagger", map[string]string{"other": "x"}, "", "", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "No file uploaded", rec.Body.String())
	})

	t.Run("not multipart", func(t *testing.T) {
		rec := serve(mux, jsonRequest(t, "/api/parseSwagger", map[string]string{}))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid document", func(t *testing.T) {
		rec := serve(mux, multipartRequest(t, "/api/parseSwagger", nil, "file", "bad.yaml", []byte("openapi: 3.0.3\ninfo: {title: x, version: '1'}\npaths: {}\n")))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Body.String(), "Invalid Swagger document: "))
	})
}

func TestHandleGenerateCode(t *testing.T) {
	details := "API: Swagger Petstore (1.0.0)\nOperations:\n  GET /pets (listPets) - List all pets\n  POST /pets\n"
	rec := serve(newTestMux(), jsonRequest(t, "/api/generateCode", generateCodeRequest{
		APIDetails: details,
		TestTypes:  []string{"positive", "negative"},
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp generateCodeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Error)

	// String fields carry literal escapes, not real newlines.
	assert.NotContains(t, resp.APIClass, "\n")
	assert.Contains(t, resp.APIClass, `public class SwaggerPetstoreApi {\n`)
	assert.Contains(t, resp.APIClass, `public Response listPets()`)
	assert.Contains(t, resp.APIClass, `public Response postPets()`)
	assert.Contains(t, resp.APIClass, `.get(\"/pets\")`)
	assert.Contains(t, resp.FeatureFile, `Feature: SwaggerPetstore API`)
	assert.Contains(t, resp.FeatureFile, `Scenario: negative POST /pets`)
	assert.Contains(t, resp.Pojos, `public class SwaggerPetstoreModel`)
	assert.Contains(t, resp.StepDefinition, `public class SwaggerPetstoreSteps`)
}

func TestHandleGenerateCode_NoTestTypes(t *testing.T) {
	rec := serve(newTestMux(), jsonRequest(t, "/api/generateCode", generateCodeRequest{APIDetails: "API: X"}))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp generateCodeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Select at least one test type", resp.Error)
	assert.Empty(t, resp.FeatureFile)
}

func TestHandleGenerateCode_BadRequests(t *testing.T) {
	mux := newTestMux()

	rec := serve(mux, jsonRequest(t, "/api/generateCode", generateCodeRequest{TestTypes: []string{"edge"}}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "apiDetails is required", rec.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/api/generateCode", strings.NewReader("{"))
	rec = serve(mux, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Invalid JSON body"))
}

func TestHandleGenerateFeatureFile(t *testing.T) {
	rec := serve(newTestMux(), jsonRequest(t, "/api/generateFeatureFile", generateFeatureFileRequest{TestcaseID: "TC-42"}))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, `"@tc42\n`), body)
	assert.Contains(t, body, "\\u003capplication\\u003e")

	var decoded string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.Contains(t, decoded, "Scenario: Verify test case TC-42\n")
	assert.Contains(t, decoded, `"<application>"`)
}

func TestHandleGenerateFeatureFile_Errors(t *testing.T) {
	mux := newTestMux()

	rec := serve(mux, jsonRequest(t, "/api/generateFeatureFile", generateFeatureFileRequest{TestcaseID: "  "}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "testcaseId is required", rec.Body.String())

	rec = serve(mux, jsonRequest(t, "/api/generateFeatureFile", generateFeatureFileRequest{TestcaseID: "missing-7"}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Test case missing-7 not found in Spira", rec.Body.String())
}

func resumeFields() map[string]string {
	return map[string]string{
		"name":               "Ada Lovelace",
		"roleApplied":        "QA Automation Engineer",
		"presentExperience":  "3-5 years",
		"relevantExperience": "2-5 years relevant experience",
		"frontEndSkills":     `["selenium","playwright"]`,
		"backEndSkills":      `[]`,
	}
}

func TestHandleResumeReview(t *testing.T) {
	rec := serve(newTestMux(), multipartRequest(t, "/api/resumeReview", resumeFields(), "resumeFile", "ada.pdf", []byte("%PDF-1.4 resume")))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "```"))
	assert.True(t, strings.HasSuffix(body, "```"))
	assert.NotContains(t, body, "\n")
	assert.Contains(t, body, `## Resume Review: Ada Lovelace\n`)
	assert.Contains(t, body, `| Front-end automation | selenium, playwright | 5/5 |\n`)
	assert.Contains(t, body, `| Back-end automation | None listed | 1/5 |\n`)
	assert.Contains(t, body, `- Add API automation experience`)
	assert.Contains(t, body, `ada.pdf (15 bytes)`)
}

func TestHandleResumeReview_Validation(t *testing.T) {
	mux := newTestMux()

	tests := []struct {
		name   string
		mutate func(map[string]string)
		noFile bool
		want   string
	}{
		{
			name:   "missing name",
			mutate: func(f map[string]string) { delete(f, "name") },
			want:   "Missing required field: name",
		},
		{
			name:   "blank relevant experience",
			mutate: func(f map[string]string) { f["relevantExperience"] = " " },
			want:   "Missing required field: relevantExperience",
		},
		{
			name:   "skills not an array",
			mutate: func(f map[string]string) { f["backEndSkills"] = "postman" },
			want:   "backEndSkills must be a JSON array of strings",
		},
		{
			name:   "no resume file",
			noFile: true,
			want:   "resumeFile is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := resumeFields()
			if tt.mutate != nil {
				tt.mutate(fields)
			}
			fileField := "resumeFile"
			if tt.noFile {
				fileField = ""
			}
			rec := serve(mux, multipartRequest(t, "/api/resumeReview", fields, fileField, "cv.docx", []byte("x")))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("no origins configured", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/generateCode", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := serve(CORSMiddleware(inner), req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/generateCode", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := serve(CORSMiddleware(inner, "http://localhost:3000"), req)
		assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("disallowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/generateCode", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := serve(CORSMiddleware(inner, "http://localhost:3000"), req)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/resumeReview", nil)
		req.Header.Set("Origin", "http://a.example")
		rec := serve(CORSMiddleware(inner, "*"), req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	})
}
