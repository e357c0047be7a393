// Package apiclient is the HTTP client for the QA automation backend. Each
// method issues exactly one request; there are no retries.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 32 << 20

// Config configures a Client.
type Config struct {
	// BaseURL is the scheme and host of the backend, e.g. http://localhost:8080.
	BaseURL string

	// Endpoints overrides the full URL of individual endpoints by name.
	Endpoints map[string]string

	// Timeout bounds each request. Zero means no client-side timeout.
	Timeout time.Duration

	HTTPClient *http.Client
	Logger     *slog.Logger
	UserAgent  string
}

// Client calls the backend API.
type Client struct {
	base      string
	overrides map[string]string
	http      *http.Client
	logger    *slog.Logger
	userAgent string
}

// New validates cfg and returns a Client.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if err := checkURL(base); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	for name, raw := range cfg.Endpoints {
		if err := checkURL(raw); err != nil {
			return nil, fmt.Errorf("invalid URL for endpoint %s: %w", name, err)
		}
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.Timeout > 0 && httpClient.Timeout == 0 {
		clone := *httpClient
		clone.Timeout = cfg.Timeout
		httpClient = &clone
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "qagen"
	}

	return &Client{
		base:      base,
		overrides: cfg.Endpoints,
		http:      httpClient,
		logger:    logger,
		userAgent: ua,
	}, nil
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	return nil
}

// URL returns the resolved URL of an endpoint.
func (c *Client) URL(endpoint string) string {
	if u, ok := c.overrides[endpoint]; ok && u != "" {
		return u
	}
	return c.base + Path(endpoint)
}

// ParseSwagger uploads a Swagger/OpenAPI document and returns the API
// details summary as plain text.
func (c *Client) ParseSwagger(ctx context.Context, file Upload) (string, error) {
	body, contentType, err := encodeMultipart(nil, []filePart{{field: FieldSwaggerFile, upload: file}})
	if err != nil {
		return "", err
	}
	resp, err := c.do(ctx, EndpointParseSwagger, contentType, body)
	if err != nil {
		return "", err
	}
	return string(resp), nil
}

// GenerateCode requests the generated test artifacts for the API details.
func (c *Client) GenerateCode(ctx context.Context, req GenerateCodeRequest) (*GenerateCodeResponse, error) {
	if req.TestTypes == nil {
		req.TestTypes = []string{}
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding generateCode request: %w", err)
	}
	resp, err := c.do(ctx, EndpointGenerateCode, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	var out GenerateCodeResponse
	if err := json.Unmarshal(resp, &out); err != nil {
		return nil, fmt.Errorf("decoding generateCode response: %w", err)
	}
	return &out, nil
}

// GenerateFeatureFile returns the raw (still escaped) Gherkin text for a
// test case.
func (c *Client) GenerateFeatureFile(ctx context.Context, testcaseID string) (string, error) {
	payload, err := json.Marshal(GenerateFeatureFileRequest{TestcaseID: testcaseID})
	if err != nil {
		return "", fmt.Errorf("encoding generateFeatureFile request: %w", err)
	}
	resp, err := c.do(ctx, EndpointGenerateFeatureFile, "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	return string(resp), nil
}

// ReviewResume submits a resume with the candidate details and returns the
// feedback text.
func (c *Client) ReviewResume(ctx context.Context, req ResumeReviewRequest) (string, error) {
	frontEnd, err := jsonArray(req.FrontEndSkills)
	if err != nil {
		return "", err
	}
	backEnd, err := jsonArray(req.BackEndSkills)
	if err != nil {
		return "", err
	}
	fields := []field{
		{FieldName, req.Name},
		{FieldRoleApplied, req.RoleApplied},
		{FieldPresentExperience, req.PresentExperience},
		{FieldRelevantExperience, req.RelevantExperience},
		{FieldFrontEndSkills, frontEnd},
		{FieldBackEndSkills, backEnd},
	}
	body, contentType, err := encodeMultipart(fields, []filePart{{field: FieldResumeFile, upload: req.Resume}})
	if err != nil {
		return "", err
	}
	resp, err := c.do(ctx, EndpointResumeReview, contentType, body)
	if err != nil {
		return "", err
	}
	return string(resp), nil
}

func jsonArray(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encoding skills: %w", err)
	}
	return string(b), nil
}

// do POSTs body to endpoint and returns the response body of a 2xx answer.
// Any other status becomes a *StatusError carrying the body text.
func (c *Client) do(ctx context.Context, endpoint, contentType string, body io.Reader) ([]byte, error) {
	target := c.URL(endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, body)
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", endpoint, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, requestID)

	logger := c.logger.With("endpoint", endpoint, "requestID", requestID)
	logger.Debug("Sending request", "url", target)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Debug("Request failed", "error", err, "elapsed", time.Since(start))
		return nil, fmt.Errorf("calling %s: %w", endpoint, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", endpoint, err)
	}
	logger.Debug("Response received", "status", resp.StatusCode, "bytes", len(data), "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}

type field struct {
	name, value string
}

type filePart struct {
	field  string
	upload Upload
}

// encodeMultipart builds a multipart/form-data body in memory. File parts
// get a content type from their extension.
func encodeMultipart(fields []field, files []filePart) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("writing field %s: %w", f.name, err)
		}
	}
	for _, f := range files {
		if f.upload.Content == nil {
			return nil, "", errors.New("file part " + f.field + " has no content")
		}
		name := filepath.Base(f.upload.Name)
		if name == "." || name == string(filepath.Separator) {
			name = "upload"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
			"name":     f.field,
			"filename": name,
		}))
		ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)

		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("creating part %s: %w", f.field, err)
		}
		if _, err := io.Copy(part, f.upload.Content); err != nil {
			return nil, "", fmt.Errorf("copying %s: %w", name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}
