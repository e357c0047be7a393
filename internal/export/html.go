package export

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)

	policyOnce sync.Once
	policy     *bluemonday.Policy

	pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{ .Title }}</title>
<style>
body { font-family: Arial, sans-serif; max-width: 800px; margin: 0 auto; padding: 20px; }
table { border-collapse: collapse; width: 100%; margin: 12px 0; }
th, td { border: 1px solid #999; padding: 4px 8px; text-align: left; font-size: 10pt; }
th { background: #2980b9; color: #fff; }
</style>
</head>
<body>
{{ .Body }}
</body>
</html>
`))
)

func sanitizer() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()
	})
	return policy
}

// MarkdownToHTML converts GitHub-flavoured Markdown (tables included, single
// newlines kept as line breaks) into sanitized HTML.
func MarkdownToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return string(sanitizer().SanitizeBytes(buf.Bytes())), nil
}

// WriteHTML writes md as a standalone HTML page.
func WriteHTML(w io.Writer, md, title string) error {
	body, err := MarkdownToHTML(md)
	if err != nil {
		return err
	}
	data := struct {
		Title string
		Body  template.HTML
	}{
		Title: title,
		Body:  template.HTML(body), //nolint:gosec // sanitized above
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("writing html: %w", err)
	}
	return nil
}
