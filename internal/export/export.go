package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Format is a document export format.
type Format string

const (
	FormatPDF      Format = "pdf"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "md"
)

// Formats lists the supported formats in display order.
var Formats = []Format{FormatPDF, FormatHTML, FormatMarkdown}

// ErrEmptyDocument is returned when there is nothing to export.
var ErrEmptyDocument = errors.New("nothing to export")

// ParseFormat accepts a format name case-insensitively, with "markdown" as
// an alias for "md".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPDF, FormatHTML, FormatMarkdown:
		return f, nil
	case "markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (want pdf, html or md)", s)
	}
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// Options carries the settings shared by every format.
type Options struct {
	Title string
	PDF   PDFOptions
}

// Write renders normalized feedback text in the requested format.
func Write(w io.Writer, f Format, text string, opts Options) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyDocument
	}
	switch f {
	case FormatPDF:
		pdfOpts := opts.PDF
		if pdfOpts.Title == "" {
			pdfOpts.Title = opts.Title
		}
		return WritePDF(w, Parse(text), pdfOpts)
	case FormatHTML:
		return WriteHTML(w, text, opts.Title)
	case FormatMarkdown:
		if _, err := io.WriteString(w, text+"\n"); err != nil {
			return fmt.Errorf("writing markdown: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}
