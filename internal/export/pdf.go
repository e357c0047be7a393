package export

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

// PDF layout defaults, in millimetres and points.
const (
	DefaultPageSize      = "A4"
	DefaultFontSize      = 11.0
	DefaultTableFontSize = 10.0
	DefaultMargin        = 10.0

	tableGap  = 10.0
	cellPad   = 1.5
	fontName  = "Helvetica"
	ptToMM    = 0.3528
	lineSpace = 1.35
)

var (
	headingRe  = regexp.MustCompile(`^\s{0,3}(#{1,6})\s+(.*)$`)
	bulletRe   = regexp.MustCompile(`^(\s*)[-*+]\s+`)
	emphasisRe = regexp.MustCompile("\\*\\*|__|`")
)

// PDFOptions controls page layout.
type PDFOptions struct {
	PageSize      string
	FontSize      float64
	TableFontSize float64
	Margin        float64
	Title         string
	Author        string

	// CreatedAt is stamped into the document metadata; zero means now.
	CreatedAt time.Time
}

func (o PDFOptions) withDefaults() PDFOptions {
	if o.PageSize == "" {
		o.PageSize = DefaultPageSize
	}
	if o.FontSize <= 0 {
		o.FontSize = DefaultFontSize
	}
	if o.TableFontSize <= 0 {
		o.TableFontSize = DefaultTableFontSize
	}
	if o.Margin <= 0 {
		o.Margin = DefaultMargin
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	return o
}

// pdfWriter lays blocks out top to bottom, tracking the vertical cursor
// through fpdf's current position.
type pdfWriter struct {
	pdf  *fpdf.Fpdf
	opts PDFOptions
	tr   func(string) string

	pageW, pageH float64

	header []string
	colW   float64
	cols   int
}

// WritePDF renders blocks into a paginated PDF document.
func WritePDF(w io.Writer, blocks []Block, opts PDFOptions) error {
	pdf, err := layoutPDF(blocks, opts)
	if err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

func layoutPDF(blocks []Block, opts PDFOptions) (*fpdf.Fpdf, error) {
	opts = opts.withDefaults()

	pdf := fpdf.New("P", "mm", opts.PageSize, "")
	pdf.SetMargins(opts.Margin, opts.Margin, opts.Margin)
	pdf.SetAutoPageBreak(true, opts.Margin)
	pdf.SetCreationDate(opts.CreatedAt)
	pdf.SetCreator("qagen", true)
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}
	if opts.Author != "" {
		pdf.SetAuthor(opts.Author, true)
	}
	pdf.AddPage()

	pw := &pdfWriter{
		pdf:  pdf,
		opts: opts,
		tr:   pdf.UnicodeTranslatorFromDescriptor(""),
	}
	pw.pageW, pw.pageH = pdf.GetPageSize()

	for _, b := range blocks {
		switch b.Kind {
		case TextBlock:
			pw.text(b.Text)
		case TableBlock:
			pw.table(b)
		}
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("rendering %s block: %w", b.Kind, err)
		}
	}
	return pdf, nil
}

func (p *pdfWriter) lineHeight(size float64) float64 {
	return size * ptToMM * lineSpace
}

func (p *pdfWriter) text(text string) {
	lh := p.lineHeight(p.opts.FontSize)
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			p.pdf.Ln(lh / 2)
			continue
		}
		if m := headingRe.FindStringSubmatch(line); m != nil {
			size := p.opts.FontSize + float64(7-len(m[1]))
			p.pdf.SetFont(fontName, "B", size)
			p.pdf.MultiCell(0, p.lineHeight(size), p.tr(plain(m[2])), "", "L", false)
			continue
		}
		line = bulletRe.ReplaceAllString(line, "$1• ")
		p.pdf.SetFont(fontName, "", p.opts.FontSize)
		p.pdf.MultiCell(0, lh, p.tr(plain(line)), "", "L", false)
	}
}

func (p *pdfWriter) table(b Block) {
	cols := len(b.Header)
	for _, r := range b.Rows {
		cols = max(cols, len(r))
	}
	if cols == 0 {
		return
	}

	p.header = b.Header
	p.cols = cols
	p.colW = (p.pageW - 2*p.opts.Margin) / float64(cols)
	p.pdf.SetFont(fontName, "", p.opts.TableFontSize)
	p.pdf.SetLineWidth(0.1)
	p.pdf.SetDrawColor(80, 80, 80)

	p.row(b.Header, true)
	for _, r := range b.Rows {
		p.row(r, false)
	}
	p.pdf.SetX(p.opts.Margin)
	p.pdf.Ln(tableGap)
}

// row draws one table row, starting a new page (and repeating the header)
// when the row would cross the bottom margin.
func (p *pdfWriter) row(cells []string, header bool) {
	lh := p.lineHeight(p.opts.TableFontSize)
	textW := p.colW - 2*cellPad - 2

	if header {
		p.pdf.SetFont(fontName, "B", p.opts.TableFontSize)
	} else {
		p.pdf.SetFont(fontName, "", p.opts.TableFontSize)
	}

	wrapped := make([][]string, p.cols)
	lines := 1
	for i := range p.cols {
		cell := ""
		if i < len(cells) {
			cell = p.tr(plain(cells[i]))
		}
		wrapped[i] = p.wrap(cell, textW)
		lines = max(lines, len(wrapped[i]))
	}
	h := float64(lines)*lh + 2*cellPad

	if p.pdf.GetY()+h > p.pageH-p.opts.Margin {
		p.pdf.AddPage()
		if !header {
			p.row(p.header, true)
			p.pdf.SetFont(fontName, "", p.opts.TableFontSize)
		}
	}

	y := p.pdf.GetY()
	x := p.opts.Margin
	style := "D"
	if header {
		style = "FD"
		p.pdf.SetFillColor(41, 128, 185)
		p.pdf.SetTextColor(255, 255, 255)
	}
	for i := range p.cols {
		p.pdf.Rect(x, y, p.colW, h, style)
		for j, l := range wrapped[i] {
			p.pdf.SetXY(x+cellPad, y+cellPad+float64(j)*lh)
			p.pdf.CellFormat(p.colW-2*cellPad, lh, l, "", 0, "L", false, 0, "")
		}
		x += p.colW
	}
	p.pdf.SetTextColor(0, 0, 0)
	p.pdf.SetXY(p.opts.Margin, y+h)
}

// wrap breaks s into lines no wider than width using the current font.
// s is already in the single-byte font encoding, so a word wider than
// width is split between bytes.
func (p *pdfWriter) wrap(s string, width float64) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		cur := ""
		for _, w := range strings.Fields(para) {
			if p.pdf.GetStringWidth(w) > width {
				if cur != "" {
					lines = append(lines, cur)
				}
				pieces := p.breakWord(w, width)
				lines = append(lines, pieces[:len(pieces)-1]...)
				cur = pieces[len(pieces)-1]
				continue
			}
			if cur == "" {
				cur = w
				continue
			}
			next := cur + " " + w
			if p.pdf.GetStringWidth(next) > width {
				lines = append(lines, cur)
				cur = w
				continue
			}
			cur = next
		}
		lines = append(lines, cur)
	}
	return lines
}

// breakWord splits w into pieces no wider than width. Every piece holds at
// least one byte.
func (p *pdfWriter) breakWord(w string, width float64) []string {
	var pieces []string
	start := 0
	for i := 1; i < len(w); i++ {
		if p.pdf.GetStringWidth(w[start:i+1]) > width {
			pieces = append(pieces, w[start:i])
			start = i
		}
	}
	return append(pieces, w[start:])
}

// plain drops inline Markdown emphasis markers that the PDF cannot style.
func plain(s string) string {
	return emphasisRe.ReplaceAllString(s, "")
}
