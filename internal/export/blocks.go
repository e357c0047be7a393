// Package export turns normalized review feedback into documents. Parsing
// into blocks is a pure function; renderers for PDF, HTML and the terminal
// consume the blocks (or the raw Markdown) independently.
package export

import (
	"strings"
)

// BlockKind distinguishes flowed text from tables.
type BlockKind int

const (
	TextBlock BlockKind = iota
	TableBlock
)

func (k BlockKind) String() string {
	switch k {
	case TextBlock:
		return "text"
	case TableBlock:
		return "table"
	default:
		return "unknown"
	}
}

// Block is one section of a document, in source order.
type Block struct {
	Kind BlockKind

	// Text is set for TextBlock.
	Text string

	// Header and Rows are set for TableBlock. Rows is never nil for a table,
	// a header-only table has an empty body.
	Header []string
	Rows   [][]string
}

// Parse splits text into text and table blocks.
//
// A line is a table line when, trimmed, it starts and ends with '|'. Cells
// come from a naive split on every '|' (pipes cannot be escaped), each cell
// is trimmed and empty leading/trailing cells are dropped. A table line with
// any cell containing "---" is a Markdown divider and is skipped. The first
// table line outside a table is the header; following table lines are body
// rows until a non-table line ends the table. Text lines are buffered and
// emitted as one block right before a table starts or at end of input.
//
// Prose that happens to start and end with '|' is read as a table row. That
// is the accepted cost of the heuristic.
func Parse(text string) []Block {
	var (
		blocks  []Block
		textBuf []string
		table   *Block
	)

	flushText := func() {
		if b, ok := textBlock(textBuf); ok {
			blocks = append(blocks, b)
		}
		textBuf = textBuf[:0]
	}
	flushTable := func() {
		if table != nil {
			blocks = append(blocks, *table)
			table = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if !IsTableLine(line) {
			flushTable()
			textBuf = append(textBuf, line)
			continue
		}

		cells := SplitRow(line)
		if IsSeparatorRow(cells) {
			continue
		}

		if table == nil {
			flushText()
			table = &Block{Kind: TableBlock, Header: cells, Rows: [][]string{}}
			continue
		}
		table.Rows = append(table.Rows, cells)
	}

	flushTable()
	flushText()
	return blocks
}

// IsTableLine reports whether line looks like a Markdown table row.
func IsTableLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "|") && strings.HasSuffix(trimmed, "|")
}

// SplitRow splits a table line on every pipe and trims the cells. Empty
// cells at either end are discarded; empty cells in between are kept.
func SplitRow(line string) []string {
	parts := strings.Split(strings.TrimSpace(line), "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}

	start, end := 0, len(cells)
	for start < end && cells[start] == "" {
		start++
	}
	for end > start && cells[end-1] == "" {
		end--
	}
	return cells[start:end]
}

// IsSeparatorRow reports whether any cell contains three or more hyphens.
func IsSeparatorRow(cells []string) bool {
	for _, c := range cells {
		if strings.Contains(c, "---") {
			return true
		}
	}
	return false
}

// textBlock joins buffered lines, dropping blank lines at either end. A
// buffer with nothing but blank lines produces no block.
func textBlock(lines []string) (Block, bool) {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	if start == end {
		return Block{}, false
	}
	return Block{Kind: TextBlock, Text: strings.Join(lines[start:end], "\n")}, true
}
