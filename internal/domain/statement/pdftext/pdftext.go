// Package pdftext is the I/O adapter between PDF files and the bank parsers.
// It yields raw text per page or positioned table rows; no business logic
// lives here.
package pdftext

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// maxTextBytes caps extracted text so a pathological PDF cannot balloon the
// LLM chunking path.
const maxTextBytes = 2 * 1024 * 1024

// Extract returns the whole document as plain text.
func Extract(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract text from %s: %w", path, err)
	}
	b, err := io.ReadAll(io.LimitReader(plain, maxTextBytes))
	if err != nil {
		return "", fmt.Errorf("read text from %s: %w", path, err)
	}
	return string(b), nil
}

// ExtractPages returns the text of each page separately, preserving reading
// order within a page by row grouping.
func ExtractPages(path string) ([]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		rows := groupRows(page.Content().Text)
		var sb strings.Builder
		for _, row := range rows {
			sb.WriteString(strings.Join(row, " "))
			sb.WriteByte('\n')
		}
		pages = append(pages, sb.String())
	}
	return pages, nil
}

// ExtractFirstPages returns the concatenated text of up to n leading pages.
// Detectors use this so a 60-page statement is not fully decoded just to
// read its letterhead.
func ExtractFirstPages(path string, n int) (string, error) {
	pages, err := ExtractPages(path)
	if err != nil {
		return "", err
	}
	if n > len(pages) {
		n = len(pages)
	}
	return strings.Join(pages[:n], "\n"), nil
}

// ExtractRows returns the document as table rows: fragments sharing a
// baseline become one row, and horizontal gaps split a row into cells.
func ExtractRows(path string) ([][]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	var rows [][]string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows = append(rows, groupRows(page.Content().Text)...)
	}
	return rows, nil
}

// Baseline and cell-gap tolerances in PDF points. Statement tables are
// rendered at 8-11pt, where fragments of one visual row sit within ~2pt
// of each other and column gutters exceed ~6pt.
const (
	rowTolerance = 2.0
	cellGap      = 6.0
)

// groupRows clusters positioned text fragments into rows of cells.
// Fragments arrive in arbitrary order; rows are emitted top to bottom,
// cells left to right.
func groupRows(texts []pdf.Text) [][]string {
	if len(texts) == 0 {
		return nil
	}

	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	// PDF origin is bottom-left, so larger Y means higher on the page.
	sort.SliceStable(sorted, func(i, j int) bool {
		if diff := sorted[i].Y - sorted[j].Y; diff > rowTolerance || diff < -rowTolerance {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var rows [][]string
	var cells []string
	var cell strings.Builder
	lastY := sorted[0].Y
	lastEnd := sorted[0].X

	flushCell := func() {
		if s := strings.TrimSpace(cell.String()); s != "" {
			cells = append(cells, s)
		}
		cell.Reset()
	}
	flushRow := func() {
		flushCell()
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
		cells = nil
	}

	for i, t := range sorted {
		if i > 0 {
			if lastY-t.Y > rowTolerance {
				flushRow()
			} else if t.X-lastEnd > cellGap {
				flushCell()
			}
		}
		cell.WriteString(t.S)
		lastY = t.Y
		lastEnd = t.X + t.W
	}
	flushRow()

	return rows
}
