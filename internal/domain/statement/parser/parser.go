// Package parser contains the per-bank statement parsers. Each parser
// implements statement.BankParser: it consumes extractor output for one file
// and emits whatever transactions it could recover, skipping malformed rows
// instead of aborting. The parsers deliberately disagree on amount polarity —
// each preserves the convention of its source format (see RawTransaction).
package parser

import (
	"regexp"

	"github.com/nmalhotra/statement-core/internal/domain/statement/pdftext"
)

// rowSource and textSource let tests feed synthetic extractor output
// without a real PDF on disk.
type rowSource func(path string) ([][]string, error)

type textSource func(path string) (string, error)

func defaultRows(path string) ([][]string, error) { return pdftext.ExtractRows(path) }

func defaultText(path string) (string, error) { return pdftext.Extract(path) }

// dayMonthRe anchors a "DD MMM" transaction date at the start of a line.
var dayMonthRe = regexp.MustCompile(`^(\d{1,2})\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\b`)

// statementYearRe finds a four-digit year in header text, used to anchor
// year-less "DD MMM" dates.
var statementYearRe = regexp.MustCompile(`\b(20\d{2})\b`)

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
