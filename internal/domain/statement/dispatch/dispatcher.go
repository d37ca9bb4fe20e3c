// Package dispatch routes statement files to the right extraction path.
// The file extension picks the decoder (CSV, XLSX or PDF); for PDFs the
// statement type detectors pick the bank parser, with the generic positional
// parser as the last resort.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/nmalhotra/statement-core/internal/domain/statement"
	"github.com/nmalhotra/statement-core/internal/domain/statement/detect"
	"github.com/nmalhotra/statement-core/internal/domain/statement/parser"
)

// Options carries caller overrides for one extraction run.
type Options struct {
	// AccountName labels extracted transactions, e.g. "HDFC Salary".
	AccountName string

	// Logger receives per-run progress records. Nil means slog.Default.
	Logger *slog.Logger
}

// Dispatcher owns the parser registry and runs extractions.
type Dispatcher struct {
	detectors []detect.Detector
	logger    *slog.Logger
}

// New builds a dispatcher with the standard detector registry.
func New(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		detectors: detect.Registry(),
		logger:    logger,
	}
}

// ExtractTransactionsFromFile parses one statement file end to end and
// returns the extraction result with provenance tags applied.
func (d *Dispatcher) ExtractTransactionsFromFile(ctx context.Context, path string, opts Options) (*statement.ParseResult, error) {
	logger := d.logger
	if opts.Logger != nil {
		logger = opts.Logger
	}
	logger = logger.With("session_id", uuid.NewString(), "file", filepath.Base(path))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		result     *statement.ParseResult
		bank       string
		accType    string
		confidence statement.Confidence
		err        error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var cardLayout bool
		result, cardLayout, err = parseCSV(data)
		if cardLayout {
			bank, accType, confidence = statement.BankHDFC, statement.AccountTypeCreditCard, statement.ConfidenceHigh
		} else {
			bank, accType, confidence = statement.BankGeneric, statement.AccountTypeSavings, statement.ConfidenceHigh
		}

	case ".xlsx", ".xls":
		var f *os.File
		f, err = os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		result, err = parseXLSX(f)
		bank, accType, confidence = statement.BankGeneric, statement.AccountTypeSavings, statement.ConfidenceHigh

	case ".pdf":
		return d.extractPDF(ctx, path, opts, logger)

	default:
		return nil, fmt.Errorf("unsupported file type %q", ext)
	}

	if err != nil {
		return nil, err
	}

	statement.Tag(result.Transactions, bank, accType, opts.AccountName, confidence)
	logger.Info("extraction complete",
		"parser", "tabular",
		"parsed", result.ParsedRows,
		"skipped", result.SkippedRows,
		"errors", len(result.Errors))
	return result, nil
}

// extractPDF runs the detector registry in priority order and hands the file
// to the first matching bank parser. No match falls through to the generic
// parser, whose output is tagged low confidence.
func (d *Dispatcher) extractPDF(ctx context.Context, path string, opts Options, logger *slog.Logger) (*statement.ParseResult, error) {
	for _, det := range d.detectors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !det.Detect(path) {
			continue
		}

		p := d.parserFor(det)
		logger.Info("statement type detected", "bank", det.Bank, "account_type", det.AccountType, "parser", p.Name())

		result, err := p.Parse(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.Name(), err)
		}
		statement.Tag(result.Transactions, det.Bank, det.AccountType, opts.AccountName, statement.ConfidenceHigh)
		logger.Info("extraction complete",
			"parser", p.Name(),
			"parsed", result.ParsedRows,
			"skipped", result.SkippedRows,
			"errors", len(result.Errors))
		return result, nil
	}

	logger.Info("no statement type matched, using generic parser")
	generic := parser.NewGeneric()
	result, err := generic.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", generic.Name(), err)
	}
	statement.Tag(result.Transactions, statement.BankGeneric, statement.AccountTypeSavings, opts.AccountName, statement.ConfidenceLow)
	logger.Info("extraction complete",
		"parser", generic.Name(),
		"parsed", result.ParsedRows,
		"skipped", result.SkippedRows,
		"errors", len(result.Errors))
	return result, nil
}

// parserFor maps a matched detector to its bank parser. Federal statements
// ship in several layouts, so that route chains the table, regex and
// positional parsers and keeps the first non-empty result.
func (d *Dispatcher) parserFor(det detect.Detector) statement.BankParser {
	switch {
	case det.Bank == statement.BankHDFC && det.AccountType == statement.AccountTypeCreditCard:
		return parser.NewHDFCCreditCard()
	case det.Bank == statement.BankHDFC && det.AccountType == statement.AccountTypeSavings:
		return parser.NewHDFCSavings()
	case det.Bank == statement.BankFederal:
		return &chain{name: "federal_bank", parsers: []statement.BankParser{
			parser.NewFederalTable(),
			parser.NewFederalRegex(),
			parser.NewStructural(),
		}}
	default:
		return parser.NewGeneric()
	}
}

// chain runs parsers in order and returns the first result that yielded
// any transactions. It errors only when every member errors.
type chain struct {
	name    string
	parsers []statement.BankParser
}

func (c *chain) Name() string { return c.name }

func (c *chain) Parse(path string) (*statement.ParseResult, error) {
	var lastErr error
	var lastResult *statement.ParseResult
	for _, p := range c.parsers {
		result, err := p.Parse(path)
		if err != nil {
			lastErr = err
			continue
		}
		if len(result.Transactions) > 0 {
			return result, nil
		}
		lastResult = result
	}
	if lastResult != nil {
		return lastResult, nil
	}
	return nil, lastErr
}
