// Command extract parses a bank statement file and prints the categorized
// transactions.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/nmalhotra/statement-core/internal/domain/categorization"
	"github.com/nmalhotra/statement-core/internal/domain/llm"
	"github.com/nmalhotra/statement-core/internal/domain/statement"
	"github.com/nmalhotra/statement-core/internal/domain/statement/dispatch"
	"github.com/nmalhotra/statement-core/internal/domain/statement/pdftext"
	"github.com/nmalhotra/statement-core/pkg/config"
	"github.com/nmalhotra/statement-core/pkg/money"
)

func main() {
	var (
		filePath    = flag.String("file", "", "statement file to parse (.pdf, .csv, .xlsx)")
		accountName = flag.String("account", "", "account label for extracted transactions")
		bankName    = flag.String("bank", "Unknown", "bank name hint for model-assisted extraction")
		useModel    = flag.Bool("llm", false, "use the model-assisted parser instead of deterministic parsing")
		verbose     = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "usage: extract -file <statement> [-account <name>] [-llm -bank <name>]")
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(*filePath, *accountName, *bankName, *useModel, logger); err != nil {
		logger.Error("extraction failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(path, accountName, bankName string, useModel bool, logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx := context.Background()

	var (
		txs    []statement.RawTransaction
		errors []statement.RowError
	)
	if useModel {
		txs, err = extractWithModel(ctx, cfg, path, bankName, accountName, logger)
	} else {
		var result *statement.ParseResult
		result, err = dispatch.New(logger).ExtractTransactionsFromFile(ctx, path, dispatch.Options{
			AccountName: accountName,
		})
		if result != nil {
			txs, errors = result.Transactions, result.Errors
		}
	}
	if err != nil {
		return err
	}

	categorizer := categorization.NewService(categorization.DefaultTaxonomy(), categorization.NewMemoryHistory(), logger)
	printTransactions(categorizer.CategorizeAll(txs))

	if len(errors) > 0 {
		fmt.Fprintf(os.Stderr, "\n%d rows skipped:\n", len(errors))
		for _, rowErr := range errors {
			fmt.Fprintf(os.Stderr, "  line %d (%s): %s\n", rowErr.Line, rowErr.Field, rowErr.Message)
		}
	}
	return nil
}

func extractWithModel(ctx context.Context, cfg *config.Config, path, bankName, accountName string, logger *slog.Logger) ([]statement.RawTransaction, error) {
	text, err := pdftext.Extract(path)
	if err != nil {
		return nil, err
	}

	client := llm.NewClient(llm.Config{
		BaseURL:           cfg.Model.BaseURL,
		Model:             cfg.Model.Model,
		Timeout:           cfg.Model.Timeout,
		CategorizeTimeout: cfg.Model.CategorizeTimeout,
		MaxRetries:        cfg.Model.MaxRetries,
		ChunkSize:         cfg.Model.ChunkSize,
	}, logger)

	txs, err := client.ParseBankStatement(ctx, text, bankName)
	if err != nil {
		return nil, err
	}
	statement.Tag(txs, bankName, "", accountName, statement.ConfidenceLow)
	return txs, nil
}

func printTransactions(txs []statement.CategorizedTransaction) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tDESCRIPTION\tAMOUNT\tCATEGORY\tSUBCATEGORY")
	for _, tx := range txs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			tx.Date.Format(statement.ISODate),
			tx.Description,
			money.FormatINR(tx.Amount),
			tx.Category,
			tx.Subcategory,
		)
	}
	w.Flush()
}
