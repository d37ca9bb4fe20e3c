package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/nmalhotra/statement-core/internal/domain/statement"
)

// ParseBankStatement extracts transactions from raw statement text via the
// model. Long documents are split into fixed-size chunks parsed
// independently; results are deduplicated and date-sorted. Character-count
// chunking can split a record across a boundary and lose it, which is the
// accepted tradeoff for very long statements.
func (c *Client) ParseBankStatement(ctx context.Context, text, bankName string) ([]statement.RawTransaction, error) {
	chunks := chunkText(text, c.cfg.ChunkSize)
	c.logger.Info("model extraction started", "bank", bankName, "chars", len(text), "chunks", len(chunks))

	var all []statement.RawTransaction
	var firstErr error
	for i, chunk := range chunks {
		raw, err := c.Complete(ctx, extractionPrompt(bankName, chunk), c.cfg.Timeout)
		if err != nil {
			if len(chunks) == 1 {
				return nil, err
			}
			if firstErr == nil {
				firstErr = err
			}
			c.logger.Warn("chunk extraction failed", "chunk", i+1, "error", err)
			continue
		}

		txs, err := c.decodeTransactions(raw)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			c.logger.Warn("chunk produced no usable transactions", "chunk", i+1, "error", err)
			continue
		}
		all = append(all, txs...)
	}

	all = statement.Deduplicate(all)
	sort.SliceStable(all, func(i, j int) bool { return all[i].Date.Before(all[j].Date) })

	if len(all) == 0 {
		// Keep the typed error of the first failed chunk so callers can
		// still distinguish timeouts from connection failures.
		if firstErr != nil {
			return nil, fmt.Errorf("all chunks failed: %w", firstErr)
		}
		return nil, ErrEmptyResult
	}
	c.logger.Info("model extraction complete", "transactions", len(all))
	return all, nil
}

// decodeTransactions runs the recovery ladder over one raw model response.
// Each rung is tried only after the previous one fails.
func (c *Client) decodeTransactions(raw string) ([]statement.RawTransaction, error) {
	body := Sanitize(raw)
	if arr, ok := extractArray(body); ok {
		body = Sanitize(arr)
	}

	records, err := decodeRecords(body)
	if err != nil {
		records, err = decodePrefix(body)
	}
	if err != nil {
		if arr, ok := extractArray(Sanitize(raw)); ok {
			records, err = decodeRecords(Sanitize(arr))
		}
	}
	if err != nil {
		stripped := Sanitize(stripNonPrintable(raw))
		if arr, ok := extractArray(stripped); ok {
			records, err = decodeRecords(Sanitize(arr))
		}
	}
	if err != nil {
		if arr, ok := extractObjectsByRegex(raw); ok {
			records, err = decodeRecords(Sanitize(arr))
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	txs := make([]statement.RawTransaction, 0, len(records))
	for i, record := range records {
		tx, err := validateTransaction(record)
		if err != nil {
			c.logger.Warn("skipping invalid transaction", "index", i, "error", err)
			continue
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func decodeRecords(body string) ([]map[string]any, error) {
	var records []map[string]any
	if err := json.Unmarshal([]byte(body), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// decodePrefix salvages a valid array prefix when trailing garbage follows
// the JSON.
func decodePrefix(body string) ([]map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(body))
	var records []map[string]any
	if err := dec.Decode(&records); err != nil {
		return nil, err
	}
	return records, nil
}

func stripNonPrintable(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, s)
}

// chunkText splits on character count. Boundaries are not transaction
// aware.
func chunkText(s string, size int) []string {
	if size <= 0 || len(s) <= size {
		return []string{s}
	}
	var chunks []string
	for len(s) > size {
		chunks = append(chunks, s[:size])
		s = s[size:]
	}
	if len(s) > 0 {
		chunks = append(chunks, s)
	}
	return chunks
}
