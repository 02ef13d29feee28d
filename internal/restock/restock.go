// Package restock imports supplier restock files and applies them to the
// inventory ledger. Files are gzip-compressed CSV with one
// "sku,quantity[,reason]" record per line.
package restock

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"clothing-store/internal/model"
)

// Line is one parsed restock record.
type Line struct {
	Number   int
	SKU      string
	Quantity int
	Reason   string
}

// LineError reports a record that could not be parsed or applied.
type LineError struct {
	Number int    `json:"line"`
	SKU    string `json:"sku,omitempty"`
	Reason string `json:"reason"`
}

// Batch is the parsed content of a restock file.
type Batch struct {
	Source  string
	Lines   []Line
	Invalid []LineError
}

// Loader reads a restock file by name.
type Loader interface {
	Load(ctx context.Context, name string) (*Batch, error)
}

// checkEvery is how many records are parsed between context checks.
const checkEvery = 1000

// parse decodes a gzip CSV stream. Malformed records are collected in
// Batch.Invalid; only stream-level failures return an error.
func parse(ctx context.Context, source string, r io.Reader) (*Batch, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", source, err)
	}
	defer gz.Close()

	reader := csv.NewReader(gz)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	batch := &Batch{Source: source}
	for n := 1; ; n++ {
		if n%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				batch.Invalid = append(batch.Invalid, LineError{Number: parseErr.Line, Reason: parseErr.Err.Error()})
				continue
			}
			return nil, fmt.Errorf("error reading restock file %s: %w", source, err)
		}

		line, lineErr := parseRecord(record)
		if lineErr != "" {
			if n == 1 && isHeader(record) {
				continue
			}
			num, _ := reader.FieldPos(0)
			batch.Invalid = append(batch.Invalid, LineError{Number: num, SKU: firstField(record), Reason: lineErr})
			continue
		}
		line.Number, _ = reader.FieldPos(0)
		batch.Lines = append(batch.Lines, line)
	}

	return batch, nil
}

func parseRecord(record []string) (Line, string) {
	if len(record) < 2 || len(record) > 3 {
		return Line{}, fmt.Sprintf("expected 2 or 3 fields, got %d", len(record))
	}

	sku := strings.TrimSpace(record[0])
	if sku == "" {
		return Line{}, "sku is empty"
	}

	qty, err := strconv.Atoi(strings.TrimSpace(record[1]))
	if err != nil {
		return Line{}, fmt.Sprintf("invalid quantity %q", record[1])
	}
	if qty <= 0 {
		return Line{}, "quantity must be positive"
	}
	if qty > model.MaxQuantity {
		return Line{}, fmt.Sprintf("quantity exceeds %d", model.MaxQuantity)
	}

	line := Line{SKU: sku, Quantity: qty}
	if len(record) == 3 {
		line.Reason = strings.TrimSpace(record[2])
	}
	return line, ""
}

func isHeader(record []string) bool {
	return len(record) >= 2 && strings.EqualFold(strings.TrimSpace(record[0]), "sku")
}

func firstField(record []string) string {
	if len(record) == 0 {
		return ""
	}
	return strings.TrimSpace(record[0])
}
