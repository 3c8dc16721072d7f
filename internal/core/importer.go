package core

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"vendas-backend/internal/logging"
)

// ImportReport is the outcome of one upload: how many rows were committed
// and one message per rejected row, tagged with the row's 1-based position
// (header excluded). It is built per request and never persisted.
type ImportReport struct {
	Imported int      `json:"vendas_importadas"`
	Errors   []string `json:"erros_encontrados"`
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// unknownProductError tags a row whose product_id references nothing.
type unknownProductError struct {
	id string
}

func (e *unknownProductError) Error() string {
	return fmt.Sprintf("Produto com ID '%s' não encontrado.", e.id)
}

// ImportSales ingests a CSV of sales rows.
//
// The file is rejected up front when absent, unnamed, or not a .csv.
// After that the rows are consumed in a single pass: each one either
// joins the pending batch or contributes one error message, and a bad
// row never aborts the rest. The pending batch is committed with exactly
// one bulk write at the end; only a fault in that write fails the whole
// request. Partial success (some rows in, some rejected) is a normal
// outcome, not a failure.
func (s *Service) ImportSales(ctx context.Context, filename string, file io.Reader) (*ImportReport, error) {
	if file == nil {
		return nil, ErrNoFile
	}
	if filename == "" {
		return nil, ErrEmptyFilename
	}
	if !strings.EqualFold(filepath.Ext(filename), ".csv") {
		return nil, ErrUnsupportedFormat
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	// Excel and Windows exports commonly prefix the file with a UTF-8
	// BOM, which would otherwise stick to the first header name.
	data = bytes.TrimPrefix(data, utf8BOM)
	data = sanitizeUTF8(data)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	report := &ImportReport{Errors: []string{}}

	// First record is the header; rows are keyed by its column names.
	header, err := reader.Read()
	if err == io.EOF {
		return report, nil
	}
	if err != nil {
		return nil, fmt.Errorf("parse CSV header: %w", err)
	}
	headerIdx := makeHeaderIndex(header)

	var batch []Sale
	for rowNum := 1; ; rowNum++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Errors = append(report.Errors,
				fmt.Sprintf("Row %d: Erro inesperado ao processar a linha - %v", rowNum, err))
			continue
		}

		sale, err := s.validateRow(ctx, rowFields(headerIdx, record))
		if err != nil {
			report.Errors = append(report.Errors, formatRowError(rowNum, err))
			continue
		}

		batch = append(batch, sale)
	}

	if len(batch) > 0 {
		if err := s.sales.InsertMany(ctx, batch); err != nil {
			return nil, &StorageError{Op: "insert sales", Err: err}
		}
	}

	report.Imported = len(batch)
	logging.FromContext(ctx).Info("sales import processed",
		"file", filename,
		"imported", report.Imported,
		"rejected", len(report.Errors),
	)
	return report, nil
}

// validateRow coerces one raw row into a typed Sale and checks that the
// referenced product exists. It never writes; the caller owns row
// numbering and error accumulation.
func (s *Service) validateRow(ctx context.Context, fields map[string]string) (Sale, error) {
	sale, err := parseSaleRow(fields)
	if err != nil {
		return Sale{}, err
	}
	if err := s.validate.Struct(sale); err != nil {
		return Sale{}, asValidationError(err)
	}

	ok, err := s.products.Exists(ctx, sale.ProductID)
	if err != nil {
		return Sale{}, fmt.Errorf("lookup product: %w", err)
	}
	if !ok {
		return Sale{}, &unknownProductError{id: sale.ProductID}
	}

	return sale, nil
}

// parseSaleRow coerces the raw text fields into their typed form,
// collecting every field failure of the row into one ValidationError.
func parseSaleRow(fields map[string]string) (Sale, error) {
	var sale Sale
	var fieldErrs []FieldError

	if raw, ok := nonEmpty(fields, "sale_date"); !ok {
		fieldErrs = append(fieldErrs, FieldError{Field: "sale_date", Message: "field required"})
	} else if d, err := time.Parse(SaleDateLayout, raw); err != nil {
		fieldErrs = append(fieldErrs, FieldError{Field: "sale_date", Message: "invalid date, expected YYYY-MM-DD"})
	} else {
		sale.SaleDate = d
	}

	if raw, ok := nonEmpty(fields, "product_id"); !ok {
		fieldErrs = append(fieldErrs, FieldError{Field: "product_id", Message: "field required"})
	} else {
		sale.ProductID = raw
	}

	if raw, ok := nonEmpty(fields, "quantity"); !ok {
		fieldErrs = append(fieldErrs, FieldError{Field: "quantity", Message: "field required"})
	} else if q, err := strconv.Atoi(raw); err != nil {
		fieldErrs = append(fieldErrs, FieldError{Field: "quantity", Message: "invalid integer"})
	} else {
		sale.Quantity = q
	}

	if raw, ok := nonEmpty(fields, "total_value"); !ok {
		fieldErrs = append(fieldErrs, FieldError{Field: "total_value", Message: "field required"})
	} else if v, err := decimal.NewFromString(raw); err != nil {
		fieldErrs = append(fieldErrs, FieldError{Field: "total_value", Message: "invalid number"})
	} else {
		sale.TotalValue = v.InexactFloat64()
	}

	if len(fieldErrs) > 0 {
		return Sale{}, &ValidationError{Fields: fieldErrs}
	}
	return sale, nil
}

// formatRowError renders one rejected row as a report entry.
func formatRowError(rowNum int, err error) string {
	var vErr *ValidationError
	var upErr *unknownProductError

	switch {
	case errors.As(err, &upErr):
		return fmt.Sprintf("Row %d: %s", rowNum, upErr.Error())
	case errors.As(err, &vErr):
		parts := make([]string, 0, len(vErr.Fields))
		for _, f := range vErr.Fields {
			parts = append(parts, f.Field+": "+f.Message)
		}
		return fmt.Sprintf("Row %d: Dados inválidos - %s", rowNum, strings.Join(parts, "; "))
	default:
		return fmt.Sprintf("Row %d: Erro inesperado ao processar a linha - %v", rowNum, err)
	}
}

// nonEmpty fetches a field that must be present and non-blank.
func nonEmpty(fields map[string]string, name string) (string, bool) {
	v, ok := fields[name]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// rowFields maps one CSV record onto the header's column names.
func rowFields(headerIdx map[string]int, record []string) map[string]string {
	fields := make(map[string]string, len(headerIdx))
	for name, pos := range headerIdx {
		if pos < len(record) {
			fields[name] = cleanCell(record[pos])
		}
	}
	return fields
}

// makeHeaderIndex maps lowercased column names to their positions for
// case-insensitive matching.
func makeHeaderIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(cleanCell(h))] = i
	}
	return idx
}

// cleanCell removes common CSV artifacts from a cell value: surrounding
// whitespace, an Excel formula prefix (="..."), and stray quotes.
func cleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.Trim(s, `"'`)
}

// sanitizeUTF8 replaces invalid byte sequences with the Unicode
// replacement character so the decoder never chokes mid-file.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}
