// =============================================================================
// Swedbank pain.001 Generator - CSV Batch Reader
// =============================================================================
//
// This module reads payment batches from CSV files exported by upstream
// accounting systems. The first row is the header; every following row is
// one payment instruction.
//
// RECOGNIZED COLUMNS (case-insensitive, order-free):
//   name, partner_name, partner_street, partner_city, partner_zip,
//   partner_country, amount, currency, reference, memo, account_number,
//   account_iban, account_type, clearing_code, bic, bank_country,
//   execution_date, end_to_end_id, service_level, category_purpose
//
// Unknown columns are ignored, so exports may carry extra bookkeeping
// columns without breaking the reader. Errors always name the source row.
//
// =============================================================================

package batchreader

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nordkonto/swedbank-pain001/internal/account"
	"github.com/nordkonto/swedbank-pain001/internal/model"
)

// =============================================================================
// ROW ERRORS
// =============================================================================

// RowError reports a malformed row in a batch file.
type RowError struct {
	File   string
	Row    int
	Column string
	Reason string
}

func (e *RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s: row %d: column %q: %s", e.File, e.Row, e.Column, e.Reason)
	}
	return fmt.Sprintf("%s: row %d: %s", e.File, e.Row, e.Reason)
}

// =============================================================================
// CSV READING
// =============================================================================

// ReadCSV parses a CSV batch file into payment instructions.
//
// PARAMETERS:
//   - filePath: the path to the batch file.
//
// RETURNS:
//   - The payments in file order, with Row set to the 1-based file row.
//   - A RowError for the first malformed row encountered.
func ReadCSV(filePath string) ([]model.PaymentInstruction, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open batch file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filePath, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: file is empty", filePath)
	}

	header := normalizeHeader(records[0])

	var payments []model.PaymentInstruction
	for i, record := range records[1:] {
		row := i + 2 // 1-based, header is row 1
		if isBlankRow(record) {
			continue
		}

		payment, err := rowToPayment(filePath, row, header, record)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	return payments, nil
}

// =============================================================================
// ROW CONVERSION
// =============================================================================

// rowToPayment converts one header-mapped row into a PaymentInstruction.
// Shared by the CSV and XLSX readers.
func rowToPayment(file string, row int, header map[string]int, record []string) (model.PaymentInstruction, error) {
	field := func(name string) string {
		i, ok := header[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	rawAmount := field("amount")
	if rawAmount == "" {
		return model.PaymentInstruction{}, &RowError{File: file, Row: row, Column: "amount", Reason: "missing value"}
	}
	amount, err := decimal.NewFromString(normalizeAmount(rawAmount))
	if err != nil {
		return model.PaymentInstruction{}, &RowError{File: file, Row: row, Column: "amount", Reason: fmt.Sprintf("invalid amount %q", rawAmount)}
	}

	var executionDate time.Time
	if raw := field("execution_date"); raw != "" {
		executionDate, err = parseDate(raw)
		if err != nil {
			return model.PaymentInstruction{}, &RowError{File: file, Row: row, Column: "execution_date", Reason: fmt.Sprintf("invalid date %q (want YYYY-MM-DD)", raw)}
		}
	}

	payment := model.PaymentInstruction{
		Name: field("name"),
		Partner: model.Partner{
			Name:    field("partner_name"),
			Street:  field("partner_street"),
			City:    field("partner_city"),
			Zip:     field("partner_zip"),
			Country: strings.ToUpper(field("partner_country")),
		},
		Amount:          amount,
		Currency:        strings.ToUpper(field("currency")),
		Reference:       field("reference"),
		Memo:            field("memo"),
		ExecutionDate:   executionDate,
		ServiceLevel:    strings.ToUpper(field("service_level")),
		CategoryPurpose: strings.ToUpper(field("category_purpose")),
		EndToEndID:      field("end_to_end_id"),
		Row:             row,
	}

	number := field("account_number")
	iban := field("account_iban")
	if number != "" || iban != "" {
		var declared account.Type
		if iban != "" {
			number = iban
			declared = account.TypeIBAN
		}
		if raw := field("account_type"); raw != "" {
			typ, ok := account.ParseType(raw)
			if !ok {
				return model.PaymentInstruction{}, &RowError{File: file, Row: row, Column: "account_type", Reason: fmt.Sprintf("unknown account type %q", raw)}
			}
			declared = typ
		}
		acct := model.NewBankAccount(
			number,
			declared,
			field("clearing_code"),
			strings.ToUpper(field("bic")),
			strings.ToUpper(field("bank_country")),
			"", // creditor accounts carry no settlement currency
		)
		payment.Account = &acct
	}

	return payment, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// normalizeHeader maps lowercased, trimmed column names to their indexes.
func normalizeHeader(row []string) map[string]int {
	header := make(map[string]int, len(row))
	for i, name := range row {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, exists := header[key]; !exists {
			header[key] = i
		}
	}
	return header
}

// isBlankRow reports whether every cell of the row is empty.
func isBlankRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// normalizeAmount accepts Swedish-style decimal commas and space grouping.
func normalizeAmount(s string) string {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	return s
}

// parseDate accepts ISO dates, with or without a time component.
func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format")
}
