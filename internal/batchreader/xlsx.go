// =============================================================================
// Swedbank pain.001 Generator - XLSX Batch Reader
// =============================================================================
//
// This module reads payment batches from Excel workbooks. Only the first
// sheet is read; it must carry the same header layout as the CSV format.
// Rows are converted through the shared row mapper, so both input formats
// produce identical payment instructions.
//
// =============================================================================

package batchreader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nordkonto/swedbank-pain001/internal/model"
)

// ReadXLSX parses an Excel batch file into payment instructions.
//
// PARAMETERS:
//   - filePath: the path to the .xlsx workbook.
//
// RETURNS:
//   - The payments from the first sheet, in row order.
//   - A RowError for the first malformed row encountered.
func ReadXLSX(filePath string) ([]model.PaymentInstruction, error) {
	workbook, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: workbook has no sheets", filePath)
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: sheet %q is empty", filePath, sheets[0])
	}

	header := normalizeHeader(rows[0])

	var payments []model.PaymentInstruction
	for i, record := range rows[1:] {
		row := i + 2
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

// Read dispatches on the file extension to the matching reader.
func Read(filePath string) ([]model.PaymentInstruction, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".csv":
		return ReadCSV(filePath)
	case ".xlsx":
		return ReadXLSX(filePath)
	default:
		return nil, fmt.Errorf("unsupported batch file type: %s", filePath)
	}
}
