// Package common provides CSV import and export shared by the commands and the server.
package common

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Kris2339/MEO-PayDay/internal/logging"
	"github.com/Kris2339/MEO-PayDay/internal/models"
	"github.com/gocarina/gocsv"
)

// DefaultDelimiter separates CSV fields unless configured otherwise.
const DefaultDelimiter = ','

// ResultRow is the CSV shape of a labeled record. Column names match the result workbook.
type ResultRow struct {
	ProposedCategory  string `csv:"분류제안"`
	ConfirmedCategory string `csv:"분류확정"`
	ShipDate          string `csv:"출고일"`
	TransactionType   string `csv:"구분"`
	Counterpart       string `csv:"판매처"`
	ProductName       string `csv:"상품명"`
	Quantity          string `csv:"가용출고수량"`
	Remarks           string `csv:"비고"`
	Recipient         string `csv:"수령자"`
	SellerProductName string `csv:"판매처상품명"`
	SellerOptionName  string `csv:"판매처옵션명"`
	ShipMethod        string `csv:"출고방식"`
}

// MarketProductRow is one line of a market list CSV import.
type MarketProductRow struct {
	Name string `csv:"마켓 상품명"`
}

// NewResultRow flattens a labeled record.
func NewResultRow(r models.LabeledRecord) ResultRow {
	rec := r.Record
	return ResultRow{
		ProposedCategory:  r.ProposedCategory,
		ConfirmedCategory: r.ConfirmedCategory,
		ShipDate:          rec.DateString(),
		TransactionType:   rec.TransactionType,
		Counterpart:       rec.Counterpart,
		ProductName:       rec.ProductName,
		Quantity:          rec.Quantity,
		Remarks:           rec.Remarks,
		Recipient:         rec.Recipient,
		SellerProductName: rec.SellerProductName,
		SellerOptionName:  rec.SellerOptionName,
		ShipMethod:        rec.ShipMethod,
	}
}

// ReadCSVFile reads CSV data into a slice of structs using gocsv.
// TCSVRow is the struct type that maps to the CSV columns.
func ReadCSVFile[TCSVRow any](filePath string, logger logging.Logger) ([]TCSVRow, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger.WithField(logging.FieldFile, filePath).Debug("Reading CSV file")

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	var rows []TCSVRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}

	logger.WithField(logging.FieldCount, len(rows)).Debug("Read CSV data")
	return rows, nil
}

// WriteRecordsToCSV writes records with a header row using delimiter.
func WriteRecordsToCSV(w io.Writer, records []models.LabeledRecord, delimiter rune) error {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}
	rows := make([]ResultRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, NewResultRow(r))
	}

	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delimiter
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// WriteRecordsToCSVFile writes records to csvFile, creating parent directories.
func WriteRecordsToCSVFile(csvFile string, records []models.LabeledRecord, delimiter rune, logger logging.Logger) error {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if err := os.MkdirAll(filepath.Dir(csvFile), models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	file, err := os.Create(csvFile)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := WriteRecordsToCSV(file, records, delimiter); err != nil {
		return err
	}
	logger.WithFields(
		logging.Field{Key: logging.FieldOutputFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(records)},
		logging.Field{Key: "delimiter", Value: string(delimiter)},
	).Info("Wrote CSV file")
	return nil
}

// ParseDelimiter returns the first rune of s, or the default for an empty string.
// The escape "\t" selects a tab.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return DefaultDelimiter, nil
	case `\t`, "\t", "tab":
		return '\t', nil
	}
	r := []rune(s)
	if len(r) != 1 {
		return 0, fmt.Errorf("CSV delimiter must be a single character, got %q", s)
	}
	if r[0] == '"' || r[0] == '\r' || r[0] == '\n' {
		return 0, fmt.Errorf("invalid CSV delimiter %q", s)
	}
	return r[0], nil
}
