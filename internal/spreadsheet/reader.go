// Package spreadsheet reads uploaded workbooks into header/row tables and
// writes the result and market-list workbooks.
package spreadsheet

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Kris2339/MEO-PayDay/internal/normalizer"
	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Format is a workbook container format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)

// oleMagic starts every legacy compound-document (.xls) file.
var oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0}

// zipMagic starts every OOXML (.xlsx) file.
var zipMagic = []byte{'P', 'K', 0x03, 0x04}

// DetectFormat picks the reader from the file extension, falling back to the
// leading bytes when the extension is missing or wrong.
func DetectFormat(name string, data []byte) (Format, error) {
	switch {
	case bytes.HasPrefix(data, oleMagic):
		return FormatXLS, nil
	case bytes.HasPrefix(data, zipMagic):
		return FormatXLSX, nil
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xls":
		return FormatXLS, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported spreadsheet format: %s", name)
}

// IsSpreadsheet reports whether name has a supported extension.
func IsSpreadsheet(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xls", ".xlsx", ".xlsm":
		return true
	}
	return false
}

// Read decodes the first sheet of a workbook. The first row is the header.
func Read(name string, data []byte) (normalizer.Table, error) {
	format, err := DetectFormat(name, data)
	if err != nil {
		return normalizer.Table{}, err
	}

	var rows [][]string
	switch format {
	case FormatXLS:
		rows, err = readXLS(data)
	default:
		rows, err = readXLSX(data)
	}
	if err != nil {
		return normalizer.Table{}, err
	}
	if len(rows) == 0 {
		return normalizer.Table{}, nil
	}
	return normalizer.Table{Header: rows[0], Rows: rows[1:]}, nil
}

// ReadFile reads a workbook from disk.
func ReadFile(path string) (normalizer.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return normalizer.Table{}, err
	}
	return Read(filepath.Base(path), data)
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	// Raw values keep dates as serial numbers instead of locale-formatted text.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// maxLegacyColumns is the BIFF8 column limit.
const maxLegacyColumns = 256

func readXLS(data []byte) (rows [][]string, err error) {
	// The legacy decoder panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("failed to decode legacy workbook: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open legacy workbook: %w", err)
	}
	if wb == nil {
		return nil, fmt.Errorf("failed to open legacy workbook: no workbook stream")
	}
	if wb.NumSheets() == 0 {
		return nil, nil
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, nil
	}

	for k := 0; k <= int(sheet.MaxRow); k++ {
		row := legacyRow(sheet, k)
		if row == nil {
			// Blank rows have no record; keep row positions aligned.
			if len(rows) > 0 {
				rows = append(rows, nil)
			}
			continue
		}
		rows = append(rows, legacyCells(row))
	}
	return rows, nil
}

// legacyRow returns row k, or nil when the sheet has no record for it.
func legacyRow(sheet *xls.WorkSheet, k int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(k)
}

// legacyCells reads the cells of row. Rows written without a ROW record
// report no bounds, so their columns are scanned up to the BIFF8 limit.
func legacyCells(row *xls.Row) []string {
	last := row.LastCol()
	unbounded := last <= 0
	if unbounded {
		last = maxLegacyColumns
	}
	cells := make([]string, last)
	for i := row.FirstCol(); i < last; i++ {
		cells[i] = row.Col(i)
	}
	if unbounded {
		n := len(cells)
		for n > 0 && cells[n-1] == "" {
			n--
		}
		cells = cells[:n]
	}
	return cells
}
