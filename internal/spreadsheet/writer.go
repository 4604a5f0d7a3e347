package spreadsheet

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Kris2339/MEO-PayDay/internal/models"
	"github.com/xuri/excelize/v2"
)

// Defaults for generated workbooks.
const (
	DefaultResultSheet = "최종분류"
	DefaultResultFile  = "최종분류결과.xlsx"

	MarketSheet  = "마켓상품명"
	MarketColumn = "마켓 상품명"
)

// quantityColumn is the zero-based position of the quantity in an output row.
var quantityColumn = indexOf(models.OutputColumns(), models.ColumnShipQuantity)

// WriteResult writes labeled records to a single-sheet workbook in the order given.
func WriteResult(w io.Writer, sheet string, records []models.LabeledRecord) error {
	if sheet == "" {
		sheet = DefaultResultSheet
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet writer: %w", err)
	}

	header := toCells(models.OutputColumns())
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, resultCells(rec)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	return f.Write(w)
}

// WriteResultFile writes the result workbook to path, creating parent directories.
func WriteResultFile(path, sheet string, records []models.LabeledRecord) error {
	if path == "" {
		path = DefaultResultFile
	}
	return writeFile(path, func(w io.Writer) error { return WriteResult(w, sheet, records) })
}

// WriteMarketList writes the market list as a one-column workbook.
func WriteMarketList(w io.Writer, items []string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), MarketSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetCellStr(MarketSheet, "A1", MarketColumn); err != nil {
		return err
	}
	for i, item := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(MarketSheet, cell, item); err != nil {
			return err
		}
	}
	return f.Write(w)
}

// WriteMarketListFile writes the market list workbook to path.
func WriteMarketListFile(path string, items []string) error {
	return writeFile(path, func(w io.Writer) error { return WriteMarketList(w, items) })
}

func resultCells(rec models.LabeledRecord) []interface{} {
	row := rec.Row()
	cells := toCells(row)
	if q, ok := rec.Record.NumericQuantity(); ok && quantityColumn >= 0 {
		if q.IsInteger() {
			cells[quantityColumn] = q.IntPart()
		} else {
			cells[quantityColumn] = q.InexactFloat64()
		}
	}
	return cells
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", path, err)
	}
	if err := write(out); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func indexOf(values []string, target string) int {
	for i, v := range values {
		if v == target {
			return i
		}
	}
	return -1
}
