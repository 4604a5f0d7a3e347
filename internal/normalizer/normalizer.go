// Package normalizer converts heterogeneous outbound and inbound spreadsheet rows
// into the canonical outbound-shaped TransactionRecord understood by the classifier.
// It is the only place where untyped spreadsheet data becomes typed records.
package normalizer

import (
	"strings"

	"github.com/Kris2339/MEO-PayDay/internal/dateutils"
	"github.com/Kris2339/MEO-PayDay/internal/logging"
	"github.com/Kris2339/MEO-PayDay/internal/models"
	"github.com/Kris2339/MEO-PayDay/internal/parsererror"
)

// RawRow maps a trimmed column name to its cell value.
type RawRow map[string]string

// Get returns the cell for column, or "" when the column is absent.
func (r RawRow) Get(column string) string {
	return r[column]
}

// inboundToOutbound is the field correspondence between receipt rows and the
// canonical outbound shape. Inbound columns not listed keep their name.
var inboundToOutbound = map[string]string{
	models.ColumnReceiptDate:     models.ColumnShipDate,
	models.ColumnSupplier:        models.ColumnSeller,
	models.ColumnReceiptQuantity: models.ColumnShipQuantity,
	models.ColumnOptionName:      models.ColumnSellerOptionName,
}

// Table is a decoded sheet: the header row and the data rows beneath it.
type Table struct {
	Header []string
	Rows   [][]string
}

// Normalizer turns decoded sheets into canonical records.
type Normalizer struct {
	logger logging.Logger
}

// New creates a Normalizer.
func New(logger logging.Logger) *Normalizer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Normalizer{logger: logger}
}

// NormalizeHeader trims every column name and applies the legacy quantity alias.
func NormalizeHeader(header []string) []string {
	out := make([]string, len(header))
	hasCanonicalQty := false
	for i, h := range header {
		out[i] = strings.TrimSpace(h)
		if out[i] == models.ColumnReceiptQuantity {
			hasCanonicalQty = true
		}
	}
	if !hasCanonicalQty {
		for i, h := range out {
			if h == models.ColumnLegacyReceiptQuantity {
				out[i] = models.ColumnReceiptQuantity
			}
		}
	}
	return out
}

// DetectKind classifies a normalized header. A ship-date column wins over a receipt-date column.
func DetectKind(header []string) (models.SourceKind, bool) {
	hasShip, hasReceipt := false, false
	for _, h := range header {
		switch h {
		case models.ColumnShipDate:
			hasShip = true
		case models.ColumnReceiptDate:
			hasReceipt = true
		}
	}
	switch {
	case hasShip:
		return models.SourceOutbound, true
	case hasReceipt:
		return models.SourceInbound, true
	default:
		return "", false
	}
}

// NormalizeTable detects the kind of a sheet and returns its accepted rows as canonical records.
// Rows whose transaction type is not accepted for the kind are dropped.
func (n *Normalizer) NormalizeTable(file string, table Table) (models.SourceKind, []models.TransactionRecord, error) {
	header := NormalizeHeader(table.Header)

	kind, ok := DetectKind(header)
	if !ok {
		return "", nil, &parsererror.NotTargetError{File: file}
	}
	if !contains(header, models.ColumnTransactionType) {
		return kind, nil, &parsererror.MissingColumnError{File: file, Column: models.ColumnTransactionType}
	}

	records := make([]models.TransactionRecord, 0, len(table.Rows))
	dropped := 0
	for _, cells := range table.Rows {
		record, ok := NormalizeRow(kind, BuildRawRow(header, cells))
		if !ok {
			dropped++
			continue
		}
		records = append(records, record)
	}

	n.logger.Debug("Normalized sheet",
		logging.Field{Key: logging.FieldFile, Value: file},
		logging.Field{Key: logging.FieldKind, Value: string(kind)},
		logging.Field{Key: logging.FieldCount, Value: len(records)},
		logging.Field{Key: "dropped", Value: dropped})

	return kind, records, nil
}

// BuildRawRow pairs header names with cells. Missing trailing cells are "".
// When a column name repeats, the first occurrence wins.
func BuildRawRow(header []string, cells []string) RawRow {
	row := make(RawRow, len(header))
	for i, name := range header {
		if name == "" {
			continue
		}
		if _, seen := row[name]; seen {
			continue
		}
		if i < len(cells) {
			row[name] = cells[i]
		} else {
			row[name] = ""
		}
	}
	return row
}

// NormalizeRow converts one raw row of the given kind. It reports false when the
// row's transaction type is not accepted for the kind.
func NormalizeRow(kind models.SourceKind, row RawRow) (models.TransactionRecord, bool) {
	if !kind.Accepts(strings.TrimSpace(row.Get(models.ColumnTransactionType))) {
		return models.TransactionRecord{}, false
	}
	if kind == models.SourceInbound {
		row = RemapInbound(row)
	}
	return fromOutboundRow(row), true
}

// RemapInbound renames receipt columns to their outbound equivalents.
// Only InboundColumns are carried over; outbound-only columns are left absent.
func RemapInbound(row RawRow) RawRow {
	out := make(RawRow, len(models.InboundColumns))
	for _, column := range models.InboundColumns {
		value, ok := row[column]
		if !ok {
			continue
		}
		if target, mapped := inboundToOutbound[column]; mapped {
			out[target] = value
			continue
		}
		out[column] = value
	}
	return out
}

func fromOutboundRow(row RawRow) models.TransactionRecord {
	return models.TransactionRecord{
		TransactionDate:   dateutils.ParseDate(row.Get(models.ColumnShipDate)),
		TransactionType:   strings.TrimSpace(row.Get(models.ColumnTransactionType)),
		Counterpart:       row.Get(models.ColumnSeller),
		ProductName:       row.Get(models.ColumnProductName),
		Quantity:          row.Get(models.ColumnShipQuantity),
		Remarks:           row.Get(models.ColumnRemarks),
		Recipient:         row.Get(models.ColumnRecipient),
		SellerProductName: row.Get(models.ColumnSellerProductName),
		SellerOptionName:  row.Get(models.ColumnSellerOptionName),
		ShipMethod:        row.Get(models.ColumnShipMethod),
	}
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
