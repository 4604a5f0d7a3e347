// Package models provides the data structures used throughout the application.
package models

import (
	"time"

	"github.com/Kris2339/MEO-PayDay/internal/dateutils"

	"github.com/shopspring/decimal"
)

// SourceKind identifies which schema an uploaded file follows.
type SourceKind string

const (
	// SourceOutbound files carry a ship-date column.
	SourceOutbound SourceKind = "outbound"
	// SourceInbound files carry a receipt-date column.
	SourceInbound SourceKind = "inbound"
)

// acceptedTypes lists the transaction types kept per source kind.
var acceptedTypes = map[SourceKind][]string{
	SourceOutbound: {TypeNormalShip, TypeMinusAdjustment},
	SourceInbound:  {TypeReturnReceipt, TypeNormalReceipt, TypePlusAdjustment},
}

// Accepts reports whether rows of the given transaction type are processed for this kind.
func (k SourceKind) Accepts(transactionType string) bool {
	for _, t := range acceptedTypes[k] {
		if t == transactionType {
			return true
		}
	}
	return false
}

// AcceptedTypes returns a copy of the transaction types kept for this kind.
func (k SourceKind) AcceptedTypes() []string {
	return append([]string(nil), acceptedTypes[k]...)
}

// TransactionRecord is the canonical, outbound-shaped row consumed by the classifier.
// Every string field is "" when the source column is absent.
type TransactionRecord struct {
	TransactionDate   *time.Time
	TransactionType   string
	Counterpart       string
	ProductName       string
	Quantity          string
	Remarks           string
	Recipient         string
	SellerProductName string
	SellerOptionName  string
	ShipMethod        string
}

// DateString returns the transaction date as YYYY-MM-DD, or "" when blank.
func (r TransactionRecord) DateString() string {
	return dateutils.ToISODate(r.TransactionDate)
}

// NumericQuantity returns the quantity as a decimal when it is numeric.
func (r TransactionRecord) NumericQuantity() (decimal.Decimal, bool) {
	if r.Quantity == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(r.Quantity)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Values returns the data columns in OutboundColumns order.
func (r TransactionRecord) Values() []string {
	return []string{
		r.DateString(),
		r.TransactionType,
		r.Counterpart,
		r.ProductName,
		r.Quantity,
		r.Remarks,
		r.Recipient,
		r.SellerProductName,
		r.SellerOptionName,
		r.ShipMethod,
	}
}

// ClassificationResult holds the engine's proposal and the human confirmation slot.
type ClassificationResult struct {
	ProposedCategory  string
	ConfirmedCategory string
}

// LabeledRecord is a normalized record with its classification attached.
type LabeledRecord struct {
	ClassificationResult
	Record TransactionRecord
	Kind   SourceKind
	Source string
}

// NewLabeledRecord attaches a proposed category; the confirmed category starts empty.
func NewLabeledRecord(record TransactionRecord, kind SourceKind, source, proposed string) LabeledRecord {
	return LabeledRecord{
		ClassificationResult: ClassificationResult{ProposedCategory: proposed},
		Record:               record,
		Kind:                 kind,
		Source:               source,
	}
}

// Row returns the full output row in OutputColumns order.
func (l LabeledRecord) Row() []string {
	row := make([]string, 0, len(OutboundColumns)+2)
	row = append(row, l.ProposedCategory, l.ConfirmedCategory)
	return append(row, l.Record.Values()...)
}
