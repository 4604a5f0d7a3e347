package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSourceKind_Accepts(t *testing.T) {
	tests := []struct {
		kind SourceKind
		typ  string
		want bool
	}{
		{SourceOutbound, TypeNormalShip, true},
		{SourceOutbound, TypeMinusAdjustment, true},
		{SourceOutbound, TypeNormalReceipt, false},
		{SourceOutbound, TypePlusAdjustment, false},
		{SourceInbound, TypeReturnReceipt, true},
		{SourceInbound, TypeNormalReceipt, true},
		{SourceInbound, TypePlusAdjustment, true},
		{SourceInbound, TypeNormalShip, false},
		{SourceInbound, "", false},
		{SourceKind("other"), TypeNormalShip, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind)+"/"+tt.typ, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Accepts(tt.typ))
		})
	}
}

func TestSourceKind_AcceptedTypesIsCopy(t *testing.T) {
	types := SourceOutbound.AcceptedTypes()
	types[0] = "changed"
	assert.True(t, SourceOutbound.Accepts(TypeNormalShip))
}

func TestTransactionRecord_Values(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rec := TransactionRecord{
		TransactionDate:   &date,
		TransactionType:   TypeNormalShip,
		Counterpart:       "스마트스토어",
		ProductName:       "캐비진저",
		Quantity:          "2",
		Remarks:           "비고",
		Recipient:         "홍길동",
		SellerProductName: "세트",
		SellerOptionName:  "옵션",
		ShipMethod:        "택배",
	}

	values := rec.Values()
	assert.Len(t, values, len(OutboundColumns))
	assert.Equal(t, "2024-03-01", values[0])
	assert.Equal(t, "택배", values[len(values)-1])

	assert.Equal(t, "", TransactionRecord{}.DateString())
}

func TestTransactionRecord_NumericQuantity(t *testing.T) {
	tests := []struct {
		quantity string
		want     decimal.Decimal
		ok       bool
	}{
		{"3", decimal.NewFromInt(3), true},
		{"1.5", decimal.RequireFromString("1.5"), true},
		{"-2", decimal.NewFromInt(-2), true},
		{"", decimal.Zero, false},
		{"세트", decimal.Zero, false},
	}

	for _, tt := range tests {
		t.Run(tt.quantity, func(t *testing.T) {
			got, ok := TransactionRecord{Quantity: tt.quantity}.NumericQuantity()
			assert.Equal(t, tt.ok, ok)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestLabeledRecord_Row(t *testing.T) {
	l := NewLabeledRecord(TransactionRecord{TransactionType: TypeNormalShip}, SourceOutbound, "출고.xlsx", CategoryGeneral)

	row := l.Row()
	assert.Len(t, row, len(OutputColumns()))
	assert.Equal(t, CategoryGeneral, row[0])
	assert.Equal(t, "", row[1], "confirmed category starts empty")
	assert.Equal(t, TypeNormalShip, row[3])
	assert.Equal(t, "출고.xlsx", l.Source)
}

func TestOutputColumns(t *testing.T) {
	cols := OutputColumns()
	assert.Equal(t, []string{ColumnProposedCategory, ColumnConfirmedCategory}, cols[:2])
	assert.Equal(t, OutboundColumns, cols[2:])

	cols[0] = "changed"
	assert.Equal(t, ColumnProposedCategory, OutputColumns()[0])
}
