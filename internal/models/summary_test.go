package models

import (
	"testing"

	"github.com/Kris2339/MEO-PayDay/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labeled(kind SourceKind, category string) LabeledRecord {
	return NewLabeledRecord(TransactionRecord{}, kind, "", category)
}

func TestSummarize(t *testing.T) {
	records := []LabeledRecord{
		labeled(SourceOutbound, CategoryMarket),
		labeled(SourceOutbound, CategoryGeneral),
		labeled(SourceOutbound, CategoryMarket),
		labeled(SourceOutbound, CategoryB2B),
		labeled(SourceInbound, CategoryReturnReceipt),
	}

	s := Summarize(records)

	assert.Equal(t, SourceOutbound, s.Outbound.Kind)
	assert.Equal(t, 4, s.Outbound.Total)
	assert.Equal(t, []CategoryCount{
		{Category: CategoryMarket, Count: 2},
		{Category: CategoryB2B, Count: 1},
		{Category: CategoryGeneral, Count: 1},
	}, s.Outbound.Counts)

	assert.Equal(t, 1, s.Inbound.Total)
	assert.False(t, s.Inbound.IsEmpty())
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.True(t, s.Outbound.IsEmpty())
	assert.True(t, s.Inbound.IsEmpty())
	assert.NotNil(t, s.Outbound.Counts)
	assert.Equal(t, SourceInbound, s.Inbound.Kind)
}

func TestSummary_LogSummary(t *testing.T) {
	logger := logging.NewMockLogger()
	Summarize([]LabeledRecord{labeled(SourceOutbound, CategoryMarket)}).LogSummary(logger)

	entries := logger.GetEntriesByLevel("INFO")
	require.Len(t, entries, 2)
	assert.Equal(t, "Classification summary", entries[0].Message)

	// nil logger is ignored
	Summarize(nil).LogSummary(nil)
}
