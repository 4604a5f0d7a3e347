package models

import (
	"sort"

	"github.com/Kris2339/MEO-PayDay/internal/logging"
)

// CategoryCount is the number of rows proposed for one category.
type CategoryCount struct {
	Category string `json:"category" yaml:"category"`
	Count    int    `json:"count" yaml:"count"`
}

// KindSummary tallies proposed categories for one source kind.
type KindSummary struct {
	Kind   SourceKind      `json:"kind" yaml:"kind"`
	Total  int             `json:"total" yaml:"total"`
	Counts []CategoryCount `json:"counts" yaml:"counts"`
}

// Summary holds the outbound and inbound tallies of a run.
type Summary struct {
	Outbound KindSummary `json:"outbound" yaml:"outbound"`
	Inbound  KindSummary `json:"inbound" yaml:"inbound"`
}

// Summarize counts proposed categories separately for outbound and inbound rows.
// Counts are ordered by count descending, then by category.
func Summarize(records []LabeledRecord) Summary {
	return Summary{
		Outbound: summarizeKind(records, SourceOutbound),
		Inbound:  summarizeKind(records, SourceInbound),
	}
}

func summarizeKind(records []LabeledRecord, kind SourceKind) KindSummary {
	tally := make(map[string]int)
	total := 0
	for _, r := range records {
		if r.Kind != kind {
			continue
		}
		tally[r.ProposedCategory]++
		total++
	}

	counts := make([]CategoryCount, 0, len(tally))
	for category, n := range tally {
		counts = append(counts, CategoryCount{Category: category, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Category < counts[j].Category
	})

	return KindSummary{Kind: kind, Total: total, Counts: counts}
}

// IsEmpty reports whether the kind has no rows.
func (ks KindSummary) IsEmpty() bool {
	return ks.Total == 0
}

// LogSummary logs the per-kind totals of a run
func (s Summary) LogSummary(logger logging.Logger) {
	if logger == nil {
		return
	}

	for _, ks := range []KindSummary{s.Outbound, s.Inbound} {
		fields := []logging.Field{
			{Key: "kind", Value: string(ks.Kind)},
			{Key: logging.FieldCount, Value: ks.Total},
		}
		for _, c := range ks.Counts {
			fields = append(fields, logging.Field{Key: c.Category, Value: c.Count})
		}
		logger.Info("Classification summary", fields...)
	}
}
