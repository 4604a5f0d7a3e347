package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "iso", input: "2024-03-05", expected: "2024-03-05"},
		{name: "iso with time", input: "2024-03-05 14:22:10", expected: "2024-03-05"},
		{name: "iso T time", input: "2024-03-05T14:22:10", expected: "2024-03-05"},
		{name: "slashes", input: "2024/03/05", expected: "2024-03-05"},
		{name: "dots", input: "2024.03.05", expected: "2024-03-05"},
		{name: "korean spaced dots", input: "2024. 3. 5.", expected: "2024-03-05"},
		{name: "compact", input: "20240305", expected: "2024-03-05"},
		{name: "korean words", input: "2024년 3월 5일", expected: "2024-03-05"},
		{name: "surrounding whitespace", input: "  2024-03-05 ", expected: "2024-03-05"},
		{name: "excel serial", input: "45356", expected: "2024-03-05"},
		{name: "excel serial with fraction", input: "45356.75", expected: "2024-03-05"},
		{name: "empty", input: "", expected: ""},
		{name: "garbage", input: "미정", expected: ""},
		{name: "serial out of range", input: "-3", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToISODate(ParseDate(tt.input)))
		})
	}
}

func TestParseDate_TruncatesToUTCDay(t *testing.T) {
	d := ParseDate("2024-03-05 23:59:59")
	require.NotNil(t, d)
	assert.Equal(t, time.UTC, d.Location())
	assert.Equal(t, 0, d.Hour())
}

func TestCleanDateString(t *testing.T) {
	assert.Equal(t, "2024. 3. 5.", CleanDateString(" 2024.  3.\t5. "))
}
