package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductSet_AddDedupes(t *testing.T) {
	s := NewProductSet("a", " b ", "", "a")
	assert.Equal(t, []string{"a", "b"}, s.Items())

	added := s.Add("c", "b", "  ", "c", "d")
	assert.Equal(t, []string{"c", "d"}, added)
	assert.Equal(t, []string{"a", "b", "c", "d"}, s.Items())
}

func TestProductSet_Contains(t *testing.T) {
	s := NewProductSet("캐비진저")
	assert.True(t, s.Contains("캐비진저"))
	assert.False(t, s.Contains("캐비진저 "))
	assert.False(t, s.Contains("캐비"))

	var nilSet *ProductSet
	assert.False(t, nilSet.Contains("x"))
	assert.Equal(t, 0, nilSet.Len())
	assert.Equal(t, []string{}, nilSet.Items())
}

func TestProductSet_RemoveAt(t *testing.T) {
	s := NewProductSet("a", "b", "c")

	name, ok := s.RemoveAt(1)
	assert.True(t, ok)
	assert.Equal(t, "b", name)
	assert.Equal(t, []string{"a", "c"}, s.Items())
	assert.False(t, s.Contains("b"))

	_, ok = s.RemoveAt(5)
	assert.False(t, ok)
	_, ok = s.RemoveAt(-1)
	assert.False(t, ok)

	// A removed name can be added again.
	assert.Equal(t, []string{"b"}, s.Add("b"))
}

func TestProductSet_ClearAndClone(t *testing.T) {
	s := NewProductSet("a", "b")
	c := s.Clone()
	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, []string{}, s.Items())
	assert.Equal(t, []string{"a", "b"}, c.Items())
}

func TestProductSet_ZeroValue(t *testing.T) {
	var s ProductSet
	s.Add("x")
	assert.True(t, s.Contains("x"))
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single", "캐비진저", []string{"캐비진저"}},
		{"crlf and blanks", "a\r\n\r\n  b  \n\n", []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLines(tt.in))
		})
	}
}
