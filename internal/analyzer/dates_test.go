package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-03-05", "2024-03-05"},
		{"2024-03-05T10:11:12Z", "2024-03-05"},
		{"2024-03-05 10:11:12", "2024-03-05"},
		{"2024/03/05", "2024-03-05"},
		{"03/05/2024", "2024-03-05"},
		{"3/5/2024", "2024-03-05"},
		{"25/12/2024", "2024-12-25"},
		{"05.03.2024", "2024-03-05"},
		{"Mar 5, 2024", "2024-03-05"},
		{"March 5, 2024", "2024-03-05"},
		{"5 Mar 2024", "2024-03-05"},
		{" 2024-03-05 ", "2024-03-05"},
	}
	for _, tt := range tests {
		got, ok := parseDate(tt.in)
		if assert.True(t, ok, tt.in) {
			assert.Equal(t, tt.want, got.Format("2006-01-02"), tt.in)
		}
	}

	for _, bad := range []string{"", "soon", "2024-13-01", "12:30", "abc-def", "v01"} {
		_, ok := parseDate(bad)
		assert.False(t, ok, bad)
	}
}

func TestIsDateColumn(t *testing.T) {
	assert.True(t, isDateColumn([]string{"2024-01-01", "Jan 2, 2024"}))
	assert.False(t, isDateColumn([]string{"2024-01-01", "nope"}))
	assert.False(t, isDateColumn(nil))
}

func TestDateRange(t *testing.T) {
	earliest, latest, ok := dateRange([]string{"2024-05-01", "2023-01-01", "2024-01-01"})
	assert.True(t, ok)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), earliest)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), latest)

	_, _, ok = dateRange([]string{"x"})
	assert.False(t, ok)
}
