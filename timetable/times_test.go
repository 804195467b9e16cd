package timetable

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindTimeRanges(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Plain range in context",
			input:    "Class 9:00-10:00 Room",
			expected: []string{"9:00 - 10:00"},
		},
		{
			name:     "Dot separator with am/pm and en dash",
			input:    "9.00am–10.00pm",
			expected: []string{"9:00 - 10:00"},
		},
		{
			name:     "Dotted meridiem markers",
			input:    "10:30 a.m. - 11:30 a.m.",
			expected: []string{"10:30 - 11:30"},
		},
		{
			name:     "Leading zero dropped from hours",
			input:    "08:15-09:45",
			expected: []string{"8:15 - 9:45"},
		},
		{
			name:     "Multiple ranges left to right",
			input:    "9:00-10:00 Math 10:00-11:00 Science",
			expected: []string{"9:00 - 10:00", "10:00 - 11:00"},
		},
		{
			name:     "Em dash",
			input:    "7:00—8:00",
			expected: []string{"7:00 - 8:00"},
		},
		{
			name:     "Single time is not a range",
			input:    "starts at 9:00 sharp",
			expected: nil,
		},
		{
			name:     "One minute digit does not match",
			input:    "9:0-10:0",
			expected: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			matches := findTimeRanges(tc.input)
			labels := make([]string, 0, len(matches))
			for _, m := range matches {
				labels = append(labels, m.label)
			}
			if tc.expected == nil {
				assert.Empty(t, labels)
				return
			}
			assert.Equal(t, tc.expected, labels)
		})
	}
}

func TestFindTimeRangesOffsets(t *testing.T) {
	input := "Math 9:00-10:00 then 10:00-11:00 Science"
	matches := findTimeRanges(input)
	require.Len(t, matches, 2)

	// The span may swallow whitespace trailing the range (the optional am/pm
	// marker is preceded by \s*), so compare trimmed.
	assert.Equal(t, "9:00-10:00", strings.TrimSpace(input[matches[0].start:matches[0].end]))
	assert.Equal(t, "10:00-11:00", strings.TrimSpace(input[matches[1].start:matches[1].end]))
	assert.Less(t, matches[0].end, matches[1].start)
}

func TestHasTimeRange(t *testing.T) {
	assert.True(t, hasTimeRange("9:00 - 10:00"))
	assert.False(t, hasTimeRange("Social Studies"))
}
