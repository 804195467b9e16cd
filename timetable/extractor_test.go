package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractColumnLayout(t *testing.T) {
	result := Extract(headerRowDoc(), "tue")

	assert.False(t, result.Holiday)
	assert.Equal(t, "column", result.ExtractionMode)
	require.Len(t, result.Timetable, 1)
	assert.Equal(t, Entry{SNo: 1, Subject: "Physics", Time: "9:00 - 10:00", Status: ""}, result.Timetable[0])
	assert.Equal(t, []string{"Physics"}, result.Subjects)
	assert.Equal(t, []string{"monday", "tuesday", "wednesday"}, result.DetectedDays)
	assert.Equal(t, 3, result.DetectedDaysCount)
}

func TestExtractHolidayForUndetectedDay(t *testing.T) {
	result := Extract(headerRowDoc(), "Friday")

	assert.True(t, result.Holiday)
	assert.Equal(t, "No classes for Friday. Detected days: monday, tuesday, wednesday", result.Message)
	assert.NotNil(t, result.Timetable)
	assert.Empty(t, result.Timetable)
	assert.NotNil(t, result.Subjects)
	assert.Empty(t, result.Subjects)
	assert.Equal(t, 3, result.DetectedDaysCount)
}

func TestExtractTextOnlyFallback(t *testing.T) {
	// No word geometry at all: only the raw text survives, with a fuzzy day
	// mention. Extraction must fall through to the line scanner.
	doc := Document{
		Text: "saturd@y timetable\n9:00-10:00 Art Class\n10:00-11:00 Music\n",
	}

	result := Extract(doc, "saturday")

	assert.False(t, result.Holiday)
	assert.Equal(t, "text", result.ExtractionMode)
	require.Len(t, result.Timetable, 2)
	assert.Equal(t, "Art Class", result.Timetable[0].Subject)
	assert.Equal(t, "Music", result.Timetable[1].Subject)
	assert.Equal(t, []string{"saturday"}, result.DetectedDays)
}

func TestExtractEmptyDocument(t *testing.T) {
	result := Extract(Document{}, "monday")

	assert.True(t, result.Holiday)
	assert.NotNil(t, result.Timetable)
	assert.Empty(t, result.Timetable)
	assert.Empty(t, result.DetectedDays)
}

func TestExtractNoRequestedDay(t *testing.T) {
	// Without a requested day nothing can be declared a holiday.
	result := Extract(Document{Text: "just some text"}, "")

	assert.False(t, result.Holiday)
	assert.Empty(t, result.Timetable)
}

func TestExtractDeterministic(t *testing.T) {
	doc := headerRowDoc()
	first := Extract(doc, "tuesday")
	second := Extract(doc, "tuesday")
	assert.Equal(t, first, second)
}

func TestDetectDate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"iso", "Timetable for 2024-03-15", "2024-03-15"},
		{"slash full year", "w.e.f. 15/03/2024", "15/03/2024"},
		{"dotted", "Dated 15.03.2024", "15.03.2024"},
		{"short year", "valid from 15/03/24", "15/03/24"},
		{"iso wins over short", "12/05/24 sheet issued 2024-03-15", "2024-03-15"},
		{"none", "Monday Tuesday", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectDate(tt.text))
		})
	}
}

func TestExtractCarriesDetectedDate(t *testing.T) {
	doc := headerRowDoc()
	doc.Text = "w.e.f. 01/04/2024\n" + doc.Text

	result := Extract(doc, "tuesday")
	assert.Equal(t, "01/04/2024", result.DetectedDate)
}
