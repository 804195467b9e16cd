// Package timetable reconstructs a single day's class schedule from noisy
// OCR output. The input is the recognized text plus word bounding boxes; the
// table's structure is inferred from geometry, falling back to row-based and
// then text-only heuristics when the column layout cannot be recovered.
package timetable

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogLevel sets the logging level for the timetable package.
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// datePatterns pick up a written date anywhere in the document, most
// specific format first.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
	regexp.MustCompile(`\b\d{2}[/.\-]\d{2}[/.\-]\d{4}\b`),
	regexp.MustCompile(`\b\d{2}[/.\-]\d{2}[/.\-]\d{2}\b`),
}

func detectDate(text string) string {
	for _, re := range datePatterns {
		if m := re.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

// Extract reconstructs the schedule for requestedDay from one OCR document.
// Strategies run in order of reliability: column layout, then row layout,
// then text-only scanning. A day that is requested but nowhere detected in
// the document is a holiday. Extract never panics; any fault inside the
// strategies is recovered and reported as a conservative holiday result.
func Extract(doc Document, requestedDay string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Extraction failed")
			result = Result{
				Timetable: []Entry{},
				Subjects:  []string{},
				Holiday:   true,
				Message:   fmt.Sprintf("failed to parse timetable: %v", r),
			}
		}
	}()

	requested := NormalizeDay(strings.TrimSpace(requestedDay))
	detectedDays := DetectDays(doc)
	detectedDate := detectDate(doc.Text)

	log.WithFields(logrus.Fields{
		"requested_day": requested,
		"detected_days": detectedDays,
	}).Debug("Starting timetable extraction")

	column := extractByColumn(doc, requested)
	entries := column.entries
	subjects := column.subjects
	mode := ""
	if column.foundHeader {
		mode = "column"
	}

	if requested != "" && len(entries) == 0 {
		if row := extractByRow(doc, requested); len(row.entries) > 0 {
			entries = row.entries
			subjects = row.subjects
			mode = "row"
		}
	}

	if requested != "" && len(entries) == 0 && containsDay(detectedDays, requested) {
		if textOnly := extractFromText(doc.Text, requested); len(textOnly.entries) > 0 {
			entries = textOnly.entries
			subjects = textOnly.subjects
			mode = "text"
		}
	}

	holidayResult := func(message string) Result {
		return Result{
			Timetable:         []Entry{},
			Subjects:          []string{},
			Holiday:           true,
			Message:           message,
			DetectedDays:      detectedDays,
			DetectedDaysCount: len(detectedDays),
			DetectedDate:      detectedDate,
		}
	}

	// Holiday policy, first match wins. The last two guards look subsumed
	// by the first; they are kept deliberately so a future relaxation of
	// one rule cannot silently change the holiday outcome of the others.
	if requested != "" && !containsDay(detectedDays, requested) {
		return holidayResult(fmt.Sprintf("No classes for %s. Detected days: %s",
			requestedDay, strings.Join(detectedDays, ", ")))
	}
	if requested != "" && len(entries) == 0 && !containsDay(detectedDays, requested) {
		return holidayResult(fmt.Sprintf("No classes for %s in uploaded timetable", requestedDay))
	}
	if requested != "" && !column.foundHeader && !containsDay(detectedDays, requested) {
		return holidayResult(fmt.Sprintf("No classes for %s in uploaded timetable", requestedDay))
	}

	if entries == nil {
		entries = []Entry{}
	}
	if subjects == nil {
		subjects = []string{}
	}
	log.WithFields(logrus.Fields{
		"entries": len(entries),
		"mode":    mode,
	}).Debug("Extraction finished")

	return Result{
		Timetable:         entries,
		Subjects:          subjects,
		Holiday:           false,
		DetectedDays:      detectedDays,
		DetectedDaysCount: len(detectedDays),
		DetectedDate:      detectedDate,
		ExtractionMode:    mode,
	}
}

func containsDay(days []string, day string) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}
