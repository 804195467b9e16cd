package timetable

import "strings"

// extractFromText is the last-resort strategy when geometry gave nothing:
// it walks the raw recognized text line by line, skips lines that mention a
// different day (they belong to another column that lost its layout) and
// emits one entry per remaining line that carries a time range.
func extractFromText(text, requestedDay string) strategyResult {
	var entries []Entry
	sno := 1

line:
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if requestedDay != "" {
			lower := strings.ToLower(line)
			for _, d := range canonicalDays {
				if d != requestedDay && strings.Contains(lower, d) {
					continue line
				}
			}
		}

		matches := findTimeRanges(line)
		if len(matches) == 0 {
			continue
		}
		m := matches[0]
		subject := strings.TrimSpace(line[:m.start] + " " + line[m.end:])
		cleaned, ok := cleanSubject(subject, true)
		if !ok {
			continue
		}
		entries = append(entries, Entry{SNo: sno, Subject: cleaned, Time: m.label, Status: ""})
		sno++
	}

	return strategyResult{entries: entries, subjects: distinctSubjects(entries)}
}
