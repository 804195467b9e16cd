package timetable

import (
	"regexp"
	"sort"
	"strings"
)

// extractByRow handles timetables laid out one day per row instead of one
// day per column: all words are bucketed into rows, the first row whose text
// mentions the requested day is split at its time ranges and the text after
// each range becomes that slot's subject. Rows past the first match are
// ignored so a summary line elsewhere cannot double the schedule.
func extractByRow(doc Document, requestedDay string) strategyResult {
	if len(doc.Words) == 0 {
		return strategyResult{}
	}

	var idxs []int
	for i, w := range doc.Words {
		if strings.TrimSpace(w.Text) != "" {
			idxs = append(idxs, i)
		}
	}
	sort.SliceStable(idxs, func(i, j int) bool {
		a, b := doc.Words[idxs[i]].BBox, doc.Words[idxs[j]].BBox
		if a.Y0 != b.Y0 {
			return a.Y0 < b.Y0
		}
		return a.X0 < b.X0
	})
	rows := bucketRows(doc, idxs, RowBucketTolerance)

	var entries []Entry
	sno := 1
	for _, row := range rows {
		lineText := spanOf(doc, row).text
		if !strings.Contains(strings.ToLower(lineText), requestedDay) {
			continue
		}

		matches := findTimeRanges(lineText)
		if len(matches) == 0 {
			// No explicit times: the whole row minus the first day token is
			// one subject block.
			dayRe := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(requestedDay))
			subject := lineText
			if loc := dayRe.FindStringIndex(lineText); loc != nil {
				subject = lineText[:loc[0]] + " " + lineText[loc[1]:]
			}
			subject = strings.TrimSpace(subject)
			if cleaned, ok := cleanSubject(subject, false); ok {
				entries = append(entries, Entry{SNo: sno, Subject: cleaned, Status: ""})
				sno++
			}
			break
		}

		for i, m := range matches {
			end := len(lineText)
			if i+1 < len(matches) {
				end = matches[i+1].start
			}
			subject := strings.TrimSpace(lineText[m.end:end])
			cleaned, ok := cleanSubject(subject, false)
			if !ok {
				continue
			}
			entries = append(entries, Entry{SNo: sno, Subject: cleaned, Time: m.label, Status: ""})
			sno++
		}
		break
	}

	return strategyResult{entries: entries, subjects: distinctSubjects(entries)}
}
