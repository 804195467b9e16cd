package timetable

import (
	"math"
	"sort"
	"strings"
)

// Geometry thresholds, in image pixels unless noted. They are calibrated for
// phone photos of A4-ish sheets at typical OCR resolutions and can be retuned
// without touching the extraction logic.
const (
	// RowTolerance is the max distance between word top edges bucketed into
	// the same column row.
	RowTolerance = 18.0
	// RowBucketTolerance is the tighter equivalent used by the row-based
	// extractor, which buckets the whole page at once.
	RowBucketTolerance = 12.0
	// HeaderBandTolerance is the floor for the adaptive header band; the
	// band also grows with HeaderBandHeightScale times the average day-word
	// height.
	HeaderBandTolerance    = 60.0
	HeaderBandHeightScale  = 3.0
	// HeaderRetryTolerance is the floor when rebuilding a header band around
	// a day word found outside the top band.
	HeaderRetryTolerance = 80.0
	// ColumnEdgeExtension extends the first/last column outward by this
	// fraction of the header width when there is no neighboring header.
	ColumnEdgeExtension = 0.8
	// MergeMaxTextLen and MergeOverlapRatio gate the merging of vertically
	// adjacent short rows (wrapped subject text) into one cell.
	MergeMaxTextLen   = 20
	MergeOverlapRatio = 0.5
	// TimeScanPadY widens a row's vertical span when hunting for a time
	// label that OCR placed outside the column.
	TimeScanPadY = 16.0
	// HeaderBottomMargin keeps the header row itself out of its own column.
	HeaderBottomMargin = 2.0
)

// headerEntry is one day-name word in the header band.
type headerEntry struct {
	day     string
	bbox    BoundingBox
	xCenter float64
}

// headerEntries builds the sorted header list from day-name words.
// Duplicate days survive on purpose: column position disambiguates a day
// mentioned both in the header and in body text.
func headerEntries(dayWords []Word) []headerEntry {
	headers := make([]headerEntry, 0, len(dayWords))
	for _, w := range dayWords {
		day := NormalizeDay(w.Text)
		if day == "" {
			continue
		}
		headers = append(headers, headerEntry{
			day:     day,
			bbox:    w.BBox,
			xCenter: w.BBox.XCenter(),
		})
	}
	sort.SliceStable(headers, func(i, j int) bool {
		return headers[i].xCenter < headers[j].xCenter
	})
	return headers
}

func findHeader(headers []headerEntry, day string) int {
	for i, h := range headers {
		if h.day == day {
			return i
		}
	}
	return -1
}

// extractByColumn locates the requested day in the table's header row and
// reads the column below it: words are assigned to the column by horizontal
// center, bucketed into rows by vertical proximity, wrapped subject text is
// merged back together and each row becomes one entry. foundHeader stays
// false only when no header position for the day could be established at
// all, which the orchestrator's holiday policy relies on.
func extractByColumn(doc Document, requestedDay string) strategyResult {
	if len(doc.Words) == 0 && len(doc.Lines) == 0 {
		return strategyResult{}
	}

	var dayWords []Word
	for _, w := range doc.Words {
		if isDayToken(w.Text) {
			dayWords = append(dayWords, w)
		}
	}
	if len(dayWords) == 0 {
		return strategyResult{}
	}

	minY := math.Inf(1)
	var heightSum float64
	var heightCount int
	for _, w := range dayWords {
		if w.BBox.Y0 < minY {
			minY = w.BBox.Y0
		}
		if h := w.BBox.Y1 - w.BBox.Y0; h > 0 {
			heightSum += h
			heightCount++
		}
	}
	avgHeaderH := 20.0
	if heightCount > 0 {
		avgHeaderH = heightSum / float64(heightCount)
	}
	bandTol := math.Max(HeaderBandTolerance, avgHeaderH*HeaderBandHeightScale)

	var band []Word
	for _, w := range dayWords {
		if w.BBox.Y0-minY <= bandTol {
			band = append(band, w)
		}
	}
	headers := headerEntries(band)
	if len(headers) == 0 {
		headers = headerEntries(dayWords)
	}

	headerIdx := findHeader(headers, requestedDay)
	if headerIdx == -1 {
		// The requested day may sit below the top band (stacked tables,
		// repeated headers). Rebuild a local band around its topmost
		// occurrence and search again.
		chosen := -1
		for i, w := range dayWords {
			if NormalizeDay(w.Text) != requestedDay {
				continue
			}
			if chosen == -1 || w.BBox.Y0 < dayWords[chosen].BBox.Y0 {
				chosen = i
			}
		}
		if chosen != -1 {
			retryTol := math.Max(HeaderRetryTolerance, avgHeaderH*HeaderBandHeightScale)
			var alt []Word
			for _, w := range dayWords {
				if math.Abs(w.BBox.Y0-dayWords[chosen].BBox.Y0) <= retryTol {
					alt = append(alt, w)
				}
			}
			headers = headerEntries(alt)
			headerIdx = findHeader(headers, requestedDay)
		}
	}
	if headerIdx == -1 {
		return strategyResult{}
	}

	header := headers[headerIdx]
	headerWidth := header.bbox.Width()
	left := math.Max(0, header.bbox.X0-headerWidth*ColumnEdgeExtension)
	if headerIdx > 0 {
		left = (headers[headerIdx-1].xCenter + header.xCenter) / 2
	}
	right := header.bbox.X1 + headerWidth*ColumnEdgeExtension
	if headerIdx+1 < len(headers) {
		right = (header.xCenter + headers[headerIdx+1].xCenter) / 2
	}

	entries := emitColumnRows(doc, left, right, header.bbox.Y1)
	if len(entries) == 0 {
		// Skewed photos push cell text outside the computed boundaries;
		// retry once with the column widened by a full header width.
		widen := headerWidth
		if widen == 0 {
			widen = 40
		}
		entries = emitColumnRows(doc, math.Max(0, left-widen), right+widen, header.bbox.Y1)
	}

	return strategyResult{
		entries:     entries,
		subjects:    distinctSubjects(entries),
		foundHeader: true,
	}
}

// emitColumnRows walks one column boundary pass: collect, bucket, merge,
// emit.
func emitColumnRows(doc Document, left, right, headerBottom float64) []Entry {
	var col []int
	for i, w := range doc.Words {
		if strings.TrimSpace(w.Text) == "" {
			continue
		}
		center := w.BBox.XCenter()
		if center >= left && center <= right && w.BBox.Y0 >= headerBottom+HeaderBottomMargin {
			col = append(col, i)
		}
	}
	sort.SliceStable(col, func(i, j int) bool {
		a, b := doc.Words[col[i]].BBox, doc.Words[col[j]].BBox
		if a.Y0 != b.Y0 {
			return a.Y0 < b.Y0
		}
		return a.X0 < b.X0
	})

	rows := mergeWrappedRows(doc, bucketRows(doc, col, RowTolerance))

	var entries []Entry
	sno := 1
	for _, row := range rows {
		e, ok := rowEntry(doc, row, sno)
		if !ok {
			continue
		}
		entries = append(entries, e)
		sno++
	}
	return entries
}

// bucketRows groups word indexes into visual rows: a word joins the first
// row whose most recently added word has a top edge within tol, otherwise it
// opens a new row. Callers pass indexes already sorted by (y, x).
func bucketRows(doc Document, idxs []int, tol float64) [][]int {
	var rows [][]int
	for _, i := range idxs {
		placed := false
		for r := range rows {
			last := rows[r][len(rows[r])-1]
			if math.Abs(doc.Words[i].BBox.Y0-doc.Words[last].BBox.Y0) <= tol {
				rows[r] = append(rows[r], i)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, []int{i})
		}
	}
	return rows
}

// rowSpan is the bounding box and concatenated text of one bucketed row.
type rowSpan struct {
	x0, x1, y0, y1 float64
	text           string
}

func spanOf(doc Document, row []int) rowSpan {
	s := rowSpan{
		x0: math.Inf(1), y0: math.Inf(1),
		x1: math.Inf(-1), y1: math.Inf(-1),
	}
	texts := make([]string, 0, len(row))
	for _, i := range row {
		b := doc.Words[i].BBox
		s.x0 = math.Min(s.x0, b.X0)
		s.x1 = math.Max(s.x1, b.X1)
		s.y0 = math.Min(s.y0, b.Y0)
		s.y1 = math.Max(s.y1, b.Y1)
		texts = append(texts, doc.Words[i].Text)
	}
	s.text = strings.TrimSpace(strings.Join(texts, " "))
	return s
}

// isWrappedFragment reports whether a row looks like half of a subject that
// OCR split across two lines: short and carrying no time label.
func isWrappedFragment(s rowSpan) bool {
	return len(s.text) <= MergeMaxTextLen && !hasTimeRange(s.text)
}

// mergeWrappedRows reassembles cells whose text wrapped onto a second line,
// e.g. "Social" above "Studies": consecutive short time-less rows with a
// small vertical gap and at least MergeOverlapRatio horizontal overlap are
// combined. Merging runs before the wider time search so a time label next
// to a wrapped cell binds to the merged row, not to either fragment.
func mergeWrappedRows(doc Document, rows [][]int) [][]int {
	var merged [][]int
	for i := 0; i < len(rows); i++ {
		curr := rows[i]
		currSpan := spanOf(doc, curr)
		if isWrappedFragment(currSpan) {
			for i+1 < len(rows) {
				nextSpan := spanOf(doc, rows[i+1])
				yGap := math.Abs(nextSpan.y0 - currSpan.y1)
				overlap := math.Max(0, math.Min(currSpan.x1, nextSpan.x1)-math.Max(currSpan.x0, nextSpan.x0))
				union := math.Max(currSpan.x1, nextSpan.x1) - math.Min(currSpan.x0, nextSpan.x0)
				ratio := 0.0
				if union > 0 {
					ratio = overlap / union
				}
				if !isWrappedFragment(nextSpan) || yGap > RowTolerance*2 || ratio < MergeOverlapRatio {
					break
				}
				curr = append(append([]int(nil), curr...), rows[i+1]...)
				currSpan = spanOf(doc, curr)
				i++
			}
		}
		merged = append(merged, curr)
	}
	return merged
}

// rowEntry turns one merged row into a timetable entry. The time label is
// searched across every word at the row's height, not just the column's own
// words, because OCR often drifts the time cell slightly out of the column.
func rowEntry(doc Document, row []int, sno int) (Entry, bool) {
	span := spanOf(doc, row)
	if span.text == "" {
		return Entry{}, false
	}

	inRow := make(map[int]bool, len(row))
	for _, i := range row {
		inRow[i] = true
	}
	full := append([]int(nil), row...)
	for i, w := range doc.Words {
		if !inRow[i] && overlapsY(w.BBox, span.y0, span.y1, TimeScanPadY) {
			full = append(full, i)
		}
	}
	sort.SliceStable(full, func(i, j int) bool {
		return doc.Words[full[i]].BBox.X0 < doc.Words[full[j]].BBox.X0
	})
	texts := make([]string, 0, len(full))
	for _, i := range full {
		texts = append(texts, doc.Words[i].Text)
	}
	fullText := strings.TrimSpace(strings.Join(texts, " "))

	timeLabel := ""
	subject := span.text
	if matches := findTimeRanges(fullText); len(matches) > 0 {
		m := matches[0]
		timeLabel = m.label
		subject = strings.TrimSpace(strings.Replace(subject, fullText[m.start:m.end], "", 1))
	}

	cleaned, ok := cleanSubject(subject, false)
	if !ok {
		return Entry{}, false
	}
	return Entry{SNo: sno, Subject: cleaned, Time: timeLabel, Status: ""}, true
}

// overlapsY reports whether box b's vertical span intersects [y0, y1]
// widened by pad on both sides.
func overlapsY(b BoundingBox, y0, y1, pad float64) bool {
	top := math.Max(b.Y0, y0-pad)
	bot := math.Min(b.Y1, y1+pad)
	return bot >= top
}
