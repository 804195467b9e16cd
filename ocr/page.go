package ocr

import (
	"strings"

	"github.com/gardar/ocrchestra/pkg/hocr"
)

// assemblePage builds an hOCR page from a flat word list and the line boxes
// the engine reported. Words are attached to the first line whose vertical
// span contains the word's center; words no line claims are kept as loose
// words under a single content area so nothing recognized is dropped.
func assemblePage(words []hocr.Word, lineBoxes []hocr.BoundingBox) *hocr.Page {
	page := &hocr.Page{
		ID:         "page_1",
		PageNumber: 1,
	}

	lines := make([]hocr.Line, len(lineBoxes))
	for i, box := range lineBoxes {
		lines[i] = hocr.Line{BBox: box}
	}

	var loose []hocr.Word
	for _, w := range words {
		if strings.TrimSpace(w.Text) == "" {
			continue
		}
		centerY := (w.BBox.Y1 + w.BBox.Y2) / 2
		placed := false
		for i := range lines {
			if centerY >= lines[i].BBox.Y1 && centerY <= lines[i].BBox.Y2 {
				lines[i].Words = append(lines[i].Words, w)
				placed = true
				break
			}
		}
		if !placed {
			loose = append(loose, w)
		}
	}

	for _, l := range lines {
		if len(l.Words) > 0 {
			page.Lines = append(page.Lines, l)
		}
	}
	if len(loose) > 0 {
		page.Areas = append(page.Areas, hocr.Area{Words: loose})
	}
	return page
}
