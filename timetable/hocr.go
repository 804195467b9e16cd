package timetable

import (
	"strings"

	"github.com/gardar/ocrchestra/pkg/hocr"
)

// DocumentFromPage flattens an hOCR page into the Document the extractor
// consumes. Words are collected from every nesting level (areas, paragraphs,
// lines and loose words) since OCR engines differ in how deeply they group.
func DocumentFromPage(text string, page *hocr.Page) Document {
	doc := Document{Text: text}
	if page == nil {
		return doc
	}

	addWords := func(words []hocr.Word) {
		for _, w := range words {
			if strings.TrimSpace(w.Text) == "" {
				continue
			}
			doc.Words = append(doc.Words, Word{Text: w.Text, BBox: fromHOCRBox(w.BBox)})
		}
	}
	addLines := func(lines []hocr.Line) {
		for _, l := range lines {
			texts := make([]string, 0, len(l.Words))
			for _, w := range l.Words {
				texts = append(texts, w.Text)
			}
			doc.Lines = append(doc.Lines, Line{
				Text: strings.TrimSpace(strings.Join(texts, " ")),
				BBox: fromHOCRBox(l.BBox),
			})
			addWords(l.Words)
		}
	}
	addParagraphs := func(paragraphs []hocr.Paragraph) {
		for _, p := range paragraphs {
			addLines(p.Lines)
			addWords(p.Words)
		}
	}

	for _, a := range page.Areas {
		addParagraphs(a.Paragraphs)
		addLines(a.Lines)
		addWords(a.Words)
	}
	addParagraphs(page.Paragraphs)
	addLines(page.Lines)

	return doc
}

func fromHOCRBox(b hocr.BoundingBox) BoundingBox {
	return BoundingBox{X0: b.X1, Y0: b.Y1, X1: b.X2, Y1: b.Y2}
}
