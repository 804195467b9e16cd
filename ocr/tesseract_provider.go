package ocr

import (
	"context"
	"fmt"

	"github.com/gardar/ocrchestra/pkg/hocr"
	"github.com/otiai10/gosseract/v2"
)

// TesseractProvider implements OCR using a local Tesseract installation
type TesseractProvider struct {
	language string
}

func newTesseractProvider(config Config) (*TesseractProvider, error) {
	language := config.TesseractLanguage
	if language == "" {
		language = "eng"
	}
	return &TesseractProvider{language: language}, nil
}

func (p *TesseractProvider) ProcessImage(ctx context.Context, imageContent []byte) (*Result, error) {
	// Tesseract runs in-process and cannot be interrupted midway, so honor
	// cancellation up front.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := log.WithField("language", p.language)
	logger.Debug("Starting Tesseract processing")

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(p.language); err != nil {
		return nil, fmt.Errorf("error setting Tesseract language: %w", err)
	}
	if err := client.SetImageFromBytes(imageContent); err != nil {
		return nil, fmt.Errorf("error setting image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("error recognizing text: %w", err)
	}

	wordBoxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("error reading word boxes: %w", err)
	}
	lineBoxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("error reading line boxes: %w", err)
	}

	words := make([]hocr.Word, 0, len(wordBoxes))
	for _, b := range wordBoxes {
		words = append(words, hocr.Word{
			Text:       b.Word,
			Confidence: b.Confidence,
			BBox: hocr.NewBoundingBox(
				float64(b.Box.Min.X), float64(b.Box.Min.Y),
				float64(b.Box.Max.X), float64(b.Box.Max.Y)),
		})
	}
	lines := make([]hocr.BoundingBox, 0, len(lineBoxes))
	for _, b := range lineBoxes {
		lines = append(lines, hocr.NewBoundingBox(
			float64(b.Box.Min.X), float64(b.Box.Min.Y),
			float64(b.Box.Max.X), float64(b.Box.Max.Y)))
	}

	logger.WithField("content_length", len(text)).Info("Successfully processed image with Tesseract")

	return &Result{
		Text: text,
		Page: assemblePage(words, lines),
		Metadata: map[string]string{
			"provider": "tesseract",
			"language": p.language,
		},
	}, nil
}
