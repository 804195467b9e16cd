package ocr

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// minOCRWidth is the narrowest image, in pixels, that still OCRs reliably;
// smaller uploads are upscaled before recognition.
const minOCRWidth = 1000

// PreprocessImage normalizes a photographed timetable for recognition:
// orientation fix, grayscale, a mild contrast boost and upscaling of small
// photos. Output is always PNG.
func PreprocessImage(imageContent []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(imageContent), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("error decoding image: %w", err)
	}

	processed := imaging.Grayscale(img)
	processed = imaging.AdjustContrast(processed, 10)
	if processed.Bounds().Dx() < minOCRWidth {
		processed = imaging.Resize(processed, minOCRWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, processed, imaging.PNG); err != nil {
		return nil, fmt.Errorf("error encoding image: %w", err)
	}
	return buf.Bytes(), nil
}
