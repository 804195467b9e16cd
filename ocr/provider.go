package ocr

import (
	"context"
	"fmt"

	"github.com/gardar/ocrchestra/pkg/hocr"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// Result holds the output from OCR processing
type Result struct {
	// Plain text output (required)
	Text string

	// hOCR page with word bounding boxes (required for layout extraction)
	Page *hocr.Page

	// Additional provider-specific metadata
	Metadata map[string]string
}

// Provider defines the interface for OCR processing
type Provider interface {
	ProcessImage(ctx context.Context, imageContent []byte) (*Result, error)
}

// Config holds the OCR provider configuration
type Config struct {
	// Provider type (e.g., "tesseract", "google_docai")
	Provider string

	// Tesseract settings
	TesseractLanguage string // Optional, defaults to "eng"

	// Google Document AI settings
	GoogleProjectID   string
	GoogleLocation    string
	GoogleProcessorID string
}

// NewProvider creates a new OCR provider based on configuration
func NewProvider(config Config) (Provider, error) {
	log.Info("Initializing OCR provider: ", config.Provider)

	switch config.Provider {
	case "tesseract", "":
		log.WithField("language", config.TesseractLanguage).Info("Using local Tesseract provider")
		return newTesseractProvider(config)

	case "google_docai":
		if config.GoogleProjectID == "" || config.GoogleLocation == "" || config.GoogleProcessorID == "" {
			return nil, fmt.Errorf("missing required Google Document AI configuration")
		}
		log.WithFields(logrus.Fields{
			"location":     config.GoogleLocation,
			"processor_id": config.GoogleProcessorID,
		}).Info("Using Google Document AI provider")
		return newGoogleDocAIProvider(config)

	default:
		return nil, fmt.Errorf("unsupported OCR provider: %s", config.Provider)
	}
}

// SetLogLevel sets the logging level for the OCR package
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}
