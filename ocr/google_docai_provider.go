package ocr

import (
	"context"
	"fmt"
	"strings"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gardar/ocrchestra/pkg/hocr"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// GoogleDocAIProvider implements OCR using Google Document AI
type GoogleDocAIProvider struct {
	projectID   string
	location    string
	processorID string
	client      *documentai.DocumentProcessorClient
}

func newGoogleDocAIProvider(config Config) (*GoogleDocAIProvider, error) {
	logger := log.WithFields(logrus.Fields{
		"location":     config.GoogleLocation,
		"processor_id": config.GoogleProcessorID,
	})
	logger.Info("Creating new Google Document AI provider")

	ctx := context.Background()
	endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", config.GoogleLocation)

	client, err := documentai.NewDocumentProcessorClient(ctx, option.WithEndpoint(endpoint))
	if err != nil {
		logger.WithError(err).Error("Failed to create Document AI client")
		return nil, fmt.Errorf("error creating Document AI client: %w", err)
	}

	return &GoogleDocAIProvider{
		projectID:   config.GoogleProjectID,
		location:    config.GoogleLocation,
		processorID: config.GoogleProcessorID,
		client:      client,
	}, nil
}

func (p *GoogleDocAIProvider) ProcessImage(ctx context.Context, imageContent []byte) (*Result, error) {
	logger := log.WithFields(logrus.Fields{
		"project_id":   p.projectID,
		"location":     p.location,
		"processor_id": p.processorID,
	})
	logger.Debug("Starting Document AI processing")

	mtype := mimetype.Detect(imageContent)
	if !isImageMIMEType(mtype.String()) {
		logger.WithField("mime_type", mtype.String()).Error("Unsupported file type")
		return nil, fmt.Errorf("unsupported file type: %s", mtype.String())
	}

	name := fmt.Sprintf("projects/%s/locations/%s/processors/%s", p.projectID, p.location, p.processorID)

	req := &documentaipb.ProcessRequest{
		Name: name,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  imageContent,
				MimeType: mtype.String(),
			},
		},
	}

	resp, err := p.client.ProcessDocument(ctx, req)
	if err != nil {
		logger.WithError(err).Error("Failed to process document")
		return nil, fmt.Errorf("error processing document: %w", err)
	}

	if resp == nil || resp.Document == nil {
		return nil, fmt.Errorf("received nil response or document from Document AI")
	}
	if resp.Document.Error != nil {
		return nil, fmt.Errorf("document processing error: %s", resp.Document.Error.Message)
	}

	result := &Result{
		Text: resp.Document.Text,
		Metadata: map[string]string{
			"provider":     "google_docai",
			"mime_type":    mtype.String(),
			"page_count":   fmt.Sprintf("%d", len(resp.Document.GetPages())),
			"processor_id": p.processorID,
		},
	}

	if pages := resp.Document.GetPages(); len(pages) > 0 {
		if langs := pages[0].GetDetectedLanguages(); len(langs) > 0 {
			result.Metadata["lang_code"] = langs[0].GetLanguageCode()
		}
		result.Page = pageFromDocAI(resp.Document, pages[0])
	}

	logger.WithField("content_length", len(result.Text)).Info("Successfully processed document")
	return result, nil
}

// isImageMIMEType checks if the given MIME type is a supported image type
func isImageMIMEType(mimeType string) bool {
	supportedTypes := map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
	}
	return supportedTypes[mimeType]
}

// pageFromDocAI converts a Document AI page to an hOCR page, mapping tokens
// to words and line layouts to line boxes in absolute pixel coordinates.
func pageFromDocAI(doc *documentaipb.Document, page *documentaipb.Document_Page) *hocr.Page {
	pageWidth := float64(page.GetDimension().GetWidth())
	pageHeight := float64(page.GetDimension().GetHeight())

	var words []hocr.Word
	for _, token := range page.GetTokens() {
		layout := token.GetLayout()
		box, ok := docAIBox(layout, pageWidth, pageHeight)
		if !ok {
			continue
		}
		text := strings.TrimSpace(anchorText(doc, layout.GetTextAnchor()))
		if text == "" {
			continue
		}
		words = append(words, hocr.Word{
			Text:       text,
			Confidence: float64(layout.GetConfidence()) * 100,
			BBox:       box,
		})
	}

	var lines []hocr.BoundingBox
	for _, line := range page.GetLines() {
		if box, ok := docAIBox(line.GetLayout(), pageWidth, pageHeight); ok {
			lines = append(lines, box)
		}
	}

	return assemblePage(words, lines)
}

func docAIBox(layout *documentaipb.Document_Page_Layout, pageWidth, pageHeight float64) (hocr.BoundingBox, bool) {
	vertices := layout.GetBoundingPoly().GetNormalizedVertices()
	if len(vertices) < 4 {
		return hocr.BoundingBox{}, false
	}
	return hocr.NewBoundingBox(
		float64(vertices[0].GetX())*pageWidth,
		float64(vertices[0].GetY())*pageHeight,
		float64(vertices[2].GetX())*pageWidth,
		float64(vertices[2].GetY())*pageHeight,
	), true
}

func anchorText(doc *documentaipb.Document, anchor *documentaipb.Document_TextAnchor) string {
	var b strings.Builder
	for _, segment := range anchor.GetTextSegments() {
		start, end := segment.GetStartIndex(), segment.GetEndIndex()
		if start < 0 || end > int64(len(doc.Text)) || start > end {
			continue
		}
		b.WriteString(doc.Text[start:end])
	}
	return b.String()
}
