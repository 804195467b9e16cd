package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvOrDefault(t *testing.T) {
	t.Setenv("TEST_ENV_OR_DEFAULT", "set")
	assert.Equal(t, "set", envOrDefault("TEST_ENV_OR_DEFAULT", "fallback"))
	assert.Equal(t, "fallback", envOrDefault("TEST_ENV_OR_DEFAULT_MISSING", "fallback"))
}

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "UPLOAD_DIR", "DB_DIR", "OCR_PROVIDER", "OCR_LANGUAGE",
		"OCR_CONCURRENCY", "VAPID_SUBSCRIBER",
	} {
		t.Setenv(key, "")
	}

	loadConfig()

	assert.Equal(t, "5000", port)
	assert.Equal(t, "uploads", uploadDir)
	assert.Equal(t, "db", dbDir)
	assert.Equal(t, "tesseract", ocrProvider)
	assert.Equal(t, "eng", ocrLanguage)
	assert.Equal(t, 2, ocrConcurrency)
	assert.Equal(t, "mailto:attendance-tracker@example.com", vapidSubscriber)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("OCR_PROVIDER", "google_docai")
	t.Setenv("OCR_CONCURRENCY", "4")
	t.Setenv("GOOGLE_PROJECT_ID", "proj")

	loadConfig()

	assert.Equal(t, "8080", port)
	assert.Equal(t, "google_docai", ocrProvider)
	assert.Equal(t, 4, ocrConcurrency)
	assert.Equal(t, "proj", googleProjectID)
}
