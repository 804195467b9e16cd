package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"timetable-ocr/ocr"
	"timetable-ocr/timetable"
)

// maxUploadBytes caps timetable photo uploads at 10MB.
const maxUploadBytes = 10 << 20

// healthHandler handles the GET /api/health endpoint
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "Backend is running!"})
}

// getTimetablesHandler handles the GET /api/timetable endpoint
func (app *App) getTimetablesHandler(c *gin.Context) {
	records, err := GetAllTimetables(app.Database)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Error fetching timetables: %v", err)})
		log.Errorf("Error fetching timetables: %v", err)
		return
	}

	timetables := make(map[string]StoredTimetable, len(records))
	for _, record := range records {
		stored, err := storedFromRecord(record)
		if err != nil {
			log.WithError(err).WithFields(logrus.Fields{
				"date": record.Date,
				"day":  record.Day,
			}).Warn("Skipping unreadable timetable record")
			continue
		}
		timetables[record.Date+"-"+record.Day] = stored
	}

	c.JSON(http.StatusOK, gin.H{"timetables": timetables})
}

// uploadTimetableHandler handles the POST /api/timetable/upload endpoint:
// it stores the photo, runs OCR and extraction for the requested day and
// persists the result keyed by date and day.
func (app *App) uploadTimetableHandler(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	date := c.PostForm("date")
	day := c.PostForm("day")
	if date == "" || day == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Date and day are required"})
		return
	}

	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 10MB upload limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable upload"})
		return
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable upload"})
		return
	}

	mtype := mimetype.Detect(content)
	if !mtype.Is("image/jpeg") && !mtype.Is("image/png") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only JPG and PNG images are allowed"})
		return
	}

	filename := uuid.New().String() + "-" + strings.ReplaceAll(filepath.Base(fileHeader.Filename), " ", "_")
	storedPath := filepath.Join(uploadDir, filename)
	if err := c.SaveUploadedFile(fileHeader, storedPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Error storing upload: %v", err)})
		log.Errorf("Error storing upload: %v", err)
		return
	}
	fileInfo := FileInfo{
		Filename:   filename,
		Path:       storedPath,
		UploadedAt: time.Now(),
	}

	log.WithFields(logrus.Fields{"date": date, "day": day}).Info("Processing timetable upload")

	processed, err := ocr.PreprocessImage(content)
	if err != nil {
		// Recognition still has a chance on the raw bytes.
		log.WithError(err).Warn("Preprocessing failed, using original image")
		processed = content
	}

	ctx := c.Request.Context()
	if err := app.ocrSlots.Acquire(ctx, 1); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Upload cancelled while waiting for OCR"})
		return
	}
	ocrResult, err := func() (*ocr.Result, error) {
		// The slot must come back even if the engine panics.
		defer app.ocrSlots.Release(1)
		return app.OCR.ProcessImage(ctx, processed)
	}()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to process timetable",
			"message": err.Error(),
		})
		log.Errorf("OCR failed: %v", err)
		return
	}

	doc := timetable.DocumentFromPage(ocrResult.Text, ocrResult.Page)
	extraction := timetable.Extract(doc, day)

	if err := saveExtraction(app.Database, date, day, fileInfo, extraction); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Error saving timetable: %v", err)})
		log.Errorf("Error saving timetable: %v", err)
		return
	}

	message := extraction.Message
	if message == "" {
		message = "File uploaded and processed successfully"
	}
	c.JSON(http.StatusOK, UploadResponse{
		Message:           message,
		File:              fileInfo,
		Timetable:         extraction.Timetable,
		Subjects:          extraction.Subjects,
		Date:              date,
		Day:               day,
		Holiday:           extraction.Holiday,
		DetectedDays:      extraction.DetectedDays,
		DetectedDaysCount: extraction.DetectedDaysCount,
		DetectedDate:      extraction.DetectedDate,
	})
}

func saveExtraction(db *gorm.DB, date, day string, file FileInfo, extraction timetable.Result) error {
	payload, err := json.Marshal(extraction)
	if err != nil {
		return fmt.Errorf("encoding extraction: %w", err)
	}
	return SaveTimetable(db, TimetableRecord{
		Date:       date,
		Day:        day,
		Filename:   file.Filename,
		FilePath:   file.Path,
		UploadedAt: file.UploadedAt,
		Result:     string(payload),
	})
}

func storedFromRecord(record TimetableRecord) (StoredTimetable, error) {
	var extraction timetable.Result
	if err := json.Unmarshal([]byte(record.Result), &extraction); err != nil {
		return StoredTimetable{}, fmt.Errorf("decoding stored extraction: %w", err)
	}
	return StoredTimetable{
		Date: record.Date,
		Day:  record.Day,
		File: FileInfo{
			Filename:   record.Filename,
			Path:       record.FilePath,
			UploadedAt: record.UploadedAt,
		},
		Schedule:          extraction.Timetable,
		Subjects:          extraction.Subjects,
		Holiday:           extraction.Holiday,
		Message:           extraction.Message,
		DetectedDays:      extraction.DetectedDays,
		DetectedDaysCount: extraction.DetectedDaysCount,
		DetectedDate:      extraction.DetectedDate,
	}, nil
}
