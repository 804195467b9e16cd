package main

import (
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"

	"timetable-ocr/timetable"
)

// FileInfo describes a stored upload.
type FileInfo struct {
	Filename   string    `json:"filename"`
	Path       string    `json:"path"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// UploadResponse is the response payload for the POST /api/timetable/upload endpoint.
type UploadResponse struct {
	Message           string            `json:"message"`
	File              FileInfo          `json:"file"`
	Timetable         []timetable.Entry `json:"timetable"`
	Subjects          []string          `json:"subjects"`
	Date              string            `json:"date"`
	Day               string            `json:"day"`
	Holiday           bool              `json:"holiday"`
	DetectedDays      []string          `json:"detectedDays"`
	DetectedDaysCount int               `json:"detectedDaysCount"`
	DetectedDate      string            `json:"detectedDate,omitempty"`
}

// StoredTimetable is one persisted extraction as returned by the
// GET /api/timetable endpoint, keyed by "date-day".
type StoredTimetable struct {
	Date              string            `json:"date"`
	Day               string            `json:"day"`
	File              FileInfo          `json:"file"`
	Schedule          []timetable.Entry `json:"schedule"`
	Subjects          []string          `json:"subjects"`
	Holiday           bool              `json:"holiday"`
	Message           string            `json:"message,omitempty"`
	DetectedDays      []string          `json:"detectedDays"`
	DetectedDaysCount int               `json:"detectedDaysCount"`
	DetectedDate      string            `json:"detectedDate,omitempty"`
}

// SubscribeRequest is the request payload for the POST /api/push/subscribe endpoint.
type SubscribeRequest struct {
	Subscription     webpush.Subscription `json:"subscription"`
	NotificationTime string               `json:"notificationTime"`
	UserID           string               `json:"userId"`
}

// UpdateTimeRequest is the request payload for the POST /api/push/update-time endpoint.
type UpdateTimeRequest struct {
	UserID           string `json:"userId"`
	NotificationTime string `json:"notificationTime"`
}

// UserKeyRequest identifies a subscription for the unsubscribe and test endpoints.
type UserKeyRequest struct {
	UserID string `json:"userId"`
}
