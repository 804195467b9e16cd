package main

import (
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TimetableRecord represents the schema of the timetables table; one row per
// uploaded (date, day) pair, re-uploads replace the previous extraction.
type TimetableRecord struct {
	ID         uint   `gorm:"primaryKey"`
	Date       string `gorm:"size:32;not null;uniqueIndex:idx_date_day"`
	Day        string `gorm:"size:16;not null;uniqueIndex:idx_date_day"`
	Filename   string `gorm:"size:512"`
	FilePath   string `gorm:"size:1024"`
	UploadedAt time.Time
	Result     string `gorm:"size:1048576"` // extraction result, JSON-serialized
}

// PushSubscription represents the schema of the push_subscriptions table
type PushSubscription struct {
	ID               uint   `gorm:"primaryKey"`
	UserKey          string `gorm:"size:512;not null;uniqueIndex"`
	Endpoint         string `gorm:"size:1024;not null"`
	P256dh           string `gorm:"size:512"`
	Auth             string `gorm:"size:512"`
	NotificationTime string `gorm:"size:8;not null;default:'09:00'"`
	CreatedAt        time.Time
}

// InitializeDB initializes the SQLite database and migrates the schema
func InitializeDB() *gorm.DB {
	if err := os.MkdirAll(dbDir, os.ModePerm); err != nil {
		log.Fatalf("Failed to create db directory: %v", err)
	}

	dbPath := filepath.Join(dbDir, "timetables.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&TimetableRecord{}, &PushSubscription{}); err != nil {
		log.Fatalf("Failed to migrate database schema: %v", err)
	}

	return db
}

// SaveTimetable inserts or replaces the extraction stored for the record's
// date and day.
func SaveTimetable(db *gorm.DB, record TimetableRecord) error {
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}, {Name: "day"}},
		UpdateAll: true,
	}).Create(&record)
	return result.Error
}

// GetAllTimetables retrieves every stored timetable record
func GetAllTimetables(db *gorm.DB) ([]TimetableRecord, error) {
	var records []TimetableRecord
	result := db.Order("date, day").Find(&records)
	return records, result.Error
}

// UpsertSubscription inserts or replaces a push subscription by user key
func UpsertSubscription(db *gorm.DB, sub PushSubscription) error {
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_key"}},
		UpdateAll: true,
	}).Create(&sub)
	return result.Error
}

// GetSubscription retrieves one push subscription by user key
func GetSubscription(db *gorm.DB, userKey string) (PushSubscription, error) {
	var sub PushSubscription
	result := db.Where("user_key = ?", userKey).First(&sub)
	return sub, result.Error
}

// GetAllSubscriptions retrieves every stored push subscription
func GetAllSubscriptions(db *gorm.DB) ([]PushSubscription, error) {
	var subs []PushSubscription
	result := db.Find(&subs)
	return subs, result.Error
}

// DeleteSubscription removes a push subscription by user key
func DeleteSubscription(db *gorm.DB, userKey string) error {
	result := db.Where("user_key = ?", userKey).Delete(&PushSubscription{})
	return result.Error
}
