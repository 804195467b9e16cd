package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// vapidPublicKeyHandler handles the GET /api/push/vapid-public-key endpoint
func (app *App) vapidPublicKeyHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"publicKey": vapidPublicKey})
}

// subscribeHandler handles the POST /api/push/subscribe endpoint
func (app *App) subscribeHandler(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Subscription.Endpoint == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription"})
		return
	}

	userKey := req.UserID
	if userKey == "" {
		userKey = req.Subscription.Endpoint
	}
	notificationTime := req.NotificationTime
	if notificationTime == "" {
		notificationTime = "09:00"
	}

	sub := PushSubscription{
		UserKey:          userKey,
		Endpoint:         req.Subscription.Endpoint,
		P256dh:           req.Subscription.Keys.P256dh,
		Auth:             req.Subscription.Keys.Auth,
		NotificationTime: notificationTime,
	}
	if err := UpsertSubscription(app.Database, sub); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Error saving subscription: %v", err)})
		log.Errorf("Error saving subscription: %v", err)
		return
	}

	if err := app.Notifier.Schedule(userKey, notificationTime); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log.Infof("New subscription saved. Time: %s", notificationTime)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Subscription saved"})
}

// updateTimeHandler handles the POST /api/push/update-time endpoint
func (app *App) updateTimeHandler(c *gin.Context) {
	var req UpdateTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" || req.NotificationTime == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing userId or notificationTime"})
		return
	}

	sub, err := GetSubscription(app.Database, req.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Error loading subscription: %v", err)})
		log.Errorf("Error loading subscription: %v", err)
		return
	}

	sub.NotificationTime = req.NotificationTime
	if err := UpsertSubscription(app.Database, sub); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Error saving subscription: %v", err)})
		log.Errorf("Error saving subscription: %v", err)
		return
	}
	if err := app.Notifier.Schedule(req.UserID, req.NotificationTime); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log.Infof("Updated notification time for user to %s", req.NotificationTime)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// unsubscribeHandler handles the POST /api/push/unsubscribe endpoint
func (app *App) unsubscribeHandler(c *gin.Context) {
	var req UserKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing userId"})
		return
	}

	app.Notifier.Unschedule(req.UserID)
	if err := DeleteSubscription(app.Database, req.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Error deleting subscription: %v", err)})
		log.Errorf("Error deleting subscription: %v", err)
		return
	}

	log.Info("User unsubscribed")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// testPushHandler handles the POST /api/push/test endpoint, sending a
// notification immediately instead of waiting for the scheduled time.
func (app *App) testPushHandler(c *gin.Context) {
	var req UserKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing userId"})
		return
	}

	if _, err := GetSubscription(app.Database, req.UserID); errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Error loading subscription: %v", err)})
		return
	}

	if err := app.Notifier.Notify(req.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Error sending notification: %v", err)})
		log.Errorf("Error sending test notification: %v", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Test notification sent"})
}
