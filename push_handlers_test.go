package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupPushApp builds an App with a temp database and the push routes
// registered.
func setupPushApp(t *testing.T) (*App, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbDir = t.TempDir()
	database := InitializeDB()
	app := &App{
		Database: database,
		Notifier: NewNotifier(database, NotifierConfig{}),
	}

	router := gin.Default()
	router.GET("/api/push/vapid-public-key", app.vapidPublicKeyHandler)
	router.POST("/api/push/subscribe", app.subscribeHandler)
	router.POST("/api/push/update-time", app.updateTimeHandler)
	router.POST("/api/push/unsubscribe", app.unsubscribeHandler)
	return app, router
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req, _ := http.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func subscribePayload(userID, notificationTime string) map[string]any {
	return map[string]any{
		"subscription": map[string]any{
			"endpoint": "https://push.example.com/send/abc123",
			"keys":     map[string]string{"p256dh": "key-material", "auth": "auth-secret"},
		},
		"notificationTime": notificationTime,
		"userId":           userID,
	}
}

func TestVapidPublicKeyHandler(t *testing.T) {
	vapidPublicKey = "test-public-key"
	_, router := setupPushApp(t)

	req, _ := http.NewRequest("GET", "/api/push/vapid-public-key", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "test-public-key", response["publicKey"])
}

func TestSubscribeHandler(t *testing.T) {
	app, router := setupPushApp(t)

	w := postJSON(t, router, "/api/push/subscribe", subscribePayload("user-1", "08:15"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	sub, err := GetSubscription(app.Database, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "https://push.example.com/send/abc123", sub.Endpoint)
	assert.Equal(t, "08:15", sub.NotificationTime)
	assert.Contains(t, app.Notifier.jobs, "user-1")
}

func TestSubscribeHandlerDefaults(t *testing.T) {
	app, router := setupPushApp(t)

	// No userId and no time: the endpoint becomes the key, 09:00 the time.
	w := postJSON(t, router, "/api/push/subscribe", subscribePayload("", ""))
	require.Equal(t, http.StatusOK, w.Code)

	sub, err := GetSubscription(app.Database, "https://push.example.com/send/abc123")
	require.NoError(t, err)
	assert.Equal(t, "09:00", sub.NotificationTime)
}

func TestSubscribeHandlerInvalid(t *testing.T) {
	_, router := setupPushApp(t)

	w := postJSON(t, router, "/api/push/subscribe", map[string]any{"userId": "user-1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateTimeHandler(t *testing.T) {
	app, router := setupPushApp(t)

	w := postJSON(t, router, "/api/push/subscribe", subscribePayload("user-1", "08:15"))
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, router, "/api/push/update-time", UpdateTimeRequest{UserID: "user-1", NotificationTime: "21:45"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	sub, err := GetSubscription(app.Database, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "21:45", sub.NotificationTime)
}

func TestUpdateTimeHandlerNotFound(t *testing.T) {
	_, router := setupPushApp(t)

	w := postJSON(t, router, "/api/push/update-time", UpdateTimeRequest{UserID: "ghost", NotificationTime: "10:00"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnsubscribeHandler(t *testing.T) {
	app, router := setupPushApp(t)

	w := postJSON(t, router, "/api/push/subscribe", subscribePayload("user-1", "08:15"))
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, router, "/api/push/unsubscribe", UserKeyRequest{UserID: "user-1"})
	require.Equal(t, http.StatusOK, w.Code)

	_, err := GetSubscription(app.Database, "user-1")
	require.Error(t, err)
	assert.NotContains(t, app.Notifier.jobs, "user-1")
}
