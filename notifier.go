package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// NotifierConfig holds the Web Push credentials.
type NotifierConfig struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	Subscriber      string // mailto: contact reported to the push service
}

// Notifier sends the daily attendance reminder to every push subscription
// at its chosen local time. One cron entry per subscription; schedules are
// rebuilt from the database at startup.
type Notifier struct {
	db      *gorm.DB
	config  NotifierConfig
	cron    *cron.Cron
	client  *http.Client
	limiter *rate.Limiter

	mu   sync.Mutex
	jobs map[string]cron.EntryID
}

func NewNotifier(db *gorm.DB, config NotifierConfig) *Notifier {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.Logger = nil

	return &Notifier{
		db:      db,
		config:  config,
		cron:    cron.New(),
		client:  retryClient.StandardClient(),
		limiter: rate.NewLimiter(rate.Limit(5), 10), // stay friendly to the push service
		jobs:    make(map[string]cron.EntryID),
	}
}

// Start restores the schedule for every stored subscription and starts the
// cron runner.
func (n *Notifier) Start() error {
	subs, err := GetAllSubscriptions(n.db)
	if err != nil {
		return fmt.Errorf("loading subscriptions: %w", err)
	}
	for _, sub := range subs {
		if err := n.Schedule(sub.UserKey, sub.NotificationTime); err != nil {
			log.WithError(err).WithField("user", sub.UserKey).Warn("Skipping unschedulable subscription")
		}
	}
	n.cron.Start()
	log.Infof("Scheduled notifications for %d subscriptions", len(subs))
	return nil
}

// Stop halts the cron runner; running jobs finish on their own.
func (n *Notifier) Stop() {
	n.cron.Stop()
}

// Schedule registers, or replaces, the daily job for one user at "HH:MM".
func (n *Notifier) Schedule(userKey, notificationTime string) error {
	var hour, minute int
	if _, err := fmt.Sscanf(notificationTime, "%d:%d", &hour, &minute); err != nil {
		return fmt.Errorf("invalid notification time %q: %w", notificationTime, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return fmt.Errorf("invalid notification time %q", notificationTime)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if id, ok := n.jobs[userKey]; ok {
		n.cron.Remove(id)
	}
	spec := fmt.Sprintf("%d %d * * *", minute, hour)
	id, err := n.cron.AddFunc(spec, func() {
		if err := n.Notify(userKey); err != nil {
			log.WithError(err).WithField("user", userKey).Error("Failed to send push notification")
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling notification: %w", err)
	}
	n.jobs[userKey] = id

	log.WithFields(logrus.Fields{"user": userKey, "cron": spec}).Info("Scheduled daily notification")
	return nil
}

// Unschedule cancels the daily job for one user, if any.
func (n *Notifier) Unschedule(userKey string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if id, ok := n.jobs[userKey]; ok {
		n.cron.Remove(id)
		delete(n.jobs, userKey)
	}
}

type pushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon"`
	Badge string `json:"badge"`
	Data  struct {
		URL       string `json:"url"`
		Timestamp int64  `json:"timestamp"`
	} `json:"data"`
}

// Notify sends the reminder to one user now. A subscription the push
// service reports gone (404/410, e.g. the user revoked permission) is
// removed and unscheduled rather than retried forever.
func (n *Notifier) Notify(userKey string) error {
	sub, err := GetSubscription(n.db, userKey)
	if err != nil {
		return fmt.Errorf("loading subscription: %w", err)
	}

	payload := pushPayload{
		Title: "Attendance Tracker",
		Body:  "Time to mark your attendance for today!",
		Icon:  "/favicon.ico",
		Badge: "/favicon.ico",
	}
	payload.Data.URL = "/"
	payload.Data.Timestamp = time.Now().UnixMilli()
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := n.limiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := webpush.SendNotification(body, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys:     webpush.Keys{P256dh: sub.P256dh, Auth: sub.Auth},
	}, &webpush.Options{
		HTTPClient:      n.client,
		Subscriber:      n.config.Subscriber,
		VAPIDPublicKey:  n.config.VAPIDPublicKey,
		VAPIDPrivateKey: n.config.VAPIDPrivateKey,
		TTL:             60,
	})
	if err != nil {
		return fmt.Errorf("sending notification: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		log.WithField("user", userKey).Info("Removing gone push subscription")
		n.Unschedule(userKey)
		if err := DeleteSubscription(n.db, userKey); err != nil {
			log.WithError(err).WithField("user", userKey).Warn("Failed to delete gone subscription")
		}
		return nil
	case resp.StatusCode >= 400:
		return fmt.Errorf("push service returned status %d", resp.StatusCode)
	}

	log.WithField("user", userKey).Info("Push notification sent")
	return nil
}
