package notification

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RepositoryPort is the persistence surface the store notifier needs.
type RepositoryPort interface {
	Create(ctx context.Context, n Notification) (*Notification, error)
}

// StoreNotifier persists notifications for the notification center to serve.
type StoreNotifier struct {
	repo RepositoryPort
}

// NewStoreNotifier builds a StoreNotifier.
func NewStoreNotifier(repo RepositoryPort) *StoreNotifier {
	return &StoreNotifier{repo: repo}
}

// Notify persists the notification.
func (s *StoreNotifier) Notify(ctx context.Context, n Notification) error {
	_, err := s.repo.Create(ctx, n)
	return err
}

// DedupNotifier suppresses same-day repeats of a notification keyed by
// category, recipient and calendar day. Re-running the daily sweep may emit
// duplicate notifications; this wrapper makes delivery at-most-once per day
// without touching reconciler logic. When Redis is unreachable it fails open
// and delivers.
type DedupNotifier struct {
	client *redis.Client
	next   Notifier
	ttl    time.Duration
	logger *slog.Logger
}

// NewDedupNotifier builds a DedupNotifier wrapping next.
func NewDedupNotifier(client *redis.Client, next Notifier, ttl time.Duration, logger *slog.Logger) *DedupNotifier {
	if ttl <= 0 {
		ttl = 48 * time.Hour
	}
	return &DedupNotifier{client: client, next: next, ttl: ttl, logger: logger}
}

// Notify delivers the notification unless an identical one was already
// delivered the same day.
func (d *DedupNotifier) Notify(ctx context.Context, n Notification) error {
	if d.client == nil {
		return d.next.Notify(ctx, n)
	}

	set, err := d.client.SetNX(ctx, d.key(n), 1, d.ttl).Result()
	if err != nil {
		if d.logger != nil {
			d.logger.Warn("notification dedup unavailable, delivering anyway", slog.Any("error", err))
		}
		return d.next.Notify(ctx, n)
	}
	if !set {
		return nil
	}
	return d.next.Notify(ctx, n)
}

func (d *DedupNotifier) key(n Notification) string {
	recipient := "all"
	if n.RecipientID != nil {
		recipient = strconv.FormatInt(*n.RecipientID, 10)
	}
	day := n.CreatedAt
	if day.IsZero() {
		day = time.Now().UTC()
	}
	return fmt.Sprintf("notify:%s:%s:%s", n.Category, recipient, day.Format("2006-01-02"))
}
