package notification

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureNotifier struct {
	sent []Notification
	fail error
}

func (c *captureNotifier) Notify(_ context.Context, n Notification) error {
	if c.fail != nil {
		return c.fail
	}
	c.sent = append(c.sent, n)
	return nil
}

func testNotification(recipient int64, day string) Notification {
	created, _ := time.Parse("2006-01-02", day)
	return Notification{
		RecipientID: &recipient,
		Title:       "Vacation started",
		Message:     "on vacation",
		Category:    CategoryVacationStart,
		CreatedAt:   created,
	}
}

func TestDedupNotifierSuppressesSameDayRepeat(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	next := &captureNotifier{}
	d := NewDedupNotifier(client, next, time.Hour, slog.New(slog.DiscardHandler))

	n := testNotification(1, "2024-07-05")
	require.NoError(t, d.Notify(context.Background(), n))
	require.NoError(t, d.Notify(context.Background(), n))
	assert.Len(t, next.sent, 1)
}

func TestDedupNotifierDistinguishesRecipientsAndDays(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	next := &captureNotifier{}
	d := NewDedupNotifier(client, next, time.Hour, slog.New(slog.DiscardHandler))

	require.NoError(t, d.Notify(context.Background(), testNotification(1, "2024-07-05")))
	require.NoError(t, d.Notify(context.Background(), testNotification(2, "2024-07-05")))
	require.NoError(t, d.Notify(context.Background(), testNotification(1, "2024-07-06")))
	assert.Len(t, next.sent, 3)
}

func TestDedupNotifierFailsOpenWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	next := &captureNotifier{}
	d := NewDedupNotifier(client, next, time.Hour, slog.New(slog.DiscardHandler))

	require.NoError(t, d.Notify(context.Background(), testNotification(1, "2024-07-05")))
	assert.Len(t, next.sent, 1)
}

func TestDedupNotifierPropagatesDeliveryError(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	next := &captureNotifier{fail: errors.New("store down")}
	d := NewDedupNotifier(client, next, time.Hour, slog.New(slog.DiscardHandler))

	err := d.Notify(context.Background(), testNotification(1, "2024-07-05"))
	assert.Error(t, err)
}

func TestDedupNotifierNilClientDelivers(t *testing.T) {
	next := &captureNotifier{}
	d := NewDedupNotifier(nil, next, time.Hour, slog.New(slog.DiscardHandler))

	require.NoError(t, d.Notify(context.Background(), testNotification(1, "2024-07-05")))
	require.NoError(t, d.Notify(context.Background(), testNotification(1, "2024-07-05")))
	assert.Len(t, next.sent, 2)
}
