package seller

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// User-facing messages. Error details never reach the seller.
const (
	MsgListed           = "Product listed successfully!"
	MsgSubmitFailed     = "Failed to list product. Please try again."
	MsgImageUnsupported = "Please choose a JPEG, PNG or WebP image."
	MsgImageTooLarge    = "That image is too large."
)

type Notification struct {
	ID      string    `json:"id"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier delivers toast-style messages to the seller.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

type NotifierFunc func(ctx context.Context, n Notification) error

func (f NotifierFunc) Notify(ctx context.Context, n Notification) error { return f(ctx, n) }

// Feed keeps the most recent notifications in memory for the dashboard.
type Feed struct {
	mu    sync.Mutex
	items []Notification
	max   int
}

func NewFeed(max int) *Feed {
	if max <= 0 {
		max = 50
	}
	return &Feed{max: max}
}

func (f *Feed) Notify(ctx context.Context, n Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, n)
	if len(f.items) > f.max {
		f.items = f.items[len(f.items)-f.max:]
	}
	return nil
}

// Recent returns the kept notifications, oldest first.
func (f *Feed) Recent() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Notification(nil), f.items...)
}

func newNotification(level Level, msg string) Notification {
	return Notification{ID: ulid.Make().String(), Level: level, Message: msg, At: time.Now().UTC()}
}
