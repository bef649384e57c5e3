// Package storage defines the subscriber preference store and its implementations.
package storage

import (
	"context"

	"github.com/boomerok2001-cpu/boomerbot/internal/model"
)

// Storage holds per-subscriber topic preferences.
//
// Records are created lazily with every topic enabled and are never deleted.
type Storage interface {
	// Get returns the preferences of chatID, creating the default record if absent.
	Get(ctx context.Context, chatID int64) (model.Preferences, error)
	// Toggle flips one topic flag and returns the updated record. An invalid
	// topic leaves the record untouched.
	Toggle(ctx context.Context, chatID int64, topic model.Topic) (model.Preferences, error)
	// List returns every known subscriber in subscription order.
	List(ctx context.Context) ([]model.Preferences, error)

	Close() error
}
