package audit

import (
	"context"
	"time"

	"codeberg.org/mutker/hostctl/internal/action"
)

// Journal records dispatched actions.
type Journal interface {
	action.Observer
	Record(ctx context.Context, entry *Entry) error
	Close() error
}

// Repository defines the interface for journal storage
type Repository interface {
	Record(entry *Entry) error
	recent(limit int) ([]Entry, error)
	Close() error
}

// Entry is one dispatched action.
type Entry struct {
	Timestamp time.Time
	Action    string
	Params    map[string]string
	Kind      string
	Status    int
	Message   string
	Duration  time.Duration
}
