// Package orderid allocates daily-scoped, human-readable order
// identifiers of the form YYYYMMDDNNNN (12 ASCII digits).
package orderid

import (
	"context"
	"fmt"
	"time"
)

// CounterStore holds the daily order sequence outside the process so
// every instance of the service shares it. NextSequence must perform
// the whole step atomically: reset to 0 when the stored date differs
// from dateStr (including first-ever use), otherwise increment by 1,
// wrapping from 9999 back to 0, then persist {dateStr, sequence} and
// return the sequence.
type CounterStore interface {
	NextSequence(ctx context.Context, dateStr string) (int, error)
}

// Generator produces order ids from a shared counter store.
type Generator struct {
	store CounterStore
	now   func() time.Time
}

// NewGenerator creates a generator backed by the given counter store.
func NewGenerator(store CounterStore) *Generator {
	return &Generator{store: store, now: time.Now}
}

// Next allocates the next order id. Any store failure is returned as
// an error and no id is produced; the caller must abort the current
// order-creation attempt. No retry is performed here.
func (g *Generator) Next(ctx context.Context) (string, error) {
	dateStr := g.now().Format("20060102")

	seq, err := g.store.NextSequence(ctx, dateStr)
	if err != nil {
		return "", fmt.Errorf("failed to allocate order sequence: %w", err)
	}

	return fmt.Sprintf("%s%04d", dateStr, seq), nil
}
