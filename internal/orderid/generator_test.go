package orderid

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCounter mirrors the counter store contract in memory: reset on
// date change, +1 otherwise, wrap at 9999.
type fakeCounter struct {
	dateStr string
	id      int
	seen    bool
	err     error
}

func (f *fakeCounter) NextSequence(_ context.Context, dateStr string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	if !f.seen || f.dateStr != dateStr {
		f.id = 0
	} else {
		f.id = (f.id + 1) % 10000
	}
	f.dateStr = dateStr
	f.seen = true
	return f.id, nil
}

func newTestGenerator(store CounterStore, day time.Time) *Generator {
	g := NewGenerator(store)
	g.now = func() time.Time { return day }
	return g
}

func TestNextFormat(t *testing.T) {
	day := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
	g := newTestGenerator(&fakeCounter{}, day)

	id, err := g.Next(context.Background())
	require.NoError(t, err)

	assert.Len(t, id, 12)
	assert.Equal(t, "202603070000", id) // month and day zero-padded
}

func TestNextSequentialWithinDay(t *testing.T) {
	day := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	g := newTestGenerator(&fakeCounter{}, day)
	ctx := context.Background()

	id1, err := g.Next(ctx)
	require.NoError(t, err)
	id2, err := g.Next(ctx)
	require.NoError(t, err)
	id3, err := g.Next(ctx)
	require.NoError(t, err)

	assert.Equal(t, "202608290000", id1)
	assert.Equal(t, "202608290001", id2)
	assert.Equal(t, "202608290002", id3)
}

func TestNextResetsOnDateChange(t *testing.T) {
	store := &fakeCounter{}
	ctx := context.Background()

	day1 := time.Date(2026, 8, 29, 23, 59, 0, 0, time.UTC)
	g := newTestGenerator(store, day1)
	_, err := g.Next(ctx)
	require.NoError(t, err)
	id, err := g.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "202608290001", id)

	g.now = func() time.Time { return day1.Add(2 * time.Minute) } // next day
	id, err = g.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "202608300000", id)
}

func TestNextWrapsAtTenThousand(t *testing.T) {
	store := &fakeCounter{dateStr: "20260829", id: 9998, seen: true}
	day := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	g := newTestGenerator(store, day)
	ctx := context.Background()

	id, err := g.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "202608299999", id)

	id, err = g.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "202608290000", id)
}

func TestNextStoreFailure(t *testing.T) {
	store := &fakeCounter{err: errors.New("connection refused")}
	g := newTestGenerator(store, time.Now())

	id, err := g.Next(context.Background())

	assert.Error(t, err)
	assert.Empty(t, id)
}
