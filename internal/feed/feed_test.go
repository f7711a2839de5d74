package feed

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infinitescroll/internal/domain"
	"infinitescroll/internal/eventbus"
)

func seqs(entries []domain.Entry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.Seq
	}
	return out
}

func newFeed(bus eventbus.EventBus) FeedService {
	return NewFeedService(bus, zerolog.Nop(), Settings{InitialSize: 4, PageSize: 3, History: 5})
}

func TestInitialWindow(t *testing.T) {
	fs := newFeed(nil)
	defer fs.Stop()

	assert.Equal(t, []int{0, 1, 2, 3}, seqs(fs.Initial()))
	assert.Contains(t, fs.Initial()[0].Text, "\n", "entry 0 spans two lines")
}

func TestPagesStopAtHistoryBound(t *testing.T) {
	fs := newFeed(nil)
	defer fs.Stop()
	ctx := context.Background()

	older, err := fs.Page(ctx, domain.Top, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{-3, -2, -1}, seqs(older))

	older, err = fs.Page(ctx, domain.Top, -3)
	require.NoError(t, err)
	assert.Equal(t, []int{-5, -4}, seqs(older))

	_, err = fs.Page(ctx, domain.Top, -5)
	require.ErrorIs(t, err, ErrExhausted)

	newer, err := fs.Page(ctx, domain.Bottom, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5, 6}, seqs(newer))

	newer, err = fs.Page(ctx, domain.Bottom, 6)
	require.NoError(t, err)
	assert.Equal(t, []int{7, 8}, seqs(newer))

	_, err = fs.Page(ctx, domain.Bottom, 8)
	require.ErrorIs(t, err, ErrExhausted)

	_, err = fs.Page(ctx, domain.Boundary(3), 0)
	require.ErrorIs(t, err, domain.ErrUnknownBoundary)
}

func TestPageHonoursCancellation(t *testing.T) {
	fs := NewFeedService(nil, zerolog.Nop(), Settings{InitialSize: 1, PageSize: 1, History: 1, Latency: time.Hour})
	defer fs.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := fs.Page(ctx, domain.Top, 0)
	require.ErrorIs(t, err, context.Canceled)
}

func TestAnswersPageRequests(t *testing.T) {
	bus := eventbus.New(zerolog.Nop())
	defer bus.Close()
	fs := newFeed(bus)
	defer fs.Stop()

	var mu sync.Mutex
	var loaded []eventbus.PageLoadedEvent
	var exhausted []domain.Boundary
	bus.Subscribe(eventbus.EventPageLoaded, func(e eventbus.DomainEvent) {
		mu.Lock()
		loaded = append(loaded, e.(eventbus.PageLoadedEvent))
		mu.Unlock()
	})
	bus.Subscribe(eventbus.EventFeedExhausted, func(e eventbus.DomainEvent) {
		mu.Lock()
		exhausted = append(exhausted, e.(eventbus.FeedExhaustedEvent).Boundary)
		mu.Unlock()
	})

	bus.Publish(eventbus.PageRequestedEvent{Boundary: domain.Bottom, Cursor: 3})
	bus.Publish(eventbus.PageRequestedEvent{Boundary: domain.Top, Cursor: -5})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(loaded) == 1 && len(exhausted) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, domain.Bottom, loaded[0].Boundary)
	assert.Equal(t, []int{4, 5, 6}, seqs(loaded[0].Entries))
	assert.Equal(t, []domain.Boundary{domain.Top}, exhausted)
}
