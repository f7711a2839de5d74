package ui

import (
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infinitescroll/internal/config"
	"infinitescroll/internal/domain"
	"infinitescroll/internal/eventbus"
)

type recordingBus struct {
	published []eventbus.DomainEvent
}

func (b *recordingBus) Publish(e eventbus.DomainEvent) { b.published = append(b.published, e) }
func (b *recordingBus) Subscribe(eventbus.EventType, eventbus.EventHandler) func() {
	return func() {}
}
func (b *recordingBus) Close() {}

func (b *recordingBus) requests() []eventbus.PageRequestedEvent {
	var out []eventbus.PageRequestedEvent
	for _, e := range b.published {
		if r, ok := e.(eventbus.PageRequestedEvent); ok {
			out = append(out, r)
		}
	}
	return out
}

// entries builds single-line entries from..to
func entries(from, to int) []domain.Entry {
	var out []domain.Entry
	for seq := from; seq <= to; seq++ {
		out = append(out, domain.Entry{Seq: seq, Text: fmt.Sprintf("#%d entry", seq)})
	}
	return out
}

func newTestModel(t *testing.T, mutate func(*config.Config)) (*Model, *recordingBus) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Watcher.Threshold = 1
	if mutate != nil {
		mutate(cfg)
	}
	bus := &recordingBus{}
	m, err := NewModel(cfg, entries(0, 29), bus, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(m.Close)

	m.Update(tea.WindowSizeMsg{Width: 80, Height: 12})
	return m, bus
}

func press(m *Model, k tea.KeyType) {
	m.Update(tea.KeyMsg{Type: k})
}

func TestStartsMidFeedWithoutRequests(t *testing.T) {
	m, bus := newTestModel(t, nil)

	assert.Equal(t, 10, m.view.ClientHeight())
	assert.Equal(t, 10, m.view.ScrollTop())
	assert.Empty(t, bus.requests())
	assert.Contains(t, m.View(), "#10 entry")
}

func TestTopRequestAndReconcile(t *testing.T) {
	m, bus := newTestModel(t, nil)

	press(m, tea.KeyHome)
	require.Equal(t, []eventbus.PageRequestedEvent{{Boundary: domain.Top, Cursor: 0}}, bus.requests())
	assert.True(t, m.loading.Has(domain.Top))
	assert.Contains(t, m.View(), "loading older")

	// repeated gestures at the edge do not request again
	press(m, tea.KeyHome)
	press(m, tea.KeyUp)
	assert.Len(t, bus.requests(), 1)

	m.Update(EventMsg{Event: eventbus.PageLoadedEvent{Boundary: domain.Top, Entries: entries(-5, -1)}})

	assert.Equal(t, 5, m.view.ScrollTop(), "offset moves by the prepended height")
	assert.Equal(t, "#0 entry", m.view.VisibleLines()[0])
	assert.Equal(t, -5, m.oldest)
	assert.False(t, m.loading.Has(domain.Top))
	assert.False(t, m.watcher.Pending(domain.Top))

	press(m, tea.KeyHome)
	require.Len(t, bus.requests(), 2)
	assert.Equal(t, eventbus.PageRequestedEvent{Boundary: domain.Top, Cursor: -5}, bus.requests()[1])
}

func TestBottomRequestAppendsWithoutMovingOffset(t *testing.T) {
	m, bus := newTestModel(t, nil)

	press(m, tea.KeyEnd)
	require.Equal(t, []eventbus.PageRequestedEvent{{Boundary: domain.Bottom, Cursor: 29}}, bus.requests())
	top := m.view.ScrollTop()

	m.Update(EventMsg{Event: eventbus.PageLoadedEvent{Boundary: domain.Bottom, Entries: entries(30, 34)}})
	assert.Equal(t, top, m.view.ScrollTop())
	assert.Equal(t, 34, m.newest)
	assert.False(t, m.watcher.Pending(domain.Bottom))
}

func TestExhaustedEdgeStopsRequesting(t *testing.T) {
	m, bus := newTestModel(t, nil)

	press(m, tea.KeyHome)
	m.Update(EventMsg{Event: eventbus.FeedExhaustedEvent{Boundary: domain.Top}})
	assert.Contains(t, m.View(), "no older entries")

	press(m, tea.KeyDown)
	press(m, tea.KeyHome)
	assert.Len(t, bus.requests(), 1)
}

func TestErrorRearmsLoadingEdges(t *testing.T) {
	m, bus := newTestModel(t, nil)

	press(m, tea.KeyHome)
	m.Update(EventMsg{Event: eventbus.ErrorEvent{Message: "page request failed", Err: errors.New("boom")}})

	assert.False(t, m.watcher.Pending(domain.Top))
	assert.Contains(t, m.View(), "page request failed")

	press(m, tea.KeyHome)
	assert.Len(t, bus.requests(), 2)
}

func TestDisabledEdge(t *testing.T) {
	m, bus := newTestModel(t, func(c *config.Config) { c.Watcher.Boundaries = []string{"bottom"} })

	press(m, tea.KeyHome)
	assert.Empty(t, bus.requests())
	assert.Contains(t, m.View(), "↑ off")
}

func TestMouseWheelScrolls(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	assert.Equal(t, 13, m.view.ScrollTop())
	m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	assert.Equal(t, 10, m.view.ScrollTop())
}

func TestNewModelRejectsBadBoundaries(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Watcher.Boundaries = []string{"sideways"}
	_, err := NewModel(cfg, nil, &recordingBus{}, zerolog.Nop())
	require.ErrorIs(t, err, domain.ErrUnknownBoundary)
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
