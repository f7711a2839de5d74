// Package feed serves pages of entries beyond either edge of an initial
// window, the way a paginated backend would answer infinite-scroll requests.
package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"infinitescroll/internal/domain"
	"infinitescroll/internal/eventbus"
)

// ErrExhausted is returned when no entries exist beyond the cursor
var ErrExhausted = errors.New("feed exhausted")

// Settings bounds the generated feed
type Settings struct {
	InitialSize int
	PageSize    int
	History     int // entries available beyond each edge of the initial window
	Latency     time.Duration
}

// FeedService pages through a bounded feed
type FeedService interface {
	Initial() []domain.Entry
	Page(ctx context.Context, boundary domain.Boundary, cursor int) ([]domain.Entry, error)
	Stop()
}

type feedService struct {
	bus      eventbus.EventBus
	log      zerolog.Logger
	settings Settings

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewFeedService creates a feed service. With a non-nil bus it answers
// PageRequestedEvents with PageLoadedEvent, FeedExhaustedEvent or ErrorEvent.
func NewFeedService(bus eventbus.EventBus, log zerolog.Logger, settings Settings) FeedService {
	ctx, cancel := context.WithCancel(context.Background())
	fs := &feedService{
		bus:      bus,
		log:      log,
		settings: settings,
		ctx:      ctx,
		cancel:   cancel,
	}

	if bus != nil {
		bus.Subscribe(eventbus.EventPageRequested, func(e eventbus.DomainEvent) {
			if event, ok := e.(eventbus.PageRequestedEvent); ok {
				fs.wg.Add(1)
				go func() {
					defer fs.wg.Done()
					fs.serve(event)
				}()
			}
		})
	}

	return fs
}

// Initial returns the first window, Seq 0 through InitialSize-1
func (fs *feedService) Initial() []domain.Entry {
	return fs.span(0, fs.settings.InitialSize-1)
}

// Page returns up to PageSize entries just beyond cursor, in ascending Seq
// order. For Top, cursor is the oldest shown Seq; for Bottom, the newest.
func (fs *feedService) Page(ctx context.Context, boundary domain.Boundary, cursor int) ([]domain.Entry, error) {
	if fs.settings.Latency > 0 {
		timer := time.NewTimer(fs.settings.Latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	oldest := -fs.settings.History
	newest := fs.settings.InitialSize - 1 + fs.settings.History

	switch boundary {
	case domain.Top:
		if cursor <= oldest {
			return nil, ErrExhausted
		}
		return fs.span(max(cursor-fs.settings.PageSize, oldest), cursor-1), nil
	case domain.Bottom:
		if cursor >= newest {
			return nil, ErrExhausted
		}
		return fs.span(cursor+1, min(cursor+fs.settings.PageSize, newest)), nil
	}
	return nil, fmt.Errorf("%w: %v", domain.ErrUnknownBoundary, boundary)
}

// Stop cancels pending requests and waits for them to finish
func (fs *feedService) Stop() {
	fs.cancel()
	fs.wg.Wait()
}

func (fs *feedService) serve(req eventbus.PageRequestedEvent) {
	entries, err := fs.Page(fs.ctx, req.Boundary, req.Cursor)
	switch {
	case err == nil:
		fs.log.Debug().
			Stringer("boundary", req.Boundary).
			Int("cursor", req.Cursor).
			Int("entries", len(entries)).
			Msg("page loaded")
		fs.bus.Publish(eventbus.PageLoadedEvent{Boundary: req.Boundary, Entries: entries})
	case errors.Is(err, ErrExhausted):
		fs.log.Info().Stringer("boundary", req.Boundary).Msg("feed exhausted")
		fs.bus.Publish(eventbus.FeedExhaustedEvent{Boundary: req.Boundary})
	case errors.Is(err, context.Canceled):
		// shutting down
	default:
		fs.log.Error().Err(err).Stringer("boundary", req.Boundary).Msg("page request failed")
		fs.bus.Publish(eventbus.ErrorEvent{Message: "page request failed", Err: err})
	}
}

func (fs *feedService) span(from, to int) []domain.Entry {
	if to < from {
		return nil
	}
	entries := make([]domain.Entry, 0, to-from+1)
	for seq := from; seq <= to; seq++ {
		entries = append(entries, domain.Entry{Seq: seq, Text: text(seq)})
	}
	return entries
}

var subjects = []string{
	"deploy finished", "cache warmed", "index rebuilt", "user signed in",
	"report exported", "backup verified", "queue drained", "job retried",
}

// text is deterministic so the same Seq always renders the same way.
// Every fifth entry spans two lines.
func text(seq int) string {
	s := subjects[((seq%len(subjects))+len(subjects))%len(subjects)]
	line := fmt.Sprintf("#%d %s", seq, s)
	if seq%5 == 0 {
		line += "\n    details for entry " + fmt.Sprint(seq)
	}
	return line
}
