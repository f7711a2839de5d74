// Package scrollwatch raises an event when a scroll area comes within a
// threshold of its top or bottom edge, then waits for the caller to insert
// content at that edge before the event may fire again. After content is
// prepended the scroll offset is corrected so the rows the user was looking
// at stay in the viewport.
//
// A Watcher runs entirely inside host callbacks and is not safe for
// concurrent use.
package scrollwatch

import (
	"errors"

	"github.com/rs/zerolog"

	"infinitescroll/internal/domain"
	"infinitescroll/internal/host"
)

var (
	ErrNilArea     = errors.New("scrollwatch: scroll area is nil")
	ErrNilObserver = errors.New("scrollwatch: mutation observer is nil")
	ErrNoContent   = errors.New("scrollwatch: no content container and scroll area is not a container")
)

// Listener is called with no arguments each time its boundary is raised
type Listener func()

type snapshot struct {
	scrollHeight int
	scrollTop    int
}

type subscription struct {
	fn Listener
}

// edge is the state kept for one boundary kind. pending is true exactly
// while watch is non-nil, except during synchronous handling.
type edge struct {
	pending   bool
	gen       uint64
	watch     host.Observation
	baseline  snapshot
	listeners []*subscription
}

// Watcher is a scroll boundary watcher
type Watcher struct {
	area     host.ScrollArea
	content  host.Container
	observer host.MutationObserver
	log      zerolog.Logger

	threshold  int
	boundaries domain.BoundarySet
	inspectAll bool

	edges        [len(domain.Boundaries)]edge
	removeScroll func()
}

// New creates a watcher on area and registers its scroll listener.
// Content defaults to area itself, which then must implement host.Container.
func New(area host.ScrollArea, observer host.MutationObserver, opts ...Option) (*Watcher, error) {
	if area == nil {
		return nil, ErrNilArea
	}
	if observer == nil {
		return nil, ErrNilObserver
	}

	o := options{
		boundaries: domain.AllBoundaries,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	content := o.content
	if content == nil {
		c, ok := area.(host.Container)
		if !ok {
			return nil, ErrNoContent
		}
		content = c
	}

	w := &Watcher{
		area:       area,
		content:    content,
		observer:   observer,
		log:        o.logger,
		threshold:  o.threshold,
		boundaries: o.boundaries,
		inspectAll: o.inspectAll,
	}
	w.removeScroll = area.OnScroll(w.handleScroll)
	return w, nil
}

// IsNearBottom reports whether the unscrolled height below the viewport is
// at most the threshold
func (w *Watcher) IsNearBottom() bool {
	return w.area.ScrollHeight()-w.area.ScrollTop()-w.area.ClientHeight() <= w.threshold
}

// IsNearTop reports whether the scroll offset is at most the threshold
func (w *Watcher) IsNearTop() bool {
	return w.area.ScrollTop() <= w.threshold
}

// Threshold returns the near-boundary distance
func (w *Watcher) Threshold() int { return w.threshold }

// SetThreshold changes the near-boundary distance. Negative values are
// accepted; a negative top threshold can never be reached.
func (w *Watcher) SetThreshold(t int) { w.threshold = t }

// Boundaries returns the kinds the watcher acts on
func (w *Watcher) Boundaries() domain.BoundarySet { return w.boundaries }

// SetBoundaries changes the kinds the watcher acts on. A kind that is
// already pending keeps its content watch.
func (w *Watcher) SetBoundaries(s domain.BoundarySet) { w.boundaries = s }

// Subscribe registers fn to be called when kind is raised. Listeners of a
// kind run in registration order. The returned func removes fn.
func (w *Watcher) Subscribe(kind domain.Boundary, fn Listener) (unsubscribe func()) {
	if !kind.Valid() || fn == nil {
		return func() {}
	}
	e := &w.edges[kind]
	sub := &subscription{fn: fn}
	e.listeners = append(e.listeners, sub)
	return func() {
		for i, s := range e.listeners {
			if s == sub {
				e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
				return
			}
		}
	}
}

// Pending reports whether kind has fired and is waiting for content
func (w *Watcher) Pending(kind domain.Boundary) bool {
	return kind.Valid() && w.edges[kind].pending
}

// ClearPending stops waiting for content at kind so the next scroll near
// that edge raises it again. No reconciliation is performed.
func (w *Watcher) ClearPending(kind domain.Boundary) {
	if !kind.Valid() {
		return
	}
	w.release(kind)
}

// Close removes the scroll listener and disconnects every content watch.
// Listeners are kept but are never called again.
func (w *Watcher) Close() {
	if w.removeScroll != nil {
		w.removeScroll()
		w.removeScroll = nil
	}
	for _, kind := range domain.Boundaries {
		w.release(kind)
	}
}

func (w *Watcher) handleScroll() {
	if w.removeScroll == nil {
		return
	}
	if w.IsNearBottom() {
		w.raise(domain.Bottom)
	}
	if w.IsNearTop() {
		w.raise(domain.Top)
	}
}

func (w *Watcher) raise(kind domain.Boundary) {
	e := &w.edges[kind]
	if e.pending || !w.boundaries.Has(kind) {
		return
	}

	e.pending = true
	e.gen++
	gen := e.gen
	e.baseline = snapshot{
		scrollHeight: w.area.ScrollHeight(),
		scrollTop:    w.area.ScrollTop(),
	}
	e.watch = w.observer.ObserveChildList(w.content, func(records []host.MutationRecord) {
		w.handleMutations(kind, gen, records)
	})

	w.log.Debug().
		Stringer("boundary", kind).
		Int("scroll_height", e.baseline.scrollHeight).
		Int("scroll_top", e.baseline.scrollTop).
		Msg("boundary raised")

	listeners := make([]*subscription, len(e.listeners))
	copy(listeners, e.listeners)
	for _, s := range listeners {
		s.fn()
	}
}

func (w *Watcher) handleMutations(kind domain.Boundary, gen uint64, records []host.MutationRecord) {
	e := &w.edges[kind]
	if !e.pending || e.gen != gen || len(records) == 0 {
		return
	}

	if w.inspectAll {
		relevant := false
		for _, rec := range records {
			if w.relevant(kind, rec) {
				relevant = true
				break
			}
		}
		if !relevant {
			return
		}
	} else if !w.relevant(kind, records[0]) {
		return
	}

	baseline := e.baseline
	w.release(kind)

	if kind == domain.Top {
		w.reconcile(baseline)
	}
}

// relevant reports whether rec inserted nodes at the edge matching kind,
// judged against the container's children as they are now
func (w *Watcher) relevant(kind domain.Boundary, rec host.MutationRecord) bool {
	if len(rec.Added) == 0 {
		return false
	}
	switch kind {
	case domain.Top:
		first := w.content.FirstChild()
		return first != nil && rec.Added[0] == first
	case domain.Bottom:
		last := w.content.LastChild()
		return last != nil && rec.Added[len(rec.Added)-1] == last
	}
	return false
}

func (w *Watcher) reconcile(baseline snapshot) {
	diff := w.area.ScrollHeight() - baseline.scrollHeight
	top := baseline.scrollTop + diff
	w.log.Debug().
		Int("height_difference", diff).
		Int("scroll_top", top).
		Msg("scroll offset reconciled")
	w.area.SetScrollTop(top)
}

func (w *Watcher) release(kind domain.Boundary) {
	e := &w.edges[kind]
	if e.watch != nil {
		e.watch.Disconnect()
		e.watch = nil
	}
	e.pending = false
}
