package scrollwatch

import (
	"github.com/rs/zerolog"

	"infinitescroll/internal/domain"
	"infinitescroll/internal/host"
)

type options struct {
	content    host.Container
	threshold  int
	boundaries domain.BoundarySet
	inspectAll bool
	logger     zerolog.Logger
}

// Option configures a Watcher
type Option func(*options)

// WithContent watches c for inserted content instead of the scroll area
func WithContent(c host.Container) Option {
	return func(o *options) {
		o.content = c
	}
}

// WithThreshold sets the near-boundary distance. Default 0.
func WithThreshold(t int) Option {
	return func(o *options) {
		o.threshold = t
	}
}

// WithBoundaries restricts the kinds the watcher acts on. Default both.
func WithBoundaries(s domain.BoundarySet) Option {
	return func(o *options) {
		o.boundaries = s
	}
}

// WithInspectAllRecords makes the watcher look at every record of a
// mutation batch for an edge insertion. By default only the first record
// of each batch is inspected, so an edge insertion coalesced behind an
// unrelated change is missed.
func WithInspectAllRecords(on bool) Option {
	return func(o *options) {
		o.inspectAll = on
	}
}

// WithLogger sets the logger used for debug tracing
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
