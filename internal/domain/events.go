package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventPageRequested EventType = "PageRequested"
	EventPageLoaded    EventType = "PageLoaded"
	EventFeedExhausted EventType = "FeedExhausted"
	EventError         EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// PageRequestedEvent asks the feed for the next page beyond a boundary
type PageRequestedEvent struct {
	Boundary Boundary
	// Cursor is the Seq of the outermost entry currently shown on that side
	Cursor int
}

func (e PageRequestedEvent) Type() EventType { return EventPageRequested }

// PageLoadedEvent carries entries to insert at a boundary.
// Entries are always in ascending Seq order.
type PageLoadedEvent struct {
	Boundary Boundary
	Entries  []Entry
}

func (e PageLoadedEvent) Type() EventType { return EventPageLoaded }

// FeedExhaustedEvent is emitted when no more entries exist beyond a boundary
type FeedExhaustedEvent struct {
	Boundary Boundary
}

func (e FeedExhaustedEvent) Type() EventType { return EventFeedExhausted }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
