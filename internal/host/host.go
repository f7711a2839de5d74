// Package host describes the UI environment a boundary watcher runs against:
// a scrollable area with readable and writable offset, a content container
// whose direct children change, and a facility that reports those changes
// in batches.
package host

// Node is a direct child of a Container. Nodes are compared by identity,
// so implementations must use comparable handles such as pointers.
type Node any

// ScrollArea exposes scroll geometry and scroll notifications
type ScrollArea interface {
	ScrollTop() int
	SetScrollTop(top int)
	ScrollHeight() int
	ClientHeight() int

	// OnScroll registers fn to run on every scroll change.
	// The returned func removes the registration.
	OnScroll(fn func()) (remove func())
}

// Container gives access to the current first and last child.
// Both return nil when the container is empty.
type Container interface {
	FirstChild() Node
	LastChild() Node
}

// MutationRecord describes one change to a container's child list.
// Added is in document order.
type MutationRecord struct {
	Added   []Node
	Removed []Node
}

// Observation is a live child-list watch
type Observation interface {
	Disconnect()
}

// MutationObserver starts child-list watches. fn receives every record
// queued since the previous delivery, oldest first, and is never called
// after Disconnect returns.
type MutationObserver interface {
	ObserveChildList(c Container, fn func([]MutationRecord)) Observation
}
