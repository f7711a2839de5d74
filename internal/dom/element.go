package dom

import "infinitescroll/internal/host"

type scrollListener struct {
	fn func()
}

// Element is a scrollable container of blocks
type Element struct {
	doc          *Document
	children     []*Block
	clientHeight int
	scrollTop    int
	listeners    []*scrollListener
	scrollQueued bool
}

var (
	_ host.ScrollArea = (*Element)(nil)
	_ host.Container  = (*Element)(nil)
)

// NewElement creates an element showing clientHeight rows
func (d *Document) NewElement(clientHeight int) *Element {
	if clientHeight < 0 {
		clientHeight = 0
	}
	return &Element{doc: d, clientHeight: clientHeight}
}

func (e *Element) ScrollTop() int { return e.scrollTop }

func (e *Element) ClientHeight() int { return e.clientHeight }

// ScrollHeight is the total height of all children
func (e *Element) ScrollHeight() int {
	h := 0
	for _, b := range e.children {
		h += b.Height()
	}
	return h
}

// MaxScrollTop is the largest offset the element accepts
func (e *Element) MaxScrollTop() int {
	return max(0, e.ScrollHeight()-e.clientHeight)
}

// SetScrollTop is a programmatic scroll write. The value is clamped; if the
// offset changes a scroll notification is queued for the next Flush.
func (e *Element) SetScrollTop(top int) {
	if e.setOffset(top) {
		e.doc.queueScroll(e)
	}
}

// ScrollTo is a user scroll gesture. It clamps the offset and notifies
// scroll listeners synchronously, even when the offset is already at a limit.
func (e *Element) ScrollTo(top int) {
	e.setOffset(top)
	e.dispatchScroll()
}

// ScrollBy scrolls by delta rows as a user gesture
func (e *Element) ScrollBy(delta int) {
	e.ScrollTo(e.scrollTop + delta)
}

// SetClientHeight resizes the viewport and clamps the offset
func (e *Element) SetClientHeight(h int) {
	e.clientHeight = max(0, h)
	e.SetScrollTop(e.scrollTop)
}

func (e *Element) setOffset(top int) bool {
	top = min(max(top, 0), e.MaxScrollTop())
	if top == e.scrollTop {
		return false
	}
	e.scrollTop = top
	return true
}

// OnScroll registers fn for scroll notifications
func (e *Element) OnScroll(fn func()) func() {
	l := &scrollListener{fn: fn}
	e.listeners = append(e.listeners, l)
	return func() {
		for i, other := range e.listeners {
			if other == l {
				e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
				return
			}
		}
	}
}

// ListenerCount returns the number of registered scroll listeners
func (e *Element) ListenerCount() int {
	return len(e.listeners)
}

func (e *Element) dispatchScroll() {
	ls := make([]*scrollListener, len(e.listeners))
	copy(ls, e.listeners)
	for _, l := range ls {
		l.fn()
	}
}

// FirstChild returns the first block, or nil when empty
func (e *Element) FirstChild() host.Node {
	if len(e.children) == 0 {
		return nil
	}
	return e.children[0]
}

// LastChild returns the last block, or nil when empty
func (e *Element) LastChild() host.Node {
	if len(e.children) == 0 {
		return nil
	}
	return e.children[len(e.children)-1]
}

// Children returns a copy of the child list
func (e *Element) Children() []*Block {
	out := make([]*Block, len(e.children))
	copy(out, e.children)
	return out
}

// Len returns the number of children
func (e *Element) Len() int { return len(e.children) }

// Append adds blocks after the last child. The scroll offset is untouched.
func (e *Element) Append(blocks ...*Block) {
	if len(blocks) == 0 {
		return
	}
	e.children = append(e.children, blocks...)
	e.doc.record(e, host.MutationRecord{Added: nodes(blocks)})
}

// Prepend inserts blocks before the first child. Like a browser, the scroll
// offset is left as is, so visible content shifts down by the added height.
func (e *Element) Prepend(blocks ...*Block) {
	if len(blocks) == 0 {
		return
	}
	children := make([]*Block, 0, len(blocks)+len(e.children))
	children = append(children, blocks...)
	e.children = append(children, e.children...)
	e.doc.record(e, host.MutationRecord{Added: nodes(blocks)})
}

// Remove detaches b. It reports false if b is not a child.
func (e *Element) Remove(b *Block) bool {
	for i, c := range e.children {
		if c == b {
			e.children = append(e.children[:i:i], e.children[i+1:]...)
			e.doc.record(e, host.MutationRecord{Removed: []host.Node{b}})
			e.SetScrollTop(e.scrollTop)
			return true
		}
	}
	return false
}

// VisibleLines returns the rows currently inside the viewport
func (e *Element) VisibleLines() []string {
	lines := make([]string, 0, e.clientHeight)
	row := 0
	end := e.scrollTop + e.clientHeight
	for _, b := range e.children {
		h := b.Height()
		if row+h <= e.scrollTop {
			row += h
			continue
		}
		for i, line := range b.Lines {
			r := row + i
			if r >= e.scrollTop && r < end {
				lines = append(lines, line)
			}
		}
		row += h
		if row >= end {
			break
		}
	}
	return lines
}

func nodes(blocks []*Block) []host.Node {
	out := make([]host.Node, len(blocks))
	for i, b := range blocks {
		out[i] = b
	}
	return out
}
