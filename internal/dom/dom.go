// Package dom is a small in-memory document used as the UI host for the
// boundary watcher. An Element is both a scroll area and a container of
// Blocks. Child-list changes and programmatic scroll writes are queued and
// delivered by Document.Flush, which plays the role of the host event loop.
//
// A Document and its elements are not safe for concurrent use.
package dom

import "infinitescroll/internal/host"

// Block is a child node occupying Height rows
type Block struct {
	Key   string
	Lines []string
}

// NewBlock creates a block rendering the given lines
func NewBlock(key string, lines ...string) *Block {
	return &Block{Key: key, Lines: lines}
}

// Height returns the rows the block occupies
func (b *Block) Height() int {
	return len(b.Lines)
}

// Document owns elements and their pending notifications
type Document struct {
	observations []*observation
	scrollQueue  []*Element
}

// NewDocument creates an empty document
func NewDocument() *Document {
	return &Document{}
}

type observation struct {
	doc     *Document
	target  *Element
	fn      func([]host.MutationRecord)
	pending []host.MutationRecord
	live    bool
}

func (o *observation) Disconnect() {
	if !o.live {
		return
	}
	o.live = false
	o.pending = nil
	obs := o.doc.observations
	for i, other := range obs {
		if other == o {
			o.doc.observations = append(obs[:i:i], obs[i+1:]...)
			break
		}
	}
}

// ObserveChildList implements host.MutationObserver. Only *Element
// containers created by this document can be observed; for anything else
// the returned observation never fires.
func (d *Document) ObserveChildList(c host.Container, fn func([]host.MutationRecord)) host.Observation {
	o := &observation{doc: d, fn: fn, live: true}
	if el, ok := c.(*Element); ok && el.doc == d {
		o.target = el
		d.observations = append(d.observations, o)
	}
	return o
}

// Observer returns the document as a host.MutationObserver
func (d *Document) Observer() host.MutationObserver {
	return d
}

// Pending reports whether Flush has anything to deliver
func (d *Document) Pending() bool {
	if len(d.scrollQueue) > 0 {
		return true
	}
	for _, o := range d.observations {
		if len(o.pending) > 0 {
			return true
		}
	}
	return false
}

// Flush delivers queued mutation batches, then queued scroll notifications,
// and repeats until nothing is left. Work queued by callbacks is delivered
// in a later round of the same call.
func (d *Document) Flush() {
	for d.Pending() {
		obs := make([]*observation, len(d.observations))
		copy(obs, d.observations)
		for _, o := range obs {
			if !o.live || len(o.pending) == 0 {
				continue
			}
			batch := o.pending
			o.pending = nil
			o.fn(batch)
		}

		queue := d.scrollQueue
		d.scrollQueue = nil
		for _, el := range queue {
			el.scrollQueued = false
			el.dispatchScroll()
		}
	}
}

func (d *Document) record(el *Element, rec host.MutationRecord) {
	for _, o := range d.observations {
		if o.live && o.target == el {
			o.pending = append(o.pending, rec)
		}
	}
}

func (d *Document) queueScroll(el *Element) {
	if el.scrollQueued {
		return
	}
	el.scrollQueued = true
	d.scrollQueue = append(d.scrollQueue, el)
}
