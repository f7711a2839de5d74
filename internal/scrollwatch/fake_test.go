package scrollwatch

import (
	"infinitescroll/internal/host"
)

type fakeNode struct{ name string }

// fakeArea is a scroll area and container with directly settable geometry
type fakeArea struct {
	top, height, client int
	children            []*fakeNode
	listeners           map[int]func()
	nextID              int
	writes              []int
}

func newFakeArea(client, height, top int) *fakeArea {
	return &fakeArea{client: client, height: height, top: top, listeners: map[int]func(){}}
}

func (a *fakeArea) ScrollTop() int       { return a.top }
func (a *fakeArea) SetScrollTop(top int) { a.top = top; a.writes = append(a.writes, top) }
func (a *fakeArea) ScrollHeight() int    { return a.height }
func (a *fakeArea) ClientHeight() int    { return a.client }

func (a *fakeArea) OnScroll(fn func()) func() {
	id := a.nextID
	a.nextID++
	a.listeners[id] = fn
	return func() { delete(a.listeners, id) }
}

func (a *fakeArea) FirstChild() host.Node {
	if len(a.children) == 0 {
		return nil
	}
	return a.children[0]
}

func (a *fakeArea) LastChild() host.Node {
	if len(a.children) == 0 {
		return nil
	}
	return a.children[len(a.children)-1]
}

// scrollTo moves the offset and fires the scroll listeners
func (a *fakeArea) scrollTo(top int) {
	a.top = top
	for _, fn := range a.listeners {
		fn()
	}
}

func (a *fakeArea) prepend(n *fakeNode, rows int) host.MutationRecord {
	a.children = append([]*fakeNode{n}, a.children...)
	a.height += rows
	return host.MutationRecord{Added: []host.Node{n}}
}

func (a *fakeArea) append(n *fakeNode, rows int) host.MutationRecord {
	a.children = append(a.children, n)
	a.height += rows
	return host.MutationRecord{Added: []host.Node{n}}
}

type fakeObservation struct {
	obs  *fakeObserver
	fn   func([]host.MutationRecord)
	live bool
}

func (o *fakeObservation) Disconnect() { o.live = false }

// fakeObserver hands batches to live observations only when deliver is called
type fakeObserver struct {
	observations []*fakeObservation
}

func (f *fakeObserver) ObserveChildList(_ host.Container, fn func([]host.MutationRecord)) host.Observation {
	o := &fakeObservation{obs: f, fn: fn, live: true}
	f.observations = append(f.observations, o)
	return o
}

func (f *fakeObserver) live() int {
	n := 0
	for _, o := range f.observations {
		if o.live {
			n++
		}
	}
	return n
}

func (f *fakeObserver) deliver(batch ...host.MutationRecord) {
	obs := make([]*fakeObservation, len(f.observations))
	copy(obs, f.observations)
	for _, o := range obs {
		if o.live {
			o.fn(batch)
		}
	}
}
