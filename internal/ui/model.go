package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"infinitescroll/internal/config"
	"infinitescroll/internal/dom"
	"infinitescroll/internal/domain"
	"infinitescroll/internal/eventbus"
	"infinitescroll/internal/scrollwatch"
)

// rows taken by the title and status lines
const chromeHeight = 2

const wheelStep = 3

// Model is the Bubble Tea model for the infinite scroll view
type Model struct {
	log     zerolog.Logger
	bus     eventbus.EventBus
	styles  *Styles
	keys    keyMap
	help    help.Model
	doc     *dom.Document
	view    *dom.Element
	watcher *scrollwatch.Watcher

	width, height  int
	ready          bool
	oldest, newest int
	loading        domain.BoundarySet
	exhausted      domain.BoundarySet
	lastErr        string
}

// NewModel creates the UI model showing the initial entries. Boundary
// events are published to bus as PageRequestedEvents.
func NewModel(cfg *config.Config, initial []domain.Entry, bus eventbus.EventBus, log zerolog.Logger) (*Model, error) {
	boundaries, err := cfg.Watcher.BoundarySet()
	if err != nil {
		return nil, fmt.Errorf("invalid watcher boundaries: %w", err)
	}

	doc := dom.NewDocument()
	m := &Model{
		log:    log,
		bus:    bus,
		styles: NewStyles(),
		keys:   defaultKeyMap(),
		help:   help.New(),
		doc:    doc,
		view:   doc.NewElement(0),
	}

	if len(initial) > 0 {
		m.view.Append(blocks(initial)...)
		m.oldest = initial[0].Seq
		m.newest = initial[len(initial)-1].Seq
	}

	m.watcher, err = scrollwatch.New(m.view, doc.Observer(),
		scrollwatch.WithThreshold(cfg.Watcher.Threshold),
		scrollwatch.WithBoundaries(boundaries),
		scrollwatch.WithInspectAllRecords(cfg.Watcher.InspectAllRecords),
		scrollwatch.WithLogger(log.With().Str("component", "scrollwatch").Logger()),
	)
	if err != nil {
		return nil, err
	}
	m.watcher.Subscribe(domain.Top, func() { m.requestPage(domain.Top, m.oldest) })
	m.watcher.Subscribe(domain.Bottom, func() { m.requestPage(domain.Bottom, m.newest) })

	return m, nil
}

// Close releases the watcher
func (m *Model) Close() {
	m.watcher.Close()
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.view.SetClientHeight(max(0, msg.Height-chromeHeight))
		if !m.ready {
			m.ready = true
			// start mid-feed so neither edge is reached before the user scrolls
			m.view.SetScrollTop(m.view.MaxScrollTop() / 2)
		}
		m.doc.Flush()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.scrollBy(-wheelStep)
		case tea.MouseButtonWheelDown:
			m.scrollBy(wheelStep)
		}

	case EventMsg:
		m.handleEvent(msg.Event)

	case helpPagerMsg:
		if msg.err != nil {
			m.log.Error().Err(msg.err).Msg("help pager failed")
			m.lastErr = msg.err.Error()
		}
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	page := max(1, m.view.ClientHeight())
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		return m, showHelpPager(renderHelpContent(m.watcher.Threshold(), m.watcher.Boundaries()))
	case key.Matches(msg, m.keys.Up):
		m.scrollBy(-1)
	case key.Matches(msg, m.keys.Down):
		m.scrollBy(1)
	case key.Matches(msg, m.keys.PageUp):
		m.scrollBy(-page)
	case key.Matches(msg, m.keys.PageDown):
		m.scrollBy(page)
	case key.Matches(msg, m.keys.Home):
		m.scrollTo(0)
	case key.Matches(msg, m.keys.End):
		m.scrollTo(m.view.MaxScrollTop())
	}
	return m, nil
}

func (m *Model) scrollBy(delta int) {
	m.view.ScrollBy(delta)
	m.doc.Flush()
}

func (m *Model) scrollTo(top int) {
	m.view.ScrollTo(top)
	m.doc.Flush()
}

func (m *Model) requestPage(kind domain.Boundary, cursor int) {
	if m.exhausted.Has(kind) {
		return
	}
	m.loading = m.loading.With(kind)
	m.log.Debug().Stringer("boundary", kind).Int("cursor", cursor).Msg("requesting page")
	m.bus.Publish(eventbus.PageRequestedEvent{Boundary: kind, Cursor: cursor})
}

func (m *Model) handleEvent(e eventbus.DomainEvent) {
	switch event := e.(type) {
	case eventbus.PageLoadedEvent:
		m.loading = m.loading.Without(event.Boundary)
		if len(event.Entries) == 0 {
			return
		}
		switch event.Boundary {
		case domain.Top:
			m.view.Prepend(blocks(event.Entries)...)
			m.oldest = event.Entries[0].Seq
		case domain.Bottom:
			m.view.Append(blocks(event.Entries)...)
			m.newest = event.Entries[len(event.Entries)-1].Seq
		}
		m.lastErr = ""
		// delivers the insertion to the watcher, which corrects the offset for prepends
		m.doc.Flush()

	case eventbus.FeedExhaustedEvent:
		// the watcher stays pending for this edge, nothing more will arrive
		m.loading = m.loading.Without(event.Boundary)
		m.exhausted = m.exhausted.With(event.Boundary)

	case eventbus.ErrorEvent:
		m.lastErr = event.Message
		// re-arm edges that were waiting so the next scroll retries
		for _, kind := range m.loading.All() {
			m.watcher.ClearPending(kind)
		}
		m.loading = 0
	}
}

func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("infinite scroll"))
	b.WriteString(m.styles.Status.Render(fmt.Sprintf("  entries %d..%d  row %d/%d",
		m.oldest, m.newest, m.view.ScrollTop(), m.view.MaxScrollTop())))
	b.WriteString("\n")

	lines := m.view.VisibleLines()
	for i := 0; i < m.view.ClientHeight(); i++ {
		if i < len(lines) {
			b.WriteString(m.renderLine(lines[i]))
		}
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatus())
	return b.String()
}

func (m *Model) renderLine(line string) string {
	if strings.HasPrefix(line, "#") {
		return m.styles.Entry.Render(line)
	}
	return m.styles.Detail.Render(line)
}

func (m *Model) renderStatus() string {
	parts := []string{m.edgeStatus(domain.Top, "↑", "older"), m.edgeStatus(domain.Bottom, "↓", "newer")}
	if m.lastErr != "" {
		parts = append(parts, m.styles.StatusError.Render(m.lastErr))
	}
	parts = append(parts, m.help.View(m.keys))
	return strings.Join(parts, "  ")
}

func (m *Model) edgeStatus(kind domain.Boundary, arrow, what string) string {
	switch {
	case !m.watcher.Boundaries().Has(kind):
		return m.styles.StatusDone.Render(arrow + " off")
	case m.exhausted.Has(kind):
		return m.styles.StatusDone.Render(arrow + " no " + what + " entries")
	case m.loading.Has(kind):
		return m.styles.StatusLoading.Render(arrow + " loading " + what)
	default:
		return m.styles.Status.Render(arrow)
	}
}

func blocks(entries []domain.Entry) []*dom.Block {
	out := make([]*dom.Block, len(entries))
	for i, e := range entries {
		out[i] = dom.NewBlock(strconv.Itoa(e.Seq), strings.Split(e.Text, "\n")...)
	}
	return out
}
