package chat

import (
	"errors"
	"fmt"

	"github.com/adamavenir/meshchat/internal/state"
	"github.com/adamavenir/meshchat/internal/types"
	"github.com/adamavenir/meshchat/internal/view"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
)

// Options configure chat.
type Options struct {
	Store *state.Store
	Theme string
	// Title is the terminal window title.
	Title string
}

// Run starts the chat UI.
func Run(opts Options) error {
	model, err := NewModel(opts)
	if err != nil {
		return err
	}
	title := opts.Title
	if title == "" {
		title = "meshchat"
	}
	// Set window title (ANSI OSC sequence)
	fmt.Printf("\033]0;%s\007", title)

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = program.Run()
	model.Close()
	return err
}

// Model implements the chat UI.
type Model struct {
	store       *state.Store
	updates     <-chan struct{}
	unsubscribe func()
	colors      palette

	snap   state.Snapshot
	screen view.Model
	// selection is the conversation the viewport was last filled from.
	selection types.Selection
	scroll    state.ScrollTracker
	// initialScroll pins the viewport to the latest message on first layout.
	initialScroll bool

	viewport    viewport.Model
	input       textarea.Model
	zoneManager *zone.Manager
	width       int
	height      int
	status      string

	sidebarOpen         bool
	sidebarFocus        bool
	sidebarIndex        int
	sidebarScrollOffset int
	sidebarFilter       string
	sidebarFilterActive bool

	copyText func(string) error
}

// NewModel builds the chat model and subscribes it to store changes.
func NewModel(opts Options) (*Model, error) {
	if opts.Store == nil {
		return nil, errors.New("chat requires a store")
	}
	colors := paletteFor(opts.Theme)
	updates, unsubscribe := opts.Store.Subscribe()

	model := &Model{
		store:       opts.Store,
		updates:     updates,
		unsubscribe: unsubscribe,
		colors:      colors,
		selection:   types.PublicSelection(),
		viewport:    viewport.New(0, 0),
		input:       newInputModel(colors),
		zoneManager: zone.New(),
		copyText:    copyToClipboard,

		initialScroll: true,
	}
	model.sync()
	return model, nil
}

// Close releases the store subscription.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// sync pulls the latest snapshot and re-derives the screen.
func (m *Model) sync() {
	m.snap = m.store.Snapshot()
	m.screen = view.Derive(m.snap, m.store.Directory(), m.store.Favorites())
	m.input.Placeholder = m.screen.Placeholder
	m.clampSidebarIndex()
	if m.sidebarFilterActive {
		m.updateSidebarMatches()
	}

	count := len(m.screen.Messages)
	if m.snap.Selection != m.selection {
		m.selection = m.snap.Selection
		m.scroll.Reset(count)
		m.refreshViewport(true)
		return
	}
	m.refreshViewport(m.scroll.Observe(count))
}

var _ tea.Model = (*Model)(nil)
