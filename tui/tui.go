package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/topdown/engine"
	"github.com/nathoo/topdown/engine/dialog"
	"github.com/nathoo/topdown/engine/movement"
	"github.com/nathoo/topdown/engine/state"
)

const (
	frame      = 16 * time.Millisecond
	panelWidth = 32
	maxToasts  = 3

	// Terminals report key presses but not releases: a direction stays
	// held for this long after its last press or auto-repeat.
	holdMs = 220.0

	introMs = 4000.0
)

const (
	dirUp = iota
	dirDown
	dirLeft
	dirRight
)

type toast struct {
	text  string
	until float64 // engine clock, ms
}

// tickMsg drives one engine frame.
type tickMsg time.Time

// Model is the Bubble Tea model for the topdown TUI.
type Model struct {
	engine *engine.Engine

	keys    keyMap
	help    help.Model
	log     viewport.Model
	history *History

	held    [4]float64 // remaining hold per direction, ms
	confirm bool       // interact pressed since the last frame
	toasts  []toast
	last    time.Time

	width    int
	height   int
	ready    bool
	showLog  bool
	quitting bool
}

// New creates a TUI model wired to the given engine.
func New(eng *engine.Engine, defs *state.Defs) Model {
	m := Model{
		engine:  eng,
		keys:    defaultKeyMap(),
		help:    help.New(),
		history: NewHistory(200),
	}
	if intro := defs.Game.Intro; intro != "" {
		m.toasts = []toast{{text: intro, until: eng.State.Clock + introMs}}
		m.history.Push(intro)
	}
	return m
}

// Run starts the Bubble Tea program.
func Run(eng *engine.Engine, defs *state.Defs) error {
	m := New(eng, defs)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func tick() tea.Cmd {
	return tea.Tick(frame, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init starts the frame clock.
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles messages (frames, key presses, window resize).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		if !m.ready {
			m.log = viewport.New(m.width, max(m.height-2, 1))
			m.log.KeyMap = logKeyMap()
			m.ready = true
		} else {
			m.log.Width = m.width
			m.log.Height = max(m.height-2, 1)
		}
		m.refreshLog()

	case tickMsg:
		m = m.step(time.Time(msg))
		return m, tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// step advances the engine by the wall time since the previous frame.
func (m Model) step(now time.Time) Model {
	dt := float64(frame) / float64(time.Millisecond)
	if !m.last.IsZero() {
		dt = float64(now.Sub(m.last)) / float64(time.Millisecond)
	}
	m.last = now

	m.engine.Tick(dt, m.intent(), m.confirm)
	m.confirm = false
	for i := range m.held {
		m.held[i] = max(0, m.held[i]-dt)
	}
	return m.collectNotices()
}

func (m Model) intent() movement.Intent {
	return movement.Intent{
		Up:    m.held[dirUp] > 0,
		Down:  m.held[dirDown] > 0,
		Left:  m.held[dirLeft] > 0,
		Right: m.held[dirRight] > 0,
	}
}

// hold presses a direction and releases its opposite.
func (m Model) hold(dir int) Model {
	m.held[dir] = holdMs
	m.held[dir^1] = 0
	return m
}

// collectNotices moves engine notices into the toast stack and the log,
// dropping expired toasts.
func (m Model) collectNotices() Model {
	now := m.engine.State.Clock
	live := m.toasts[:0:0]
	for _, t := range m.toasts {
		if t.until > now {
			live = append(live, t)
		}
	}
	for _, n := range m.engine.TakeNotices() {
		live = append(live, toast{text: n.Text, until: now + float64(n.Duration)/float64(time.Millisecond)})
		m.history.Push(n.Text)
	}
	if len(live) > maxToasts {
		live = live[len(live)-maxToasts:]
	}
	m.toasts = live
	if m.showLog {
		m.refreshLog()
	}
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	eng := m.engine
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Log):
		m.showLog = !m.showLog
		m.refreshLog()

	case m.showLog && (msg.String() == "pgup" || msg.String() == "pgdown" || msg.String() == "ctrl+u" || msg.String() == "ctrl+d"):
		var cmd tea.Cmd
		m.log, cmd = m.log.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keys.Spots):
		eng.SetDebugOverlayVisible(!eng.ShowSpots())

	case key.Matches(msg, m.keys.Inventory):
		eng.ToggleInventory()

	case key.Matches(msg, m.keys.Interact):
		if eng.Dialog() != nil {
			if eng.DialogNav().Forward {
				eng.Forward()
			}
			return m.collectNotices(), nil
		}
		m.confirm = true

	case key.Matches(msg, m.keys.Back):
		switch {
		case eng.Dialog() != nil:
			if eng.DialogNav().Back {
				eng.Back()
			} else {
				eng.CloseDialog()
			}
			return m.collectNotices(), nil
		case m.showLog:
			m.showLog = false
		case eng.InventoryOpen():
			eng.SetInventoryOpen(false)
		}

	case key.Matches(msg, m.keys.Pick):
		m.pick(int(msg.String()[0] - '1'))
		return m.collectNotices(), nil

	case key.Matches(msg, m.keys.Up):
		return m.hold(dirUp), nil
	case key.Matches(msg, m.keys.Down):
		return m.hold(dirDown), nil
	case key.Matches(msg, m.keys.Left):
		return m.hold(dirLeft), nil
	case key.Matches(msg, m.keys.Right):
		return m.hold(dirRight), nil
	}
	return m, nil
}

// pick selects row i of the open choice, shop or bench.
func (m Model) pick(i int) {
	eng := m.engine
	s := eng.Dialog()
	if s == nil {
		return
	}
	switch s.Content.(type) {
	case *dialog.Choice:
		eng.SelectOption(i)
	case *dialog.Shop:
		eng.Buy(i)
	case *dialog.Craft:
		eng.CraftAt(i)
	}
}

func (m *Model) refreshLog() {
	if !m.ready {
		return
	}
	lines := m.history.Lines()
	if len(lines) == 0 {
		lines = []string{styleHint.Render("No notices yet.")}
	}
	m.log.SetContent(strings.Join(lines, "\n"))
	m.log.GotoBottom()
}

// View renders the map (or notice log) with the dialog card, inventory
// panel, toasts, status bar and key help.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	footer := m.help.View(m.keys)
	status := m.renderStatusBar()
	toasts := renderToasts(m.toasts, m.width)
	card := renderDialog(m.engine, m.width)

	used := lipgloss.Height(status) + lipgloss.Height(footer)
	if len(m.toasts) > 0 {
		used += lipgloss.Height(toasts)
	}
	if card != "" {
		used += lipgloss.Height(card)
	}
	rows := max(m.height-used, 1)

	var main string
	switch {
	case m.showLog:
		m.log.Height = rows
		main = m.log.View()
	case m.engine.InventoryOpen() && m.width > panelWidth+10:
		main = lipgloss.JoinHorizontal(lipgloss.Top,
			renderMap(m.engine, m.width-panelWidth, rows),
			renderInventory(m.engine, rows))
	default:
		main = renderMap(m.engine, m.width, rows)
	}

	parts := []string{main}
	if card != "" {
		parts = append(parts, card)
	}
	if len(m.toasts) > 0 {
		parts = append(parts, toasts)
	}
	parts = append(parts, status, footer)
	return strings.Join(parts, "\n")
}
