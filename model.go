package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qgrover/internal/grover"
	"qgrover/internal/sink"
)

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusView focus = iota
	focusInput
	focusMenu
)

// Messages driving the viewer. Ticks carry the generation of the animation
// that scheduled them so a replay can drop ticks from the previous one.
type (
	traceMsg struct {
		res *grover.Result
		err error
	}
	replayMsg        struct{}
	iterationTickMsg struct{ gen int }
	flickerTickMsg   struct{ gen int }
)

// Model represents the TUI application state.
type Model struct {
	cfg     grover.Config
	pending grover.Config // edited by the settings menu, applied on confirm
	out     sink.Sink     // optional; receives every completed search

	word  string
	trace []float64
	res   *grover.Result

	iteration int
	frame     string
	gen       int
	running   bool
	done      bool

	flick *flickerer
	seed  int64

	input   textinput.Model
	keys    keyMap
	help    help.Model
	focus   focus
	menuIdx int

	width     int
	height    int
	statusMsg string
	err       error
}

// initialModel builds the viewer. A nil trace starts a search with cfg as
// soon as the program runs; a preloaded trace is animated directly.
func initialModel(cfg grover.Config, word string, trace []float64, out sink.Sink, seed int64) Model {
	ti := textinput.New()
	ti.Placeholder = "word to search for"
	ti.CharLimit = 64
	ti.Width = wordMinW

	m := Model{
		cfg:     cfg,
		pending: cfg,
		out:     out,
		word:    word,
		trace:   trace,
		frame:   word,
		flick:   newFlickerer(seed, alphabetSize(cfg.Qubits)),
		seed:    seed,
		input:   ti,
		keys:    defaultKeyMap(),
		help:    help.New(),
		focus:   focusView,
	}
	if trace == nil {
		m.running = true
		m.statusMsg = "searching…"
	}
	return m
}

func alphabetSize(qubits int) int { return 1 << (qubits - 1) }

func (m Model) Init() tea.Cmd {
	if m.trace == nil {
		return m.searchCmd()
	}
	return func() tea.Msg { return replayMsg{} }
}

// search marks a search in flight and returns the command running it.
func (m *Model) search() tea.Cmd {
	m.running = true
	m.statusMsg = "searching…"
	return m.searchCmd()
}

// searchCmd runs the simulation off the UI goroutine.
func (m Model) searchCmd() tea.Cmd {
	cfg, out := m.cfg, m.out
	return func() tea.Msg {
		c, err := grover.NewController(cfg)
		if err != nil {
			return traceMsg{err: err}
		}
		res, err := c.Run(context.Background())
		if err != nil {
			return traceMsg{err: err}
		}
		if out != nil {
			if err := out.Write(context.Background(), res); err != nil {
				return traceMsg{res: res, err: fmt.Errorf("store run: %w", err)}
			}
		}
		return traceMsg{res: res}
	}
}

// startAnimation restarts the replay of the trace from iteration 0.
func (m *Model) startAnimation() tea.Cmd {
	m.gen++
	m.iteration = 0
	m.done = len(m.trace) == 0
	if m.done {
		m.frame = m.word
		return nil
	}
	m.frame = m.flick.frame(m.word, m.trace[0])
	return tea.Batch(iterationTick(m.gen), flickerTick(m.gen))
}

func iterationTick(gen int) tea.Cmd {
	return tea.Tick(iterationEvery, func(time.Time) tea.Msg { return iterationTickMsg{gen: gen} })
}

func flickerTick(gen int) tea.Cmd {
	return tea.Tick(flickerEvery, func(time.Time) tea.Msg { return flickerTickMsg{gen: gen} })
}

// Update handles incoming messages and key events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case replayMsg:
		return m, m.startAnimation()

	case traceMsg:
		m.running = false
		m.err = msg.err
		if msg.res == nil {
			m.statusMsg = ""
			return m, nil
		}
		m.res = msg.res
		m.trace = msg.res.Trace()
		if msg.err == nil {
			m.statusMsg = fmt.Sprintf("run %s  digest %s", shortID(msg.res.ID), msg.res.Digest)
		}
		return m, m.startAnimation()

	case iterationTickMsg:
		if msg.gen != m.gen || m.done {
			return m, nil
		}
		m.iteration++
		if m.iteration >= len(m.trace) {
			m.iteration = len(m.trace) - 1
			m.done = true
			m.frame = m.word
			return m, nil
		}
		return m, iterationTick(m.gen)

	case flickerTickMsg:
		if msg.gen != m.gen || m.done {
			return m, nil
		}
		m.frame = m.flick.frame(m.word, m.trace[m.iteration])
		return m, flickerTick(m.gen)

	case tea.KeyMsg:
		switch m.focus {
		case focusInput:
			return m.updateInput(msg)
		case focusMenu:
			return m.updateMenu(msg)
		default:
			return m.updateView(msg)
		}
	}

	return m, nil
}

func (m Model) updateView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Replay):
		if !m.running {
			return m, m.startAnimation()
		}
	case key.Matches(msg, m.keys.Edit):
		m.focus = focusInput
		m.input.SetValue(m.word)
		m.input.CursorEnd()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Settings):
		if !m.running {
			m.focus = focusMenu
			m.pending = m.cfg
			m.menuIdx = 0
		}
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.focus = focusView
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		word := strings.TrimSpace(m.input.Value())
		if word == "" {
			m.statusMsg = "word cannot be empty"
			return m, nil
		}
		m.word = word
		m.focus = focusView
		m.input.Blur()
		if skipped := m.unsearchable(); skipped > 0 {
			m.statusMsg = fmt.Sprintf("%d character(s) outside the %d-symbol alphabet stay fixed", skipped, alphabetSize(m.cfg.Qubits))
		}
		return m, m.startAnimation()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
		m.focus = focusView
	case key.Matches(msg, m.keys.Up):
		if m.menuIdx > 0 {
			m.menuIdx--
		}
	case key.Matches(msg, m.keys.Down):
		if m.menuIdx < len(settingsMenu)-1 {
			m.menuIdx++
		}
	case key.Matches(msg, m.keys.Left):
		settingsMenu[m.menuIdx].adjust(&m.pending, -1)
	case key.Matches(msg, m.keys.Right):
		settingsMenu[m.menuIdx].adjust(&m.pending, 1)
	case key.Matches(msg, m.keys.Confirm):
		m.focus = focusView
		m.cfg = m.pending
		m.flick = newFlickerer(m.seed, alphabetSize(m.cfg.Qubits))
		m.trace = nil
		m.res = nil
		m.gen++
		return m, m.search()
	}
	return m, nil
}

// unsearchable counts the characters of the word the current register cannot
// encode.
func (m Model) unsearchable() int {
	n := 0
	for _, r := range m.word {
		if int(r) >= alphabetSize(m.cfg.Qubits) {
			n++
		}
	}
	return n
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	controlsHeight := 4
	if m.help.ShowAll {
		controlsHeight = 6
	}
	topHeight := max(m.height-controlsHeight-2, barMaxH+6)

	wordWidth := max(m.width/3, wordMinW)
	traceWidth := max(m.width-wordWidth-4, labelW+barW+4)

	wordPanel := m.renderWordPanel(wordWidth, topHeight)
	tracePanel := m.renderTracePanel(traceWidth, topHeight)
	controlsPanel := m.renderControlsPanel(m.width-2, controlsHeight)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, wordPanel, tracePanel)
	frame := lipgloss.JoinVertical(lipgloss.Left, topRow, controlsPanel)

	if m.focus == focusMenu {
		frame = overlayAt(frame, m.renderMenu(), 2, 2)
	}
	if m.focus == focusInput {
		frame = overlayAt(frame, m.renderInput(), 2, 2)
	}

	return frame
}

// renderInput renders the word entry overlay.
func (m Model) renderInput() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Search Word"))
	sb.WriteString("\n\n")
	sb.WriteString(m.input.View())
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render("⏎ Ok  Esc ✕"))
	return menuBorderStyle.Render(sb.String())
}
