package main

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"qgrover/internal/grover"
	"qgrover/internal/sink"
)

func testConfig() grover.Config {
	cfg := grover.DefaultConfig()
	cfg.Qubits = 4
	cfg.Target = 5
	cfg.Logger = log.New(io.Discard)
	return cfg
}

func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestReplayWalksTrace(t *testing.T) {
	m := initialModel(testConfig(), "AB", []float64{0.1, 0.5, 0.9}, nil, 1)
	if m.running {
		t.Fatal("preloaded trace should not start a search")
	}

	m, cmd := step(t, m, replayMsg{})
	if cmd == nil {
		t.Fatal("replay scheduled no ticks")
	}
	if m.iteration != 0 || m.done {
		t.Fatalf("iteration=%d done=%v after replay", m.iteration, m.done)
	}

	gen := m.gen
	for want := 1; want <= 2; want++ {
		m, _ = step(t, m, iterationTickMsg{gen: gen})
		if m.iteration != want {
			t.Fatalf("iteration = %d, want %d", m.iteration, want)
		}
	}

	m, cmd = step(t, m, iterationTickMsg{gen: gen})
	if !m.done {
		t.Fatal("animation did not finish after the last entry")
	}
	if cmd != nil {
		t.Error("finished animation scheduled another tick")
	}
	if m.frame != "AB" {
		t.Errorf("settled frame = %q, want the word", m.frame)
	}
	if m.iteration != 2 {
		t.Errorf("iteration = %d after finishing, want 2", m.iteration)
	}
}

func TestStaleTicksDropped(t *testing.T) {
	m := initialModel(testConfig(), "AB", []float64{0.1, 0.5, 0.9}, nil, 1)
	m, _ = step(t, m, replayMsg{})
	old := m.gen
	m, _ = step(t, m, keyRune('r'))
	if m.gen == old {
		t.Fatal("replay did not start a new generation")
	}

	m, cmd := step(t, m, iterationTickMsg{gen: old})
	if m.iteration != 0 || cmd != nil {
		t.Errorf("stale tick advanced the animation: iteration=%d", m.iteration)
	}
	if _, cmd = step(t, m, flickerTickMsg{gen: old}); cmd != nil {
		t.Error("stale flicker tick rescheduled itself")
	}
}

func TestFlickerTickResamples(t *testing.T) {
	m := initialModel(testConfig(), "", []float64{1, 1}, nil, 1)
	m.word = "\x05\x02"
	m, _ = step(t, m, replayMsg{})
	m, cmd := step(t, m, flickerTickMsg{gen: m.gen})
	if cmd == nil {
		t.Fatal("flicker tick not rescheduled")
	}
	// p=1 draws every symbol exactly, shown through the placeholder.
	if want := string([]rune{placeholder, placeholder}); m.frame != want {
		t.Errorf("frame = %q, want %q", m.frame, want)
	}
}

func TestSearchResultStartsAnimation(t *testing.T) {
	mem := sink.NewMemory()
	m := initialModel(testConfig(), "Hi", nil, mem, 1)
	if !m.running {
		t.Fatal("model without a trace should be searching")
	}

	msg := m.searchCmd()()
	tm, ok := msg.(traceMsg)
	if !ok {
		t.Fatalf("search returned %T", msg)
	}
	if tm.err != nil {
		t.Fatalf("search failed: %v", tm.err)
	}

	m, cmd := step(t, m, tm)
	if m.running || cmd == nil {
		t.Fatalf("running=%v cmd=%v after result", m.running, cmd)
	}
	if want := grover.OptimalIterations(4) + 1; len(m.trace) != want {
		t.Errorf("trace has %d entries, want %d", len(m.trace), want)
	}
	if got := len(mem.Results()); got != 1 {
		t.Errorf("sink holds %d runs, want 1", got)
	}
	if !strings.Contains(m.statusMsg, m.res.Digest) {
		t.Errorf("status %q does not show the digest", m.statusMsg)
	}
}

func TestSearchErrorShown(t *testing.T) {
	cfg := testConfig()
	cfg.Target = 99
	m := initialModel(cfg, "Hi", nil, nil, 1)
	m, _ = step(t, m, m.searchCmd()())
	if m.err == nil {
		t.Fatal("invalid target produced no error")
	}
	if m.running {
		t.Error("still running after failure")
	}
}

func TestEditWord(t *testing.T) {
	m := initialModel(testConfig(), "AB", []float64{0.2, 0.8}, nil, 1)
	m, _ = step(t, m, keyRune('e'))
	if m.focus != focusInput {
		t.Fatalf("focus = %v, want input", m.focus)
	}
	if m.input.Value() != "AB" {
		t.Errorf("input starts with %q, want current word", m.input.Value())
	}

	m.input.SetValue("  ")
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.focus != focusInput || m.word != "AB" {
		t.Fatal("blank word accepted")
	}

	m.input.SetValue("Qubit")
	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.focus != focusView || m.word != "Qubit" {
		t.Fatalf("focus=%v word=%q after confirm", m.focus, m.word)
	}
	if cmd == nil {
		t.Error("new word did not restart the animation")
	}
}

func TestEditWordWarnsOutsideAlphabet(t *testing.T) {
	// 4 qubits search 8 symbols; letters cannot be encoded.
	m := initialModel(testConfig(), "x", []float64{0.2, 0.8}, nil, 1)
	m, _ = step(t, m, keyRune('e'))
	m.input.SetValue("ab")
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(m.statusMsg, "2 character(s)") {
		t.Errorf("status = %q", m.statusMsg)
	}
}

func TestSettingsMenu(t *testing.T) {
	m := initialModel(testConfig(), "AB", []float64{0.2, 0.8}, nil, 1)
	m, _ = step(t, m, keyRune('s'))
	if m.focus != focusMenu {
		t.Fatalf("focus = %v, want menu", m.focus)
	}

	// Qubits row
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.pending.Qubits != 5 || m.cfg.Qubits != 4 {
		t.Fatalf("pending=%d cfg=%d", m.pending.Qubits, m.cfg.Qubits)
	}

	// Oracle row
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.pending.Mode != grover.ModeLiteral {
		t.Fatalf("mode = %s, want literal", m.pending.Mode)
	}

	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.focus != focusView || !m.running || cmd == nil {
		t.Fatalf("confirm: focus=%v running=%v", m.focus, m.running)
	}
	if m.cfg.Qubits != 5 || m.cfg.Mode != grover.ModeLiteral {
		t.Errorf("cfg not applied: %+v", m.cfg)
	}
	if m.flick.alphabet != 16 {
		t.Errorf("alphabet = %d, want 16", m.flick.alphabet)
	}
}

func TestSettingsMenuCancel(t *testing.T) {
	m := initialModel(testConfig(), "AB", []float64{0.2, 0.8}, nil, 1)
	m, _ = step(t, m, keyRune('s'))
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.focus != focusView || m.cfg.Qubits != 4 {
		t.Fatalf("cancel applied settings: focus=%v qubits=%d", m.focus, m.cfg.Qubits)
	}
}

func TestMenuClampsQubitsAndTarget(t *testing.T) {
	cfg := testConfig()
	cfg.Qubits = 3
	cfg.Target = 3
	settingsMenu[0].adjust(&cfg, -1)
	if cfg.Qubits != 2 || cfg.Target != 1 {
		t.Errorf("after shrinking: qubits=%d target=%d", cfg.Qubits, cfg.Target)
	}
	settingsMenu[0].adjust(&cfg, -1)
	if cfg.Qubits != minTUIQubits {
		t.Errorf("qubits went below %d", minTUIQubits)
	}

	cfg.Iterations = 1
	settingsMenu[1].adjust(&cfg, -1)
	if cfg.Iterations != 0 {
		t.Errorf("iterations = %d, want 0", cfg.Iterations)
	}
	settingsMenu[1].adjust(&cfg, -1)
	settingsMenu[1].adjust(&cfg, -1)
	if cfg.Iterations != grover.AutoIterations {
		t.Errorf("iterations went below auto: %d", cfg.Iterations)
	}
	if got := settingsMenu[1].value(cfg); !strings.HasPrefix(got, "auto") {
		t.Errorf("auto iterations shown as %q", got)
	}

	settingsMenu[3].adjust(&cfg, 1)
	if cfg.Target != 0 {
		t.Errorf("target did not wrap: %d", cfg.Target)
	}
}

func TestViewRenders(t *testing.T) {
	m := initialModel(testConfig(), "AB", []float64{0.125, 0.78, 0.95}, nil, 1)
	if got := m.View(); got != "Loading..." {
		t.Fatalf("view before sizing = %q", got)
	}

	m, _ = step(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
	m, _ = step(t, m, replayMsg{})
	view := m.View()
	for _, want := range []string{"Grover Search", "Amplification", "Iteration   0/2"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m, _ = step(t, m, keyRune('s'))
	if !strings.Contains(m.View(), "Search Settings") {
		t.Error("settings overlay not rendered")
	}
}

func TestBarRows(t *testing.T) {
	full := barRows(1, 4)
	for r, row := range full {
		if row != strings.Repeat("█", barW) {
			t.Errorf("p=1 row %d = %q", r, row)
		}
	}
	for r, row := range barRows(0, 4) {
		if strings.TrimSpace(row) != "" {
			t.Errorf("p=0 row %d = %q", r, row)
		}
	}

	half := barRows(0.5, 4)
	if strings.TrimSpace(half[0]) != "" || strings.TrimSpace(half[1]) != "" {
		t.Errorf("p=0.5 filled the top half: %q", half)
	}
	if half[2] != strings.Repeat("█", barW) || half[3] != strings.Repeat("█", barW) {
		t.Errorf("p=0.5 left the bottom half empty: %q", half)
	}

	// 1/16 of 4 rows is two eighths of the bottom cell.
	if got := barRows(1.0/16, 4)[3]; got != strings.Repeat("▂", barW) {
		t.Errorf("partial cell = %q", got)
	}
}

func TestAxisLabelWidth(t *testing.T) {
	for r := range barMaxH {
		if got := visibleLen(axisLabel(r, barMaxH)); got != labelW {
			t.Errorf("row %d label width %d, want %d", r, got, labelW)
		}
	}
}

func TestPadCenter(t *testing.T) {
	tests := []struct {
		s     string
		width int
		want  string
	}{
		{"ab", 6, "  ab  "},
		{"abc", 6, " abc  "},
		{"░░", 4, " ░░ "},
		{"abcdef", 3, "abc"},
	}
	for _, tt := range tests {
		if got := padCenter(tt.s, tt.width); got != tt.want {
			t.Errorf("padCenter(%q, %d) = %q, want %q", tt.s, tt.width, got, tt.want)
		}
	}
}

func TestOverlayAt(t *testing.T) {
	bg := "..........\n..........\n.........."
	got := overlayAt(bg, "ab\ncd", 3, 1)
	want := "..........\n...ab.....\n...cd....."
	if got != want {
		t.Errorf("overlayAt =\n%s\nwant\n%s", got, want)
	}
}
