package main

import (
	"fmt"
	"math"
	"strings"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres a string within the given width, counting runes.
func padCenter(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return string(runes[:width])
	}
	total := width - len(runes)
	left := total / 2
	right := total - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// barRows renders one column of the trace chart, top row first. Partial
// cells use eighth blocks.
func barRows(p float64, height int) []string {
	eighths := []string{" ", "▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}
	units := int(math.Round(min(max(p, 0), 1) * float64(height*8)))
	rows := make([]string, height)
	for r := range height {
		fill := units - (height-1-r)*8
		switch {
		case fill >= 8:
			rows[r] = strings.Repeat("█", barW)
		case fill > 0:
			rows[r] = strings.Repeat(eighths[fill], barW)
		default:
			rows[r] = strings.Repeat(" ", barW)
		}
	}
	return rows
}

// axisLabel returns the labelW-wide axis printed left of chart row r.
func axisLabel(r, height int) string {
	label, tick := "", "│"
	switch r {
	case 0:
		label, tick = "1.0", "┤"
	case height / 2:
		label, tick = "0.5", "┤"
	case height - 1:
		label, tick = "0.0", "┤"
	}
	return fmt.Sprintf("%*s ", labelW-2, label) + tick
}

// ──────────────────────────── Panel rendering ────────────────────────────

// renderWordPanel shows the word as currently measured.
func (m Model) renderWordPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Grover Search"))
	sb.WriteString("\n\n")

	inner := max(width-6, 1)
	switch {
	case m.running:
		sb.WriteString(dimStyle.Render(padCenter("searching…", inner)))
	case m.done:
		sb.WriteString(settledStyle.Render(padCenter(m.frame, inner)))
	default:
		sb.WriteString(flickerStyle.Render(padCenter(m.frame, inner)))
	}
	sb.WriteString("\n\n")

	if len(m.trace) > 0 {
		fmt.Fprintf(&sb, "Iteration   %d/%d\n", m.iteration, len(m.trace)-1)
		fmt.Fprintf(&sb, "P(target)   %.4f\n", m.trace[m.iteration])
	}
	fmt.Fprintf(&sb, "Qubits      %d (%d symbols)\n", m.cfg.Qubits, alphabetSize(m.cfg.Qubits))
	fmt.Fprintf(&sb, "Oracle      %s\n", m.cfg.Mode)
	if m.res != nil {
		fmt.Fprintf(&sb, "Target      %s\n", formatPattern(m.res.Target, m.res.Qubits-1))
		fmt.Fprintf(&sb, "Argmax      %s\n", formatPattern(m.res.Final.Argmax, m.res.Qubits-1))
	}

	return wordPanelStyle.Width(width).Height(height).Render(sb.String())
}

// renderTracePanel draws the maximum probability after every iteration as a
// bar chart, scrolled so the current iteration stays visible.
func (m Model) renderTracePanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Amplification"))
	sb.WriteString("\n\n")

	if len(m.trace) == 0 {
		sb.WriteString(dimStyle.Render("no trace yet"))
		return tracePanelStyle.Width(width).Height(height).Render(sb.String())
	}

	availWidth := width - labelW - 4
	maxCols := max(availWidth/(barW+barGap), 1)

	start := 0
	if m.iteration >= maxCols {
		start = m.iteration - maxCols + 1
	}
	end := min(start+maxCols, len(m.trace))

	cols := make([][]string, 0, end-start)
	for i := start; i < end; i++ {
		cols = append(cols, barRows(m.trace[i], barMaxH))
	}

	gap := strings.Repeat(" ", barGap)
	for r := range barMaxH {
		line := dimStyle.Render(axisLabel(r, barMaxH)) + gap
		for c, col := range cols {
			style := barStyle
			if start+c == m.iteration {
				style = activeBarStyle
			}
			line += style.Render(col[r]) + gap
		}
		sb.WriteString(line + "\n")
	}

	// Iteration numbers under each column
	footer := strings.Repeat(" ", labelW) + gap
	for i := start; i < end; i++ {
		footer += dimStyle.Render(padCenter(fmt.Sprintf("%d", i), barW)) + gap
	}
	sb.WriteString(footer + "\n")

	if start > 0 {
		fmt.Fprintf(&sb, "  ◀ showing iterations %d–%d\n", start, end-1)
	}

	return tracePanelStyle.Width(width).Height(height).Render(sb.String())
}

// renderControlsPanel renders the bottom help/controls bar.
func (m Model) renderControlsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(m.help.View(m.keys))
	sb.WriteString("\n")
	switch {
	case m.err != nil:
		sb.WriteString(errorStyle.Render(m.err.Error()))
	case m.statusMsg != "":
		sb.WriteString(dimStyle.Render(m.statusMsg))
	}

	return controlsStyle.Width(width).Height(height).Render(sb.String())
}

// ──────────────────────────── Overlay helpers ────────────────────────────

// overlayAt composites the overlay string on top of the background at position (x, y).
// It handles ANSI escape sequences by tracking visible column positions.
func overlayAt(bg, overlay string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	ovLines := strings.Split(overlay, "\n")

	for i, ovLine := range ovLines {
		bgIdx := y + i
		if bgIdx < 0 || bgIdx >= len(bgLines) {
			continue
		}
		bgLines[bgIdx] = spliceLineAt(bgLines[bgIdx], ovLine, x)
	}
	return strings.Join(bgLines, "\n")
}

// spliceLineAt replaces visible columns starting at position x in bgLine with overlay content.
// It properly handles ANSI escape sequences in the background line.
func spliceLineAt(bgLine, overlay string, x int) string {
	runes := []rune(bgLine)
	ovWidth := visibleLen(overlay)

	var prefix strings.Builder
	var suffix strings.Builder

	col := 0
	i := 0
	inEsc := false

	// Collect prefix: everything up to visible column x
	for i < len(runes) && col < x {
		if runes[i] == '\x1b' {
			inEsc = true
			for i < len(runes) {
				prefix.WriteRune(runes[i])
				if inEsc && runes[i] != '\x1b' && runes[i] != '[' && ((runes[i] >= 'A' && runes[i] <= 'Z') || (runes[i] >= 'a' && runes[i] <= 'z')) {
					inEsc = false
					i++
					break
				}
				i++
			}
		} else {
			prefix.WriteRune(runes[i])
			col++
			i++
		}
	}

	// Pad prefix if bg line is shorter than x
	for col < x {
		prefix.WriteRune(' ')
		col++
	}

	// Skip over ovWidth visible columns in the background
	skipped := 0
	for i < len(runes) && skipped < ovWidth {
		if runes[i] == '\x1b' {
			for i < len(runes) {
				i++
				if i > 0 && runes[i-1] != '\x1b' && runes[i-1] != '[' && ((runes[i-1] >= 'A' && runes[i-1] <= 'Z') || (runes[i-1] >= 'a' && runes[i-1] <= 'z')) {
					break
				}
			}
		} else {
			skipped++
			i++
		}
	}

	// Collect suffix: rest of the background line
	for i < len(runes) {
		suffix.WriteRune(runes[i])
		i++
	}

	return prefix.String() + overlay + suffix.String()
}

// visibleLen returns the number of visible (non-ANSI-escape) characters in a string.
func visibleLen(s string) int {
	n := 0
	inEsc := false
	for _, r := range s {
		if r == '\x1b' {
			inEsc = true
			continue
		}
		if inEsc {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEsc = false
			}
			continue
		}
		n++
	}
	return n
}
