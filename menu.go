package main

import (
	"fmt"
	"strings"

	"qgrover/internal/grover"
)

// Settings the menu can change. The word panel needs at least 2 data symbols
// and a register small enough to re-run interactively.
const (
	minTUIQubits = 2
	maxTUIQubits = 14
	maxTUIIters  = 64
)

// menuItem is one adjustable run parameter.
type menuItem struct {
	name   string
	value  func(grover.Config) string
	adjust func(*grover.Config, int)
}

// settingsMenu defines the rows of the settings popup.
var settingsMenu = []menuItem{
	{
		name:  "Qubits",
		value: func(c grover.Config) string { return fmt.Sprintf("%d (%d symbols)", c.Qubits, 1<<(c.Qubits-1)) },
		adjust: func(c *grover.Config, d int) {
			c.Qubits = min(max(c.Qubits+d, minTUIQubits), maxTUIQubits)
			if c.Target >= 1<<(c.Qubits-1) {
				c.Target = 1<<(c.Qubits-1) - 1
			}
		},
	},
	{
		name: "Iterations",
		value: func(c grover.Config) string {
			if c.Iterations == grover.AutoIterations {
				return fmt.Sprintf("auto (%d)", grover.OptimalIterations(c.Qubits))
			}
			return fmt.Sprint(c.Iterations)
		},
		adjust: func(c *grover.Config, d int) {
			c.Iterations = min(max(c.Iterations+d, grover.AutoIterations), maxTUIIters)
		},
	},
	{
		name:  "Oracle",
		value: func(c grover.Config) string { return string(c.Mode) },
		adjust: func(c *grover.Config, _ int) {
			if c.Mode == grover.ModeLiteral {
				c.Mode = grover.ModeFolded
			} else {
				c.Mode = grover.ModeLiteral
			}
		},
	},
	{
		name:  "Target",
		value: func(c grover.Config) string { return formatPattern(c.Target, c.Qubits-1) },
		adjust: func(c *grover.Config, d int) {
			size := 1 << (c.Qubits - 1)
			c.Target = ((c.Target+d)%size + size) % size
		},
	},
}

// renderMenu renders the floating settings popup over a pending config.
func (m Model) renderMenu() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Search Settings"))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 36)))
	sb.WriteString("\n")

	for i, item := range settingsMenu {
		label := fmt.Sprintf("%-*s", menuLabelW, item.name)
		if i == m.menuIdx {
			sb.WriteString(menuSelectedStyle.Render(" ▸ " + label))
			sb.WriteString(menuSelectedStyle.Render("‹ " + item.value(m.pending) + " ›"))
		} else {
			sb.WriteString("   ")
			sb.WriteString(menuNormalStyle.Render(label))
			sb.WriteString(dimStyle.Render(item.value(m.pending)))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ↑↓ Select  ←→ Change  ⏎ Run  Esc ✕"))

	return menuBorderStyle.Render(sb.String())
}
