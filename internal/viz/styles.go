package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/framehold/internal/policy"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))

	statusRunning = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	statusPaused  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))

	pressedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	releasedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))

	menuCursor = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff00ff"))
	menuItem   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	menuDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

var iconStyles = map[policy.Icon]lipgloss.Style{
	policy.IconAuto: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ccff")),
	policy.IconOn:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88")),
	policy.IconOff:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444")),
}
