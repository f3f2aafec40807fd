package app

import (
	"charm.land/lipgloss/v2"

	"controlui/internal/types"
)

type palette struct {
	header     lipgloss.Style
	help       lipgloss.Style
	status     lipgloss.Style
	statusErr  lipgloss.Style
	tab        lipgloss.Style
	tabActive  lipgloss.Style
	group      lipgloss.Style
	groupShut  lipgloss.Style
	divider    lipgloss.Style
	confirm    lipgloss.Style
	emptyState lipgloss.Style
}

var darkPalette = palette{
	header:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
	help:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	status:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	statusErr:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
	tab:        lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Padding(0, 1),
	tabActive:  lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("239")).Bold(true).Padding(0, 1),
	group:      lipgloss.NewStyle().Foreground(lipgloss.Color("110")).Bold(true),
	groupShut:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Faint(true),
	divider:    lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	confirm:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("208")).Padding(0, 1),
	emptyState: lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true),
}

var lightPalette = palette{
	header:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("25")),
	help:       lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	status:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	statusErr:  lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true),
	tab:        lipgloss.NewStyle().Foreground(lipgloss.Color("236")).Padding(0, 1),
	tabActive:  lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("25")).Bold(true).Padding(0, 1),
	group:      lipgloss.NewStyle().Foreground(lipgloss.Color("24")).Bold(true),
	groupShut:  lipgloss.NewStyle().Foreground(lipgloss.Color("246")).Faint(true),
	divider:    lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	confirm:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("166")).Padding(0, 1),
	emptyState: lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
}

// resolveDark maps a theme preference to a concrete mode. System follows
// the terminal background.
func resolveDark(theme types.Theme, backgroundDark bool) bool {
	switch theme {
	case types.ThemeDark:
		return true
	case types.ThemeLight:
		return false
	default:
		return backgroundDark
	}
}

func paletteFor(dark bool) palette {
	if dark {
		return darkPalette
	}
	return lightPalette
}
