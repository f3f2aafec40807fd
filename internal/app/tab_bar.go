package app

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"controlui/internal/types"
)

const (
	groupOpenMarker = "▾"
	groupShutMarker = "▸"
	tabSeparator    = " "
)

// renderTabBar lays out the navigation groups on one line. A collapsed
// group shows only its label unless it holds the active tab; a collapsed
// bar shows only the active tab.
func renderTabBar(p palette, settings types.Settings, active types.Tab, width int) string {
	if settings.NavCollapsed {
		return fitLine(p.group.Render(groupShutMarker)+tabSeparator+p.tabActive.Render(active.Title()), width)
	}
	parts := make([]string, 0, len(types.AllTabs())+4)
	for _, group := range types.TabGroups() {
		shut := settings.NavGroupsCollapsed[group.Label]
		if shut {
			parts = append(parts, p.groupShut.Render(groupShutMarker+" "+group.Label))
			for _, tab := range group.Tabs {
				if tab == active {
					parts = append(parts, p.tabActive.Render(tab.Title()))
				}
			}
			continue
		}
		parts = append(parts, p.group.Render(groupOpenMarker+" "+group.Label))
		for _, tab := range group.Tabs {
			if tab == active {
				parts = append(parts, p.tabActive.Render(tab.Title()))
				continue
			}
			parts = append(parts, p.tab.Render(tab.Title()))
		}
	}
	return fitLine(strings.Join(parts, tabSeparator), width)
}

// visibleTabs lists tabs reachable by next/previous navigation.
func visibleTabs(settings types.Settings, active types.Tab) []types.Tab {
	out := make([]types.Tab, 0, len(types.AllTabs()))
	for _, group := range types.TabGroups() {
		shut := settings.NavGroupsCollapsed[group.Label]
		for _, tab := range group.Tabs {
			if !shut || tab == active {
				out = append(out, tab)
			}
		}
	}
	return out
}

func stepTab(settings types.Settings, active types.Tab, delta int) types.Tab {
	tabs := visibleTabs(settings, active)
	if len(tabs) == 0 {
		return active
	}
	idx := 0
	for i, tab := range tabs {
		if tab == active {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(tabs)) % len(tabs)
	return tabs[idx]
}

// tabForDigit maps 1-9 to the first nine tabs and 0 to the tenth.
func tabForDigit(key string) (types.Tab, bool) {
	if len(key) != 1 || key[0] < '0' || key[0] > '9' {
		return "", false
	}
	idx := int(key[0] - '1')
	if key[0] == '0' {
		idx = 9
	}
	tabs := types.AllTabs()
	if idx < 0 || idx >= len(tabs) {
		return "", false
	}
	return tabs[idx], true
}

func fitLine(line string, width int) string {
	if width <= 0 {
		return line
	}
	if xansi.StringWidth(line) <= width {
		return line
	}
	return xansi.Truncate(line, width, "…")
}

// padRight pads plain text to width display cells.
func padRight(text string, width int) string {
	if width <= 0 {
		return text
	}
	w := runewidth.StringWidth(text)
	if w >= width {
		return runewidth.Truncate(text, width, "…")
	}
	return text + strings.Repeat(" ", width-w)
}
