package app

import (
	"strings"

	"charm.land/bubbles/v2/viewport"

	"controlui/internal/client"
)

const (
	maxLogLines        = 2000
	logsWaitingMessage = "Waiting for log lines..."
)

// logsPanel holds the tailed gateway log and the viewport that shows it.
type logsPanel struct {
	viewport viewport.Model
	lines    []string
	cursor   int64
	pinned   bool
}

func newLogsPanel(width, height int) *logsPanel {
	vp := viewport.New(viewport.WithWidth(max(1, width)), viewport.WithHeight(max(1, height)))
	vp.SetContent(logsWaitingMessage)
	return &logsPanel{viewport: vp, pinned: true}
}

func (p *logsPanel) Resize(width, height int) {
	p.viewport.SetWidth(max(1, width))
	p.viewport.SetHeight(max(1, height))
	if p.pinned {
		p.viewport.GotoBottom()
	}
}

func (p *logsPanel) Cursor() int64 {
	return p.cursor
}

// Apply merges one tail response. A reset response replaces the buffer.
func (p *logsPanel) Apply(resp *client.LogsTailResponse) {
	if resp == nil {
		return
	}
	if resp.Reset {
		p.lines = p.lines[:0]
	}
	p.cursor = resp.Cursor
	for _, line := range resp.Lines {
		p.lines = append(p.lines, strings.TrimRight(line, "\r\n"))
	}
	if over := len(p.lines) - maxLogLines; over > 0 {
		p.lines = append(p.lines[:0], p.lines[over:]...)
	}
	p.refresh()
}

// Pin follows the tail of the log.
func (p *logsPanel) Pin() {
	p.pinned = true
	p.viewport.GotoBottom()
}

func (p *logsPanel) Pinned() bool {
	return p.pinned
}

// Scroll handles a navigation key and reports whether it was consumed.
func (p *logsPanel) Scroll(key string) bool {
	switch key {
	case "up", "k":
		p.viewport.ScrollUp(1)
	case "down", "j":
		p.viewport.ScrollDown(1)
	case "pgup":
		p.viewport.PageUp()
	case "pgdown":
		p.viewport.PageDown()
	case "home":
		p.viewport.GotoTop()
	case "end", "G":
		p.Pin()
		return true
	default:
		return false
	}
	p.pinned = p.viewport.AtBottom()
	return true
}

func (p *logsPanel) View() string {
	return p.viewport.View()
}

func (p *logsPanel) refresh() {
	if len(p.lines) == 0 {
		p.viewport.SetContent(logsWaitingMessage)
	} else {
		p.viewport.SetContent(strings.Join(p.lines, "\n"))
	}
	if p.pinned {
		p.viewport.GotoBottom()
	}
}
