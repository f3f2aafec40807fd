package app

import (
	"bytes"
	"encoding/json"
	"strings"

	"charm.land/bubbles/v2/viewport"
)

const debugPanelWaitingMessage = "Waiting for debug snapshot..."

// debugPanel shows the latest gateway debug snapshot.
type debugPanel struct {
	viewport viewport.Model
	content  string
}

func newDebugPanel(width, height int) *debugPanel {
	vp := viewport.New(viewport.WithWidth(max(1, width)), viewport.WithHeight(max(1, height)))
	vp.SetContent(debugPanelWaitingMessage)
	return &debugPanel{viewport: vp, content: debugPanelWaitingMessage}
}

func (p *debugPanel) Resize(width, height int) {
	p.viewport.SetWidth(max(1, width))
	p.viewport.SetHeight(max(1, height))
}

// SetSnapshot replaces the panel content with raw, indented when it is
// valid JSON. The scroll position survives identical snapshots.
func (p *debugPanel) SetSnapshot(raw json.RawMessage) {
	content := formatSnapshot(raw)
	if content == p.content {
		return
	}
	p.content = content
	p.viewport.SetContent(content)
}

func (p *debugPanel) Content() string {
	return p.content
}

func (p *debugPanel) Scroll(key string) bool {
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
		p.viewport.GotoBottom()
	default:
		return false
	}
	return true
}

func (p *debugPanel) View() string {
	return p.viewport.View()
}

func formatSnapshot(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return debugPanelWaitingMessage
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, trimmed, "", "  "); err != nil {
		return strings.TrimSpace(string(trimmed))
	}
	return buf.String()
}
