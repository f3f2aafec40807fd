package settings

import (
	"controlui/internal/polling"
	"controlui/internal/types"
)

// Host is the state a Reconciler works on. Implementations are driven
// from a single goroutine.
type Host interface {
	Settings() types.Settings
	SetSettings(settings types.Settings)
	ActiveTab() types.Tab
	SetActiveTab(tab types.Tab)
	SessionKey() string
	SetSessionKey(key string)
	Polls() *polling.State
}

// PasswordHost receives a URL-supplied password. It is never persisted.
type PasswordHost interface {
	SetPassword(password string)
}

// GatewayHost receives a URL-supplied gateway address. It stays pending
// until the user confirms it.
type GatewayHost interface {
	SetPendingGatewayURL(url string)
}

// TabObserver is told about tab changes after the tab field is updated and
// before pollers are reconciled.
type TabObserver interface {
	TabEntered(prev, next types.Tab)
}

type ThemeHost interface {
	SetTheme(theme types.Theme)
}

// MemoryHost is a plain in-memory Host.
type MemoryHost struct {
	settings          types.Settings
	tab               types.Tab
	sessionKey        string
	password          string
	pendingGatewayURL string
	theme             types.Theme
	polls             polling.State

	ChatHasAutoScrolled bool
	LogsAtBottom        bool
}

func NewMemoryHost(tab types.Tab, settings types.Settings) *MemoryHost {
	settings = settings.Normalize()
	return &MemoryHost{
		settings:   settings,
		tab:        tab,
		sessionKey: settings.SessionKey,
		theme:      settings.Theme,
	}
}

func (h *MemoryHost) Settings() types.Settings            { return h.settings.Clone() }
func (h *MemoryHost) SetSettings(settings types.Settings) { h.settings = settings.Clone() }
func (h *MemoryHost) ActiveTab() types.Tab                { return h.tab }
func (h *MemoryHost) SetActiveTab(tab types.Tab)          { h.tab = tab }
func (h *MemoryHost) SessionKey() string                  { return h.sessionKey }
func (h *MemoryHost) SetSessionKey(key string)            { h.sessionKey = key }
func (h *MemoryHost) Polls() *polling.State               { return &h.polls }
func (h *MemoryHost) SetPassword(password string)         { h.password = password }
func (h *MemoryHost) Password() string                    { return h.password }
func (h *MemoryHost) SetPendingGatewayURL(url string)     { h.pendingGatewayURL = url }
func (h *MemoryHost) PendingGatewayURL() string           { return h.pendingGatewayURL }
func (h *MemoryHost) SetTheme(theme types.Theme)          { h.theme = theme }
func (h *MemoryHost) Theme() types.Theme                  { return h.theme }

// ClearPendingGatewayURL drops a pending address without adopting it.
func (h *MemoryHost) ClearPendingGatewayURL() {
	h.pendingGatewayURL = ""
}

func (h *MemoryHost) TabEntered(prev, next types.Tab) {
	switch next {
	case types.TabChat:
		h.ChatHasAutoScrolled = false
	case types.TabLogs:
		h.LogsAtBottom = true
	}
}
