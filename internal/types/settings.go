package types

import (
	"math"
	"strings"
)

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

const (
	DefaultSessionKey = "main"
	DefaultSplitRatio = 0.6

	redactedToken = "[redacted]"
)

func ParseTheme(raw string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(raw))) {
	case ThemeLight:
		return ThemeLight, true
	case ThemeDark:
		return ThemeDark, true
	case ThemeSystem:
		return ThemeSystem, true
	default:
		return ThemeSystem, false
	}
}

// Next cycles light -> dark -> system -> light.
func (t Theme) Next() Theme {
	switch t {
	case ThemeLight:
		return ThemeDark
	case ThemeDark:
		return ThemeSystem
	default:
		return ThemeLight
	}
}

// Settings is the persisted control UI record. Token is a secret: use
// Redacted before handing a record to anything that prints.
type Settings struct {
	GatewayURL           string          `json:"gatewayUrl" toml:"gatewayUrl" yaml:"gatewayUrl"`
	Token                string          `json:"token" toml:"token" yaml:"token"`
	SessionKey           string          `json:"sessionKey" toml:"sessionKey" yaml:"sessionKey"`
	LastActiveSessionKey string          `json:"lastActiveSessionKey" toml:"lastActiveSessionKey" yaml:"lastActiveSessionKey"`
	Theme                Theme           `json:"theme" toml:"theme" yaml:"theme"`
	ChatFocusMode        bool            `json:"chatFocusMode" toml:"chatFocusMode" yaml:"chatFocusMode"`
	ChatShowThinking     bool            `json:"chatShowThinking" toml:"chatShowThinking" yaml:"chatShowThinking"`
	SplitRatio           float64         `json:"splitRatio" toml:"splitRatio" yaml:"splitRatio"`
	NavCollapsed         bool            `json:"navCollapsed" toml:"navCollapsed" yaml:"navCollapsed"`
	NavGroupsCollapsed   map[string]bool `json:"navGroupsCollapsed" toml:"navGroupsCollapsed" yaml:"navGroupsCollapsed"`
}

func DefaultSettings(gatewayURL string) Settings {
	return Settings{
		GatewayURL:           strings.TrimSpace(gatewayURL),
		SessionKey:           DefaultSessionKey,
		LastActiveSessionKey: DefaultSessionKey,
		Theme:                ThemeSystem,
		ChatShowThinking:     true,
		SplitRatio:           DefaultSplitRatio,
		NavGroupsCollapsed:   map[string]bool{},
	}
}

// Normalize returns a copy with every field inside its valid range.
func (s Settings) Normalize() Settings {
	out := s.Clone()
	out.GatewayURL = strings.TrimSpace(out.GatewayURL)
	out.Token = strings.TrimSpace(out.Token)
	out.SessionKey = strings.TrimSpace(out.SessionKey)
	if out.SessionKey == "" {
		out.SessionKey = DefaultSessionKey
	}
	out.LastActiveSessionKey = strings.TrimSpace(out.LastActiveSessionKey)
	if out.LastActiveSessionKey == "" {
		out.LastActiveSessionKey = out.SessionKey
	}
	theme, _ := ParseTheme(string(out.Theme))
	out.Theme = theme
	switch {
	case math.IsNaN(out.SplitRatio) || math.IsInf(out.SplitRatio, 0):
		out.SplitRatio = DefaultSplitRatio
	case out.SplitRatio < 0:
		out.SplitRatio = 0
	case out.SplitRatio > 1:
		out.SplitRatio = 1
	}
	return out
}

func (s Settings) Clone() Settings {
	out := s
	out.NavGroupsCollapsed = make(map[string]bool, len(s.NavGroupsCollapsed))
	for key, value := range s.NavGroupsCollapsed {
		out.NavGroupsCollapsed[key] = value
	}
	return out
}

func (s Settings) Redacted() Settings {
	out := s.Clone()
	if out.Token != "" {
		out.Token = redactedToken
	}
	return out
}

func (s Settings) HasToken() bool {
	return strings.TrimSpace(s.Token) != ""
}

// Equal compares field by field, including the collapsed group map.
func (s Settings) Equal(other Settings) bool {
	if s.GatewayURL != other.GatewayURL ||
		s.Token != other.Token ||
		s.SessionKey != other.SessionKey ||
		s.LastActiveSessionKey != other.LastActiveSessionKey ||
		s.Theme != other.Theme ||
		s.ChatFocusMode != other.ChatFocusMode ||
		s.ChatShowThinking != other.ChatShowThinking ||
		s.SplitRatio != other.SplitRatio ||
		s.NavCollapsed != other.NavCollapsed {
		return false
	}
	if len(s.NavGroupsCollapsed) != len(other.NavGroupsCollapsed) {
		return false
	}
	for key, value := range s.NavGroupsCollapsed {
		if otherValue, ok := other.NavGroupsCollapsed[key]; !ok || otherValue != value {
			return false
		}
	}
	return true
}
