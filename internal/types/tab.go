package types

import "strings"

type Tab string

const (
	TabChat      Tab = "chat"
	TabOverview  Tab = "overview"
	TabChannels  Tab = "channels"
	TabInstances Tab = "instances"
	TabSessions  Tab = "sessions"
	TabCron      Tab = "cron"
	TabSkills    Tab = "skills"
	TabNodes     Tab = "nodes"
	TabConfig    Tab = "config"
	TabDebug     Tab = "debug"
	TabLogs      Tab = "logs"
)

var allTabs = []Tab{
	TabChat,
	TabOverview,
	TabChannels,
	TabInstances,
	TabSessions,
	TabCron,
	TabSkills,
	TabNodes,
	TabConfig,
	TabDebug,
	TabLogs,
}

var tabTitles = map[Tab]string{
	TabChat:      "Chat",
	TabOverview:  "Overview",
	TabChannels:  "Channels",
	TabInstances: "Instances",
	TabSessions:  "Sessions",
	TabCron:      "Cron Jobs",
	TabSkills:    "Skills",
	TabNodes:     "Nodes",
	TabConfig:    "Config",
	TabDebug:     "Debug",
	TabLogs:      "Logs",
}

// AllTabs returns the navigation order.
func AllTabs() []Tab {
	return append([]Tab{}, allTabs...)
}

func ParseTab(raw string) (Tab, bool) {
	tab := Tab(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := tabTitles[tab]; ok {
		return tab, true
	}
	return "", false
}

func (t Tab) Title() string {
	if title, ok := tabTitles[t]; ok {
		return title
	}
	return string(t)
}

func (t Tab) Valid() bool {
	_, ok := tabTitles[t]
	return ok
}

// NormalizeBasePath returns "" or a path with a leading slash and no
// trailing slash.
func NormalizeBasePath(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	if !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	base = strings.TrimRight(base, "/")
	return base
}

func PathForTab(basePath string, tab Tab) string {
	base := NormalizeBasePath(basePath)
	if !tab.Valid() {
		tab = TabChat
	}
	return base + "/" + string(tab)
}

// TabFromPath maps a route path under basePath to its tab. The root path
// resolves to chat.
func TabFromPath(basePath, path string) (Tab, bool) {
	base := NormalizeBasePath(basePath)
	p := strings.TrimSpace(path)
	if p == "" {
		p = "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if base != "" {
		switch {
		case p == base:
			p = "/"
		case strings.HasPrefix(p, base+"/"):
			p = strings.TrimPrefix(p, base)
		}
	}
	p = strings.Trim(p, "/")
	if p == "" {
		return TabChat, true
	}
	if strings.Contains(p, "/") {
		return "", false
	}
	return ParseTab(p)
}

type TabGroup struct {
	Label string
	Tabs  []Tab
}

var tabGroups = []TabGroup{
	{Label: "Chat", Tabs: []Tab{TabChat}},
	{Label: "Control", Tabs: []Tab{TabOverview, TabChannels, TabInstances, TabSessions, TabCron}},
	{Label: "Agent", Tabs: []Tab{TabSkills, TabNodes}},
	{Label: "Settings", Tabs: []Tab{TabConfig, TabDebug, TabLogs}},
}

// TabGroups returns the navigation groups in display order.
func TabGroups() []TabGroup {
	out := make([]TabGroup, 0, len(tabGroups))
	for _, group := range tabGroups {
		out = append(out, TabGroup{Label: group.Label, Tabs: append([]Tab{}, group.Tabs...)})
	}
	return out
}

// GroupOf returns the label of the group containing t.
func GroupOf(t Tab) string {
	for _, group := range tabGroups {
		for _, tab := range group.Tabs {
			if tab == t {
				return group.Label
			}
		}
	}
	return ""
}
