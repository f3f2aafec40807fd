package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"

	"controlui/internal/client"
	"controlui/internal/logging"
	"controlui/internal/polling"
	"controlui/internal/settings"
	"controlui/internal/types"
)

const (
	minBodyHeight  = 3
	chromeHeight   = 3
	defaultWidth   = 80
	defaultHeight  = 24
	configKeyWidth = 22
)

// GatewayFactory builds a gateway client for the given record.
type GatewayFactory func(types.Settings) (Gateway, error)

type Options struct {
	Host       *settings.MemoryHost
	Reconciler *settings.Reconciler
	NewGateway GatewayFactory
	InitialTab types.Tab
	Origin     string
	BasePath   string
	Logger     logging.Logger
}

// Model is the terminal host for the reconciler. It owns the live state
// through the embedded MemoryHost.
type Model struct {
	*settings.MemoryHost

	ctx        context.Context
	reconciler *settings.Reconciler
	newGateway GatewayFactory
	gateway    Gateway
	logger     logging.Logger
	initialTab types.Tab
	origin     string
	basePath   string

	width          int
	height         int
	backgroundDark bool
	showHelp       bool
	status         string
	statusErr      bool
	inFlight       map[polling.Kind]bool

	logs  *logsPanel
	debug *debugPanel
}

func NewModel(ctx context.Context, opts Options) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	host := opts.Host
	if host == nil {
		host = settings.NewMemoryHost(types.TabChat, types.DefaultSettings(""))
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	initial := opts.InitialTab
	if !initial.Valid() {
		initial = host.ActiveTab()
	}
	m := &Model{
		MemoryHost:     host,
		ctx:            ctx,
		reconciler:     opts.Reconciler,
		newGateway:     opts.NewGateway,
		logger:         logger,
		initialTab:     initial,
		origin:         opts.Origin,
		basePath:       types.NormalizeBasePath(opts.BasePath),
		width:          defaultWidth,
		height:         defaultHeight,
		backgroundDark: true,
		inFlight:       map[polling.Kind]bool{},
		logs:           newLogsPanel(defaultWidth, defaultHeight-chromeHeight),
		debug:          newDebugPanel(defaultWidth, defaultHeight-chromeHeight),
	}
	m.connectGateway()
	return m
}

// Run starts the terminal program and blocks until it exits. Poll ticks
// reach the update loop through the program's message queue.
func Run(ctx context.Context, polls *polling.Controller, opts Options) error {
	m := NewModel(ctx, opts)
	p := tea.NewProgram(m)
	polls.SetAction(polling.KindLogs, pollSender(p.Send, polling.KindLogs))
	polls.SetAction(polling.KindDebug, pollSender(p.Send, polling.KindDebug))
	_, err := p.Run()
	if m.reconciler != nil {
		m.reconciler.Shutdown(m.MemoryHost)
	}
	return err
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(routeCmd(m.initialTab), tea.RequestBackgroundColor)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.BackgroundColorMsg:
		m.backgroundDark = msg.IsDark()
		return m, nil
	case routeMsg:
		return m, m.selectTab(msg.tab)
	case pollTickMsg:
		return m, m.pollCmd(msg.kind)
	case logsMsg:
		m.inFlight[polling.KindLogs] = false
		if msg.err != nil {
			m.setError("logs", msg.err)
			return m, nil
		}
		m.logs.Apply(msg.resp)
		return m, nil
	case debugMsg:
		m.inFlight[polling.KindDebug] = false
		if msg.err != nil {
			m.setError("debug", msg.err)
			return m, nil
		}
		if msg.resp != nil {
			m.debug.SetSnapshot(msg.resp.Status)
		}
		return m, nil
	case tea.KeyPressMsg:
		return m, m.handleKey(msg.String())
	}
	return m, nil
}

func (m *Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m *Model) dark() bool {
	return resolveDark(m.Theme(), m.backgroundDark)
}

func (m *Model) resize(width, height int) {
	if width > 0 {
		m.width = width
	}
	if height > 0 {
		m.height = height
	}
	body := max(minBodyHeight, m.height-chromeHeight)
	m.logs.Resize(m.width, body)
	m.debug.Resize(m.width, body)
}

func (m *Model) connectGateway() {
	m.gateway = nil
	if m.newGateway == nil {
		return
	}
	gateway, err := m.newGateway(m.Settings())
	if err != nil {
		m.logger.Warn("gateway_unavailable", logging.F("error", err))
		m.setError("gateway", err)
		return
	}
	m.gateway = gateway
}

func (m *Model) selectTab(tab types.Tab) tea.Cmd {
	if m.reconciler == nil {
		m.SetActiveTab(tab)
		return nil
	}
	kind, polled := polling.RequiredKind(tab)
	wasArmed := polled && m.Polls().Slot(kind).Armed()
	if err := m.reconciler.SetTabFromRoute(m.ctx, m.MemoryHost, tab); err != nil {
		m.setError("save", err)
	}
	if m.ActiveTab() == types.TabLogs && m.LogsAtBottom {
		m.logs.Pin()
	}
	if polled && !wasArmed {
		return m.pollCmd(kind)
	}
	return nil
}

// pollCmd fetches for kind when its poller is armed and no request is
// outstanding. Ticks that arrive after a disarm are dropped here.
func (m *Model) pollCmd(kind polling.Kind) tea.Cmd {
	if !m.Polls().Slot(kind).Armed() || m.inFlight[kind] || m.gateway == nil {
		return nil
	}
	m.inFlight[kind] = true
	switch kind {
	case polling.KindLogs:
		return fetchLogsCmd(m.ctx, m.gateway, m.logs.Cursor())
	case polling.KindDebug:
		return fetchDebugCmd(m.ctx, m.gateway)
	}
	m.inFlight[kind] = false
	return nil
}

func (m *Model) handleKey(key string) tea.Cmd {
	if key == "ctrl+c" {
		return m.quit()
	}
	if m.PendingGatewayURL() != "" {
		return m.handleGatewayConfirm(key)
	}
	if m.showHelp {
		if key == "?" || key == "esc" || key == "q" {
			m.showHelp = false
		}
		return nil
	}
	switch m.ActiveTab() {
	case types.TabLogs:
		if m.logs.Scroll(key) {
			m.LogsAtBottom = m.logs.Pinned()
			return nil
		}
	case types.TabDebug:
		if m.debug.Scroll(key) {
			return nil
		}
	}
	switch key {
	case "q":
		return m.quit()
	case "?":
		m.showHelp = true
		return nil
	case "tab", "right", "l":
		return m.selectTab(stepTab(m.Settings(), m.ActiveTab(), 1))
	case "shift+tab", "left", "h":
		return m.selectTab(stepTab(m.Settings(), m.ActiveTab(), -1))
	case "t":
		next := m.Settings()
		next.Theme = next.Theme.Next()
		m.saveSettings(next, "theme "+string(next.Theme))
		return nil
	case "b":
		next := m.Settings()
		next.NavCollapsed = !next.NavCollapsed
		m.saveSettings(next, "")
		return nil
	case "f":
		next := m.Settings()
		next.ChatFocusMode = !next.ChatFocusMode
		m.saveSettings(next, "")
		return nil
	case "g":
		m.toggleActiveGroup()
		return nil
	case "y":
		m.copyShareLink(false)
		return nil
	case "Y":
		m.copyShareLink(true)
		return nil
	}
	if tab, ok := tabForDigit(key); ok {
		return m.selectTab(tab)
	}
	return nil
}

func (m *Model) handleGatewayConfirm(key string) tea.Cmd {
	switch key {
	case "y", "enter":
		pending := m.PendingGatewayURL()
		m.ClearPendingGatewayURL()
		next := m.Settings()
		next.GatewayURL = pending
		m.saveSettings(next, "gateway set to "+pending)
		if origin, err := client.HTTPBaseURL(m.Settings().GatewayURL); err == nil {
			m.origin = origin
		}
		m.connectGateway()
	case "n", "esc":
		m.ClearPendingGatewayURL()
		m.setStatus("gateway change dismissed")
	}
	return nil
}

func (m *Model) toggleActiveGroup() {
	group := types.GroupOf(m.ActiveTab())
	if group == "" {
		return
	}
	next := m.Settings()
	if next.NavGroupsCollapsed == nil {
		next.NavGroupsCollapsed = map[string]bool{}
	}
	if next.NavGroupsCollapsed[group] {
		delete(next.NavGroupsCollapsed, group)
	} else {
		next.NavGroupsCollapsed[group] = true
	}
	m.saveSettings(next, "")
}

func (m *Model) saveSettings(next types.Settings, success string) {
	if m.reconciler == nil {
		m.SetSettings(next)
		m.SetTheme(next.Theme)
		return
	}
	if err := m.reconciler.ApplySettings(m.ctx, m.MemoryHost, next); err != nil {
		m.setError("save", err)
		return
	}
	if success != "" {
		m.setStatus(success)
	}
}

func (m *Model) copyShareLink(includeToken bool) {
	if includeToken && !m.Settings().HasToken() {
		m.setStatus("no token to share")
		return
	}
	link := settings.ShareLink(m.MemoryHost, m.origin, m.basePath, includeToken)
	method, err := CopyText(link)
	if err != nil {
		m.setError("copy", err)
		return
	}
	if includeToken {
		m.setStatus("copied share link with token (" + method.String() + ")")
		return
	}
	m.setStatus("copied " + link + " (" + method.String() + ")")
}

func (m *Model) quit() tea.Cmd {
	if m.reconciler != nil {
		m.reconciler.Shutdown(m.MemoryHost)
	}
	return tea.Quit
}

func (m *Model) setStatus(text string) {
	m.status = text
	m.statusErr = false
}

func (m *Model) setError(scope string, err error) {
	if client.IsUnauthorized(err) {
		m.status = scope + ": token rejected by gateway"
		m.statusErr = true
		return
	}
	m.status = logging.RedactString(scope+": "+err.Error(), m.Settings().Token, m.Password())
	m.statusErr = true
}

func (m *Model) render() string {
	p := paletteFor(m.dark())
	lines := []string{
		renderTabBar(p, m.Settings(), m.ActiveTab(), m.width),
		p.divider.Render(strings.Repeat("─", max(1, m.width))),
		m.renderBody(p),
		m.renderStatus(p),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(p palette) string {
	if pending := m.PendingGatewayURL(); pending != "" {
		prompt := fmt.Sprintf("The link asks to switch the gateway to\n%s\n\nAdopt it? [y/n]", pending)
		return p.confirm.Render(prompt)
	}
	if m.showHelp {
		return m.renderHelp(m.width)
	}
	switch m.ActiveTab() {
	case types.TabLogs:
		return m.logs.View()
	case types.TabDebug:
		return m.debug.View()
	case types.TabConfig:
		return m.renderConfig(p)
	case types.TabChat:
		return m.renderChat(p)
	}
	return p.emptyState.Render(m.ActiveTab().Title() + " for session " + m.SessionKey())
}

func (m *Model) renderChat(p palette) string {
	s := m.Settings()
	title := p.header.Render("Chat · " + m.SessionKey())
	if s.ChatFocusMode {
		return title + "\n" + p.emptyState.Render("focus mode")
	}
	thinking := "hidden"
	if s.ChatShowThinking {
		thinking = "shown"
	}
	return title + "\n" + p.emptyState.Render("thinking "+thinking)
}

func (m *Model) renderConfig(p palette) string {
	s := m.Settings().Redacted()
	rows := [][2]string{
		{"gatewayUrl", s.GatewayURL},
		{"token", s.Token},
		{"sessionKey", s.SessionKey},
		{"lastActiveSessionKey", s.LastActiveSessionKey},
		{"theme", string(s.Theme)},
		{"chatFocusMode", fmt.Sprint(s.ChatFocusMode)},
		{"chatShowThinking", fmt.Sprint(s.ChatShowThinking)},
		{"splitRatio", fmt.Sprintf("%.2f", s.SplitRatio)},
		{"navCollapsed", fmt.Sprint(s.NavCollapsed)},
	}
	groups := make([]string, 0, len(s.NavGroupsCollapsed))
	for label, shut := range s.NavGroupsCollapsed {
		if shut {
			groups = append(groups, label)
		}
	}
	sort.Strings(groups)
	rows = append(rows, [2]string{"navGroupsCollapsed", strings.Join(groups, ",")})
	out := make([]string, 0, len(rows)+1)
	out = append(out, p.header.Render("Settings"))
	for _, row := range rows {
		out = append(out, padRight(row[0], configKeyWidth)+row[1])
	}
	return strings.Join(out, "\n")
}

func (m *Model) renderStatus(p palette) string {
	left := m.status
	if left == "" {
		armed := m.Polls().Armed()
		names := make([]string, 0, len(armed))
		for _, kind := range armed {
			names = append(names, string(kind))
		}
		left = "session " + m.SessionKey()
		if len(names) > 0 {
			left += " · polling " + strings.Join(names, ",")
		}
		left += " · ? help"
	}
	style := p.status
	if m.statusErr {
		style = p.statusErr
	}
	return style.Render(fitLine(left, m.width))
}
