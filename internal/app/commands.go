package app

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"controlui/internal/client"
	"controlui/internal/polling"
	"controlui/internal/types"
)

const gatewayRequestTimeout = 4 * time.Second

// Gateway is the subset of the gateway client the pollers call.
type Gateway interface {
	TailLogs(ctx context.Context, cursor int64) (*client.LogsTailResponse, error)
	DebugStatus(ctx context.Context) (*client.DebugStatusResponse, error)
}

type routeMsg struct {
	tab types.Tab
}

type pollTickMsg struct {
	kind polling.Kind
}

type logsMsg struct {
	resp *client.LogsTailResponse
	err  error
}

type debugMsg struct {
	resp *client.DebugStatusResponse
	err  error
}

func routeCmd(tab types.Tab) tea.Cmd {
	return func() tea.Msg {
		return routeMsg{tab: tab}
	}
}

func fetchLogsCmd(ctx context.Context, gateway Gateway, cursor int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, gatewayRequestTimeout)
		defer cancel()
		resp, err := gateway.TailLogs(ctx, cursor)
		return logsMsg{resp: resp, err: err}
	}
}

func fetchDebugCmd(ctx context.Context, gateway Gateway) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, gatewayRequestTimeout)
		defer cancel()
		resp, err := gateway.DebugStatus(ctx)
		return debugMsg{resp: resp, err: err}
	}
}

// pollSender returns a poll action that forwards ticks into the program.
func pollSender(send func(tea.Msg), kind polling.Kind) func() {
	return func() {
		send(pollTickMsg{kind: kind})
	}
}
