package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"controlui/internal/app"
	"controlui/internal/polling"
	"controlui/internal/testutil"
	"controlui/internal/types"
)

const testToken = "tok+en/with=chars"

func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("CONTROLUI_HOME", home)
	return home
}

func fakeSchedulerFactory(fake *testutil.FakeScheduler) func() polling.Scheduler {
	return func() polling.Scheduler { return fake }
}

func runOpen(t *testing.T, args ...string) (string, string, *testutil.FakeScheduler) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	fake := testutil.NewFakeScheduler()
	cmd := NewOpenCommand(stdout, stderr, fakeSchedulerFactory(fake))
	if err := cmd.Run(args); err != nil {
		t.Fatalf("expected open to succeed, got err=%v", err)
	}
	return stdout.String(), stderr.String(), fake
}

func TestOpenCommandPersistsLinkAndHidesToken(t *testing.T) {
	home := setupHome(t)

	stdout, stderr, fake := runOpen(t, "https://gw.example/logs?x=1#token="+strings.ReplaceAll(testToken, "/", "%2F")+"&session=ops")
	if strings.Contains(stdout, testToken) || strings.Contains(stderr, testToken) {
		t.Fatalf("expected token hidden from output, got stdout=%q stderr=%q", stdout, stderr)
	}
	for _, want := range []string{"applied: sessionKey,token", "tab: logs", "session: ops", "token: set", "url: https://gw.example/logs?x=1"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("expected %q in output, got %q", want, stdout)
		}
	}
	if len(fake.Live()) != 0 {
		t.Fatalf("expected open to leave no pollers armed")
	}

	data, err := os.ReadFile(filepath.Join(home, "settings.json"))
	if err != nil {
		t.Fatalf("read settings: %v", err)
	}
	var saved types.Settings
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if saved.Token != testToken {
		t.Fatalf("expected literal token %q persisted, got %q", testToken, saved.Token)
	}
	if saved.SessionKey != "ops" || saved.LastActiveSessionKey != "ops" {
		t.Fatalf("unexpected session keys: %#v", saved)
	}
}

func TestOpenCommandRequiresURL(t *testing.T) {
	setupHome(t)
	cmd := NewOpenCommand(&bytes.Buffer{}, &bytes.Buffer{}, fakeSchedulerFactory(testutil.NewFakeScheduler()))
	if err := cmd.Run(nil); err == nil {
		t.Fatalf("expected error without URL")
	}
}

func TestOpenCommandGatewayNeedsAcceptFlag(t *testing.T) {
	home := setupHome(t)

	stdout, stderr, _ := runOpen(t, "https://gw.example/#gatewayUrl=wss%3A%2F%2Fother.example")
	if !strings.Contains(stderr, "--accept-gateway") {
		t.Fatalf("expected confirmation hint, got %q", stderr)
	}
	if !strings.Contains(stdout, "gateway: ws://127.0.0.1:18789") {
		t.Fatalf("expected default gateway kept, got %q", stdout)
	}

	stdout, _, _ = runOpen(t, "--accept-gateway", "https://gw.example/#gatewayUrl=wss%3A%2F%2Fother.example")
	if !strings.Contains(stdout, "gateway: wss://other.example") {
		t.Fatalf("expected gateway adopted, got %q", stdout)
	}
	data, err := os.ReadFile(filepath.Join(home, "settings.json"))
	if err != nil {
		t.Fatalf("read settings: %v", err)
	}
	if !strings.Contains(string(data), `"gatewayUrl": "wss://other.example"`) {
		t.Fatalf("expected adopted gateway persisted, got %s", data)
	}
}

func TestConfigCommandRedactsToken(t *testing.T) {
	setupHome(t)
	runOpen(t, "https://gw.example/#token="+strings.ReplaceAll(testToken, "/", "%2F"))

	for _, format := range []string{"json", "toml", "yaml"} {
		stdout := &bytes.Buffer{}
		cmd := NewConfigCommand(stdout, &bytes.Buffer{})
		if err := cmd.Run([]string{"--format", format}); err != nil {
			t.Fatalf("config --format %s: %v", format, err)
		}
		if strings.Contains(stdout.String(), testToken) {
			t.Fatalf("expected token redacted in %s output", format)
		}
		if !strings.Contains(stdout.String(), "[redacted]") {
			t.Fatalf("expected redaction marker in %s output, got %q", format, stdout.String())
		}
	}
}

func TestConfigCommandFormats(t *testing.T) {
	setupHome(t)

	stdout := &bytes.Buffer{}
	if err := NewConfigCommand(stdout, &bytes.Buffer{}).Run([]string{"--default", "--format", "toml"}); err != nil {
		t.Fatalf("config toml: %v", err)
	}
	var fromTOML configOutput
	if err := toml.Unmarshal(stdout.Bytes(), &fromTOML); err != nil {
		t.Fatalf("decode toml: %v", err)
	}
	if fromTOML.UI.Polling.LogsInterval != "2s" || fromTOML.Settings.SessionKey != types.DefaultSessionKey {
		t.Fatalf("unexpected toml payload: %#v", fromTOML)
	}

	stdout.Reset()
	if err := NewConfigCommand(stdout, &bytes.Buffer{}).Run([]string{"--default", "--format", "yml"}); err != nil {
		t.Fatalf("config yaml: %v", err)
	}
	var fromYAML configOutput
	if err := yaml.Unmarshal(stdout.Bytes(), &fromYAML); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if fromYAML.UI.Gateway.URL != "ws://127.0.0.1:18789" {
		t.Fatalf("unexpected yaml gateway: %q", fromYAML.UI.Gateway.URL)
	}

	if err := NewConfigCommand(&bytes.Buffer{}, &bytes.Buffer{}).Run([]string{"--format", "xml"}); err == nil {
		t.Fatalf("expected invalid format error")
	}
}

func TestConfigCommandSurfacesMalformedUIConfig(t *testing.T) {
	home := setupHome(t)
	if err := os.WriteFile(filepath.Join(home, "ui.toml"), []byte("[gateway\n"), 0o600); err != nil {
		t.Fatalf("write ui.toml: %v", err)
	}
	if err := NewConfigCommand(&bytes.Buffer{}, &bytes.Buffer{}).Run(nil); err == nil {
		t.Fatalf("expected malformed ui.toml to fail")
	}
}

func TestLinkCommandRoundTripsToken(t *testing.T) {
	setupHome(t)
	runOpen(t, "https://gw.example/#token="+strings.ReplaceAll(testToken, "/", "%2F")+"&sessionKey=agent:main")

	var copied string
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd := NewLinkCommand(stdout, stderr, fakeSchedulerFactory(testutil.NewFakeScheduler()), func(text string) (app.ClipboardMethod, error) {
		copied = text
		return app.ClipboardMethodOSC52, nil
	})
	if err := cmd.Run([]string{"--tab", "logs", "--with-token", "--copy"}); err != nil {
		t.Fatalf("link: %v", err)
	}
	link := strings.TrimSpace(stdout.String())
	if copied != link {
		t.Fatalf("expected copied link %q, got %q", link, copied)
	}
	if !strings.HasPrefix(link, "http://127.0.0.1:18789/logs#") {
		t.Fatalf("unexpected link %q", link)
	}
	if !strings.Contains(stderr.String(), "osc52") {
		t.Fatalf("expected copy method reported, got %q", stderr.String())
	}

	setupHome(t)
	reopened, _, _ := runOpen(t, link)
	if !strings.Contains(reopened, "tab: logs") || !strings.Contains(reopened, "session: agent:main") || !strings.Contains(reopened, "token: set") {
		t.Fatalf("expected link to reproduce tab and session, got %q", reopened)
	}
}

func TestLinkCommandOmitsTokenByDefault(t *testing.T) {
	setupHome(t)
	runOpen(t, "https://gw.example/#token=abc")

	stdout := &bytes.Buffer{}
	cmd := NewLinkCommand(stdout, &bytes.Buffer{}, fakeSchedulerFactory(testutil.NewFakeScheduler()), func(string) (app.ClipboardMethod, error) {
		return app.ClipboardMethodSystem, errors.New("unused")
	})
	if err := cmd.Run(nil); err != nil {
		t.Fatalf("link: %v", err)
	}
	if strings.Contains(stdout.String(), "token=") {
		t.Fatalf("expected no token in link, got %q", stdout.String())
	}
	if err := cmd.Run([]string{"--tab", "nope"}); err == nil {
		t.Fatalf("expected unknown tab error")
	}
}

func TestUICommandBootstrapsFromURL(t *testing.T) {
	setupHome(t)
	var got app.Options
	var gotPolls *polling.Controller
	cmd := NewUICommand(&bytes.Buffer{}, fakeSchedulerFactory(testutil.NewFakeScheduler()), func(ctx context.Context, polls *polling.Controller, opts app.Options) error {
		got = opts
		gotPolls = polls
		return nil
	}, "test")
	cmd.isTerminal = func() bool { return true }

	if err := cmd.Run([]string{"--url", "https://gw.example/debug#token=abc&sessionKey=s2"}); err != nil {
		t.Fatalf("ui: %v", err)
	}
	if gotPolls == nil || got.Host == nil || got.Reconciler == nil || got.NewGateway == nil {
		t.Fatalf("expected ui wiring, got %#v", got)
	}
	if got.InitialTab != types.TabDebug {
		t.Fatalf("expected debug tab, got %q", got.InitialTab)
	}
	if got.Host.Settings().Token != "abc" || got.Host.SessionKey() != "s2" {
		t.Fatalf("expected URL applied to host")
	}
	if got.Origin != "http://127.0.0.1:18789" {
		t.Fatalf("unexpected origin %q", got.Origin)
	}
	if gotPolls.Interval(polling.KindDebug) != 3*time.Second {
		t.Fatalf("unexpected debug interval %s", gotPolls.Interval(polling.KindDebug))
	}
}

func TestRouteTab(t *testing.T) {
	cases := map[string]types.Tab{
		"":                                  types.TabChat,
		"https://gw.example/":               types.TabChat,
		"https://gw.example/ui/cron?x=1":    types.TabCron,
		"https://gw.example/ui/nested/cron": types.TabChat,
		"/ui/Logs/#token=a":                 types.TabLogs,
		"https://gw.example/ui/%zz#bad=1":   types.TabChat,
	}
	for raw, want := range cases {
		if got := routeTab("/ui", raw); got != want {
			t.Fatalf("routeTab(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestOpenAndConfigWithBoltBackend(t *testing.T) {
	home := setupHome(t)
	if err := os.WriteFile(filepath.Join(home, "ui.toml"), []byte("[storage]\nbackend = \"bbolt\"\n"), 0o600); err != nil {
		t.Fatalf("write ui.toml: %v", err)
	}
	runOpen(t, "https://gw.example/#sessionKey=bolted&token=abc")
	if _, err := os.Stat(filepath.Join(home, "settings.json")); !os.IsNotExist(err) {
		t.Fatalf("expected no json record with bbolt backend, err=%v", err)
	}

	stdout := &bytes.Buffer{}
	if err := NewConfigCommand(stdout, &bytes.Buffer{}).Run(nil); err != nil {
		t.Fatalf("config: %v", err)
	}
	var out configOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Backend != "bbolt" || out.SettingsPath != filepath.Join(home, "settings.db") {
		t.Fatalf("unexpected storage output: %q %q", out.Backend, out.SettingsPath)
	}
	if out.Settings.SessionKey != "bolted" || out.Settings.Token != "[redacted]" {
		t.Fatalf("unexpected settings: %#v", out.Settings)
	}
}

func TestUICommandRequiresTerminal(t *testing.T) {
	setupHome(t)
	ran := false
	cmd := NewUICommand(&bytes.Buffer{}, fakeSchedulerFactory(testutil.NewFakeScheduler()), func(context.Context, *polling.Controller, app.Options) error {
		ran = true
		return nil
	}, "test")
	cmd.isTerminal = func() bool { return false }
	if err := cmd.Run(nil); err == nil {
		t.Fatalf("expected error without a terminal")
	}
	if ran {
		t.Fatalf("expected ui not to start")
	}
}
