// Package settings merges the persisted settings record, URL bootstrap
// parameters and in-memory host state, and keeps tab pollers in step with
// the active tab.
//
// Precedence, highest first: URL parameters, the persisted record, the
// built-in defaults.
package settings

import (
	"context"
	"errors"
	"strings"

	"controlui/internal/logging"
	"controlui/internal/polling"
	"controlui/internal/store"
	"controlui/internal/types"
	"controlui/internal/urlparams"
)

type Reconciler struct {
	store    store.SettingsStore
	polls    *polling.Controller
	defaults types.Settings
	logger   logging.Logger
}

func NewReconciler(settingsStore store.SettingsStore, polls *polling.Controller, defaults types.Settings, logger logging.Logger) *Reconciler {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Reconciler{
		store:    settingsStore,
		polls:    polls,
		defaults: defaults.Normalize(),
		logger:   logger.With(logging.F("component", "settings")),
	}
}

// Bootstrap loads the persisted record (or the defaults) into host, then
// applies rawURL over it.
func (r *Reconciler) Bootstrap(ctx context.Context, host Host, rawURL string) error {
	if host == nil {
		return errors.New("host is required")
	}
	next := r.defaults.Clone()
	if r.store != nil {
		if persisted, ok := r.store.Load(ctx); ok && persisted != nil {
			next = persisted.Normalize()
		}
	}
	host.SetSettings(next)
	host.SetSessionKey(next.SessionKey)
	if themed, ok := host.(ThemeHost); ok {
		themed.SetTheme(next.Theme)
	}
	_, err := r.ApplyFromURL(ctx, host, rawURL)
	return err
}

// ApplyFromURL overwrites host settings with the recognized parameters of
// rawURL. URL credentials replace loaded ones so share links work. It
// reports whether the URL carried any recognized parameter.
func (r *Reconciler) ApplyFromURL(ctx context.Context, host Host, rawURL string) (bool, error) {
	if host == nil {
		return false, errors.New("host is required")
	}
	patch := urlparams.Parse(rawURL)
	if patch.Empty() {
		return false, nil
	}

	current := host.Settings()
	next := current.Clone()
	if patch.Token != nil {
		next.Token = *patch.Token
	}
	if patch.SessionKey != nil {
		key := *patch.SessionKey
		host.SetSessionKey(key)
		next.SessionKey = key
		next.LastActiveSessionKey = key
	}
	if patch.Password != nil {
		if target, ok := host.(PasswordHost); ok {
			target.SetPassword(*patch.Password)
		}
	}
	if patch.GatewayURL != nil && strings.TrimSpace(*patch.GatewayURL) != current.GatewayURL {
		if target, ok := host.(GatewayHost); ok {
			target.SetPendingGatewayURL(*patch.GatewayURL)
		}
	}

	r.logger.Info("applied url settings", logging.F("keys", strings.Join(patch.Keys(), ",")))
	if next.Equal(current) {
		return true, nil
	}
	return true, r.ApplySettings(ctx, host, next)
}

// ApplySettings replaces the host record with next and persists it. The
// host keeps next even when saving fails; the store error is returned
// as-is.
func (r *Reconciler) ApplySettings(ctx context.Context, host Host, next types.Settings) error {
	if host == nil {
		return errors.New("host is required")
	}
	next = next.Normalize()
	prev := host.Settings()
	host.SetSettings(next)
	if prev.Theme != next.Theme {
		if themed, ok := host.(ThemeHost); ok {
			themed.SetTheme(next.Theme)
		}
	}
	if r.store == nil {
		return nil
	}
	return r.store.Save(ctx, &next)
}

// SetLastActiveSessionKey records key as the last session in use. Blank or
// unchanged keys are ignored.
func (r *Reconciler) SetLastActiveSessionKey(ctx context.Context, host Host, key string) error {
	if host == nil {
		return errors.New("host is required")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	current := host.Settings()
	if current.LastActiveSessionKey == key {
		return nil
	}
	next := current.Clone()
	next.LastActiveSessionKey = key
	return r.ApplySettings(ctx, host, next)
}

// SwitchSession makes key the applied session and remembers it.
func (r *Reconciler) SwitchSession(ctx context.Context, host Host, key string) error {
	if host == nil {
		return errors.New("host is required")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("session key is required")
	}
	host.SetSessionKey(key)
	next := host.Settings()
	if next.SessionKey == key && next.LastActiveSessionKey == key {
		return nil
	}
	next.SessionKey = key
	next.LastActiveSessionKey = key
	return r.ApplySettings(ctx, host, next)
}

// SetTabFromRoute makes tab active, reconciles pollers for it and records
// the applied session. Unknown tabs fall back to chat.
func (r *Reconciler) SetTabFromRoute(ctx context.Context, host Host, tab types.Tab) error {
	if host == nil {
		return errors.New("host is required")
	}
	if !tab.Valid() {
		tab = types.TabChat
	}
	prev := host.ActiveTab()
	if prev != tab {
		host.SetActiveTab(tab)
		if observer, ok := host.(TabObserver); ok {
			observer.TabEntered(prev, tab)
		}
	}
	r.polls.Reconcile(host.Polls(), tab)
	return r.SetLastActiveSessionKey(ctx, host, host.SessionKey())
}

// SetTabFromPath resolves a route path under basePath and applies it.
func (r *Reconciler) SetTabFromPath(ctx context.Context, host Host, basePath, path string) (types.Tab, error) {
	tab, ok := types.TabFromPath(basePath, path)
	if !ok {
		tab = types.TabChat
	}
	return tab, r.SetTabFromRoute(ctx, host, tab)
}

// Shutdown disarms every poller owned by host.
func (r *Reconciler) Shutdown(host Host) {
	if host == nil {
		return
	}
	r.polls.Shutdown(host.Polls())
}

// ShareLink builds a link to the host's active tab that reproduces its
// session, and its token when includeToken is set.
func ShareLink(host Host, origin, basePath string, includeToken bool) string {
	settings := host.Settings()
	values := map[string]string{
		urlparams.KeySessionKey: host.SessionKey(),
	}
	if includeToken {
		values[urlparams.KeyToken] = settings.Token
	}
	base := strings.TrimRight(strings.TrimSpace(origin), "/") + types.PathForTab(basePath, host.ActiveTab())
	return urlparams.BuildShareLink(base, values)
}
