package polling

import (
	"time"

	"controlui/internal/logging"
	"controlui/internal/types"
)

const (
	DefaultLogsInterval  = 2 * time.Second
	DefaultDebugInterval = 3 * time.Second
)

// Controller arms and disarms background pollers so that exactly the
// poller required by the active tab is scheduled.
type Controller struct {
	scheduler Scheduler
	actions   map[Kind]func()
	intervals map[Kind]time.Duration
	logger    logging.Logger
}

type Option func(*Controller)

func WithAction(kind Kind, fn func()) Option {
	return func(c *Controller) {
		c.actions[kind] = fn
	}
}

func WithInterval(kind Kind, interval time.Duration) Option {
	return func(c *Controller) {
		if interval > 0 {
			c.intervals[kind] = interval
		}
	}
}

func WithLogger(logger logging.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewController(scheduler Scheduler, opts ...Option) *Controller {
	c := &Controller{
		scheduler: scheduler,
		actions:   map[Kind]func(){},
		intervals: map[Kind]time.Duration{
			KindLogs:  DefaultLogsInterval,
			KindDebug: DefaultDebugInterval,
		},
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(logging.F("component", "poll_controller"))
	return c
}

// SetAction replaces the callback for kind. It applies from the next time
// the poller is armed.
func (c *Controller) SetAction(kind Kind, fn func()) {
	c.actions[kind] = fn
}

func (c *Controller) Interval(kind Kind) time.Duration {
	return c.intervals[kind]
}

// Reconcile brings state in line with tab. Pollers not needed by tab are
// disarmed before the required one is armed, and an armed poller is never
// scheduled twice.
func (c *Controller) Reconcile(state *State, tab types.Tab) {
	if c == nil || state == nil {
		return
	}
	required, needed := RequiredKind(tab)
	for _, kind := range allKinds {
		if needed && kind == required {
			continue
		}
		c.disarm(state, kind)
	}
	if needed {
		c.arm(state, required)
	}
}

// Shutdown disarms every poller.
func (c *Controller) Shutdown(state *State) {
	if c == nil || state == nil {
		return
	}
	for _, kind := range allKinds {
		c.disarm(state, kind)
	}
}

func (c *Controller) arm(state *State, kind Kind) {
	slot := state.slot(kind)
	if slot == nil || slot.Armed() {
		return
	}
	interval := c.intervals[kind]
	action := c.actions[kind]
	handle := c.scheduler.Schedule(interval, func() {
		if action != nil {
			action()
		}
	})
	*slot = Slot{State: SlotArmed, Handle: handle}
	c.logger.Debug("poller armed", logging.F("kind", string(kind)), logging.F("interval", interval))
}

func (c *Controller) disarm(state *State, kind Kind) {
	slot := state.slot(kind)
	if slot == nil || !slot.Armed() {
		return
	}
	c.scheduler.Cancel(slot.Handle)
	*slot = Slot{}
	c.logger.Debug("poller disarmed", logging.F("kind", string(kind)))
}
