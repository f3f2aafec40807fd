package polling

import "controlui/internal/types"

type Kind string

const (
	KindLogs  Kind = "logs"
	KindDebug Kind = "debug"
)

var allKinds = []Kind{KindLogs, KindDebug}

// RequiredKind returns the poller the tab needs, if any.
func RequiredKind(tab types.Tab) (Kind, bool) {
	switch tab {
	case types.TabLogs:
		return KindLogs, true
	case types.TabDebug:
		return KindDebug, true
	default:
		return "", false
	}
}

type SlotState int

const (
	SlotIdle SlotState = iota
	SlotArmed
)

func (s SlotState) String() string {
	if s == SlotArmed {
		return "armed"
	}
	return "idle"
}

// Slot tracks one poller. Handle is only meaningful while State is
// SlotArmed.
type Slot struct {
	State  SlotState
	Handle Handle
}

func (s Slot) Armed() bool {
	return s.State == SlotArmed
}

// State is the per-host poll bookkeeping. Only Controller mutates it.
type State struct {
	Logs  Slot
	Debug Slot
}

func (s *State) slot(kind Kind) *Slot {
	switch kind {
	case KindLogs:
		return &s.Logs
	case KindDebug:
		return &s.Debug
	default:
		return nil
	}
}

// Slot returns a copy of the slot for kind.
func (s *State) Slot(kind Kind) Slot {
	if slot := s.slot(kind); slot != nil {
		return *slot
	}
	return Slot{}
}

// Armed lists the armed pollers in a fixed order.
func (s *State) Armed() []Kind {
	var out []Kind
	for _, kind := range allKinds {
		if s.Slot(kind).Armed() {
			out = append(out, kind)
		}
	}
	return out
}
