package dispatcher

import (
	"github.com/atomicstack/termslots/internal/backend"
	"github.com/atomicstack/termslots/internal/logging"
	"github.com/atomicstack/termslots/internal/state"
)

// Result reports which readings changed.
type Result struct {
	ClockUpdated   bool
	BatteryUpdated bool
}

// Changed reports whether anything visible moved.
func (r Result) Changed() bool {
	return r.ClockUpdated || r.BatteryUpdated
}

type Dispatcher struct {
	status state.StatusStore
}

func New(s state.StatusStore) *Dispatcher {
	return &Dispatcher{status: s}
}

// Handle applies a watcher event to the store. Unchanged readings do not
// count as updates.
func (d *Dispatcher) Handle(evt backend.Event) Result {
	var res Result
	if evt.Err != nil {
		logging.Error(evt.Err)
		return res
	}
	value, ok := evt.Data.(string)
	if !ok {
		return res
	}
	switch evt.Kind {
	case backend.KindClock:
		if d.status.Clock() != value {
			d.status.SetClock(value)
			res.ClockUpdated = true
		}
	case backend.KindBattery:
		if d.status.Battery() != value {
			d.status.SetBattery(value)
			res.BatteryUpdated = true
		}
	}
	return res
}
