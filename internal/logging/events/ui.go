package events

import (
	"time"

	"github.com/atomicstack/termslots/internal/logging"
)

type UITracer struct{}

type FilterTracer struct{}

type ActionTracer struct{}

type CommandTracer struct{}

var (
	UI      = UITracer{}
	Filter  = FilterTracer{}
	Action  = ActionTracer{}
	Command = CommandTracer{}
)

func (UITracer) MenuEnter(levelID, itemID, label, filter string) {
	logging.Trace("menu.enter", fields{"level": levelID, "item": itemID, "label": label, "filter": filter})
}

func (UITracer) MenuCursor(levelID string, cursor int) {
	logging.Trace("menu.cursor", fields{"level": levelID, "cursor": cursor})
}

func (UITracer) Login(user string) {
	logging.Trace("ui.login", fields{"user": user})
}

// Logout records the end of a user's sessions; err is set when some
// process outlived the logout timeout.
func (UITracer) Logout(user string, err error) {
	logging.Trace("ui.logout", withError(fields{"user": user}, err))
}

func (UITracer) Mode(mode string) {
	logging.Trace("ui.mode", fields{"mode": mode})
}

func (UITracer) Resize(width, height int) {
	logging.Trace("ui.resize", fields{"width": width, "height": height})
}

func (ActionTracer) Error(err error) {
	if err != nil {
		logging.Trace("action.error", withError(nil, err))
	}
}

func (ActionTracer) Success(info string) {
	logging.Trace("action.success", fields{"info": info})
}

func filterEvent(kind, levelID string, extra fields) {
	payload := fields{"level": levelID}
	for k, v := range extra {
		payload[k] = v
	}
	logging.Trace("filter."+kind, payload)
}

func (FilterTracer) Cleared(levelID string) { filterEvent("clear", levelID, nil) }

func (FilterTracer) Cursor(levelID string, pos int) {
	filterEvent("cursor", levelID, fields{"cursor": pos})
}

func (FilterTracer) Append(levelID, filter string) {
	filterEvent("append", levelID, fields{"filter": filter})
}

func (FilterTracer) Backspace(levelID, filter string) {
	filterEvent("backspace", levelID, fields{"filter": filter})
}

func (FilterTracer) WordBackspace(levelID, filter string) {
	filterEvent("word-backspace", levelID, fields{"filter": filter})
}

func commandEvent(kind, id, label string) {
	logging.Trace("command."+kind, fields{"id": id, "label": label})
}

func (CommandTracer) Queue(id, label string) { commandEvent("queue", id, label) }

func (CommandTracer) Skip(id, label string) { commandEvent("skip", id, label) }

func (CommandTracer) NoOp(id, label string) { commandEvent("noop", id, label) }

func (CommandTracer) Result(id, label, msgType string, elapsed time.Duration) {
	logging.Trace("command.result", fields{
		"id":         id,
		"label":      label,
		"msg":        msgType,
		"elapsed_ms": elapsed.Milliseconds(),
	})
}
