package events

import "github.com/atomicstack/termslots/internal/logging"

type SessionTracer struct{}

type sessionReason string

const (
	SessionReasonEscape sessionReason = "escape"
	SessionReasonEmpty  sessionReason = "empty"
)

var Session = SessionTracer{}

func (SessionTracer) Create(owner string, index int) {
	logging.Trace("session.create", map[string]interface{}{"owner": owner, "index": index})
}

func (SessionTracer) Switch(from, to int) {
	logging.Trace("session.switch", map[string]interface{}{"from": from, "to": to})
}

func (SessionTracer) Park(index int, screen string, process bool) {
	logging.Trace("session.park", map[string]interface{}{"index": index, "screen": screen, "process": process})
}

func (SessionTracer) Restore(index int, owner string, fresh bool) {
	logging.Trace("session.restore", map[string]interface{}{"index": index, "owner": owner, "fresh": fresh})
}

func (SessionTracer) Close(index, active, remaining int) {
	logging.Trace("session.close", map[string]interface{}{"index": index, "active": active, "remaining": remaining})
}

func (SessionTracer) Logout(owner string, slots int) {
	logging.Trace("session.logout", map[string]interface{}{"owner": owner, "slots": slots})
}

func (SessionTracer) Rejected(op string, err error) {
	payload := map[string]interface{}{"op": op}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("session.rejected", payload)
}

func (SessionTracer) Label(index int, label string) {
	logging.Trace("session.label", map[string]interface{}{"index": index, "label": label})
}

func (SessionTracer) RenamePrompt(index int) {
	logging.Trace("session.rename.prompt", map[string]interface{}{"index": index})
}

func (SessionTracer) SubmitRename(index int, label string) {
	logging.Trace("session.rename.submit", map[string]interface{}{"index": index, "label": label})
}

func (SessionTracer) CancelRename(index int, reason sessionReason) {
	logging.Trace("session.rename.cancel", map[string]interface{}{"index": index, "reason": string(reason)})
}
