package events

import "github.com/atomicstack/termslots/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

type fields = map[string]interface{}

// withError adds err to payload under "error" when it is set.
func withError(payload fields, err error) fields {
	if payload == nil {
		payload = fields{}
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	return payload
}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Stop(err error) {
	logging.Trace("app.stop", withError(nil, err))
}
