package events

import "github.com/atomicstack/termslots/internal/logging"

type BridgeTracer struct{}

var Bridge = BridgeTracer{}

func (BridgeTracer) Spawn(id, name string, pid int) {
	logging.Trace("bridge.spawn", map[string]interface{}{"id": id, "name": name, "pid": pid})
}

func (BridgeTracer) SpawnFailed(name string, err error) {
	logging.Trace("bridge.spawn.failed", map[string]interface{}{"name": name, "error": err.Error()})
}

func (BridgeTracer) Suspend(id string) {
	logging.Trace("bridge.suspend", map[string]interface{}{"id": id})
}

func (BridgeTracer) Resume(id string) {
	logging.Trace("bridge.resume", map[string]interface{}{"id": id})
}

func (BridgeTracer) Resize(id string, cols, rows uint16) {
	logging.Trace("bridge.resize", map[string]interface{}{"id": id, "cols": cols, "rows": rows})
}

func (BridgeTracer) Terminate(id string, pid int) {
	logging.Trace("bridge.terminate", map[string]interface{}{"id": id, "pid": pid})
}

func (BridgeTracer) Escalate(id string, pid int) {
	logging.Trace("bridge.terminate.kill", map[string]interface{}{"id": id, "pid": pid})
}

func (BridgeTracer) Exit(id string, pid int, err error) {
	payload := map[string]interface{}{"id": id, "pid": pid}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("bridge.exit", payload)
}
