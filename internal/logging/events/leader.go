package events

import "github.com/atomicstack/termslots/internal/logging"

type LeaderTracer struct{}

type LoopTracer struct{}

var (
	Leader = LeaderTracer{}
	Loop   = LoopTracer{}
)

func (LeaderTracer) Open() {
	logging.Trace("leader.open", nil)
}

func (LeaderTracer) Selector(key, target string) {
	logging.Trace("leader.selector", map[string]interface{}{"key": key, "target": target})
}

func (LeaderTracer) Direct(key, target string) {
	logging.Trace("leader.direct", map[string]interface{}{"key": key, "target": target})
}

func (LeaderTracer) Abort(key string) {
	logging.Trace("leader.abort", map[string]interface{}{"key": key})
}

func (LeaderTracer) Unreachable(key string, index, slots int) {
	logging.Trace("leader.unreachable", map[string]interface{}{"key": key, "index": index, "slots": slots})
}

func (LeaderTracer) Timeout(elapsedMS int64) {
	logging.Trace("leader.timeout", map[string]interface{}{"elapsed_ms": elapsedMS})
}

func (LoopTracer) Queue(target string, replaced bool) {
	logging.Trace("loop.queue", map[string]interface{}{"target": target, "replaced": replaced})
}

func (LoopTracer) Apply(target string, err error) {
	payload := map[string]interface{}{"target": target}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("loop.apply", payload)
}

func (LoopTracer) ProcessExited(title string) {
	logging.Trace("loop.process.exited", map[string]interface{}{"title": title})
}

func (LoopTracer) Launch(name string, args []string) {
	logging.Trace("loop.launch", map[string]interface{}{"name": name, "args": args})
}
