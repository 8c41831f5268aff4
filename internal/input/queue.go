package input

import (
	"github.com/atomicstack/termslots/internal/logging/events"
	"github.com/atomicstack/termslots/internal/session"
)

// Queue holds at most one pending switch request. A newer offer replaces an
// unconsumed one; Take hands it out once.
type Queue struct {
	pending *session.SwitchRequest
}

// Offer stores req, reporting whether it replaced an older request.
func (q *Queue) Offer(req session.SwitchRequest) bool {
	replaced := q.pending != nil
	r := req
	q.pending = &r
	events.Loop.Queue(req.Target.String(), replaced)
	return replaced
}

// Take returns and clears the pending request.
func (q *Queue) Take() (session.SwitchRequest, bool) {
	if q.pending == nil {
		return session.SwitchRequest{}, false
	}
	req := *q.pending
	q.pending = nil
	return req, true
}

// Pending reports whether a request is waiting.
func (q *Queue) Pending() bool {
	return q.pending != nil
}
