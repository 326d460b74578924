package engine

import (
	"github.com/getstubd/stubd/internal/tracker"
	"github.com/getstubd/stubd/pkg/stub"
)

// SelectResponse picks which response in the declared sequence serves hit
// number n (0-based). The sequence is consumed in order for the first
// len(responses) hits; after that the last entry repeats forever, modeling
// "fail N times then stabilize". responses must not be empty (enforced at
// configuration time).
func SelectResponse(responses []*stub.Response, n uint64) *stub.Response {
	idx := n
	if last := uint64(len(responses) - 1); idx > last {
		idx = last
	}
	return responses[idx]
}

// NextResponse draws the next hit for the endpoint from the tracker and
// selects the matching response. Returns the response and the updated
// (1-based) hit count. The draw is atomic per identity, so concurrent
// requests to the same endpoint consume distinct sequence positions.
func NextResponse(t *tracker.HitTracker, ep *stub.Endpoint) (*stub.Response, uint64) {
	n := t.Next(ep.Identity())
	return SelectResponse(ep.Responses, n), n + 1
}
