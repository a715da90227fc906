package agent

import (
	"github.com/coraldb/maintd/pkg/log"
	"github.com/coraldb/maintd/pkg/metrics"
	"github.com/coraldb/maintd/pkg/types"
	"github.com/google/uuid"
)

// Queue hands generated actions to the external action executor in
// generation order. Each accepted action gets a tracing id. The queue never
// blocks a reconciliation pass: when the buffer is full the action is
// dropped with a warning, and the next pass regenerates it because the
// reconciliation is idempotent.
type Queue struct {
	ch chan types.Action
}

// NewQueue creates a queue buffering up to size actions.
func NewQueue(size int) *Queue {
	return &Queue{ch: make(chan types.Action, size)}
}

// Add implements maintenance.ActionQueue.
func (q *Queue) Add(action types.Action) {
	action.ID = uuid.New().String()
	metrics.ActionsGeneratedTotal.WithLabelValues(action.Name).Inc()

	select {
	case q.ch <- action:
	default:
		metrics.ActionsDroppedTotal.Inc()
		l := log.WithComponent("queue")
		l.Warn().
			Str("action", action.Name).
			Msg("action queue full, dropping action until next pass")
	}
}

// Actions returns the channel the executor drains.
func (q *Queue) Actions() <-chan types.Action {
	return q.ch
}

// Close closes the queue. Only the owner may call it, after all passes have
// stopped.
func (q *Queue) Close() {
	close(q.ch)
}
