package dispatch

import (
	"context"
	"time"

	"github.com/rewired-gh/alertrelay/internal/logger"
)

// MessageSink is the external messaging capability. Deliver performs exactly
// one network attempt, bounded by the sink's own request timeout. Identity
// resolves the sink's account name for status reporting.
type MessageSink interface {
	Deliver(text string) error
	Identity() (string, error)
}

// Engine executes the retry-with-backoff delivery of one message. It is
// stateless across calls; timestamping successful sends is the dispatcher's
// job.
type Engine struct {
	sink        MessageSink
	clock       Clock
	maxAttempts int
	backoffBase time.Duration
}

// NewEngine creates a delivery engine.
func NewEngine(sink MessageSink, clock Clock, maxAttempts int, backoffBase time.Duration) *Engine {
	if maxAttempts < 1 {
		maxAttempts = 3
	}
	if backoffBase <= 0 {
		backoffBase = time.Second
	}
	return &Engine{sink: sink, clock: clock, maxAttempts: maxAttempts, backoffBase: backoffBase}
}

// Send attempts delivery up to maxAttempts times, sleeping backoffBase*2^i
// between failed attempts and never after the last one. Exhaustion returns
// false; it is a reportable outcome, not an error. Cancellation is observed
// only between attempts, so an in-flight attempt always finishes.
func (e *Engine) Send(ctx context.Context, text string) bool {
	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		err := e.sink.Deliver(text)
		if err == nil {
			return true
		}
		logger.Error("Delivery attempt %d/%d failed: %v", attempt+1, e.maxAttempts, err)

		if attempt == e.maxAttempts-1 {
			break
		}
		if ctx.Err() != nil {
			logger.Warn("Delivery abandoned after %d attempt(s): shutting down", attempt+1)
			return false
		}
		e.clock.Sleep(e.backoffBase << attempt)
	}
	return false
}
