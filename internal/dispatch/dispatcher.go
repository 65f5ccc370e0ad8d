// Package dispatch implements the alert pipeline: a single worker pulls
// queued alerts in FIFO order, gates them through per-category cooldowns,
// records admitted alerts to the history ledger, and delivers them to the
// message sink with retry and backoff.
package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/rewired-gh/alertrelay/internal/logger"
	"github.com/rewired-gh/alertrelay/internal/models"
	"github.com/rewired-gh/alertrelay/internal/queue"
	"github.com/rewired-gh/alertrelay/internal/storage"
)

// placeholderIdentity is reported until the sink identity resolves.
const placeholderIdentity = "unknown"

// Config holds delivery retry behavior.
type Config struct {
	MaxAttempts int
	BackoffBase time.Duration
}

// Status is a point-in-time snapshot of dispatch state for status reporting.
type Status struct {
	BotUsername          string
	LastMessageTimestamp string // ISO-8601, empty until the first successful send
}

// Dispatcher owns the dispatch state machine. All mutation happens on the
// single Run worker; Status and History are safe to call concurrently.
type Dispatcher struct {
	queue  *queue.Queue
	ledger *storage.Ledger
	sink   MessageSink
	engine *Engine
	clock  Clock
	gate   *CooldownGate

	mu          sync.RWMutex
	identity    string
	lastSuccess string
}

// New creates a dispatcher. Run must be started for alerts to flow.
func New(q *queue.Queue, ledger *storage.Ledger, sink MessageSink, clock Clock, cfg Config) *Dispatcher {
	return &Dispatcher{
		queue:    q,
		ledger:   ledger,
		sink:     sink,
		engine:   NewEngine(sink, clock, cfg.MaxAttempts, cfg.BackoffBase),
		clock:    clock,
		gate:     NewCooldownGate(),
		identity: placeholderIdentity,
	}
}

// Run executes the dispatch loop until ctx is cancelled or the ingestion
// queue is closed. It never returns early because of a single alert's
// failure.
func (d *Dispatcher) Run(ctx context.Context) {
	d.resolveIdentity()
	logger.Info("Starting alert dispatch worker")

	for {
		if ctx.Err() != nil {
			logger.Info("Dispatch worker stopped")
			return
		}
		alert, ok := d.queue.Dequeue()
		if !ok {
			logger.Info("Ingestion queue closed, dispatch worker exiting")
			return
		}
		d.processOne(ctx, alert)
	}
}

// resolveIdentity asks the sink who it is, once at startup. Failure degrades
// status reporting only.
func (d *Dispatcher) resolveIdentity() {
	name, err := d.sink.Identity()
	if err != nil {
		logger.Warn("Failed to resolve sink identity, status will report %q: %v", placeholderIdentity, err)
		return
	}
	d.mu.Lock()
	d.identity = name
	d.mu.Unlock()
	logger.Info("Resolved sink identity: %s", name)
}

// processOne runs one alert through the admit/record/deliver/settle sequence.
// A panic here is confined to this alert; the worker continues with the next.
func (d *Dispatcher) processOne(ctx context.Context, alert models.Alert) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Recovered from panic while processing alert %s: %v", alert.ID, r)
		}
	}()

	now := d.clock.Now()
	if !d.gate.ShouldAdmit(alert.Type, alert.CooldownDuration(), now) {
		logger.Info("Alert %s of type %q is on cooldown, dropping", alert.ID, alert.Type)
		return
	}

	// History reflects admission, not delivery outcome: the entry is written
	// before the first attempt so operators can see what was tried even when
	// the sink is down.
	entry := models.HistoryEntry{
		Timestamp: isoTimestamp(now),
		Symbol:    alert.Symbol,
		Category:  alert.Type,
		Severity:  alert.Severity,
		Message:   alert.Message,
	}
	if err := d.ledger.Record(entry); err != nil {
		logger.Warn("Failed to record history for alert %s: %v", alert.ID, err)
	}

	if !d.engine.Send(ctx, alert.Message) {
		logger.Error("Giving up on alert %s of type %q, all delivery attempts failed", alert.ID, alert.Type)
		return
	}

	sentAt := d.clock.Now()
	d.gate.MarkSent(alert.Type, sentAt)
	d.mu.Lock()
	d.lastSuccess = isoTimestamp(sentAt)
	d.mu.Unlock()
	logger.Info("Delivered alert %s of type %q", alert.ID, alert.Type)
}

// Status returns the current dispatch state snapshot.
func (d *Dispatcher) Status() Status {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return Status{
		BotUsername:          d.identity,
		LastMessageTimestamp: d.lastSuccess,
	}
}

// History returns the admitted-alert history, newest-first.
func (d *Dispatcher) History() ([]models.HistoryEntry, error) {
	return d.ledger.Snapshot()
}
