package dispatch

import "time"

// CooldownGate tracks the last successful send per alert category and decides
// whether a dequeued alert is admitted or dropped. Categories are
// caller-supplied free text, so each alert source defines its own de-dup
// granularity. Not safe for concurrent use: the dispatch worker is the only
// reader and writer.
type CooldownGate struct {
	lastSent map[string]time.Time
}

// NewCooldownGate creates an empty gate; every category starts off cooldown.
func NewCooldownGate() *CooldownGate {
	return &CooldownGate{lastSent: make(map[string]time.Time)}
}

// ShouldAdmit reports whether an alert of the given category may proceed.
// A zero cooldown always admits. A category with no successful send on
// record always admits.
func (g *CooldownGate) ShouldAdmit(category string, cooldown time.Duration, now time.Time) bool {
	if cooldown <= 0 {
		return true
	}
	last, ok := g.lastSent[category]
	if !ok {
		// Never sent, not on cooldown.
		return true
	}
	return now.Sub(last) >= cooldown
}

// MarkSent records a successful send for the category. Entries are
// overwritten on every success and never removed.
func (g *CooldownGate) MarkSent(category string, now time.Time) {
	g.lastSent[category] = now
}
