// Package models defines the core domain entities: alerts and history entries.
package models

import (
	"errors"
	"time"
)

// Alert is one notification request submitted by an internal caller.
// It is immutable once enqueued.
type Alert struct {
	ID       string  `json:"-"`
	Message  string  `json:"message"`
	Type     string  `json:"type"`
	Cooldown float64 `json:"cooldown"`
	Severity string  `json:"severity"`
	Symbol   string  `json:"symbol"`
}

// Normalize fills in defaults for optional fields. A negative cooldown is
// clamped to zero, which always admits.
func (a *Alert) Normalize() {
	if a.Type == "" {
		a.Type = "default"
	}
	if a.Severity == "" {
		a.Severity = "info"
	}
	if a.Cooldown < 0 {
		a.Cooldown = 0
	}
}

// Validate checks alert field constraints.
func (a *Alert) Validate() error {
	if a.Message == "" {
		return errors.New("alert message must not be empty")
	}
	return nil
}

// CooldownDuration returns the cooldown window as a time.Duration.
func (a *Alert) CooldownDuration() time.Duration {
	return time.Duration(a.Cooldown * float64(time.Second))
}

// HistoryEntry records one admitted alert. Entries are written when an alert
// passes the cooldown gate, before delivery is attempted, so they reflect
// admission rather than delivery outcome.
type HistoryEntry struct {
	Timestamp string `json:"timestamp"`
	Symbol    string `json:"symbol"`
	Category  string `json:"category"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
}
