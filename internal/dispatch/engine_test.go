package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeClock advances only when Sleep is called and records every sleep.
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

// fakeSink fails the first failFirst Deliver calls, then succeeds.
type fakeSink struct {
	failFirst int
	calls     int
	delivered []string
	identity  string
	identErr  error
}

func (s *fakeSink) Deliver(text string) error {
	s.calls++
	if s.calls <= s.failFirst {
		return errors.New("sink unavailable")
	}
	s.delivered = append(s.delivered, text)
	return nil
}

func (s *fakeSink) Identity() (string, error) {
	if s.identErr != nil {
		return "", s.identErr
	}
	return s.identity, nil
}

func TestEngine_SucceedsFirstAttempt(t *testing.T) {
	clock := newFakeClock()
	sink := &fakeSink{}
	e := NewEngine(sink, clock, 3, time.Second)

	if !e.Send(context.Background(), "hello") {
		t.Fatal("Send reported failure")
	}
	if sink.calls != 1 {
		t.Errorf("attempts = %d, want 1", sink.calls)
	}
	if len(clock.sleeps) != 0 {
		t.Errorf("sleeps = %v, want none", clock.sleeps)
	}
}

func TestEngine_RetriesWithExponentialBackoff(t *testing.T) {
	clock := newFakeClock()
	sink := &fakeSink{failFirst: 2}
	e := NewEngine(sink, clock, 3, time.Second)

	if !e.Send(context.Background(), "hello") {
		t.Fatal("Send reported failure")
	}
	if sink.calls != 3 {
		t.Errorf("attempts = %d, want 3", sink.calls)
	}
	want := []time.Duration{time.Second, 2 * time.Second}
	if len(clock.sleeps) != len(want) {
		t.Fatalf("sleeps = %v, want %v", clock.sleeps, want)
	}
	for i := range want {
		if clock.sleeps[i] != want[i] {
			t.Errorf("sleep %d = %v, want %v", i, clock.sleeps[i], want[i])
		}
	}
}

func TestEngine_ExhaustionNeverSleepsAfterLastAttempt(t *testing.T) {
	clock := newFakeClock()
	sink := &fakeSink{failFirst: 10}
	e := NewEngine(sink, clock, 3, time.Second)

	if e.Send(context.Background(), "hello") {
		t.Fatal("Send reported success from an always-failing sink")
	}
	if sink.calls != 3 {
		t.Errorf("attempts = %d, want exactly 3", sink.calls)
	}
	// Two sleeps between three attempts, none after the final one.
	if len(clock.sleeps) != 2 {
		t.Errorf("sleeps = %v, want exactly 2", clock.sleeps)
	}
}

func TestEngine_StopsBetweenAttemptsOnCancel(t *testing.T) {
	clock := newFakeClock()
	sink := &fakeSink{failFirst: 10}
	e := NewEngine(sink, clock, 3, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if e.Send(ctx, "hello") {
		t.Fatal("Send reported success")
	}
	// The first in-flight attempt completes; cancellation is seen before the
	// first backoff sleep.
	if sink.calls != 1 {
		t.Errorf("attempts = %d, want 1", sink.calls)
	}
	if len(clock.sleeps) != 0 {
		t.Errorf("sleeps = %v, want none", clock.sleeps)
	}
}
