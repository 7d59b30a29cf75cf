package events

import (
	"context"
	"sync"
)

// Recorder keeps published events in memory. Tests use it to assert on what was sent.
type Recorder struct {
	mu     sync.Mutex
	events []Reservation
	Err    error // returned from Publish when set
}

func (r *Recorder) Publish(_ context.Context, e Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Reservation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Reservation(nil), r.events...)
}
