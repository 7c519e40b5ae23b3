package queue

import (
	"context"
	"sync"
)

var _ Publisher = (*Recorder)(nil)

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []*ProfileEvent
	err    error
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// FailWith makes every following Publish return err.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *Recorder) Publish(ctx context.Context, event *ProfileEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Close() {}

// Events returns the events published so far.
func (r *Recorder) Events() []*ProfileEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := make([]*ProfileEvent, len(r.events))
	copy(events, r.events)
	return events
}

// Types returns the types of the events published so far, in order.
func (r *Recorder) Types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]EventType, 0, len(r.events))
	for _, e := range r.events {
		types = append(types, e.Type)
	}
	return types
}
