package provisioning

import (
	"fmt"
	"sync"
)

// recordingObserver records events for assertions in this package's tests.
type recordingObserver struct {
	mu       sync.Mutex
	events   []Event
	messages []string
}

func (r *recordingObserver) Printf(format string, v ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, fmt.Sprintf(format, v...))
}

func (r *recordingObserver) Event(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingObserver) Progress(phase string, current, total int) {
	r.Event(Event{Type: EventProgress, Phase: phase, Message: fmt.Sprintf("%d/%d", current, total)})
}

func (r *recordingObserver) WithFields(map[string]string) Observer {
	return r
}

func (r *recordingObserver) types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventType, 0, len(r.events))
	for _, e := range r.events {
		if e.Type != EventProgress {
			out = append(out, e.Type)
		}
	}
	return out
}
