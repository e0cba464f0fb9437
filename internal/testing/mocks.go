package testing

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/imamik/vpcctl/internal/provisioning"
)

// MockObserver is a provisioning.Observer that records everything it is given.
// Observers derived with WithFields record into the same log.
type MockObserver struct {
	log    *observerLog
	fields map[string]string
}

type observerLog struct {
	mu       sync.Mutex
	events   []provisioning.Event
	messages []string
}

// NewMockObserver creates an empty recording observer.
func NewMockObserver() *MockObserver {
	return &MockObserver{log: &observerLog{}, fields: map[string]string{}}
}

// Printf implements provisioning.Logger.
func (m *MockObserver) Printf(format string, v ...interface{}) {
	m.log.mu.Lock()
	defer m.log.mu.Unlock()
	m.log.messages = append(m.log.messages, fmt.Sprintf(format, v...))
}

// Event implements provisioning.Observer.
func (m *MockObserver) Event(event provisioning.Event) {
	fields := maps.Clone(m.fields)
	maps.Copy(fields, event.Fields)
	event.Fields = fields

	m.log.mu.Lock()
	defer m.log.mu.Unlock()
	m.log.events = append(m.log.events, event)
}

// Progress implements provisioning.Observer.
func (m *MockObserver) Progress(phase string, current, total int) {
	m.Event(provisioning.Event{
		Type:    provisioning.EventProgress,
		Phase:   phase,
		Message: "progress",
		Fields: map[string]string{
			"current": fmt.Sprint(current),
			"total":   fmt.Sprint(total),
		},
	})
}

// WithFields implements provisioning.Observer.
func (m *MockObserver) WithFields(fields map[string]string) provisioning.Observer {
	merged := maps.Clone(m.fields)
	maps.Copy(merged, fields)
	return &MockObserver{log: m.log, fields: merged}
}

// Events returns a copy of all recorded events.
func (m *MockObserver) Events() []provisioning.Event {
	m.log.mu.Lock()
	defer m.log.mu.Unlock()
	return append([]provisioning.Event(nil), m.log.events...)
}

// Messages returns a copy of all formatted Printf messages.
func (m *MockObserver) Messages() []string {
	m.log.mu.Lock()
	defer m.log.mu.Unlock()
	return append([]string(nil), m.log.messages...)
}

// EventsOfType returns the recorded events of one type.
func (m *MockObserver) EventsOfType(eventType provisioning.EventType) []provisioning.Event {
	var out []provisioning.Event
	for _, e := range m.Events() {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// Resources returns the resource names of recorded events of one type and
// resource kind, in emission order.
func (m *MockObserver) Resources(eventType provisioning.EventType, kind string) []string {
	var out []string
	for _, e := range m.EventsOfType(eventType) {
		if e.Fields["type"] == kind {
			out = append(out, e.Resource)
		}
	}
	return out
}

// MockShell is a testify mock of a remote shell session on a bastion.
type MockShell struct {
	mock.Mock
}

// Run executes a command.
func (m *MockShell) Run(ctx context.Context, command string) (string, error) {
	args := m.Called(ctx, command)
	return args.String(0), args.Error(1)
}

// Close closes the session.
func (m *MockShell) Close() error {
	args := m.Called()
	return args.Error(0)
}
