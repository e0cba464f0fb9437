package provisioning

import (
	"fmt"
	"time"

	"github.com/go-logr/logr"
)

// Observer defines the interface for structured observability during provisioning.
type Observer interface {
	Logger

	// Event emits a structured event
	Event(event Event)

	// Progress reports progress for a phase
	Progress(phase string, current, total int)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType         // Type of event
	Phase     string            // Phase name (e.g., "infrastructure", "compute")
	Message   string            // Human-readable message
	Resource  string            // Resource name/ID if applicable
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventPhaseStarted indicates a provisioning phase has started.
	EventPhaseStarted EventType = "phase.started"
	// EventPhaseCompleted indicates a provisioning phase completed successfully.
	EventPhaseCompleted EventType = "phase.completed"
	// EventPhaseFailed indicates a provisioning phase failed.
	EventPhaseFailed EventType = "phase.failed"

	// EventResourceCreating indicates a resource is being created.
	EventResourceCreating EventType = "resource.creating"
	// EventResourceCreated indicates a resource was created successfully.
	EventResourceCreated EventType = "resource.created"
	// EventResourceExists indicates a resource already exists.
	EventResourceExists EventType = "resource.exists"
	// EventResourceFailed indicates resource creation failed.
	EventResourceFailed EventType = "resource.failed"
	// EventResourceDeleting indicates a resource is being deleted.
	EventResourceDeleting EventType = "resource.deleting"
	// EventResourceDeleted indicates a resource was deleted successfully.
	EventResourceDeleted EventType = "resource.deleted"

	// EventValidationWarning indicates a validation warning.
	EventValidationWarning EventType = "validation.warning"
	// EventValidationError indicates a validation error.
	EventValidationError EventType = "validation.error"

	// EventProgress indicates progress in a long-running operation.
	EventProgress EventType = "progress"
)

// LogObserver implements Observer on top of a logr.Logger.
type LogObserver struct {
	log    logr.Logger
	fields map[string]string
}

// NewLogObserver creates an observer writing through log.
func NewLogObserver(log logr.Logger) *LogObserver {
	return &LogObserver{
		log:    log,
		fields: make(map[string]string),
	}
}

// Printf implements Logger.
func (o *LogObserver) Printf(format string, v ...interface{}) {
	o.log.Info(fmt.Sprintf(format, v...), o.keysAndValues(nil)...)
}

// Event implements Observer.
func (o *LogObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	keysAndValues := make([]interface{}, 0, 4)
	keysAndValues = append(keysAndValues, "eventType", string(event.Type))
	if event.Phase != "" {
		keysAndValues = append(keysAndValues, "phase", event.Phase)
	}
	if event.Resource != "" {
		keysAndValues = append(keysAndValues, "resource", event.Resource)
	}
	keysAndValues = append(keysAndValues, o.keysAndValues(event.Fields)...)

	switch event.Type {
	case EventPhaseFailed, EventResourceFailed, EventValidationError:
		o.log.Error(nil, event.Message, keysAndValues...)
	default:
		o.log.Info(event.Message, keysAndValues...)
	}
}

// Progress implements Observer.
func (o *LogObserver) Progress(phase string, current, total int) {
	o.log.V(1).Info("progress", "phase", phase, "current", current, "total", total)
}

// WithFields implements Observer.
func (o *LogObserver) WithFields(fields map[string]string) Observer {
	return &LogObserver{
		log:    o.log,
		fields: mergeFields(o.fields, fields),
	}
}

// keysAndValues flattens the context fields, overridden by extra, into
// logr key/value pairs in a stable order.
func (o *LogObserver) keysAndValues(extra map[string]string) []interface{} {
	merged := mergeFields(o.fields, extra)
	kv := make([]interface{}, 0, len(merged)*2)
	for _, k := range sortedKeys(merged) {
		kv = append(kv, k, merged[k])
	}
	return kv
}

// Helper functions for common events

// LogPhaseStart logs a phase start event.
func LogPhaseStart(observer Observer, phase string) {
	observer.Event(Event{
		Type:    EventPhaseStarted,
		Phase:   phase,
		Message: "starting",
	})
}

// LogPhaseComplete logs a phase completion event.
func LogPhaseComplete(observer Observer, phase string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventPhaseCompleted,
		Phase:   phase,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
		Fields: map[string]string{
			"duration": duration.String(),
		},
	})
}

// LogPhaseFailed logs a phase failure event.
func LogPhaseFailed(observer Observer, phase string, err error) {
	observer.Event(Event{
		Type:    EventPhaseFailed,
		Phase:   phase,
		Message: fmt.Sprintf("failed: %v", err),
	})
}

// LogResourceCreating logs a resource creation start event.
func LogResourceCreating(observer Observer, phase, resourceType, resourceName string) {
	observer.Event(Event{
		Type:     EventResourceCreating,
		Phase:    phase,
		Resource: resourceName,
		Message:  fmt.Sprintf("creating %s", resourceType),
		Fields: map[string]string{
			"type": resourceType,
		},
	})
}

// LogResourceCreated logs a successful resource creation event.
func LogResourceCreated(observer Observer, phase, resourceType, resourceName, resourceID string) {
	observer.Event(Event{
		Type:     EventResourceCreated,
		Phase:    phase,
		Resource: resourceName,
		Message:  fmt.Sprintf("%s created", resourceType),
		Fields: map[string]string{
			"type": resourceType,
			"id":   resourceID,
		},
	})
}

// LogResourceExists logs when a resource already exists.
func LogResourceExists(observer Observer, phase, resourceType, resourceName, resourceID string) {
	observer.Event(Event{
		Type:     EventResourceExists,
		Phase:    phase,
		Resource: resourceName,
		Message:  fmt.Sprintf("%s already exists", resourceType),
		Fields: map[string]string{
			"type": resourceType,
			"id":   resourceID,
		},
	})
}

// LogResourceFailed logs a failed create or delete.
func LogResourceFailed(observer Observer, phase, resourceType, resourceName string, err error) {
	observer.Event(Event{
		Type:     EventResourceFailed,
		Phase:    phase,
		Resource: resourceName,
		Message:  fmt.Sprintf("%s failed: %v", resourceType, err),
		Fields: map[string]string{
			"type": resourceType,
		},
	})
}

// LogResourceDeleting logs a resource deletion start event.
func LogResourceDeleting(observer Observer, phase, resourceType, resourceName string) {
	observer.Event(Event{
		Type:     EventResourceDeleting,
		Phase:    phase,
		Resource: resourceName,
		Message:  fmt.Sprintf("deleting %s", resourceType),
		Fields: map[string]string{
			"type": resourceType,
		},
	})
}

// LogResourceDeleted logs a successful resource deletion event.
func LogResourceDeleted(observer Observer, phase, resourceType, resourceName string) {
	observer.Event(Event{
		Type:     EventResourceDeleted,
		Phase:    phase,
		Resource: resourceName,
		Message:  fmt.Sprintf("%s deleted", resourceType),
		Fields: map[string]string{
			"type": resourceType,
		},
	})
}
