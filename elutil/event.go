package elutil

import (
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

// Component represents the component which is reporting this event.
type Component string

const (
	// ComponentPQueue is used by events raised by a priority queue.
	ComponentPQueue Component = "pqueue"

	// ComponentTask is used by events raised by a dispatch task.
	ComponentTask Component = "task"
)

// Severity represents the severity of an event.
type Severity string

const (
	// SeverityInfo is the 'info' level, describing something that occurs during normal execution and is therefore
	// expected.
	SeverityInfo Severity = "info"

	// SeverityWarn is the 'warn' level, describing something that's normal (or perhaps rare/unexpected).
	SeverityWarn Severity = "warn"

	// SeverityError is the 'error' level, describing error scenarios where something has failed/occurred that shouldn't
	// happen during normal execution.
	SeverityError Severity = "error"

	// SeverityFatal is the 'fatal' level, describing an error case which is unrecoverable.
	SeverityFatal Severity = "fatal"
)

// EventID is the unique identifier of the event type.
type EventID uint

const (
	// EventConsistencyFault is raised each time a queue observes a wake token without a matching item, even when the
	// divergence is repaired.
	EventConsistencyFault EventID = iota + 1

	// EventFaultThresholdExceeded is raised when repeated consistency faults are escalated to the fatal path.
	EventFaultThresholdExceeded

	// EventUnsupportedCommand is raised when a task receives a command which it has no handling for.
	EventUnsupportedCommand

	// EventHandlerFailed is raised when a task's handler returns an error or panics.
	EventHandlerFailed
)

// Event represents an event, and is the structure which will be used when reporting events using a 'Reporter'.
type Event struct {
	// Required attributes.
	Component   Component `json:"component"`
	Severity    Severity  `json:"severity"`
	EventID     EventID   `json:"event_id"`
	Description string    `json:"description"`

	// Optional attributes which may/or may not be supplied; the general recommendation is to include some additional
	// useful information which describes the event.
	ExtraAttributes any    `json:"extra_attributes"`
	SubComponent    string `json:"sub_component"`
}

// MarshalJSON implements the 'json.Marshaller' interface, and fills in any required automatically generated fields.
func (e Event) MarshalJSON() ([]byte, error) {
	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(struct {
		Timestamp       string `json:"timestamp,omitempty"`
		Component       string `json:"component,omitempty"`
		Severity        string `json:"severity,omitempty"`
		EventID         uint   `json:"event_id,omitempty"`
		Description     string `json:"description,omitempty"`
		UUID            string `json:"uuid,omitempty"`
		ExtraAttributes any    `json:"extra_attributes,omitempty"`
		SubComponent    string `json:"sub_component,omitempty"`
	}{
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		Component:       string(e.Component),
		Severity:        string(e.Severity),
		EventID:         uint(e.EventID),
		Description:     e.Description,
		UUID:            uuid.NewString(),
		ExtraAttributes: e.ExtraAttributes,
		SubComponent:    e.SubComponent,
	})
}

// Reporter is implemented by anything which accepts events.
type Reporter interface {
	Report(event Event)
}

// ReporterFunc allows using a function as a 'Reporter'.
type ReporterFunc func(event Event)

func (f ReporterFunc) Report(event Event) { f(event) }
