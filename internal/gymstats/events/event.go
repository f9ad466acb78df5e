package events

import (
	"strconv"
	"time"
)

// Event is one entry of the session journal. Data carries the type specific values:
//   - set_completed: completed, total
//   - rest_started: seconds
//   - session_completed, session_closed: completed, total
type Event struct {
	ID         int               `json:"id"`
	Type       EventType         `json:"type"`
	SessionID  string            `json:"sessionId,omitempty"`
	ExerciseID string            `json:"exerciseId,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
	Data       map[string]string `json:"data"`
}

// EventType can be one of:
//   - session_started
//   - set_completed
//   - rest_started
//   - rest_finished
//   - rest_skipped
//   - session_completed
//   - session_closed
//   - day_restarted
type EventType string

const (
	EventTypeSessionStarted   EventType = "session_started"
	EventTypeSetCompleted     EventType = "set_completed"
	EventTypeRestStarted      EventType = "rest_started"
	EventTypeRestFinished     EventType = "rest_finished"
	EventTypeRestSkipped      EventType = "rest_skipped"
	EventTypeSessionCompleted EventType = "session_completed"
	EventTypeSessionClosed    EventType = "session_closed"
	EventTypeDayRestarted     EventType = "day_restarted"
)

func (et EventType) String() string {
	return string(et)
}

func (et EventType) IsValid() bool {
	switch et {
	case EventTypeSessionStarted,
		EventTypeSetCompleted,
		EventTypeRestStarted,
		EventTypeRestFinished,
		EventTypeRestSkipped,
		EventTypeSessionCompleted,
		EventTypeSessionClosed,
		EventTypeDayRestarted:
		return true
	default:
		return false
	}
}

func setsData(completed, total int) map[string]string {
	return map[string]string{
		"completed": strconv.Itoa(completed),
		"total":     strconv.Itoa(total),
	}
}
