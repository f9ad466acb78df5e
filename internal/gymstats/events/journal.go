package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/gymtrainer/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

const DefaultCapacity = 1000

var ErrInvalidListParams = errors.New("invalid list params")

type EventParams struct {
	Type       *EventType
	ExerciseID string
}

type ListParams struct {
	EventParams
	// Page starts at 1.
	Page int
	Size int
}

// Journal keeps the latest events in memory. Once full, the oldest event is dropped
// for every new one.
type Journal struct {
	mu       sync.RWMutex
	events   []Event
	capacity int
	nextID   int
	now      func() time.Time
}

type JournalParams struct {
	Capacity int
	// Now defaults to time.Now.
	Now func() time.Time
}

func NewJournal(params JournalParams) *Journal {
	if params.Capacity <= 0 {
		params.Capacity = DefaultCapacity
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &Journal{
		events:   make([]Event, 0, params.Capacity),
		capacity: params.Capacity,
		nextID:   1,
		now:      params.Now,
	}
}

// Add stores the event, assigning its id and, when missing, its timestamp.
func (j *Journal) Add(event Event) Event {
	j.mu.Lock()
	defer j.mu.Unlock()

	event.ID = j.nextID
	j.nextID++
	if event.Timestamp.IsZero() {
		event.Timestamp = j.now()
	}
	if event.Data == nil {
		event.Data = map[string]string{}
	}

	if len(j.events) == j.capacity {
		copy(j.events, j.events[1:])
		j.events = j.events[:len(j.events)-1]
	}
	j.events = append(j.events, event)
	return event
}

// List returns matching events, newest first.
func (j *Journal) List(ctx context.Context, params ListParams) (_ []Event, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "journal.gymstats.events.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	if params.Type != nil {
		span.SetAttributes(attribute.String("type", params.Type.String()))
	}
	span.SetAttributes(attribute.Int("page", params.Page), attribute.Int("size", params.Size))

	if params.Page < 1 || params.Size < 1 {
		return nil, fmt.Errorf("page %d, size %d: %w", params.Page, params.Size, ErrInvalidListParams)
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	skip := (params.Page - 1) * params.Size
	events := make([]Event, 0, params.Size)
	for i := len(j.events) - 1; i >= 0 && len(events) < params.Size; i-- {
		if !params.matches(j.events[i]) {
			continue
		}
		if skip > 0 {
			skip--
			continue
		}
		events = append(events, j.events[i])
	}
	return events, nil
}

func (j *Journal) Count(ctx context.Context, params EventParams) int {
	_, span := tracing.GlobalTracer.Start(ctx, "journal.gymstats.events.count")
	defer span.End()

	j.mu.RLock()
	defer j.mu.RUnlock()

	count := 0
	for _, e := range j.events {
		if params.matches(e) {
			count++
		}
	}
	return count
}

// all returns matching events, oldest first.
func (j *Journal) all(params EventParams) []Event {
	j.mu.RLock()
	defer j.mu.RUnlock()

	events := make([]Event, 0)
	for _, e := range j.events {
		if params.matches(e) {
			events = append(events, e)
		}
	}
	return events
}

func (p EventParams) matches(e Event) bool {
	if p.Type != nil && e.Type != *p.Type {
		return false
	}
	if p.ExerciseID != "" && e.ExerciseID != p.ExerciseID {
		return false
	}
	return true
}
