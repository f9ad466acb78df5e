package events

import (
	"strconv"

	"github.com/2beens/gymtrainer/internal/gymstats/session"
)

// SessionObserver returns a session observer which journals every engine change.
func (j *Journal) SessionObserver() session.Observer {
	return func(change session.Change) {
		for _, e := range eventsOf(change) {
			e.SessionID = change.Snapshot.ID
			e.ExerciseID = change.Snapshot.ExerciseID
			j.Add(e)
		}
	}
}

func eventsOf(change session.Change) []Event {
	snap := change.Snapshot
	switch change.Action {
	case session.ActionStart:
		started := Event{Type: EventTypeSessionStarted, Data: map[string]string{
			"total": strconv.Itoa(snap.TotalSets),
		}}
		if change.To == session.PhaseCompleted {
			return []Event{started, {Type: EventTypeSessionCompleted, Data: setsData(0, 0)}}
		}
		return []Event{started}
	case session.ActionCompleteSet:
		events := []Event{{Type: EventTypeSetCompleted, Data: setsData(snap.CompletedSets, snap.TotalSets)}}
		switch change.To {
		case session.PhaseResting:
			events = append(events, Event{Type: EventTypeRestStarted, Data: map[string]string{
				"seconds": strconv.Itoa(snap.RestRemaining),
			}})
		case session.PhaseCompleted:
			events = append(events, Event{Type: EventTypeSessionCompleted, Data: setsData(snap.CompletedSets, snap.TotalSets)})
		}
		return events
	case session.ActionTick:
		if change.From == session.PhaseResting && change.To == session.PhaseActive {
			return []Event{{Type: EventTypeRestFinished}}
		}
		return nil
	case session.ActionSkipRest:
		return []Event{{Type: EventTypeRestSkipped}}
	case session.ActionClose:
		return []Event{{Type: EventTypeSessionClosed, Data: setsData(snap.CompletedSets, snap.TotalSets)}}
	default:
		return nil
	}
}
