package events

import (
	"context"
	"time"

	"github.com/2beens/gymtrainer/internal/telemetry/tracing"
)

type Analyzer struct {
	journal *Journal
}

func NewAnalyzer(journal *Journal) *Analyzer {
	return &Analyzer{
		journal: journal,
	}
}

type AvgSetDurationResponse struct {
	// Duration is the average time between two consecutive sets of one session
	Duration time.Duration `json:"duration"`
	// DurationPerExercise is the same average, per exercise id
	DurationPerExercise map[string]time.Duration `json:"durationPerExercise"`
}

// AvgSetDuration calculates the average duration between consecutive set completions,
// rest included. Only sets of the same session are paired.
func (a *Analyzer) AvgSetDuration(ctx context.Context) *AvgSetDurationResponse {
	_, span := tracing.GlobalTracer.Start(ctx, "analyzer.gymstats.avg-set-duration")
	defer span.End()

	setCompleted := EventTypeSetCompleted
	completions := a.journal.all(EventParams{Type: &setCompleted})

	lastBySession := make(map[string]Event)
	sumPerExercise := make(map[string]time.Duration)
	countPerExercise := make(map[string]int)
	var sum time.Duration
	var count int
	for _, e := range completions {
		if prev, ok := lastBySession[e.SessionID]; ok {
			d := e.Timestamp.Sub(prev.Timestamp)
			if d < 0 {
				d = -d
			}
			sum += d
			count++
			sumPerExercise[e.ExerciseID] += d
			countPerExercise[e.ExerciseID]++
		}
		lastBySession[e.SessionID] = e
	}

	response := &AvgSetDurationResponse{
		DurationPerExercise: make(map[string]time.Duration),
	}
	if count == 0 {
		return response
	}

	response.Duration = sum / time.Duration(count)
	for exerciseID, total := range sumPerExercise {
		response.DurationPerExercise[exerciseID] = total / time.Duration(countPerExercise[exerciseID])
	}
	return response
}
