package progress

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// Status can be one of:
//   - not_started
//   - in_progress
//   - completed
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// Record is the progress of one exercise within the current training day.
type Record struct {
	IsStarted     bool `json:"isStarted"`
	IsCompleted   bool `json:"isCompleted"`
	CompletedSets int  `json:"completedSets"`
	TotalSets     int  `json:"totalSets"`
}

func (r Record) Status() Status {
	switch {
	case r.IsCompleted:
		return StatusCompleted
	case r.IsStarted:
		return StatusInProgress
	default:
		return StatusNotStarted
	}
}

type Summary struct {
	Exercises           int `json:"exercises"`
	ExercisesCompleted  int `json:"exercisesCompleted"`
	ExercisesInProgress int `json:"exercisesInProgress"`
	ExercisesNotStarted int `json:"exercisesNotStarted"`
	SetsCompleted       int `json:"setsCompleted"`
	// SetsTotal only counts exercises which reported at least once.
	SetsTotal int `json:"setsTotal"`
}

// Aggregator keeps one Record per exercise id for the current day.
type Aggregator struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		records: make(map[string]Record),
	}
}

// OnSessionReport upserts the record of the reported exercise. The total set count is
// fixed by the first report and later ones cannot change it.
func (a *Aggregator) OnSessionReport(exerciseID string, isCompleted bool, completedSets, totalSets int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	record, exists := a.records[exerciseID]
	if !exists {
		record.TotalSets = totalSets
	} else if record.TotalSets != totalSets {
		log.Warnf("progress: exercise [%s] reported %d total sets, keeping %d", exerciseID, totalSets, record.TotalSets)
	}

	record.IsStarted = true
	record.IsCompleted = isCompleted
	record.CompletedSets = completedSets
	a.records[exerciseID] = record

	log.Debugf("progress: exercise [%s] completed=%t sets %d/%d", exerciseID, isCompleted, completedSets, record.TotalSets)
}

func (a *Aggregator) StatusOf(exerciseID string) Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.records[exerciseID].Status()
}

// Record returns the record for the exercise, and false if it never reported.
func (a *Aggregator) Record(exerciseID string) (Record, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	record, ok := a.records[exerciseID]
	return record, ok
}

// NextIncomplete returns the first id, in list order, which is not completed.
func (a *Aggregator) NextIncomplete(exerciseIDs []string) (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	for _, id := range exerciseIDs {
		if !a.records[id].IsCompleted {
			return id, true
		}
	}
	return "", false
}

// ResetDay forgets all progress.
func (a *Aggregator) ResetDay() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = make(map[string]Record)
}

func (a *Aggregator) Summary(exerciseIDs []string) Summary {
	a.mu.RLock()
	defer a.mu.RUnlock()

	summary := Summary{Exercises: len(exerciseIDs)}
	for _, id := range exerciseIDs {
		record := a.records[id]
		switch record.Status() {
		case StatusCompleted:
			summary.ExercisesCompleted++
		case StatusInProgress:
			summary.ExercisesInProgress++
		default:
			summary.ExercisesNotStarted++
		}
		summary.SetsCompleted += record.CompletedSets
		summary.SetsTotal += record.TotalSets
	}
	return summary
}
