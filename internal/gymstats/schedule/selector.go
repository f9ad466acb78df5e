package schedule

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/gymtrainer/internal/gymstats/catalog"
	"github.com/2beens/gymtrainer/internal/gymstats/events"
	"github.com/2beens/gymtrainer/internal/gymstats/progress"
	"github.com/2beens/gymtrainer/internal/gymstats/session"
	"github.com/2beens/gymtrainer/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
)

var (
	ErrExerciseNotFound = errors.New("exercise not found in training day")
	ErrDayCompleted     = errors.New("all exercises of the day are completed")
	ErrNoActiveSession  = errors.New("no active session")
)

type SelectorParams struct {
	Day        catalog.TrainingDay
	Aggregator *progress.Aggregator
	// Journal, when set, records every session change and day restart.
	Journal      *events.Journal
	Scheduler    session.Scheduler
	TickInterval time.Duration
	Metrics      *metrics.Manager
	// Observer is called after every change of any session opened by the selector.
	Observer session.Observer
}

// ExerciseOverview is one row of the day view.
type ExerciseOverview struct {
	Position      int             `json:"position"`
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	BodyPart      string          `json:"bodyPart"`
	Equipment     string          `json:"equipment"`
	Status        progress.Status `json:"status"`
	CompletedSets int             `json:"completedSets"`
	TotalSets     int             `json:"totalSets"`
	Active        bool            `json:"active"`
}

// Selector runs one training day: it opens at most one session at a time and feeds
// session reports into the aggregator.
type Selector struct {
	day          catalog.TrainingDay
	aggregator   *progress.Aggregator
	journal      *events.Journal
	scheduler    session.Scheduler
	tickInterval time.Duration
	metrics      *metrics.Manager
	observer     session.Observer

	mu     sync.Mutex
	active *session.Engine
}

func NewSelector(params SelectorParams) *Selector {
	if params.Aggregator == nil {
		params.Aggregator = progress.NewAggregator()
	}
	if params.Scheduler == nil {
		params.Scheduler = session.NewTickerScheduler()
	}
	return &Selector{
		day:          params.Day,
		aggregator:   params.Aggregator,
		journal:      params.Journal,
		scheduler:    params.Scheduler,
		tickInterval: params.TickInterval,
		metrics:      params.Metrics,
		observer:     params.Observer,
	}
}

func (s *Selector) Day() catalog.TrainingDay {
	return s.day
}

func (s *Selector) Exercises() []catalog.Exercise {
	return s.day.Exercises
}

// Open closes the running session, if any, and starts a new one for the exercise.
func (s *Selector) Open(exerciseID string) (*session.Engine, error) {
	exercise, ok := s.day.Exercise(exerciseID)
	if !ok {
		return nil, fmt.Errorf("open [%s]: %w", exerciseID, ErrExerciseNotFound)
	}

	engine := session.NewEngine(session.EngineParams{
		Scheduler:    s.scheduler,
		TickInterval: s.tickInterval,
		Reporter:     session.ReporterFunc(s.onReport),
		Observer:     s.observe,
		Metrics:      s.metrics,
	})

	s.mu.Lock()
	previous := s.active
	s.active = engine
	s.mu.Unlock()

	if previous != nil {
		previous.Close()
	}

	engine.Start(exercise.Prescription)
	if exercise.Prescription.IsEmpty() {
		// nothing to do, count it as done so Continue moves past it
		s.aggregator.OnSessionReport(exercise.ID, true, 0, 0)
	}

	log.Debugf("schedule: opened exercise [%s] in session [%s]", exercise.ID, engine.ID())
	return engine, nil
}

// Continue opens the first exercise of the day which is not completed yet.
func (s *Selector) Continue() (*session.Engine, error) {
	next, ok := s.aggregator.NextIncomplete(s.day.ExerciseIDs())
	if !ok {
		return nil, ErrDayCompleted
	}
	return s.Open(next)
}

// Active returns the last opened session, including a completed one, until it is closed.
func (s *Selector) Active() (*session.Engine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil, ErrNoActiveSession
	}
	return s.active, nil
}

func (s *Selector) CloseActive() error {
	s.mu.Lock()
	active := s.active
	s.active = nil
	s.mu.Unlock()

	if active == nil {
		return ErrNoActiveSession
	}
	active.Close()
	return nil
}

// RestartDay closes the running session and forgets all progress of the day.
func (s *Selector) RestartDay() {
	if err := s.CloseActive(); err != nil && !errors.Is(err, ErrNoActiveSession) {
		log.Errorf("schedule: restart day, close active: %s", err)
	}
	s.aggregator.ResetDay()

	if s.journal != nil {
		s.journal.Add(events.Event{
			Type: events.EventTypeDayRestarted,
			Data: map[string]string{"day": s.day.ID},
		})
	}
	if s.metrics != nil {
		s.metrics.CounterDayRestarts.Inc()
	}
	log.Infof("schedule: day [%s] restarted", s.day.ID)
}

func (s *Selector) Overview() []ExerciseOverview {
	s.mu.Lock()
	active := s.active
	s.mu.Unlock()

	activeID := ""
	if active != nil {
		activeID = active.Snapshot().ExerciseID
	}

	overview := make([]ExerciseOverview, 0, len(s.day.Exercises))
	for i, ex := range s.day.Exercises {
		row := ExerciseOverview{
			Position:  i + 1,
			ID:        ex.ID,
			Name:      ex.Name,
			BodyPart:  ex.BodyPart,
			Equipment: ex.Equipment,
			Status:    progress.StatusNotStarted,
			TotalSets: ex.Prescription.TotalSets(),
			Active:    ex.ID == activeID,
		}
		if record, ok := s.aggregator.Record(ex.ID); ok {
			row.Status = record.Status()
			row.CompletedSets = record.CompletedSets
			row.TotalSets = record.TotalSets
		}
		overview = append(overview, row)
	}
	return overview
}

func (s *Selector) Summary() progress.Summary {
	return s.aggregator.Summary(s.day.ExerciseIDs())
}

func (s *Selector) onReport(report session.Report) {
	s.aggregator.OnSessionReport(report.ExerciseID, report.IsCompleted, report.CompletedSets, report.TotalSets)
}

func (s *Selector) observe(change session.Change) {
	if s.journal != nil {
		s.journal.SessionObserver()(change)
	}
	if s.observer != nil {
		s.observer(change)
	}
}
