package session

import (
	"sync"
	"time"

	"github.com/2beens/gymtrainer/internal/gymstats/prescription"
	"github.com/2beens/gymtrainer/internal/telemetry/metrics"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const DefaultTickInterval = time.Second

type Reporter interface {
	OnSessionReport(report Report)
}

type ReporterFunc func(report Report)

func (f ReporterFunc) OnSessionReport(report Report) {
	f(report)
}

// Change describes one applied transition. Observers get it after the engine lock is
// released, so Snapshot may already be superseded by the time it is read.
type Change struct {
	Action   ActionType
	From     Phase
	To       Phase
	Snapshot Snapshot
}

type Observer func(change Change)

type EngineParams struct {
	// Scheduler drives the rest countdown. Defaults to a TickerScheduler.
	Scheduler Scheduler
	// TickInterval is the length of one rest "second". Defaults to DefaultTickInterval.
	TickInterval time.Duration
	Reporter     Reporter
	Observer     Observer
	Metrics      *metrics.Manager
}

// Engine runs one exercise's prescription: it owns the session state and the single
// rest timer handle. All operations are safe for concurrent use; invalid ones are no-ops.
type Engine struct {
	id string

	mu      sync.Mutex
	machine Machine
	state   State
	rest    Handle
	restGen uint64

	scheduler    Scheduler
	tickInterval time.Duration
	reporter     Reporter
	observer     Observer
	metrics      *metrics.Manager
}

func NewEngine(params EngineParams) *Engine {
	if params.Scheduler == nil {
		params.Scheduler = NewTickerScheduler()
	}
	if params.TickInterval <= 0 {
		params.TickInterval = DefaultTickInterval
	}
	return &Engine{
		id:           uuid.NewString(),
		scheduler:    params.Scheduler,
		tickInterval: params.TickInterval,
		reporter:     params.Reporter,
		observer:     params.Observer,
		metrics:      params.Metrics,
	}
}

func (e *Engine) ID() string {
	return e.id
}

// Start begins the session for the given prescription. An empty prescription
// completes right away with nothing done. Starting twice is a no-op.
func (e *Engine) Start(p prescription.Prescription) bool {
	return e.dispatch(Action{Type: ActionStart}, func() bool {
		if e.state.Phase != PhaseIdle || e.state.Closed {
			return false
		}
		e.machine = NewMachine(p)
		return true
	})
}

// CompleteCurrentSet marks the set under the cursor as done. Only valid while active.
func (e *Engine) CompleteCurrentSet() bool {
	return e.dispatch(Action{Type: ActionCompleteSet}, nil)
}

// CompleteSet is CompleteCurrentSet guarded by the state version the caller rendered,
// so a double tap on the same screen advances the cursor at most once.
func (e *Engine) CompleteSet(version uint64) bool {
	return e.dispatch(Action{Type: ActionCompleteSet, IfVersion: &version}, nil)
}

// SkipRest ends the current rest period immediately.
func (e *Engine) SkipRest() bool {
	return e.dispatch(Action{Type: ActionSkipRest}, nil)
}

// Close ends the session. Partial progress is reported once, the rest timer is always
// released. Safe to call repeatedly and from any phase.
func (e *Engine) Close() {
	e.dispatch(Action{Type: ActionClose}, nil)
}

func (e *Engine) tick(gen uint64) {
	e.dispatch(Action{Type: ActionTick}, func() bool {
		// ticks of a cancelled handle are dropped
		return e.rest != nil && gen == e.restGen
	})
}

func (e *Engine) dispatch(action Action, guard func() bool) bool {
	e.mu.Lock()
	if guard != nil && !guard() {
		e.mu.Unlock()
		return false
	}

	prev := e.state
	next, effect := e.machine.Transition(prev, action)
	if !effect.Changed {
		e.mu.Unlock()
		log.Tracef("session [%s]: %s ignored in phase [%s]", e.id, action.Type, prev.Phase)
		return false
	}

	e.state = next
	if effect.StopRest {
		e.stopRestLocked()
	}
	if effect.StartRest {
		e.startRestLocked()
	}
	snapshot := e.snapshotLocked()
	e.mu.Unlock()

	if action.Type != ActionTick {
		log.Debugf("session [%s] exercise [%s]: %s, %s -> %s",
			e.id, snapshot.ExerciseID, action.Type, prev.Phase, next.Phase)
	}
	e.record(action.Type, prev, next, effect)

	if effect.Report != nil && e.reporter != nil {
		e.reporter.OnSessionReport(*effect.Report)
	}
	if e.observer != nil {
		e.observer(Change{
			Action:   action.Type,
			From:     prev.Phase,
			To:       next.Phase,
			Snapshot: snapshot,
		})
	}
	return true
}

func (e *Engine) startRestLocked() {
	e.stopRestLocked()
	e.restGen++
	gen := e.restGen
	e.rest = e.scheduler.Every(e.tickInterval, func() {
		e.tick(gen)
	})
}

func (e *Engine) stopRestLocked() {
	if e.rest == nil {
		return
	}
	e.rest.Stop()
	e.rest = nil
}

func (e *Engine) record(action ActionType, prev, next State, effect Effect) {
	if e.metrics == nil {
		return
	}

	wasRunning := prev.Phase == PhaseActive || prev.Phase == PhaseResting
	isRunning := !next.Closed && (next.Phase == PhaseActive || next.Phase == PhaseResting)
	switch {
	case !wasRunning && isRunning:
		e.metrics.GaugeActiveSessions.Inc()
	case wasRunning && !isRunning:
		e.metrics.GaugeActiveSessions.Dec()
	}

	switch action {
	case ActionStart:
		e.metrics.CounterSessionsStarted.Inc()
	case ActionCompleteSet:
		e.metrics.CounterSetsCompleted.Inc()
		if effect.StartRest {
			e.metrics.CounterRestsStarted.Inc()
			e.metrics.HistRestSeconds.Observe(float64(next.RestRemaining))
		}
		if next.Phase == PhaseCompleted {
			e.metrics.CounterSessionsCompleted.Inc()
		}
	case ActionSkipRest:
		e.metrics.CounterRestsSkipped.Inc()
	case ActionClose:
		if effect.Report != nil {
			e.metrics.CounterSessionsClosed.Inc()
		}
	}
}

// RestTimerRunning reports whether the engine currently holds a rest timer handle.
func (e *Engine) RestTimerRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rest != nil
}

func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Phase
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}
