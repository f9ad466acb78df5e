package session

import (
	"fmt"
	"slices"

	"github.com/2beens/gymtrainer/internal/gymstats/prescription"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseActive
	PhaseResting
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseActive:
		return "active"
	case PhaseResting:
		return "resting"
	case PhaseCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for candidate := PhaseIdle; candidate <= PhaseCompleted; candidate++ {
		if candidate.String() == string(text) {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown phase: %q", text)
}

// State is the run-time state of one session. Done is the flat completion arena
// (see Layout), Cursor the flat index of the next pending set. Cursor equals the
// layout total once there is nothing left to do.
type State struct {
	Version       uint64
	Phase         Phase
	Cursor        int
	Done          []bool
	RestRemaining int
	Closed        bool
}

func (s State) CompletedSets() int {
	completed := 0
	for _, done := range s.Done {
		if done {
			completed++
		}
	}
	return completed
}

type ActionType int

const (
	ActionStart ActionType = iota
	ActionCompleteSet
	ActionTick
	ActionSkipRest
	ActionClose
)

func (a ActionType) String() string {
	switch a {
	case ActionStart:
		return "start"
	case ActionCompleteSet:
		return "complete_set"
	case ActionTick:
		return "tick"
	case ActionSkipRest:
		return "skip_rest"
	case ActionClose:
		return "close"
	default:
		return "unknown"
	}
}

type Action struct {
	Type ActionType
	// IfVersion, when set, applies the action only to the state with that version.
	IfVersion *uint64
}

// Report is the single event a session emits to its host: once on full completion,
// or once on an early close with some progress.
type Report struct {
	ExerciseID    string `json:"exerciseId"`
	IsCompleted   bool   `json:"isCompleted"`
	CompletedSets int    `json:"completedSets"`
	TotalSets     int    `json:"totalSets"`
}

// Effect lists what the owner of the state has to do after a transition.
type Effect struct {
	Changed   bool
	StartRest bool
	StopRest  bool
	Report    *Report
}

// Machine holds the immutable inputs of a session and computes transitions.
type Machine struct {
	prescription prescription.Prescription
	layout       Layout
}

func NewMachine(p prescription.Prescription) Machine {
	return Machine{
		prescription: p,
		layout:       NewLayout(p),
	}
}

func (m Machine) Prescription() prescription.Prescription {
	return m.prescription
}

func (m Machine) Layout() Layout {
	return m.layout
}

// Transition is a pure function of the state and the action. Invalid actions
// return the state unchanged with an empty Effect.
func (m Machine) Transition(s State, a Action) (State, Effect) {
	if s.Closed {
		return s, Effect{}
	}
	if a.IfVersion != nil && *a.IfVersion != s.Version {
		return s, Effect{}
	}

	switch a.Type {
	case ActionStart:
		return m.start(s)
	case ActionCompleteSet:
		return m.completeSet(s)
	case ActionTick:
		return m.tick(s)
	case ActionSkipRest:
		return m.skipRest(s)
	case ActionClose:
		return m.close(s)
	default:
		return s, Effect{}
	}
}

func (m Machine) start(s State) (State, Effect) {
	if s.Phase != PhaseIdle {
		return s, Effect{}
	}

	next := State{
		Version: s.Version + 1,
		Phase:   PhaseActive,
		Cursor:  0,
		Done:    make([]bool, m.layout.Total()),
	}
	if m.layout.Total() == 0 {
		next.Phase = PhaseCompleted
	}
	return next, Effect{Changed: true}
}

func (m Machine) completeSet(s State) (State, Effect) {
	if s.Phase != PhaseActive || s.Cursor >= m.layout.Total() {
		return s, Effect{}
	}

	completed := s.Cursor
	next := s
	next.Version++
	next.Done = slices.Clone(s.Done)
	next.Done[completed] = true
	next.Cursor = completed + 1

	if next.Cursor >= m.layout.Total() {
		// last set: straight to completed, no rest is owed
		next.Cursor = m.layout.Total()
		next.Phase = PhaseCompleted
		next.RestRemaining = 0
		return next, Effect{
			Changed:  true,
			StopRest: true,
			Report:   m.report(next, true),
		}
	}

	group, set, _ := m.layout.Position(completed)
	rest := m.prescription.Groups[group].Sets[set].RestSeconds()
	if rest <= 0 {
		next.Phase = PhaseActive
		return next, Effect{Changed: true}
	}

	next.Phase = PhaseResting
	next.RestRemaining = rest
	return next, Effect{Changed: true, StartRest: true}
}

func (m Machine) tick(s State) (State, Effect) {
	if s.Phase != PhaseResting {
		return s, Effect{}
	}

	next := s
	next.Version++
	next.RestRemaining--
	if next.RestRemaining > 0 {
		return next, Effect{Changed: true}
	}

	next.RestRemaining = 0
	next.Phase = PhaseActive
	return next, Effect{Changed: true, StopRest: true}
}

func (m Machine) skipRest(s State) (State, Effect) {
	if s.Phase != PhaseResting {
		return s, Effect{}
	}

	next := s
	next.Version++
	next.RestRemaining = 0
	next.Phase = PhaseActive
	return next, Effect{Changed: true, StopRest: true}
}

func (m Machine) close(s State) (State, Effect) {
	next := s
	next.Version++
	next.Closed = true

	effect := Effect{Changed: true, StopRest: true}
	if s.Phase != PhaseIdle && s.Phase != PhaseCompleted && s.CompletedSets() > 0 {
		effect.Report = m.report(next, false)
	}
	return next, effect
}

func (m Machine) report(s State, isCompleted bool) *Report {
	return &Report{
		ExerciseID:    m.prescription.ExerciseID,
		IsCompleted:   isCompleted,
		CompletedSets: s.CompletedSets(),
		TotalSets:     m.layout.Total(),
	}
}
