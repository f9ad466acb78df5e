package session

import "github.com/2beens/gymtrainer/internal/gymstats/prescription"

// Cursor is the pending set resolved against the prescription.
type Cursor struct {
	Group    int                   `json:"group"`
	Set      int                   `json:"set"`
	SetGroup prescription.SetGroup `json:"setGroup"`
	SetSpec  prescription.SetSpec  `json:"setSpec"`
}

// Snapshot is what a UI renders: RestRemaining only matters while resting, Cursor is nil
// when nothing is pending.
type Snapshot struct {
	ID            string   `json:"id"`
	ExerciseID    string   `json:"exerciseId"`
	Version       uint64   `json:"version"`
	Phase         Phase    `json:"phase"`
	Closed        bool     `json:"closed"`
	Cursor        *Cursor  `json:"cursor,omitempty"`
	RestRemaining int      `json:"restRemaining"`
	Completion    [][]bool `json:"completion"`
	CompletedSets int      `json:"completedSets"`
	TotalSets     int      `json:"totalSets"`
}

func (e *Engine) snapshotLocked() Snapshot {
	layout := e.machine.Layout()
	p := e.machine.Prescription()

	snapshot := Snapshot{
		ID:            e.id,
		ExerciseID:    p.ExerciseID,
		Version:       e.state.Version,
		Phase:         e.state.Phase,
		Closed:        e.state.Closed,
		CompletedSets: e.state.CompletedSets(),
		TotalSets:     layout.Total(),
		Completion:    layout.Matrix(e.state.Done),
	}
	if e.state.Phase == PhaseResting {
		snapshot.RestRemaining = e.state.RestRemaining
	}
	if e.state.Phase == PhaseActive || e.state.Phase == PhaseResting {
		if group, set, ok := layout.Position(e.state.Cursor); ok {
			snapshot.Cursor = &Cursor{
				Group:    group,
				Set:      set,
				SetGroup: p.Groups[group],
				SetSpec:  p.Groups[group].Sets[set],
			}
		}
	}
	return snapshot
}
