package prescription

import (
	"errors"
	"fmt"
)

// DefaultRestSeconds is the rest owed after a set which does not specify one.
const DefaultRestSeconds = 60

var ErrInvalidPrescription = errors.New("invalid prescription")

// SetSpec is one prescribed unit of work.
type SetSpec struct {
	Reps   int      `json:"reps" toml:"reps"`
	Weight float64  `json:"weight" toml:"weight"`
	RPE    *float64 `json:"rpe,omitempty" toml:"rpe"`
	// RestTimeSeconds is the rest owed after this set.
	RestTimeSeconds *int `json:"restTimeSeconds,omitempty" toml:"rest_time_seconds"`
}

// RestSeconds returns the rest owed after the set, falling back to DefaultRestSeconds.
func (s SetSpec) RestSeconds() int {
	if s.RestTimeSeconds == nil {
		return DefaultRestSeconds
	}
	return *s.RestTimeSeconds
}

type SetGroup struct {
	Type  GroupType `json:"type" toml:"type"`
	Notes string    `json:"notes,omitempty" toml:"notes"`
	Sets  []SetSpec `json:"sets" toml:"sets"`
}

// Prescription describes the work required for one exercise. It is supplied by the
// catalog and never mutated by the session engine.
type Prescription struct {
	ExerciseID string     `json:"exerciseId" toml:"exercise_id"`
	Groups     []SetGroup `json:"groups" toml:"groups"`
}

// TotalSets is the flattened count of all sets across all groups.
func (p Prescription) TotalSets() int {
	total := 0
	for _, g := range p.Groups {
		total += len(g.Sets)
	}
	return total
}

// IsEmpty reports whether there is nothing to do: no groups, or only empty ones.
func (p Prescription) IsEmpty() bool {
	return p.TotalSets() == 0
}

// Validate is used by catalog loaders; the session engine tolerates whatever it is given.
func (p Prescription) Validate() error {
	for gi, g := range p.Groups {
		if !g.Type.IsValid() {
			return fmt.Errorf("%w: group %d: unknown type [%s]", ErrInvalidPrescription, gi, g.Type)
		}
		for si, s := range g.Sets {
			if s.Reps < 0 {
				return fmt.Errorf("%w: group %d set %d: negative reps", ErrInvalidPrescription, gi, si)
			}
			if s.Weight < 0 {
				return fmt.Errorf("%w: group %d set %d: negative weight", ErrInvalidPrescription, gi, si)
			}
			if s.RestTimeSeconds != nil && *s.RestTimeSeconds < 0 {
				return fmt.Errorf("%w: group %d set %d: negative rest time", ErrInvalidPrescription, gi, si)
			}
		}
	}
	return nil
}

func IntPtr(v int) *int {
	return &v
}

func FloatPtr(v float64) *float64 {
	return &v
}
