package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/gymtrainer/internal/gymstats/prescription"
)

var ErrNotFound = errors.New("not found in catalog")

type Exercise struct {
	ID           string                    `json:"id" toml:"id"`
	Name         string                    `json:"name" toml:"name"`
	BodyPart     string                    `json:"bodyPart" toml:"body_part"`
	Equipment    string                    `json:"equipment" toml:"equipment"`
	Prescription prescription.Prescription `json:"prescription" toml:"prescription"`
}

// TrainingDay lists the exercises of one day in the order they should be done.
type TrainingDay struct {
	ID        string     `json:"id" toml:"id"`
	Name      string     `json:"name" toml:"name"`
	Exercises []Exercise `json:"exercises" toml:"exercises"`
}

func (d TrainingDay) ExerciseIDs() []string {
	ids := make([]string, 0, len(d.Exercises))
	for _, ex := range d.Exercises {
		ids = append(ids, ex.ID)
	}
	return ids
}

func (d TrainingDay) Exercise(id string) (Exercise, bool) {
	for _, ex := range d.Exercises {
		if ex.ID == id {
			return ex, true
		}
	}
	return Exercise{}, false
}

type TrainingPlan struct {
	ID   string        `json:"id" toml:"id"`
	Name string        `json:"name" toml:"name"`
	Goal string        `json:"goal" toml:"goal"`
	Days []TrainingDay `json:"days" toml:"days"`
}

func (p TrainingPlan) Day(id string) (TrainingDay, bool) {
	for _, d := range p.Days {
		if d.ID == id {
			return d, true
		}
	}
	return TrainingDay{}, false
}

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=catalog_test

// Provider looks up training plans; implementations return ErrNotFound for unknown ids.
type Provider interface {
	GetPlan(ctx context.Context, planID string) (*TrainingPlan, error)
	GetDay(ctx context.Context, planID, dayID string) (*TrainingDay, error)
}

// normalize ties every prescription to its exercise and validates it.
func (p *TrainingPlan) normalize() error {
	seenDays := make(map[string]bool)
	for di := range p.Days {
		day := &p.Days[di]
		if seenDays[day.ID] {
			return fmt.Errorf("plan [%s]: duplicate day [%s]", p.ID, day.ID)
		}
		seenDays[day.ID] = true

		seenExercises := make(map[string]bool)
		for ei := range day.Exercises {
			ex := &day.Exercises[ei]
			if seenExercises[ex.ID] {
				return fmt.Errorf("plan [%s] day [%s]: duplicate exercise [%s]", p.ID, day.ID, ex.ID)
			}
			seenExercises[ex.ID] = true

			ex.Prescription.ExerciseID = ex.ID
			if err := ex.Prescription.Validate(); err != nil {
				return fmt.Errorf("plan [%s] day [%s] exercise [%s]: %w", p.ID, day.ID, ex.ID, err)
			}
		}
	}
	return nil
}
