package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/gymtrainer/internal/gymstats/prescription"
	"github.com/2beens/gymtrainer/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var _ Provider = (*Repo)(nil)

// Repo reads plans from postgres. Prescriptions are stored as jsonb set groups.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) GetPlan(ctx context.Context, planID string) (_ *TrainingPlan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.getplan")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("plan_id", planID))

	plan := &TrainingPlan{}
	err = r.db.QueryRow(
		ctx,
		`
			SELECT id, name, goal
			FROM training_plan
			WHERE id = $1
		`,
		planID,
	).Scan(&plan.ID, &plan.Name, &plan.Goal)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("plan [%s]: %w", planID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("plan [query row]: %w", err)
	}

	dayIDs, err := r.dayIDs(ctx, planID)
	if err != nil {
		return nil, err
	}
	for _, dayID := range dayIDs {
		day, err := r.GetDay(ctx, planID, dayID)
		if err != nil {
			return nil, err
		}
		plan.Days = append(plan.Days, *day)
	}

	return plan, nil
}

func (r *Repo) dayIDs(ctx context.Context, planID string) ([]string, error) {
	rows, err := r.db.Query(
		ctx,
		`
			SELECT id
			FROM training_day
			WHERE plan_id = $1
			ORDER BY position
		`,
		planID,
	)
	if err != nil {
		return nil, fmt.Errorf("day ids [query]: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("day ids [rows scan]: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("day ids [rows]: %w", err)
	}
	return ids, nil
}

func (r *Repo) GetDay(ctx context.Context, planID, dayID string) (_ *TrainingDay, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.getday")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("plan_id", planID), attribute.String("day_id", dayID))

	day := &TrainingDay{}
	err = r.db.QueryRow(
		ctx,
		`
			SELECT id, name
			FROM training_day
			WHERE plan_id = $1 AND id = $2
		`,
		planID, dayID,
	).Scan(&day.ID, &day.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("plan [%s] day [%s]: %w", planID, dayID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("day [query row]: %w", err)
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT e.id, e.name, e.body_part, e.equipment, de.prescription
			FROM training_day_exercise de
			JOIN exercise e ON e.id = de.exercise_id
			WHERE de.plan_id = $1 AND de.day_id = $2
			ORDER BY de.position
		`,
		planID, dayID,
	)
	if err != nil {
		return nil, fmt.Errorf("day exercises [query]: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ex Exercise
		var groups []prescription.SetGroup
		if err := rows.Scan(&ex.ID, &ex.Name, &ex.BodyPart, &ex.Equipment, &groups); err != nil {
			return nil, fmt.Errorf("day exercises [rows scan]: %w", err)
		}
		ex.Prescription = prescription.Prescription{
			ExerciseID: ex.ID,
			Groups:     groups,
		}
		day.Exercises = append(day.Exercises, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("day exercises [rows]: %w", err)
	}

	span.SetAttributes(attribute.Int("exercises", len(day.Exercises)))
	return day, nil
}
