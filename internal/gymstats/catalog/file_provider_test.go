package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/2beens/gymtrainer/internal/gymstats/catalog"
	"github.com/2beens/gymtrainer/internal/gymstats/prescription"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `
[[plans]]
id = "fullbody"
name = "Full body"
goal = "strength"

[[plans.days]]
id = "a"
name = "Day A"

[[plans.days.exercises]]
id = "squat"
name = "Squat"
body_part = "legs"
equipment = "barbell"

[[plans.days.exercises.prescription.groups]]
type = "NORMAL"

[[plans.days.exercises.prescription.groups.sets]]
reps = 5
weight = 100.0
rest_time_seconds = 180

[[plans.days.exercises.prescription.groups.sets]]
reps = 5
weight = 100.0
rpe = 9.0

[[plans.days.exercises]]
id = "plank"
name = "Plank"
body_part = "core"
equipment = "bodyweight"
`

func TestFileProvider(t *testing.T) {
	ctx := context.Background()
	p, err := catalog.ParseFileProvider(testCatalog)
	require.NoError(t, err)

	plan, err := p.GetPlan(ctx, "fullbody")
	require.NoError(t, err)
	assert.Equal(t, "Full body", plan.Name)
	assert.Equal(t, "strength", plan.Goal)
	require.Len(t, plan.Days, 1)

	day, err := p.GetDay(ctx, "fullbody", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"squat", "plank"}, day.ExerciseIDs())

	squat, ok := day.Exercise("squat")
	require.True(t, ok)
	assert.Equal(t, "legs", squat.BodyPart)
	assert.Equal(t, "squat", squat.Prescription.ExerciseID)
	assert.Equal(t, 2, squat.Prescription.TotalSets())
	assert.Equal(t, prescription.GroupTypeNormal, squat.Prescription.Groups[0].Type)
	assert.Equal(t, 180, squat.Prescription.Groups[0].Sets[0].RestSeconds())
	assert.Equal(t, prescription.DefaultRestSeconds, squat.Prescription.Groups[0].Sets[1].RestSeconds())
	require.NotNil(t, squat.Prescription.Groups[0].Sets[1].RPE)
	assert.Equal(t, 9.0, *squat.Prescription.Groups[0].Sets[1].RPE)

	plank, ok := day.Exercise("plank")
	require.True(t, ok)
	assert.True(t, plank.Prescription.IsEmpty())
	assert.Equal(t, "plank", plank.Prescription.ExerciseID)

	_, ok = day.Exercise("deadlift")
	assert.False(t, ok)
}

func TestFileProvider_NotFound(t *testing.T) {
	ctx := context.Background()
	p, err := catalog.ParseFileProvider(testCatalog)
	require.NoError(t, err)

	_, err = p.GetPlan(ctx, "ppl")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
	_, err = p.GetDay(ctx, "ppl", "a")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
	_, err = p.GetDay(ctx, "fullbody", "b")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestFileProvider_Invalid(t *testing.T) {
	_, err := catalog.ParseFileProvider(`plans = "nope"`)
	assert.Error(t, err)

	_, err = catalog.ParseFileProvider(`
[[plans]]
id = "p"
[[plans.days]]
id = "d"
[[plans.days.exercises]]
id = "e"
[[plans.days.exercises.prescription.groups]]
type = "CIRCUIT"
`)
	assert.ErrorIs(t, err, prescription.ErrInvalidPrescription)

	_, err = catalog.ParseFileProvider(`
[[plans]]
id = "p"
[[plans]]
id = "p"
`)
	assert.ErrorContains(t, err, "duplicate plan")

	_, err = catalog.ParseFileProvider(`
[[plans]]
id = "p"
[[plans.days]]
id = "d"
[[plans.days.exercises]]
id = "e"
[[plans.days.exercises]]
id = "e"
`)
	assert.ErrorContains(t, err, "duplicate exercise")
}

func TestNewFileProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.toml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o600))

	p, err := catalog.NewFileProvider(path)
	require.NoError(t, err)
	_, err = p.GetDay(context.Background(), "fullbody", "a")
	assert.NoError(t, err)

	_, err = catalog.NewFileProvider(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestNewFileProvider_BundledCatalog(t *testing.T) {
	p, err := catalog.NewFileProvider("../../../assets/catalog.toml")
	require.NoError(t, err)

	plan, err := p.GetPlan(context.Background(), "ppl")
	require.NoError(t, err)
	require.Len(t, plan.Days, 3)
	for _, day := range plan.Days {
		assert.NotEmpty(t, day.Exercises, day.ID)
	}
}
