package trainer_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/2beens/gymtrainer/internal/gymstats/catalog"
	"github.com/2beens/gymtrainer/internal/gymstats/events"
	"github.com/2beens/gymtrainer/internal/gymstats/prescription"
	"github.com/2beens/gymtrainer/internal/gymstats/progress"
	"github.com/2beens/gymtrainer/internal/gymstats/session"
	"github.com/2beens/gymtrainer/internal/trainer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testDay() catalog.TrainingDay {
	return catalog.TrainingDay{
		ID:   "push",
		Name: "Push",
		Exercises: []catalog.Exercise{
			{
				ID:       "bench-press",
				Name:     "Bench press",
				BodyPart: "chest",
				Prescription: prescription.Prescription{
					ExerciseID: "bench-press",
					Groups: []prescription.SetGroup{{
						Type: prescription.GroupTypeNormal,
						Sets: []prescription.SetSpec{
							{Reps: 10, Weight: 60, RestTimeSeconds: prescription.IntPtr(30)},
							{Reps: 8, Weight: 65, RestTimeSeconds: prescription.IntPtr(30)},
						},
					}},
				},
			},
			{
				ID:   "dips",
				Name: "Dips",
				Prescription: prescription.Prescription{
					ExerciseID: "dips",
					Groups: []prescription.SetGroup{{
						Type: prescription.GroupTypeDropSet,
						Sets: []prescription.SetSpec{{Reps: 12}},
					}},
				},
			},
		},
	}
}

type testConsole struct {
	*trainer.Console
	out        *bytes.Buffer
	scheduler  *session.ManualScheduler
	aggregator *progress.Aggregator
}

func newTestConsole(t *testing.T) *testConsole {
	t.Helper()
	tc := &testConsole{
		out:        &bytes.Buffer{},
		scheduler:  session.NewManualScheduler(),
		aggregator: progress.NewAggregator(),
	}
	tc.Console = trainer.NewConsole(trainer.ConsoleParams{
		Day:        testDay(),
		Aggregator: tc.aggregator,
		Scheduler:  tc.scheduler,
		Out:        tc.out,
	})
	t.Cleanup(func() {
		_ = tc.Selector().CloseActive()
	})
	return tc
}

func TestConsole_OpenAndCompleteSets(t *testing.T) {
	c := newTestConsole(t)

	require.NoError(t, c.Execute("open 1"))
	assert.Contains(t, c.out.String(), "bench-press: active, 0/2 sets [. .]")
	assert.Contains(t, c.out.String(), "now: Normal, set 1: 10 reps x 60.0kg")

	c.out.Reset()
	require.NoError(t, c.Execute("done"))
	assert.Contains(t, c.out.String(), "resting 30s, next: Normal, set 2: 8 reps x 65.0kg")

	err := c.Execute("done")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "still resting, 30s left")

	c.out.Reset()
	c.scheduler.Advance(30 * time.Second)
	assert.Contains(t, c.out.String(), "resting, 15s left")
	assert.Contains(t, c.out.String(), "rest over, next: Normal, set 2")

	require.NoError(t, c.Execute("d"))
	assert.Equal(t, progress.StatusCompleted, c.aggregator.StatusOf("bench-press"))

	err = c.Execute("done")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already completed")
}

func TestConsole_SkipStatusAndClose(t *testing.T) {
	c := newTestConsole(t)

	err := c.Execute("status")
	assert.Error(t, err)
	assert.Error(t, c.Execute("skip"))

	require.NoError(t, c.Execute("open bench-press"))
	require.NoError(t, c.Execute("done"))
	require.NoError(t, c.Execute("skip"))
	assert.Equal(t, 0, c.scheduler.Live())
	assert.Error(t, c.Execute("skip"), "nothing to skip while active")

	c.out.Reset()
	require.NoError(t, c.Execute("status"))
	assert.Contains(t, c.out.String(), "1/2 sets [x .]")

	require.NoError(t, c.Execute("close"))
	assert.Equal(t, progress.StatusInProgress, c.aggregator.StatusOf("bench-press"))
	assert.Error(t, c.Execute("close"))
}

func TestConsole_OpenErrors(t *testing.T) {
	c := newTestConsole(t)

	assert.Error(t, c.Execute("open"))
	assert.Error(t, c.Execute("open 0"))
	assert.Error(t, c.Execute("open 3"))
	assert.Error(t, c.Execute("open squat"))
	assert.Error(t, c.Execute("jump"))
	assert.NoError(t, c.Execute("   "))
}

func TestConsole_ContinueListAndSummary(t *testing.T) {
	c := newTestConsole(t)

	require.NoError(t, c.Execute("continue"))
	require.NoError(t, c.Execute("done"))
	require.NoError(t, c.Execute("skip"))
	require.NoError(t, c.Execute("done"))
	require.NoError(t, c.Execute("next"))
	assert.Contains(t, c.out.String(), "dips: active, 0/1 sets [.]")

	c.out.Reset()
	require.NoError(t, c.Execute("list"))
	lines := strings.Split(strings.TrimSpace(c.out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], " 1. [x] bench-press"), lines[0])
	assert.Contains(t, lines[0], "2/2 sets  (chest)")
	assert.True(t, strings.HasPrefix(lines[1], "*2. [ ] dips"), lines[1])

	require.NoError(t, c.Execute("done"))
	assert.Error(t, c.Execute("continue"))

	c.out.Reset()
	require.NoError(t, c.Execute("summary"))
	assert.Contains(t, c.out.String(), "exercises: 2 completed, 0 in progress, 0 not started (of 2)")
	assert.Contains(t, c.out.String(), "sets: 3/3")
}

func TestConsole_Restart(t *testing.T) {
	c := newTestConsole(t)

	require.NoError(t, c.Execute("open 2"))
	require.NoError(t, c.Execute("done"))
	require.Equal(t, progress.StatusCompleted, c.aggregator.StatusOf("dips"))

	require.NoError(t, c.Execute("restart"))
	assert.Equal(t, progress.StatusNotStarted, c.aggregator.StatusOf("dips"))

	restarted := events.EventTypeDayRestarted
	assert.Equal(t, 1, c.Journal().Count(context.Background(), events.EventParams{Type: &restarted}))
}

func TestConsole_Run(t *testing.T) {
	c := newTestConsole(t)

	in := strings.NewReader("help\nopen 1\ndone\nbogus\nquit\nopen 2\n")
	require.NoError(t, c.Run(context.Background(), in))

	out := c.out.String()
	assert.Contains(t, out, "training day [push] Push")
	assert.Contains(t, out, "commands:")
	assert.Contains(t, out, "error: unknown command [bogus]")
	assert.NotContains(t, out, "dips:", "nothing runs after quit")

	_, err := c.Selector().Active()
	assert.Error(t, err, "the running session is closed on exit")
	assert.Equal(t, progress.StatusInProgress, c.aggregator.StatusOf("bench-press"))
}

func TestConsole_RunStopsAtEndOfInput(t *testing.T) {
	c := newTestConsole(t)
	require.NoError(t, c.Run(context.Background(), strings.NewReader("open dips\n")))
	assert.Contains(t, c.out.String(), "dips: active")
}

func TestConsole_RunCancelled(t *testing.T) {
	c := newTestConsole(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, c.Run(ctx, strings.NewReader("")))
}
