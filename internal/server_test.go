package internal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/gymtrainer/internal/gymstats/catalog"
	"github.com/2beens/gymtrainer/internal/gymstats/events"
	"github.com/2beens/gymtrainer/internal/gymstats/prescription"
	"github.com/2beens/gymtrainer/internal/gymstats/schedule"
	"github.com/2beens/gymtrainer/internal/gymstats/session"
	"github.com/2beens/gymtrainer/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *schedule.Selector) {
	t.Helper()
	m, reg := metrics.NewTestManagerAndRegistry()
	journal := events.NewJournal(events.JournalParams{})
	selector := schedule.NewSelector(schedule.SelectorParams{
		Day: catalog.TrainingDay{
			ID:   "legs",
			Name: "Legs",
			Exercises: []catalog.Exercise{{
				ID:   "squat",
				Name: "Squat",
				Prescription: prescription.Prescription{
					ExerciseID: "squat",
					Groups: []prescription.SetGroup{{
						Type: prescription.GroupTypeNormal,
						Sets: []prescription.SetSpec{
							{Reps: 5, Weight: 100, RestTimeSeconds: prescription.IntPtr(120)},
							{Reps: 5, Weight: 100},
						},
					}},
				},
			}},
		},
		Journal:   journal,
		Scheduler: session.NewManualScheduler(),
		Metrics:   m,
	})
	t.Cleanup(func() {
		_ = selector.CloseActive()
	})

	return NewServer(NewServerParams{
		Selector:       selector,
		Journal:        journal,
		AllowedOrigins: []string{"http://localhost:8080"},
		MetricsManager: m,
		PromRegistry:   reg,
	}), selector
}

func TestServer_Routes(t *testing.T) {
	server, selector := newTestServer(t)
	router := server.routerSetup()

	engine, err := selector.Open("squat")
	require.NoError(t, err)
	require.True(t, engine.CompleteCurrentSet())

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/day", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var day schedule.DayResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &day))
	assert.Equal(t, "legs", day.ID)
	require.Len(t, day.Exercises, 1)
	assert.True(t, day.Exercises[0].Active)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/session", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var snapshot session.Snapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snapshot))
	assert.Equal(t, "squat", snapshot.ExerciseID)
	assert.Equal(t, 1, snapshot.CompletedSets)
	assert.Equal(t, 120, snapshot.RestRemaining)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/events/page/1/size/10", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var list events.ListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Equal(t, 3, list.Total, "session_started, set_completed, rest_started")

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/stats/setduration", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/workouts", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	assert.Equal(t, float64(4), testutil.ToFloat64(server.metricsManager.CounterRequests.WithLabelValues("GET", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(server.metricsManager.CounterRequests.WithLabelValues("GET", "404")))
}

func TestServer_Cors(t *testing.T) {
	server, _ := newTestServer(t)
	router := server.routerSetup()

	req := httptest.NewRequest("GET", "/day", nil)
	req.Header.Set("Origin", "https://evil.example")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	req = httptest.NewRequest("GET", "/day", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "http://localhost:8080", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_ServeAndShutdown(t *testing.T) {
	server, _ := newTestServer(t)

	server.Serve("localhost", 0, "localhost", "0")
	assert.Equal(t, float64(1), testutil.ToFloat64(server.metricsManager.GaugeLifeSignal))

	require.NoError(t, server.GracefulShutdown(context.Background()))
	assert.Equal(t, float64(0), testutil.ToFloat64(server.metricsManager.GaugeLifeSignal))
}
