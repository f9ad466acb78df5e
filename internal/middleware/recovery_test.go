package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/gymtrainer/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPanicRecovery(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
		wantPanics float64
	}{
		{
			name: "handler returns normally",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name: "handler panics",
			handler: func(http.ResponseWriter, *http.Request) {
				panic("selector gone")
			},
			wantStatus: http.StatusInternalServerError,
			wantPanics: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.NewTestManager()
			rr := httptest.NewRecorder()

			PanicRecovery(m)(tt.handler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/session", nil))

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantPanics, testutil.ToFloat64(m.CounterHandleRequestPanic))
		})
	}
}

func TestPanicRecovery_NilMetrics(t *testing.T) {
	rr := httptest.NewRecorder()
	handler := PanicRecovery(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("no metrics")
	}))

	assert.NotPanics(t, func() {
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/day", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
