package schedule

import (
	"errors"
	"net/http"

	"github.com/2beens/gymtrainer/internal/gymstats/progress"
	"github.com/2beens/gymtrainer/internal/telemetry/tracing"
	"github.com/2beens/gymtrainer/pkg"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"
)

// Handler serves a read-only view of the selector. Rest countdowns stay with the
// host, clients only see the state at request time.
type Handler struct {
	selector *Selector
}

func NewHandler(selector *Selector) *Handler {
	return &Handler{
		selector: selector,
	}
}

type DayResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Exercises []ExerciseOverview `json:"exercises"`
	Summary   progress.Summary   `json:"summary"`
}

func (h *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/day", h.HandleDay).Methods("GET", "OPTIONS").Name("day")
	r.HandleFunc("/session", h.HandleSession).Methods("GET", "OPTIONS").Name("session")
}

func (h *Handler) HandleDay(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.schedule.day")
	defer span.End()

	day := h.selector.Day()
	span.SetAttributes(attribute.String("day", day.ID))

	pkg.WriteJSON(w, http.StatusOK, DayResponse{
		ID:        day.ID,
		Name:      day.Name,
		Exercises: h.selector.Overview(),
		Summary:   h.selector.Summary(),
	})
}

func (h *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.schedule.session")
	defer span.End()

	engine, err := h.selector.Active()
	if errors.Is(err, ErrNoActiveSession) {
		http.Error(w, "no active session", http.StatusNotFound)
		return
	}

	snapshot := engine.Snapshot()
	span.SetAttributes(attribute.String("exercise", snapshot.ExerciseID))
	pkg.WriteJSON(w, http.StatusOK, snapshot)
}
