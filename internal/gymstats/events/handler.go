package events

import (
	"net/http"
	"strconv"

	"github.com/2beens/gymtrainer/internal/telemetry/tracing"
	"github.com/2beens/gymtrainer/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	journal  *Journal
	analyzer *Analyzer
}

func NewHandler(journal *Journal) *Handler {
	return &Handler{
		journal:  journal,
		analyzer: NewAnalyzer(journal),
	}
}

type ListResponse struct {
	Events []Event `json:"events"`
	Total  int     `json:"total"`
}

func (h *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/events/page/{page}/size/{size}", h.HandleList).Methods("GET", "OPTIONS").Name("list-events")
	r.HandleFunc("/stats/setduration", h.HandleAvgSetDuration).Methods("GET", "OPTIONS").Name("avg-set-duration")
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.events.list")
	defer span.End()

	vars := mux.Vars(r)
	page, err := strconv.Atoi(vars["page"])
	if err != nil {
		log.Tracef("handle list events, from <page> param: %s", err)
		http.Error(w, "parse form error, parameter <page>", http.StatusBadRequest)
		return
	}
	size, err := strconv.Atoi(vars["size"])
	if err != nil {
		log.Tracef("handle list events, from <size> param: %s", err)
		http.Error(w, "parse form error, parameter <size>", http.StatusBadRequest)
		return
	}
	if page < 1 {
		http.Error(w, "invalid page (has to be non-zero value)", http.StatusBadRequest)
		return
	}
	if size < 1 {
		http.Error(w, "invalid size (has to be non-zero value)", http.StatusBadRequest)
		return
	}

	params := EventParams{
		ExerciseID: r.URL.Query().Get("exercise_id"),
	}
	if typeStr := r.URL.Query().Get("type"); typeStr != "" {
		eventType := EventType(typeStr)
		if !eventType.IsValid() {
			http.Error(w, "invalid event type", http.StatusBadRequest)
			return
		}
		params.Type = &eventType
	}

	events, err := h.journal.List(ctx, ListParams{
		EventParams: params,
		Page:        page,
		Size:        size,
	})
	if err != nil {
		log.Errorf("list events: %s", err)
		http.Error(w, "failed to list events", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, ListResponse{
		Events: events,
		Total:  h.journal.Count(ctx, params),
	})
}

func (h *Handler) HandleAvgSetDuration(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.events.avg-set-duration")
	defer span.End()

	pkg.WriteJSON(w, http.StatusOK, h.analyzer.AvgSetDuration(ctx))
}
