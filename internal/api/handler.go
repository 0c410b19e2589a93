package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/cardrelay/cardrelay/internal/notify"
	"github.com/cardrelay/cardrelay/internal/store"
)

// maxEventBytes caps the accepted request body for POST /api/v1/events.
const maxEventBytes = 1 << 20

// Handler is the HTTP handler for all /api/v1/* endpoints. Events are
// handed to the relay; history and health read from the record store.
type Handler struct {
	relay *notify.Relay
	store *store.Store
	mux   *http.ServeMux
}

// New creates a Handler wired to the given relay and store and registers
// all routes.
func New(relay *notify.Relay, st *store.Store) http.Handler {
	h := &Handler{relay: relay, store: st, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/events", h.events)
	h.mux.HandleFunc("/api/v1/notifications", h.notifications)
	h.mux.HandleFunc("/api/v1/health", h.health)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// events accepts POST /api/v1/events: one raw SNS event per request. The
// response is 202 whenever the event was processed at all; the actual
// result is the returned record's outcome.
func (h *Handler) events(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxEventBytes))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			jsonErr(w, http.StatusRequestEntityTooLarge, "event body too large")
		} else {
			jsonErr(w, http.StatusBadRequest, "read event body")
		}
		return
	}

	rec := h.relay.Process(r.Context(), raw)
	jsonResp(w, http.StatusAccepted, rec)
}

// notifications returns GET /api/v1/notifications: the recent processing
// history, newest first.
func (h *Handler) notifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, h.store.List())
}

// health returns GET /api/v1/health: liveness plus outcome counts over
// the retained history.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	records := h.store.List()
	resp := HealthResponse{
		Status:            "ok",
		NotificationCount: len(records),
	}
	for _, rec := range records {
		switch rec.Outcome {
		case store.OutcomeDelivered:
			resp.DeliveredCount++
		case store.OutcomeDeliveryFailed:
			resp.DeliveryFailedCount++
		case store.OutcomeError:
			resp.ErrorCount++
		}
	}
	jsonResp(w, http.StatusOK, resp)
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
