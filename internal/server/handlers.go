package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/elliotchance/pie/v2"
	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/courtside/internal/session"
	"github.com/mesh-intelligence/courtside/pkg/types"
)

// Handlers holds the HTTP handlers and the scorer they drive.
type Handlers struct {
	scorer  *session.Scorer
	version string
	log     *logrus.Entry
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(scorer *session.Scorer, version string, log *logrus.Entry) *Handlers {
	return &Handlers{scorer: scorer, version: version, log: log}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code and writes an ErrorResponse.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errorStatus(err), ErrorResponse{Error: err.Error(), Code: errorCode(err)})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, types.ErrMatchAlreadyOver), errors.Is(err, types.ErrNothingToUndo):
		return http.StatusConflict
	case errors.Is(err, types.ErrInvalidSelection), errors.Is(err, types.ErrInvalidZone),
		errors.Is(err, types.ErrInvalidActionCode), errors.Is(err, types.ErrInvalidPlayer),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrNoMatch), errors.Is(err, types.ErrMatchNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrPersistenceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, types.ErrMatchAlreadyOver):
		return "match_over"
	case errors.Is(err, types.ErrNothingToUndo):
		return "nothing_to_undo"
	case errors.Is(err, types.ErrInvalidSelection):
		return "invalid_selection"
	case errors.Is(err, types.ErrInvalidZone):
		return "invalid_zone"
	case errors.Is(err, types.ErrInvalidActionCode):
		return "invalid_action"
	case errors.Is(err, types.ErrInvalidPlayer):
		return "invalid_player"
	case errors.Is(err, errBadRequest):
		return "bad_request"
	case errors.Is(err, types.ErrNoMatch), errors.Is(err, types.ErrMatchNotFound):
		return "no_match"
	case errors.Is(err, types.ErrPersistenceUnavailable):
		return "persistence_unavailable"
	case errors.Is(err, types.ErrLogCorrupt):
		return "log_corrupt"
	default:
		return "internal"
	}
}

var errBadRequest = errors.New("invalid request body")

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return nil
}

func (h *Handlers) respond(w http.ResponseWriter, snap session.Snapshot, err error) {
	if err != nil {
		if errorStatus(err) >= http.StatusInternalServerError {
			h.log.WithError(err).Error("request failed")
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Health reports liveness and the live match id.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Version: h.version}
	if snap, err := h.scorer.Snapshot(); err == nil {
		resp.MatchID = snap.MatchID
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetMatch returns the live snapshot.
func (h *Handlers) GetMatch(w http.ResponseWriter, r *http.Request) {
	snap, err := h.scorer.Snapshot()
	h.respond(w, snap, err)
}

// NewMatch starts a new match.
func (h *Handlers) NewMatch(w http.ResponseWriter, r *http.Request) {
	snap, err := h.scorer.NewMatch(r.Context())
	if err == nil {
		writeJSON(w, http.StatusCreated, snap)
		return
	}
	h.respond(w, snap, err)
}

// SelectZone handles POST /api/match/zone.
func (h *Handlers) SelectZone(w http.ResponseWriter, r *http.Request) {
	var req ZoneRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	snap, err := h.selectZone(req)
	h.respond(w, snap, err)
}

func (h *Handlers) selectZone(req ZoneRequest) (session.Snapshot, error) {
	zone, err := types.ParseZone(req.Zone)
	if err != nil {
		return session.Snapshot{}, err
	}
	return h.scorer.SelectZone(zone)
}

// SelectPlayer handles POST /api/match/player.
func (h *Handlers) SelectPlayer(w http.ResponseWriter, r *http.Request) {
	var req PlayerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	snap, err := h.scorer.SelectPlayer(req.Number)
	h.respond(w, snap, err)
}

// ConfirmAction handles POST /api/match/action.
func (h *Handlers) ConfirmAction(w http.ResponseWriter, r *http.Request) {
	var req ActionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	code, err := types.ParseActionCode(req.Code)
	if err != nil {
		writeError(w, err)
		return
	}
	snap, err := h.scorer.Confirm(r.Context(), code)
	h.respond(w, snap, err)
}

// Cancel handles POST /api/match/cancel.
func (h *Handlers) Cancel(w http.ResponseWriter, r *http.Request) {
	snap, err := h.scorer.Cancel()
	h.respond(w, snap, err)
}

// Undo handles POST /api/match/undo.
func (h *Handlers) Undo(w http.ResponseWriter, r *http.Request) {
	snap, err := h.scorer.Undo(r.Context())
	h.respond(w, snap, err)
}

// History handles GET /api/match/history. The optional set query
// parameter keeps only the rows of that set.
func (h *Handlers) History(w http.ResponseWriter, r *http.Request) {
	snap, err := h.scorer.Snapshot()
	if err != nil {
		writeError(w, err)
		return
	}
	rows, err := h.scorer.History(r.Context())
	if err != nil {
		h.respond(w, snap, err)
		return
	}
	if s := r.URL.Query().Get("set"); s != "" {
		set, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, fmt.Errorf("%w: %w", errBadRequest, err))
			return
		}
		rows = pie.Filter(rows, func(e types.LogEntry) bool { return e.SetNumber == set })
	}
	if rows == nil {
		rows = []types.LogEntry{}
	}
	writeJSON(w, http.StatusOK, HistoryResponse{MatchID: snap.MatchID, Entries: rows})
}

// Catalog handles GET /api/catalog.
func (h *Handlers) Catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CatalogResponse{
		Zones: pie.Map(types.Zones(), func(z types.Zone) ZoneInfo {
			return ZoneInfo{Label: z.Label(), Name: z.Name()}
		}),
		Roster:     h.scorer.Roster(),
		Categories: types.Categories(),
		Teams:      h.scorer.Teams(),
	})
}
