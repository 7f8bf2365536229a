package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DoyleJ11/fantasy-roster-backend/internal/engine"
	"github.com/DoyleJ11/fantasy-roster-backend/internal/hub"
	"github.com/DoyleJ11/fantasy-roster-backend/internal/logging"
	"github.com/DoyleJ11/fantasy-roster-backend/internal/present"
	"github.com/DoyleJ11/fantasy-roster-backend/internal/seed"
	"github.com/DoyleJ11/fantasy-roster-backend/internal/session"
	"github.com/DoyleJ11/fantasy-roster-backend/internal/types"
)

const (
	maxSeedBytes    = 1 << 20
	maxGestureBytes = 16 << 10

	// httpClientID marks gestures that did not come from a websocket
	// subscriber, so rejections have no outbox to land in.
	httpClientID = "http"
)

type snapshotResponse struct {
	Code    string       `json:"code"`
	Version int          `json:"version"`
	State   present.View `json:"state"`
}

type gestureResponse struct {
	Snapshot     snapshotResponse      `json:"snapshot"`
	Notification *present.Notification `json:"notification,omitempty"`
	Code         string                `json:"code"`
}

func CreateSession(h *hub.Hub, defaultState engine.State, log *zap.Logger) http.HandlerFunc {
	log = logging.OrNop(log)
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSeedBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, "seed_too_large", "seed body too large")
				return
			}
			writeError(w, http.StatusBadRequest, "bad_body", "could not read request body")
			return
		}

		state := defaultState.Clone()
		if len(bytes.TrimSpace(body)) > 0 {
			if state, err = seed.Build(body); err != nil {
				writeError(w, http.StatusBadRequest, "invalid_seed", err.Error())
				return
			}
		}

		s, err := h.Create(r.Context(), state)
		if err != nil || s == nil {
			log.Error("creating session", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal", "failed to create session")
			return
		}

		writeJSON(w, http.StatusCreated, struct {
			Code string `json:"code"`
		}{Code: s.Code()})
	}
}

func GetSession(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookup(w, r, h)
		if !ok {
			return
		}
		st, err := s.Status(r.Context())
		if err != nil {
			writeSessionGone(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snapshotResponse{Code: st.Code, Version: st.Version, State: st.View})
	}
}

func PostGesture(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookup(w, r, h)
		if !ok {
			return
		}

		var cm types.ClientMessage
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxGestureBytes)).Decode(&cm); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json", "bad json")
			return
		}
		g, ok := cm.Gesture()
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown_type", "unknown type")
			return
		}

		res, err := s.Do(r.Context(), httpClientID, g)
		if err != nil {
			writeSessionGone(w, err)
			return
		}

		status := http.StatusOK
		if res.Err != nil {
			status = statusFor(res.Err)
		}
		writeJSON(w, status, gestureResponse{
			Snapshot:     snapshotResponse{Code: s.Code(), Version: res.Version, State: res.View},
			Notification: res.Notification,
			Code:         res.Code,
		})
	}
}

func SlotCandidates(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookup(w, r, h)
		if !ok {
			return
		}
		players, err := s.Candidates(r.Context(), engine.SlotID(chi.URLParam(r, "slotID")))
		switch {
		case errors.Is(err, session.ErrClosed):
			writeSessionGone(w, err)
			return
		case err != nil:
			writeError(w, statusFor(err), present.Code(err), err.Error())
			return
		}
		if players == nil {
			players = []engine.Player{}
		}
		writeJSON(w, http.StatusOK, struct {
			Players []engine.Player `json:"players"`
		}{Players: players})
	}
}

func DeleteSession(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		removed, err := h.Remove(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, "unavailable", "hub unavailable")
			return
		}
		if !removed {
			writeError(w, http.StatusNotFound, "session_not_found", "session not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func lookup(w http.ResponseWriter, r *http.Request, h *hub.Hub) (*session.Session, bool) {
	s, err := h.Get(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", "hub unavailable")
		return nil, false
	}
	if s == nil {
		writeError(w, http.StatusNotFound, "session_not_found", "session not found")
		return nil, false
	}
	return s, true
}

// statusFor maps a rejected gesture onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrUnknownPlayer),
		errors.Is(err, engine.ErrUnknownSlot),
		errors.Is(err, engine.ErrUnknownEndpoint):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrNotInPool),
		errors.Is(err, engine.ErrNotInBench),
		errors.Is(err, engine.ErrNoDragInProgress):
		return http.StatusConflict
	case errors.Is(err, engine.ErrNoAvailableSlot),
		errors.Is(err, engine.ErrIncompatiblePosition),
		errors.Is(err, engine.ErrEmptySwap):
		return http.StatusUnprocessableEntity
	case errors.Is(err, engine.ErrInvalidDropTarget),
		errors.Is(err, engine.ErrUnsupportedCommand):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeSessionGone(w http.ResponseWriter, err error) {
	if errors.Is(err, session.ErrClosed) {
		writeError(w, http.StatusGone, "session_closed", "session closed")
		return
	}
	writeError(w, http.StatusServiceUnavailable, "unavailable", err.Error())
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, types.ErrorMessage(code, msg))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
