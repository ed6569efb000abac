package httptransport

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	appmatch "github.com/juliantomlin/card-game-midterm/internal/app/match"
	"github.com/juliantomlin/card-game-midterm/internal/game"
)

type MatchHandlers struct {
	svc *appmatch.Service
}

func NewMatchHandlers(svc *appmatch.Service) *MatchHandlers {
	return &MatchHandlers{svc: svc}
}

func (h *MatchHandlers) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name string `json:"name"`
		}
		if err := decodeJSON(r, &req); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		resp, err := h.svc.Register(r.Context(), req.Name)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func (h *MatchHandlers) CreateMatch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PlayerID string `json:"player_id"`
		}
		if err := decodeJSON(r, &req); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		resp, err := h.svc.CreateMatch(r.Context(), req.PlayerID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func (h *MatchHandlers) QuickMatch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PlayerID string `json:"player_id"`
		}
		if err := decodeJSON(r, &req); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		resp, err := h.svc.QuickMatch(r.Context(), req.PlayerID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func (h *MatchHandlers) Join() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PlayerID string `json:"player_id"`
		}
		if err := decodeJSON(r, &req); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		resp, err := h.svc.Join(r.Context(), chi.URLParam(r, "match_id"), req.PlayerID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func (h *MatchHandlers) Bid() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PlayerID string `json:"player_id"`
			CardID   int    `json:"card_id"`
		}
		if err := decodeJSON(r, &req); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		resp, err := h.svc.Bid(r.Context(), chi.URLParam(r, "match_id"), req.PlayerID, req.CardID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func (h *MatchHandlers) View() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.svc.View(r.Context(), chi.URLParam(r, "match_id"), r.URL.Query().Get("player_id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appmatch.ErrInvalidRequest):
		WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
	case errors.Is(err, game.ErrNotFound):
		WriteHTTPError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, game.ErrNotInMatch):
		WriteHTTPError(w, http.StatusForbidden, "not_in_match")
	case errors.Is(err, game.ErrMatchFull):
		WriteHTTPError(w, http.StatusConflict, "match_full")
	case errors.Is(err, game.ErrAlreadyInMatch):
		WriteHTTPError(w, http.StatusConflict, "already_in_match")
	case errors.Is(err, game.ErrCatalogIncomplete):
		WriteHTTPError(w, http.StatusConflict, "catalog_incomplete")
	default:
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}
