package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"quickai/internal/domain"
)

type toggleLikeRequest struct {
	ID string `json:"id"`
}

func (a *App) GetUserCreations(w http.ResponseWriter, r *http.Request) {
	principal, ok := a.principal(w, r)
	if !ok {
		return
	}
	list, err := a.Creations.ListByUser(r.Context(), principal.Identity)
	if err != nil {
		a.Logger.Error().Err(err).Str("user_id", string(principal.Identity)).Msg("list user creations failed")
		a.fail(w, http.StatusInternalServerError, "Failed to fetch creations. Please try again later.")
		return
	}
	a.json(w, http.StatusOK, creationsEnvelope{Success: true, Creations: list})
}

func (a *App) GetPublishedCreations(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.principal(w, r); !ok {
		return
	}
	list, err := a.Creations.ListPublished(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("list published creations failed")
		a.fail(w, http.StatusInternalServerError, "Failed to fetch creations. Please try again later.")
		return
	}
	a.json(w, http.StatusOK, creationsEnvelope{Success: true, Creations: list})
}

func (a *App) ToggleLikeCreation(w http.ResponseWriter, r *http.Request) {
	principal, ok := a.principal(w, r)
	if !ok {
		return
	}
	var body toggleLikeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		a.fail(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	liked, err := a.Creations.ToggleLike(r.Context(), body.ID, principal.Identity)
	if errors.Is(err, domain.ErrNotFound) {
		a.json(w, http.StatusOK, envelope{Success: false, Message: "Creation not found"})
		return
	}
	if err != nil {
		a.Logger.Error().Err(err).Str("creation_id", body.ID).Msg("toggle like failed")
		a.fail(w, http.StatusInternalServerError, "Failed to update like. Please try again.")
		return
	}
	msg := "Creation Unliked"
	if liked {
		msg = "Creation Liked"
	}
	a.json(w, http.StatusOK, envelope{Success: true, Message: msg})
}
