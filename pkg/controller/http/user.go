package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/mentiondeck/pkg/domain/interfaces"
	"github.com/secmon-lab/mentiondeck/pkg/usecase"
	"github.com/secmon-lab/mentiondeck/pkg/utils/errutil"
)

type createUserRequest struct {
	SlackID string `json:"slack_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

func createUserHandler(uc *usecase.UserUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req createUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(ctx, w, http.StatusBadRequest, "invalid request body")
			return
		}

		user, err := uc.Create(ctx, usecase.CreateUserInput{
			SlackID: req.SlackID,
			Name:    req.Name,
			Email:   req.Email,
		})
		switch {
		case errors.Is(err, usecase.ErrInvalidInput):
			writeError(ctx, w, http.StatusBadRequest, "slack_id is required")
			return
		case errors.Is(err, interfaces.ErrAlreadyExists):
			writeError(ctx, w, http.StatusConflict, "user already exists")
			return
		case err != nil:
			errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
			return
		}

		writeSuccess(ctx, w, http.StatusCreated, user)
	}
}

func getUserHandler(uc *usecase.UserUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		user, err := uc.Get(ctx, chi.URLParam(r, "slackID"))
		switch {
		case errors.Is(err, interfaces.ErrNotFound):
			writeError(ctx, w, http.StatusNotFound, "user not found")
			return
		case err != nil:
			errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
			return
		}

		writeSuccess(ctx, w, http.StatusOK, user)
	}
}
