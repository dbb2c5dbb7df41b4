package http

import (
	"errors"
	"net/http"

	"github.com/secmon-lab/mentiondeck/pkg/usecase"
	"github.com/secmon-lab/mentiondeck/pkg/utils/errutil"
)

func assignFirstMessagesHandler(uc *usecase.FirstMessageUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		inserted, err := uc.Assign(ctx)
		if err != nil {
			handleBotError(w, r, err)
			return
		}
		writeSuccess(ctx, w, http.StatusOK, map[string]int{"inserted": inserted})
	}
}

func listFirstMessagesHandler(uc *usecase.FirstMessageUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		msgs, err := uc.List(ctx)
		if err != nil {
			errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
			return
		}
		writeSuccess(ctx, w, http.StatusOK, msgs)
	}
}

func latestMessageHandler(uc *usecase.FirstMessageUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		latest, err := uc.LatestMessage(ctx)
		if err != nil {
			handleBotError(w, r, err)
			return
		}
		writeSuccess(ctx, w, http.StatusOK, latest)
	}
}

func handleBotError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, usecase.ErrBotNotConfigured):
		writeError(ctx, w, http.StatusServiceUnavailable, "Slack bot token is not configured.")
	case errors.Is(err, usecase.ErrNoChannel):
		writeError(ctx, w, http.StatusNotFound, "No public channels found.")
	case errors.Is(err, usecase.ErrNoMessage):
		writeError(ctx, w, http.StatusNotFound, "No messages found in the channel.")
	default:
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
	}
}
