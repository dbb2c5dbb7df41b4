package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/mentiondeck/pkg/domain/model"
	"github.com/secmon-lab/mentiondeck/pkg/usecase"
	"github.com/secmon-lab/mentiondeck/pkg/utils/async"
	"github.com/secmon-lab/mentiondeck/pkg/utils/errutil"
)

type scanStatus struct {
	WorkspaceID   string `json:"slack_workspace_id"`
	WorkspaceName string `json:"slack_workspace_name"`
	Status        string `json:"status"`
	Conversations int    `json:"conversations"`
	Inserted      int    `json:"inserted"`
	Error         string `json:"error,omitempty"`
}

type scanMentionsResponse struct {
	Message string               `json:"message"`
	Data    []*model.MentionView `json:"data"`
	Scans   []scanStatus         `json:"scans"`
}

func toScanStatus(reports []*model.ScanReport) []scanStatus {
	statuses := make([]scanStatus, 0, len(reports))
	for _, r := range reports {
		s := scanStatus{
			WorkspaceID:   r.WorkspaceID,
			WorkspaceName: r.WorkspaceName,
			Status:        r.Status(),
			Conversations: r.Conversations,
			Inserted:      r.Inserted,
		}
		if r.Err != nil {
			s.Error = r.Err.Error()
		}
		statuses = append(statuses, s)
	}
	return statuses
}

// listMentionsHandler serves stored mentions. With ?scan=true it scans every
// workspace of the user first and reports each scan.
func listMentionsHandler(uc *usecase.MentionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := chi.URLParam(r, "userID")

		if r.URL.Query().Get("scan") == "true" {
			views, reports, err := uc.ScanAndList(ctx, userID)
			if err != nil {
				handleMentionError(w, r, err)
				return
			}
			writeJSON(ctx, w, http.StatusOK, scanMentionsResponse{
				Message: "success",
				Data:    views,
				Scans:   toScanStatus(reports),
			})
			return
		}

		views, err := uc.List(ctx, userID)
		if err != nil {
			handleMentionError(w, r, err)
			return
		}
		writeSuccess(ctx, w, http.StatusOK, views)
	}
}

// refreshMentionsHandler starts a scan in the background and returns at once.
// Requests for a user with a scan in flight join that scan.
func refreshMentionsHandler(uc *usecase.MentionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")

		async.Dispatch(r.Context(), func(ctx context.Context) error {
			return uc.Refresh(ctx, userID)
		})

		writeSuccess(r.Context(), w, http.StatusAccepted, map[string]string{"user_slack_id": userID})
	}
}

func hideMentionHandler(uc *usecase.MentionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		changes, err := uc.Hide(ctx, chi.URLParam(r, "ts"))
		if err != nil {
			handleMentionError(w, r, err)
			return
		}
		writeSuccess(ctx, w, http.StatusOK, map[string]int{"changes": changes})
	}
}

func handleMentionError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, usecase.ErrInvalidInput) {
		writeError(r.Context(), w, http.StatusBadRequest, err.Error())
		return
	}
	errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
}
