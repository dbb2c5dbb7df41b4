package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/secmon-lab/mentiondeck/pkg/utils/logging"
)

type successResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.From(ctx).Error("failed to write response", "error", err.Error())
	}
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(ctx, w, status, successResponse{Message: "success", Data: data})
}

// writeError answers a request the client got wrong. Server failures go
// through errutil.HandleHTTP instead.
func writeError(ctx context.Context, w http.ResponseWriter, status int, msg string) {
	logging.From(ctx).Warn("request rejected", "status", status, "error", msg)
	writeJSON(ctx, w, status, errorResponse{Error: msg})
}
