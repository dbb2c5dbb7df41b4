package errutil_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/mentiondeck/pkg/utils/errutil"
)

func TestHandleHTTP(t *testing.T) {
	w := httptest.NewRecorder()
	err := goerr.New(`bad "input"`, goerr.V("user_id", "U001"))

	errutil.HandleHTTP(context.Background(), w, err, http.StatusBadRequest)

	gt.Number(t, w.Code).Equal(http.StatusBadRequest)
	gt.String(t, w.Header().Get("Content-Type")).Equal("application/json")

	var body struct {
		Error string `json:"error"`
	}
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &body)).Required()
	gt.String(t, body.Error).Equal(`bad "input"`)
}

func TestHandleNil(t *testing.T) {
	gt.NoError(t, errutil.Handle(context.Background(), nil, "noop"))

	w := httptest.NewRecorder()
	errutil.HandleHTTP(context.Background(), w, nil, http.StatusInternalServerError)
	gt.Number(t, w.Body.Len()).Equal(0)
}

func TestHandleReturnsError(t *testing.T) {
	err := goerr.New("boom")
	gt.Error(t, errutil.Handle(context.Background(), err, "failed")).Is(err)
}

func TestHandleReportsGoerrValuesToSentry(t *testing.T) {
	var captured []*sentry.Event
	client, err := sentry.NewClient(sentry.ClientOptions{
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			captured = append(captured, event)
			return nil
		},
	})
	gt.NoError(t, err).Required()
	ctx := sentry.SetHubOnContext(context.Background(), sentry.NewHub(client, sentry.NewScope()))

	t.Run("Handle attaches values as context", func(t *testing.T) {
		captured = nil
		_ = errutil.Handle(ctx, goerr.New("scan failed", goerr.V("workspace_id", "T001")), "scan")

		gt.Array(t, captured).Length(1).Required()
		gt.Value(t, captured[0].Contexts["goerr"]["workspace_id"]).Equal("T001")
	})

	t.Run("HandleHTTP skips 4xx", func(t *testing.T) {
		captured = nil
		errutil.HandleHTTP(ctx, httptest.NewRecorder(), goerr.New("bad input"), http.StatusBadRequest)
		gt.Array(t, captured).Length(0)
	})

	t.Run("HandleHTTP reports 5xx", func(t *testing.T) {
		captured = nil
		errutil.HandleHTTP(ctx, httptest.NewRecorder(), goerr.New("store down"), http.StatusInternalServerError)
		gt.Array(t, captured).Length(1)
	})
}
