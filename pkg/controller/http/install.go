package http

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/secmon-lab/mentiondeck/pkg/usecase"
	"github.com/secmon-lab/mentiondeck/pkg/utils/errutil"
	"github.com/secmon-lab/mentiondeck/pkg/utils/logging"
)

var installPage = template.Must(template.New("install").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Install mentiondeck</title></head>
<body>
<h1>Install mentiondeck</h1>
<a href="{{.}}"><img alt="Add to Slack" height="40" width="139" src="https://platform.slack-edge.com/img/add_to_slack.png" srcset="https://platform.slack-edge.com/img/add_to_slack.png 1x, https://platform.slack-edge.com/img/add_to_slack@2x.png 2x" /></a>
</body>
</html>
`))

// installHandler renders the "Add to Slack" page
func installHandler(uc *usecase.InstallUseCase, redirectURI func(*http.Request) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		installURL, err := uc.InstallURL(redirectURI(r))
		if err != nil {
			if errors.Is(err, usecase.ErrOAuthNotConfigured) {
				writeError(ctx, w, http.StatusNotFound, "install is not configured")
				return
			}
			errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := installPage.Execute(w, installURL); err != nil {
			logging.From(ctx).Error("failed to render install page", "error", err.Error())
		}
	}
}

// oauthRedirectHandler completes the install and sends the user back to Slack
func oauthRedirectHandler(uc *usecase.InstallUseCase, redirectURI func(*http.Request) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if errParam := r.URL.Query().Get("error"); errParam != "" {
			writeError(ctx, w, http.StatusBadRequest, "installation was not approved: "+errParam)
			return
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			writeError(ctx, w, http.StatusBadRequest, "no code provided")
			return
		}

		overlayURL, err := uc.HandleCallback(ctx, code, redirectURI(r))
		switch {
		case errors.Is(err, usecase.ErrOAuthNotConfigured):
			writeError(ctx, w, http.StatusNotFound, "install is not configured")
			return
		case errors.Is(err, usecase.ErrInvalidCode):
			writeError(ctx, w, http.StatusBadRequest, "authorization code was rejected")
			return
		case err != nil:
			errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, overlayURL, http.StatusFound)
	}
}
