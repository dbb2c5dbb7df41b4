package usecase_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/mentiondeck/pkg/repository/memory"
	"github.com/secmon-lab/mentiondeck/pkg/service/slack"
	"github.com/secmon-lab/mentiondeck/pkg/usecase"
)

func newTokenServer(t *testing.T, resp map[string]any, received *url.Values) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.NoError(t, r.ParseForm())
		if received != nil {
			*received = r.PostForm
		}
		w.Header().Set("Content-Type", "application/json")
		gt.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func okTokenResponse(userID, teamID, teamName, token string) map[string]any {
	return map[string]any{
		"ok":          true,
		"team":        map[string]any{"id": teamID, "name": teamName},
		"authed_user": map[string]any{"id": userID, "access_token": token},
	}
}

func TestInstallURL(t *testing.T) {
	uc := usecase.New(memory.New(), usecase.WithOAuth(usecase.OAuthConfig{
		ClientID:     "123.456",
		ClientSecret: "secret",
	}))

	installURL, err := uc.Install.InstallURL("https://deck.example.com/oauth/redirect")
	gt.NoError(t, err).Required()

	parsed, err := url.Parse(installURL)
	gt.NoError(t, err).Required()
	gt.Value(t, parsed.Host).Equal("slack.com")
	gt.Value(t, parsed.Path).Equal("/oauth/v2/authorize")
	gt.Value(t, parsed.Query().Get("client_id")).Equal("123.456")
	gt.Value(t, parsed.Query().Get("redirect_uri")).Equal("https://deck.example.com/oauth/redirect")
	gt.Value(t, parsed.Query().Get("user_scope")).Equal(strings.Join(usecase.UserScopes, ","))

	t.Run("requires OAuth config", func(t *testing.T) {
		_, err := usecase.New(memory.New()).Install.InstallURL("https://deck.example.com/oauth/redirect")
		gt.Error(t, err).Is(usecase.ErrOAuthNotConfigured)
	})
}

func TestHandleCallback(t *testing.T) {
	ctx := context.Background()
	redirectURI := "https://deck.example.com/oauth/redirect"

	newFake := func() *fakeSlack {
		return newFakeSlack().add("xoxp-new", &fakeWorkspace{
			users: map[string]*slack.User{
				"U1": {ID: "U1", Name: "alice", RealName: "Alice Example", Email: "alice@example.com"},
			},
		})
	}

	t.Run("stores credential and user", func(t *testing.T) {
		repo := memory.New()
		var form url.Values
		srv := newTokenServer(t, okTokenResponse("U1", "T1", "Team One", "xoxp-new"), &form)
		uc := usecase.New(repo,
			usecase.WithSlackFactory(newFake().factory()),
			usecase.WithClock(clock),
			usecase.WithOAuth(usecase.OAuthConfig{
				ClientID:     "123.456",
				ClientSecret: "secret",
				TokenURL:     srv.URL,
			}),
		)

		overlay, err := uc.Install.HandleCallback(ctx, "code-1", redirectURI)
		gt.NoError(t, err).Required()
		gt.Value(t, overlay).Equal(usecase.OverlayURLPrefix + "U1")

		gt.Value(t, form.Get("code")).Equal("code-1")
		gt.Value(t, form.Get("client_id")).Equal("123.456")
		gt.Value(t, form.Get("client_secret")).Equal("secret")
		gt.Value(t, form.Get("redirect_uri")).Equal(redirectURI)

		auths, err := repo.Authorization().ListByUser(ctx, "U1")
		gt.NoError(t, err).Required()
		gt.Array(t, auths).Length(1).Required()
		gt.Value(t, auths[0].WorkspaceID).Equal("T1")
		gt.Value(t, auths[0].WorkspaceName).Equal("Team One")
		gt.Value(t, auths[0].AccessToken).Equal("xoxp-new")

		user, err := repo.User().Get(ctx, "U1")
		gt.NoError(t, err).Required()
		gt.Value(t, user.Name).Equal("Alice Example")
		gt.Value(t, user.Email).Equal("alice@example.com")
	})

	t.Run("reinstall replaces token and keeps user", func(t *testing.T) {
		repo := memory.New()
		putAuth(t, repo, "U1", "T1", "Old Name", "xoxp-old")

		srv := newTokenServer(t, okTokenResponse("U1", "T1", "Team One", "xoxp-new"), nil)
		uc := usecase.New(repo,
			usecase.WithSlackFactory(newFake().factory()),
			usecase.WithOAuth(usecase.OAuthConfig{ClientID: "id", ClientSecret: "secret", TokenURL: srv.URL}),
		)

		_, err := uc.Install.HandleCallback(ctx, "code-1", redirectURI)
		gt.NoError(t, err).Required()
		_, err = uc.Install.HandleCallback(ctx, "code-2", redirectURI)
		gt.NoError(t, err).Required()

		auths, err := repo.Authorization().ListByUser(ctx, "U1")
		gt.NoError(t, err).Required()
		gt.Array(t, auths).Length(1).Required()
		gt.Value(t, auths[0].AccessToken).Equal("xoxp-new")
		gt.Value(t, auths[0].WorkspaceName).Equal("Team One")
	})

	t.Run("rejected code", func(t *testing.T) {
		srv := newTokenServer(t, map[string]any{"ok": false, "error": "invalid_code"}, nil)
		uc := usecase.New(memory.New(),
			usecase.WithSlackFactory(newFake().factory()),
			usecase.WithOAuth(usecase.OAuthConfig{ClientID: "id", ClientSecret: "secret", TokenURL: srv.URL}),
		)

		_, err := uc.Install.HandleCallback(ctx, "bad", redirectURI)
		gt.Error(t, err).Is(usecase.ErrInvalidCode)
	})

	t.Run("missing code", func(t *testing.T) {
		uc := usecase.New(memory.New(),
			usecase.WithOAuth(usecase.OAuthConfig{ClientID: "id", ClientSecret: "secret"}),
		)
		_, err := uc.Install.HandleCallback(ctx, "", redirectURI)
		gt.Error(t, err).Is(usecase.ErrInvalidCode)
	})

	t.Run("not configured", func(t *testing.T) {
		_, err := usecase.New(memory.New()).Install.HandleCallback(ctx, "code", redirectURI)
		gt.Error(t, err).Is(usecase.ErrOAuthNotConfigured)
	})
}
