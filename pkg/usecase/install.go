package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mentiondeck/pkg/domain/interfaces"
	"github.com/secmon-lab/mentiondeck/pkg/domain/model"
	"github.com/secmon-lab/mentiondeck/pkg/service/slack"
	"github.com/secmon-lab/mentiondeck/pkg/utils/logging"
	"github.com/secmon-lab/mentiondeck/pkg/utils/safe"
)

const (
	slackAuthorizeURL   = "https://slack.com/oauth/v2/authorize"
	slackOAuthAccessURL = "https://slack.com/api/oauth.v2.access"
	overlayURLPrefix    = "https://app.slack.com/#slackOverlayUserId="
)

// userScopes are the user token scopes needed to read conversations and
// resolve the installing user's profile
var userScopes = []string{
	"channels:history",
	"groups:history",
	"im:history",
	"mpim:history",
	"users:read",
	"channels:read",
	"groups:read",
	"im:read",
	"mpim:read",
}

// OAuthConfig holds the Slack app credentials for the install flow
type OAuthConfig struct {
	ClientID     string
	ClientSecret string `masq:"secret"`
	// TokenURL overrides the oauth.v2.access endpoint
	TokenURL string
}

// oauthV2Response is the subset of the oauth.v2.access response used here
type oauthV2Response struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Team  struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
	AuthedUser struct {
		ID          string `json:"id"`
		AccessToken string `json:"access_token"`
	} `json:"authed_user"`
}

// InstallUseCase handles the Slack OAuth v2 install flow
type InstallUseCase struct {
	repo       interfaces.Repository
	newClient  slack.Factory
	oauth      OAuthConfig
	httpClient *http.Client
	now        func() time.Time
}

// NewInstallUseCase creates a new InstallUseCase instance
func NewInstallUseCase(repo interfaces.Repository, newClient slack.Factory, oauth OAuthConfig, httpClient *http.Client, now func() time.Time) *InstallUseCase {
	if oauth.TokenURL == "" {
		oauth.TokenURL = slackOAuthAccessURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &InstallUseCase{
		repo:       repo,
		newClient:  newClient,
		oauth:      oauth,
		httpClient: httpClient,
		now:        now,
	}
}

// IsEnabled reports whether the Slack app credentials are configured
func (uc *InstallUseCase) IsEnabled() bool {
	return uc.oauth.ClientID != "" && uc.oauth.ClientSecret != ""
}

// InstallURL returns the Slack authorize URL that sends the user back to
// redirectURI.
func (uc *InstallUseCase) InstallURL(redirectURI string) (string, error) {
	if !uc.IsEnabled() {
		return "", ErrOAuthNotConfigured
	}

	params := url.Values{}
	params.Set("client_id", uc.oauth.ClientID)
	params.Set("user_scope", strings.Join(userScopes, ","))
	params.Set("redirect_uri", redirectURI)

	return slackAuthorizeURL + "?" + params.Encode(), nil
}

// HandleCallback exchanges code for a user token, stores the credential and
// the user profile, and returns the overlay URL for the installing user.
func (uc *InstallUseCase) HandleCallback(ctx context.Context, code, redirectURI string) (string, error) {
	if !uc.IsEnabled() {
		return "", ErrOAuthNotConfigured
	}
	if code == "" {
		return "", goerr.Wrap(ErrInvalidCode, "authorization code is required")
	}

	tokenResp, err := uc.exchangeCode(ctx, code, redirectURI)
	if err != nil {
		return "", goerr.Wrap(err, "failed to exchange code for token")
	}
	if !tokenResp.OK {
		return "", goerr.Wrap(ErrInvalidCode, "slack oauth error", goerr.V("error", tokenResp.Error))
	}

	now := uc.now()
	auth := &model.Authorization{
		UserID:        tokenResp.AuthedUser.ID,
		WorkspaceID:   tokenResp.Team.ID,
		WorkspaceName: tokenResp.Team.Name,
		AccessToken:   tokenResp.AuthedUser.AccessToken,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := auth.Validate(); err != nil {
		return "", goerr.Wrap(err, "incomplete oauth response")
	}
	if err := uc.repo.Authorization().Put(ctx, auth); err != nil {
		return "", goerr.Wrap(err, "failed to store authorization", goerr.V("authorization", auth))
	}

	client, err := uc.newClient(auth.AccessToken)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create Slack client")
	}
	info, err := client.GetUserInfo(ctx, auth.UserID)
	if err != nil {
		return "", goerr.Wrap(err, "failed to get installing user", goerr.V(model.UserIDKey, auth.UserID))
	}

	user := &model.User{
		SlackID:   info.ID,
		Name:      info.RealName,
		Email:     info.Email,
		CreatedAt: now,
	}
	if user.Name == "" {
		user.Name = info.Name
	}
	if err := uc.repo.User().Create(ctx, user); err != nil && !errors.Is(err, interfaces.ErrAlreadyExists) {
		return "", goerr.Wrap(err, "failed to store user", goerr.V(model.UserIDKey, user.SlackID))
	}

	logging.From(ctx).Info("workspace installed", "authorization", auth)
	return overlayURLPrefix + url.QueryEscape(auth.UserID), nil
}

// exchangeCode exchanges the authorization code for a user token
func (uc *InstallUseCase) exchangeCode(ctx context.Context, code, redirectURI string) (*oauthV2Response, error) {
	data := url.Values{}
	data.Set("client_id", uc.oauth.ClientID)
	data.Set("client_secret", uc.oauth.ClientSecret)
	data.Set("code", code)
	data.Set("redirect_uri", redirectURI)

	encodedData := data.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uc.oauth.TokenURL, strings.NewReader(encodedData))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.ContentLength = int64(len(encodedData))

	resp, err := uc.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to make token request")
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("unexpected token response", goerr.V("status", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read response body")
	}

	var tokenResp oauthV2Response
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, goerr.Wrap(err, "failed to parse token response")
	}
	return &tokenResp, nil
}
