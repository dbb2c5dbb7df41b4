package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/mentiondeck/pkg/usecase"
	"github.com/secmon-lab/mentiondeck/pkg/utils/logging"
)

type Server struct {
	router  *chi.Mux
	uc      *usecase.UseCases
	baseURL string
}

type Options func(*Server)

// WithBaseURL sets the public URL used to build the OAuth redirect URI. When
// empty, it is derived from the request host.
func WithBaseURL(baseURL string) Options {
	return func(s *Server) {
		s.baseURL = baseURL
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)
	r.Use(allowAnyOrigin)

	r.Get("/health", healthHandler)

	// Install flow
	r.Get("/install", installHandler(uc.Install, s.redirectURI))
	r.Get("/oauth/redirect", oauthRedirectHandler(uc.Install, s.redirectURI))

	// Mentions
	r.Route("/my-mentions/{userID}", func(r chi.Router) {
		r.Get("/", listMentionsHandler(uc.Mention))
		r.Post("/refresh", refreshMentionsHandler(uc.Mention))
	})
	r.Post("/mentions/{ts}/hide", hideMentionHandler(uc.Mention))

	// Users
	r.Post("/user", createUserHandler(uc.User))
	r.Get("/user/{slackID}", getUserHandler(uc.User))

	// Bot token features
	r.Post("/assign-first-messages", assignFirstMessagesHandler(uc.FirstMessage))
	r.Get("/first-messages", listFirstMessagesHandler(uc.FirstMessage))
	r.Get("/latest-message", latestMessageHandler(uc.FirstMessage))

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// redirectURI is where Slack sends the user back after approving the app
func (s *Server) redirectURI(r *http.Request) string {
	base := s.baseURL
	if base == "" {
		base = "https://" + r.Host
	}
	return base + "/oauth/redirect"
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.From(r.Context()).Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}
