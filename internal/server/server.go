package server

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	sentryzerolog "github.com/getsentry/sentry-go/zerolog"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"go.uber.org/fx"

	"sweetconsole/internal/components/auth"
	"sweetconsole/internal/components/dashboard"
	"sweetconsole/internal/components/shop"
	"sweetconsole/internal/shared/config"
)

type (
	// Server is the console's HTTP front end with all dependencies
	Server struct {
		server       *http.Server
		config       *config.Config
		logger       zerolog.Logger
		sessions     *auth.Service
		sentryWriter *sentryzerolog.Writer
	}

	params struct {
		fx.In

		Config       *config.Config
		Logger       zerolog.Logger
		SentryWriter *sentryzerolog.Writer
		Sessions     *auth.Service
		Health       http.HandlerFunc

		Auth      *auth.Router
		Shop      *shop.Router
		Dashboard *dashboard.Router
	}

	homeData struct {
		Authenticated bool
		Email         string
	}
)

func NewServer(p params) *Server {
	r := chi.NewRouter()

	if p.Config.IsEnvProd() {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              p.Config.SentryDSN,
			Environment:      p.Config.Environment,
			Release:          p.Config.Version,
			AttachStacktrace: true,
			EnableTracing:    true,
			TracesSampler: sentry.TracesSampler(func(ctx sentry.SamplingContext) float64 {
				if ctx.Span.Name == "GET /health" {
					return 0.0
				}
				return 1.0
			}),
		})
		if err != nil {
			p.Logger.Error().Err(err).Msg("Failed to initialize Sentry")
		} else {
			p.Logger.Debug().Str("environment", p.Config.Environment).Msg("Sentry initialized")
		}

		sentryHandler := sentryhttp.New(sentryhttp.Options{})

		// Recover only in prod
		r.Use(sentryHandler.Handle)
	}

	// Middleware
	r.Use(hlog.NewHandler(p.Logger))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("url", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("HTTP request")
	}))
	r.Use(hlog.RequestIDHandler("req_id", "Request-Id"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	srv := &Server{
		config:       p.Config,
		logger:       p.Logger,
		sessions:     p.Sessions,
		sentryWriter: p.SentryWriter,
	}

	// Routes
	r.Get("/health", p.Health)
	r.Get("/", srv.home)

	r.Get("/login", p.Auth.LoginPage)
	r.Post("/login", p.Auth.HandleLogin)
	r.Get("/register", p.Auth.RegisterPage)
	r.Post("/register", p.Auth.HandleRegister)
	r.Post("/logout", p.Auth.HandleLogout)

	r.Mount("/shop", p.Shop.Routes())
	r.Mount("/dashboard", p.Dashboard.Routes())

	srv.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", p.Config.Port),
		Handler: r,
	}
	return srv
}

func (s *Server) home(w http.ResponseWriter, req *http.Request) {
	logger := hlog.FromRequest(req)

	data := homeData{Authenticated: s.sessions.IsAuthenticated()}
	if user := s.sessions.CurrentUser(); user != nil {
		data.Email = user.Email
	}

	tmpl, err := template.ParseFiles("templates/home.html")
	if err != nil {
		logger.Error().Err(err).Msg("Failed to parse home template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if err := tmpl.Execute(w, data); err != nil {
		logger.Error().Err(err).Msg("Failed to execute home template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (s *Server) Start(lc fx.Lifecycle) {
	lc.Append(fx.Hook{
		OnStart: s.start,
		OnStop:  s.stop,
	})
}

// start starts the HTTP server
func (s *Server) start(_ context.Context) error {
	s.logger.Info().
		Str("addr", s.server.Addr).
		Str("environment", s.config.Environment).
		Str("api_base_url", s.config.APIBaseURL).
		Bool("sentry_enabled", s.config.IsEnvProd()).
		Msg("Starting HTTP server")
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("Server failed to start")
		}
	}()

	s.logger.Info().Msg("HTTP server started")
	return nil
}

// stop gracefully shuts down the HTTP server
func (s *Server) stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	s.logger.Info().Msg("Shutting down HTTP server...")

	if s.config.IsEnvProd() {
		s.logger.Info().Msg("Flushing Sentry client and writer")
		if s.sentryWriter != nil {
			s.sentryWriter.Close()
		}
		sentry.Flush(2 * time.Second)
	}

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error during server shutdown")
		return err
	}

	s.logger.Info().Msg("HTTP server shutdown completed")
	return nil
}
