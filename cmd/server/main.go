package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Simplici0/payout/internal/config"
	"github.com/Simplici0/payout/internal/db"
	"github.com/Simplici0/payout/internal/logging"
	"github.com/Simplici0/payout/internal/migrations"
	"github.com/Simplici0/payout/internal/pricing"
	"github.com/Simplici0/payout/internal/ratecard"
	"github.com/Simplici0/payout/internal/seed"
	"github.com/Simplici0/payout/internal/storage"
	"github.com/Simplici0/payout/internal/validate"
)

type server struct {
	auth      *authService
	calc      *pricing.Calculator
	rateCard  *ratecard.Store
	rateCards *storage.RateCardRepository
	buffers   *storage.BufferRepository
	quotes    *storage.QuoteRepository
	validate  *validate.Validator
	sanitize  *bluemonday.Policy
	logger    *zap.Logger

	loginLimiter *rate.Limiter
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(database.DB, logging.NewPrintfAdapter(logger)); err != nil {
			logger.Fatal("failed to run database migrations", zap.Error(err))
		}
	}

	stats, err := seed.Run(database, seed.Config{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
		MarkupEnabled: cfg.MarkupEnabled,
	})
	if err != nil {
		logger.Fatal("failed to seed database", zap.Error(err))
	}
	logger.Info("seed complete", zap.Int("inserts", stats.Inserts), zap.Int("updates", stats.Updates))

	srv, err := newServer(context.Background(), database, cfg.SessionSecret, logger)
	if err != nil {
		logger.Fatal("failed to initialise server", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newServer wires repositories and loads the stored rate card into memory.
func newServer(ctx context.Context, database *sqlx.DB, sessionSecret string, logger *zap.Logger) (*server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	rateCards := storage.NewRateCardRepository(database)
	table, err := rateCards.Load(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("rate card loaded", zap.Bool("enabled", table.Enabled), zap.Int("rules", len(table.Rules)))

	return &server{
		auth:         newAuthService(storage.NewUserRepository(database), sessionSecret),
		calc:         pricing.NewCalculator(nil),
		rateCard:     ratecard.NewStore(table),
		rateCards:    rateCards,
		buffers:      storage.NewBufferRepository(database),
		quotes:       storage.NewQuoteRepository(database),
		validate:     validate.New(),
		sanitize:     bluemonday.StrictPolicy(),
		logger:       logger,
		loginLimiter: rate.NewLimiter(rate.Every(time.Second), 5),
	}, nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/api/health", s.handleHealth)
	r.Post("/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Post("/logout", s.handleLogout)

		r.Post("/api/forward", s.handleForward)
		r.Post("/api/quotes", s.handleQuoteCreate)
		r.Get("/api/quotes", s.handleQuotesList)
		r.Get("/api/quotes/{id}", s.handleQuoteDetail)
		r.Get("/quotes/{id}/text", s.handleQuoteText)
		r.Post("/api/batch", s.handleBatch)
		r.Get("/api/batch/template", s.handleBatchTemplate)
		r.Get("/api/buffers", s.handleBuffersGet)
		r.Get("/api/rate-card", s.handleRateCardGet)

		r.Route("/admin", func(r chi.Router) {
			r.Put("/buffers", s.handleBuffersUpdate)
			r.Put("/rate-card", s.handleRateCardReplace)
			r.Post("/rate-card/enabled", s.handleRateCardEnabled)
			r.Delete("/rate-card", s.handleRateCardClear)
		})
	})

	return r
}

func (s *server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isAuthenticated(r, s.auth) {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isAuthenticated(r *http.Request, auth *authService) bool {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return false
	}

	_, ok := auth.parseSession(cookie.Value)
	return ok
}
