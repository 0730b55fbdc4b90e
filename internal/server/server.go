// Package server exposes the showcase over HTTP with gin.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/emcasacomcecilia/vitrine/internal/feed"
	"github.com/emcasacomcecilia/vitrine/internal/models"
	"github.com/emcasacomcecilia/vitrine/internal/render"
	"github.com/emcasacomcecilia/vitrine/internal/state"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// Snapshotter gives access to the loaded datasets.
type Snapshotter interface {
	Snapshot() state.Snapshot
}

// PriceHistory reads the price statistics shown in the promotion popup.
type PriceHistory interface {
	PriceStats(ctx context.Context, key string) (models.PriceStats, error)
}

// Config holds the HTTP settings.
type Config struct {
	Addr      string
	Window    time.Duration
	PageSize  int
	BaseURL   string
	PublicDir string
}

// Server serves the showcase pages, fragments and the JSON API.
type Server struct {
	log     *slog.Logger
	cfg     Config
	store   Snapshotter
	history PriceHistory
	engine  *gin.Engine
	now     func() time.Time
}

// New builds the server and its routes. history may be nil.
func New(log *slog.Logger, cfg Config, store Snapshotter, history PriceHistory, renderer *render.Renderer) *Server {
	if cfg.Window <= 0 {
		cfg.Window = feed.DefaultWindow
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(log))
	engine.SetHTMLTemplate(renderer.Template())

	s := &Server{
		log:     log,
		cfg:     cfg,
		store:   store,
		history: history,
		engine:  engine,
		now:     time.Now,
	}

	s.registerRoutes()

	return s
}

// Handler returns the HTTP handler with every route.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves HTTP until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	const opn = "server.Run"

	log := s.log.With("op", opn)

	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		log.InfoContext(ctx, "HTTP server is listening", "addr", s.cfg.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("%s: failed to serve: %w", opn, err)
		}

		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("%s: failed to shut down: %w", opn, err)
	}

	log.InfoContext(ctx, "HTTP server stopped")

	return nil
}

func (s *Server) registerRoutes() {
	s.engine.GET("/", s.indexHandler)
	s.engine.GET(render.PromoPageEndpoint, s.promoPageHandler)
	s.engine.GET("/promocoes/:id", s.promoPopupHandler)

	api := s.engine.Group("/api")
	api.GET("/produtos", s.productsAPIHandler)
	api.GET("/promocoes", s.promotionsAPIHandler)

	s.engine.GET("/healthz", s.healthHandler)
	s.engine.StaticFS("/static", render.Static())

	if s.cfg.PublicDir != "" {
		s.engine.Static("/images", filepath.Join(s.cfg.PublicDir, "images"))
	}
}

func (s *Server) options() render.Options {
	return render.Options{
		Now:      s.now(),
		Window:   s.cfg.Window,
		PageSize: s.cfg.PageSize,
		BaseURL:  s.cfg.BaseURL,
	}
}

// stats returns the price history of an offer, or zero stats when unavailable.
func (s *Server) stats(ctx context.Context, promo models.Promotion) models.PriceStats {
	if s.history == nil || promo.IsCoupon() {
		return models.PriceStats{}
	}

	stats, err := s.history.PriceStats(ctx, promo.HistoryKey())
	if err != nil {
		s.log.WarnContext(ctx, "failed to read price history", "op", "server.stats", "id", promo.ID, "error", err)

		return models.PriceStats{}
	}

	return stats
}

// requestLogger logs every request through slog.
func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log.DebugContext(c.Request.Context(), "HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
