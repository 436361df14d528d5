package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/minimundos-dashboard/services/api/config"
	"github.com/02loveslollipop/minimundos-dashboard/services/api/db"
	"github.com/02loveslollipop/minimundos-dashboard/services/api/logging"
)

// PatientLister is the read side of the patient repository.
type PatientLister interface {
	ListPatients(ctx context.Context) ([]db.Patient, error)
}

// Server bundles router and dependencies for the REST API.
type Server struct {
	cfg     config.Config
	store   PatientLister
	engine  *gin.Engine
	log     *slog.Logger
	metrics *Metrics
}

// New constructs a server with routes and middleware. The gin mode is left
// to the caller.
func New(cfg config.Config, store PatientLister, log *slog.Logger) (*Server, error) {
	log = logging.Module(log, "http")

	engine := gin.New()
	// both "/x" and "/x/" are registered explicitly
	engine.RedirectTrailingSlash = false
	engine.Use(gin.Recovery())

	server := &Server{cfg: cfg, store: store, engine: engine, log: log}
	if cfg.MetricsEnabled {
		m, err := NewMetrics()
		if err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		server.metrics = m
		// ahead of CORS so aborted preflights are counted too
		engine.Use(m.Middleware())
	}
	engine.Use(requestIDMiddleware())
	engine.Use(requestLogger(log))
	engine.Use(corsMiddleware(cfg.CORSAllowOrigin))

	server.registerRoutes()
	return server, nil
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.ListenAddr(),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	s.log.Info("REST API listening", slog.String("addr", srv.Addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.metrics != nil {
		s.engine.GET("/metrics", s.metrics.Handler())
	}

	energia := s.engine.Group("/api/energia")
	{
		getWithSlash(energia, "rendimento", s.handleRendimento)
		getWithSlash(energia, "correlacao", s.handleCorrelacaoEnergia)
		getWithSlash(energia, "dados", s.handleDados)
	}

	saude := s.engine.Group("/api/saude")
	{
		getWithSlash(saude, "correlacao-variaveis", s.handleCorrelacaoVariaveis)
		getWithSlash(saude, "dispersao-colesterol-pressao", s.handleDispersao)
		getWithSlash(saude, "mapa-calor-correlacao", s.handleMapaCalor)
	}
}

func getWithSlash(g *gin.RouterGroup, path string, h gin.HandlerFunc) {
	path = strings.Trim(path, "/")
	g.GET(path+"/", h)
	g.GET(path, h)
}
