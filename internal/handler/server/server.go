package server

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/bagdasarian/leadpipe/internal/handler"
)

type Server struct {
	handler *handler.Handler
	server  *http.Server
	logger  *zap.Logger
}

// NewServer собирает маршруты, метрики и middleware. db нужен только для
// метрик пула соединений и может быть nil.
func NewServer(h *handler.Handler, addr string, db *sql.DB, logger *zap.Logger) *Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if db != nil {
		reg.MustRegister(collectors.NewDBStatsCollector(db, "leadpipe"))
	}
	metrics := handler.NewMetrics(reg)

	mux := http.NewServeMux()
	SetupRoutes(mux, h, reg)

	var root http.Handler = mux
	root = handler.Recoverer(logger)(root)
	root = handler.RequestLogger(logger)(root)
	root = metrics.Middleware(root)

	return &Server{
		handler: h,
		logger:  logger,
		server: &http.Server{
			Addr:    addr,
			Handler: root,
		},
	}
}

// Handler нужен тестам, которые гоняют запросы через httptest
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start() error {
	s.logger.Info("server starting", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
