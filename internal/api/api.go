package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/intrale/platform-sub000/internal/queue"
)

type RouteRegistrar func(mux *http.ServeMux, s *APIServer)

type APIServer struct {
	listenAddr          string
	requestQueueManager *queue.RequestQueueManager
	routeRegistrars     []RouteRegistrar
	metrics             *metrics
	logger              *zap.Logger
}

func NewAPIServer(listenAddr string, rqm *queue.RequestQueueManager, logger *zap.Logger, registrars ...RouteRegistrar) *APIServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIServer{
		listenAddr:          listenAddr,
		requestQueueManager: rqm,
		routeRegistrars:     registrars,
		metrics:             newMetrics(listenAddr, rqm),
		logger:              logger,
	}
}

func (s *APIServer) Run() {
	mux := http.NewServeMux()

	for _, reg := range s.routeRegistrars {
		reg(mux, s)
	}

	mux.Handle("/metrics", s.metrics.metricsHandler())

	s.logger.Info("server listening", zap.String("addr", s.listenAddr))

	if err := http.ListenAndServe(s.listenAddr, s.metrics.instrument(mux)); err != nil {
		s.logger.Error("server stopped", zap.Error(err))
	}
}

func (s *APIServer) Logger() *zap.Logger {
	return s.logger
}
