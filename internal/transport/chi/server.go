// Package chi exposes the HTTP surface: the Graph-shaped retrieval endpoint,
// the admin corpus API, health, and metrics.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/graphmesh/retrieval/internal/domain"
	"github.com/graphmesh/retrieval/internal/domain/retrieval/filter"
	"github.com/graphmesh/retrieval/internal/domain/retrieval/request"
	"github.com/graphmesh/retrieval/internal/domain/retrieval/source"
	"github.com/graphmesh/retrieval/internal/metrics"
	healthuc "github.com/graphmesh/retrieval/internal/usecase/health"
	ingestuc "github.com/graphmesh/retrieval/internal/usecase/ingest"
	retrievaluc "github.com/graphmesh/retrieval/internal/usecase/retrieval"
	"github.com/graphmesh/retrieval/pkg/graph"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server carries the usecase services behind the HTTP handlers.
type Server struct {
	retrieval     *retrievaluc.Service
	ingest        *ingestuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	retrieval *retrievaluc.Service,
	ingest *ingestuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		retrieval: retrieval,
		ingest:    ingest,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrDataSourceNotSupported, http.StatusBadRequest, graph.ErrorCodeDataSourceNotSupported),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, graph.ErrorCodeInvalidRequest),
		sentinelHandler(domain.ErrFilterSyntax, http.StatusBadRequest, graph.ErrorCodeInvalidRequest),
		sentinelHandler(domain.ErrResourceNotFound, http.StatusNotFound, graph.ErrorCodeNotFound),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, graph.ErrorCodeTooManyRequests),
		sentinelHandler(domain.ErrEmbeddingProviderError,
			http.StatusServiceUnavailable, graph.ErrorCodeServiceUnavailable),
	}
	return s
}

// Routes registers all endpoints on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/copilot/retrieval", s.Retrieval)

	r.Route("/admin/sources/{dataSource}/resources", func(r chi.Router) {
		r.Get("/", s.ListResources)
		r.Post("/batch", s.BatchUpsertResources)
		r.Put("/{id}", s.UpsertResource)
		r.Get("/{id}", s.GetResource)
		r.Delete("/{id}", s.DeleteResource)
	})

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Retrieval handles POST /copilot/retrieval.
func (s *Server) Retrieval(w http.ResponseWriter, r *http.Request) {
	setDeprecationHeaders(w)

	var req graph.RetrievalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, graph.ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	domReq, err := domainRequest(&req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	ds := string(domReq.DataSource())
	ctx, usage := domain.NewContextWithUsage(r.Context())
	hits, err := s.retrieval.Retrieve(ctx, &domReq)
	if err != nil {
		metrics.RetrievalRequestsTotal.WithLabelValues(ds, "error").Inc()
		s.handleDomainError(w, err)
		return
	}

	metrics.RetrievalRequestsTotal.WithLabelValues(ds, "success").Inc()
	metrics.RetrievalHitsReturned.WithLabelValues(ds).Observe(float64(len(hits)))

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, responseFromHits(hits))
}

// domainRequest validates the wire request into the domain form.
func domainRequest(req *graph.RetrievalRequest) (request.Request, error) {
	var filters filter.Expression
	if req.FilterExpression != nil && *req.FilterExpression != "" {
		parsed, err := filter.Parse(*req.FilterExpression)
		if err != nil {
			return request.Request{}, fmt.Errorf("%w: %w", domain.ErrFilterSyntax, err)
		}
		filters = parsed
	}

	keys := make([]string, 0, len(req.ResourceMetadata))
	for _, k := range req.ResourceMetadata {
		if k != nil && *k != "" {
			keys = append(keys, *k)
		}
	}

	maxResults := 0
	if req.MaximumNumberOfResults != nil {
		maxResults = int(*req.MaximumNumberOfResults)
	}

	return request.New(
		req.QueryString, source.DataSource(req.DataSource), filters, keys, maxResults,
	)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

type healthResponse struct {
	Status string                          `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

// setDeprecationHeaders marks every retrieval response with the action's
// published deprecation metadata.
func setDeprecationHeaders(w http.ResponseWriter) {
	w.Header().Set("Deprecation", graph.DeprecationDate)
	w.Header().Set("Sunset", graph.SunsetDate)
	w.Header().Set("Api-Deprecated-Version", graph.DeprecatedVersionTag)
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	if usage != nil && usage.Used {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code graph.ErrorCode, message string) {
	writeJSON(w, status, graph.ErrorResponse{
		Error: graph.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidRequest,
		domain.ErrFilterSyntax,
		domain.ErrDataSourceNotSupported,
		domain.ErrResourceNotFound,
		domain.ErrRateLimited,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code graph.ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, graph.ErrorCodeGeneralException, "internal error")
}
