// Package chi exposes the similarity-search API over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/belinwu/embabel-common/internal/domain"
	"github.com/belinwu/embabel-common/internal/domain/search/request"
	"github.com/belinwu/embabel-common/internal/domain/search/result"
	documentuc "github.com/belinwu/embabel-common/internal/usecase/document"
	healthuc "github.com/belinwu/embabel-common/internal/usecase/health"
	searchuc "github.com/belinwu/embabel-common/internal/usecase/search"
)

// Error codes returned in JSON error responses.
const (
	codeBadRequest    = "bad_request"
	codeUnauthorized  = "unauthorized"
	codeNotFound      = "not_found"
	codeUpstreamError = "upstream_error"
	codeInternalError = "internal_error"
)

// Server holds the HTTP handlers for the search API.
type Server struct {
	search    *searchuc.Service
	documents *documentuc.Service
	health    *healthuc.Service
	logger    *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	documents *documentuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		search:    search,
		documents: documents,
		health:    health,
		logger:    logger,
	}
}

// Routes mounts the API onto a chi router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/v1/search", s.handleSearch)
	r.Put("/v1/documents/{id}", s.handlePutDocument)
	r.Get("/v1/documents/{id}", s.handleGetDocument)
	r.Delete("/v1/documents/{id}", s.handleDeleteDocument)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// --- Search ---

type searchRequest struct {
	Query     string  `json:"query"`
	Threshold float64 `json:"threshold,omitempty"`
	TopK      int     `json:"top_k,omitempty"`
}

type searchHit struct {
	ID      string            `json:"id"`
	Score   float64           `json:"score"`
	Content string            `json:"content"`
	Tags    map[string]string `json:"tags,omitempty"`
}

type searchResponse struct {
	Results []searchHit `json:"results"`
	Count   int         `json:"count"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var body searchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid JSON body")
		return
	}

	req, err := request.New(body.Query, body.Threshold, body.TopK)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	results, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.writeDomainError(w, err, "search failed")
		return
	}

	resp := searchResponse{Results: make([]searchHit, 0, len(results)), Count: len(results)}
	for _, res := range results {
		resp.Results = append(resp.Results, toSearchHit(&res))
	}
	writeJSON(w, http.StatusOK, resp)
}

func toSearchHit(res *result.Result) searchHit {
	return searchHit{
		ID:      res.ID(),
		Score:   res.Score(),
		Content: res.Content(),
		Tags:    res.Tags(),
	}
}

// --- Documents ---

type documentBody struct {
	Content string            `json:"content"`
	Tags    map[string]string `json:"tags,omitempty"`
	Vector  []float32         `json:"vector,omitempty"`
}

func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	var body documentBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid JSON body")
		return
	}

	doc := domain.Document{
		ID:      chi.URLParam(r, "id"),
		Content: body.Content,
		Tags:    body.Tags,
		Vector:  body.Vector,
	}
	if err := s.documents.Put(r.Context(), doc); err != nil {
		s.writeDomainError(w, err, "store document failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.documents.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err, "get document failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":      doc.ID,
		"content": doc.Content,
		"tags":    doc.Tags,
	})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.documents.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeDomainError(w, err, "delete document failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Health ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// --- Error mapping ---

func (s *Server) writeDomainError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidDocument),
		errors.Is(err, domain.ErrVectorDimMismatch):
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
	case errors.Is(err, domain.ErrEmbeddingProviderError):
		writeError(w, http.StatusBadGateway, codeUpstreamError, err.Error())
	default:
		s.logger.Error(msg, zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
