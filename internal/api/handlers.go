package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/saleslens/listing-optimizer/internal/core/domain"
	coreerrors "github.com/saleslens/listing-optimizer/internal/core/errors"
	"github.com/saleslens/listing-optimizer/internal/observability"
)

type batchRequest struct {
	ASINs []string `json:"asins"`
}

type pagedResponse struct {
	Records    interface{}       `json:"records"`
	Pagination domain.Pagination `json:"pagination"`
}

func (s *Server) handleFetchProduct(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"

	result, err := s.service.FetchProduct(r.Context(), chi.URLParam(r, "asin"), force)
	if err != nil {
		observability.ScrapesTotal.WithLabelValues("error").Inc()
		writeError(w, err)

		return
	}

	observability.ScrapesTotal.WithLabelValues(string(result.Provenance)).Inc()
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleFetchBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed batch body", coreerrors.ErrInvalidRequest))

		return
	}

	items, err := s.service.FetchProductsBatch(r.Context(), req.ASINs)
	if err != nil {
		writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"results": items})
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)

	products, pagination, err := s.service.ListProducts(r.Context(), page, limit)
	if err != nil {
		writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, pagedResponse{Records: products, Pagination: pagination})
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.Optimize(r.Context(), chi.URLParam(r, "asin"))
	if err != nil {
		observability.OptimizationsTotal.WithLabelValues("error").Inc()
		writeError(w, err)

		return
	}

	observability.OptimizationsTotal.WithLabelValues(string(result.Provenance)).Inc()
	observability.OptimizationScore.Observe(float64(result.Optimization.Score))
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleOptimizeBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed batch body", coreerrors.ErrInvalidRequest))

		return
	}

	result, err := s.service.OptimizeBatch(r.Context(), req.ASINs)
	if err != nil {
		writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.Stats(r.Context())
	if err != nil {
		writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	trends, err := s.service.Trends(r.Context(), days)
	if err != nil {
		writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, trends)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)

	entries, pagination, err := s.service.History(r.Context(), chi.URLParam(r, "asin"), page, limit)
	if err != nil {
		writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, pagedResponse{Records: entries, Pagination: pagination})
}

func (s *Server) handleHistoryFiltered(w http.ResponseWriter, r *http.Request) {
	filter, err := historyFilter(r)
	if err != nil {
		writeError(w, err)

		return
	}

	page, limit := pageParams(r)

	entries, pagination, err := s.service.HistoryFiltered(r.Context(), filter, page, limit)
	if err != nil {
		writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, pagedResponse{Records: entries, Pagination: pagination})
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var feedback domain.Feedback
	if err := json.NewDecoder(r.Body).Decode(&feedback); err != nil {
		writeError(w, fmt.Errorf("%w: malformed feedback body", coreerrors.ErrInvalidRequest))

		return
	}

	if err := s.service.SubmitFeedback(r.Context(), chi.URLParam(r, "optimizationID"), feedback); err != nil {
		writeError(w, err)

		return
	}

	observability.FeedbackTotal.WithLabelValues(strconv.Itoa(feedback.Rating)).Inc()
	writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

func pageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	return page, limit
}

func historyFilter(r *http.Request) (domain.HistoryFilter, error) {
	var filter domain.HistoryFilter

	q := r.URL.Query()

	if v := q.Get("startDate"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, fmt.Errorf("%w: bad startDate %q", coreerrors.ErrInvalidRequest, v)
		}

		filter.StartDate = &t
	}

	if v := q.Get("endDate"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, fmt.Errorf("%w: bad endDate %q", coreerrors.ErrInvalidRequest, v)
		}

		filter.EndDate = &t
	}

	if v := q.Get("minScore"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, fmt.Errorf("%w: bad minScore %q", coreerrors.ErrInvalidRequest, v)
		}

		filter.MinScore = &n
	}

	if v := q.Get("maxScore"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, fmt.Errorf("%w: bad maxScore %q", coreerrors.ErrInvalidRequest, v)
		}

		filter.MaxScore = &n
	}

	filter.Model = q.Get("model")

	return filter, nil
}
