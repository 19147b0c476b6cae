package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"trackmaster/internal/core"
)

const defaultReportDays = 30

type summaryResponse struct {
	Totals     core.Totals           `json:"totals"`
	Total      float64               `json:"total"`
	Categories []core.CategoryAmount `json:"categories"`
}

func reportDays(r *http.Request) int {
	days := defaultReportDays
	if v := r.URL.Query().Get("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 365 {
			days = n
		}
	}
	return days
}

// cachedReport serves the cached bytes for key, or builds, caches and serves
// them. Build errors pass through to writeError.
func (s *Server) cachedReport(w http.ResponseWriter, r *http.Request, key, contentType string, build func() ([]byte, error)) {
	if data, ok := s.reportCache.Get(key); ok {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	data, err := build()
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	s.reportCache.Set(key, data)
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleReportSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	s.cachedReport(w, r, userID+":summary", "application/json", func() ([]byte, error) {
		expenses, err := s.tracker.Expenses(r.Context(), userID)
		if err != nil {
			return nil, err
		}
		return json.Marshal(summaryResponse{
			Totals:     core.Summarize(expenses, time.Now()),
			Total:      core.TotalAmount(expenses),
			Categories: core.CategoryTotals(expenses),
		})
	})
}

func (s *Server) handleReportDaily(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	days := reportDays(r)

	s.cachedReport(w, r, fmt.Sprintf("%s:daily:%d", userID, days), "application/json", func() ([]byte, error) {
		expenses, err := s.tracker.Expenses(r.Context(), userID)
		if err != nil {
			return nil, err
		}
		return json.Marshal(core.DailySeries(expenses, time.Now(), days))
	})
}

func (s *Server) handleCategoryChart(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	s.cachedReport(w, r, userID+":chart:categories", "image/png", func() ([]byte, error) {
		expenses, err := s.tracker.Expenses(r.Context(), userID)
		if err != nil {
			return nil, err
		}
		png, err := s.charts.CategoryBarChart(core.CategoryTotals(expenses))
		if err != nil {
			return nil, err
		}
		if png == nil {
			return nil, errNoChartData
		}
		return png, nil
	})
}

func (s *Server) handleDailyChart(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	days := reportDays(r)

	s.cachedReport(w, r, fmt.Sprintf("%s:chart:daily:%d", userID, days), "image/png", func() ([]byte, error) {
		expenses, err := s.tracker.Expenses(r.Context(), userID)
		if err != nil {
			return nil, err
		}
		png, err := s.charts.DailyLineChart(core.DailySeries(expenses, time.Now(), days))
		if err != nil {
			return nil, err
		}
		if png == nil {
			return nil, errNoChartData
		}
		return png, nil
	})
}
