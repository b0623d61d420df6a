package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"expensetracker/internal/core"
	"expensetracker/internal/tracker"
)

type expenseRequest struct {
	ID          string   `json:"id"`
	Amount      *float64 `json:"amount"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
}

type categoryRequest struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	BudgetLimit   float64 `json:"budget_limit"`
	MonthlyBudget float64 `json:"monthly_budget"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "expense tracker",
		"status":  "running",
		"endpoints": []string{
			"/healthz", "/readyz",
			"/expenses", "/expenses/{id}", "/expenses/filter",
			"/categories", "/categories/{name}",
			"/statistics", "/statistics/{name}",
		},
	})
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, core.NewError(core.KindFormat, "invalid request body: %v", err))
		return
	}
	if req.Amount == nil {
		writeError(w, core.NewError(core.KindValidation, "amount is required"))
		return
	}

	var date core.Date
	if req.Date != "" {
		parsed, err := core.ParseDate(req.Date)
		if err != nil {
			writeError(w, err)
			return
		}
		date = parsed
	}

	e, err := s.tracker.AddExpense(r.Context(), *req.Amount, req.Category, req.Description, date, req.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	s.invalidateStatistics()
	writeJSON(w, http.StatusCreated, e.ToMap())
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	e, err := s.tracker.GetExpense(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e.ToMap())
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var updates map[string]any
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		writeError(w, core.NewError(core.KindFormat, "invalid request body: %v", err))
		return
	}

	e, err := s.tracker.UpdateExpense(r.Context(), r.PathValue("id"), updates)
	if err != nil {
		writeError(w, err)
		return
	}

	s.invalidateStatistics()
	writeJSON(w, http.StatusOK, e.ToMap())
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.tracker.DeleteExpense(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	s.invalidateStatistics()
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.tracker.ListExpenses(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenseMaps(expenses))
}

func (s *Server) handleFilterExpenses(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	expenses, err := s.tracker.FilterExpenses(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenseMaps(expenses))
}

func filterFromQuery(r *http.Request) (tracker.Filter, error) {
	q := r.URL.Query()
	filter := tracker.Filter{Category: strings.TrimSpace(q.Get("category"))}

	if v := strings.TrimSpace(q.Get("start_date")); v != "" {
		date, err := core.ParseDate(v)
		if err != nil {
			return tracker.Filter{}, err
		}
		filter.From = &date
	}
	if v := strings.TrimSpace(q.Get("end_date")); v != "" {
		date, err := core.ParseDate(v)
		if err != nil {
			return tracker.Filter{}, err
		}
		filter.To = &date
	}
	if v := strings.TrimSpace(q.Get("min_amount")); v != "" {
		amount, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return tracker.Filter{}, core.NewError(core.KindFormat, "invalid min_amount %q", v)
		}
		filter.MinAmount = &amount
	}
	if v := strings.TrimSpace(q.Get("max_amount")); v != "" {
		amount, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return tracker.Filter{}, core.NewError(core.KindFormat, "invalid max_amount %q", v)
		}
		filter.MaxAmount = &amount
	}

	return filter, nil
}

func expenseMaps(expenses []core.Expense) []map[string]any {
	out := make([]map[string]any, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, e.ToMap())
	}
	return out
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	names, err := s.tracker.Categories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, core.NewError(core.KindFormat, "invalid request body: %v", err))
		return
	}

	c, err := s.tracker.AddCategory(r.Context(), req.Name, req.Description, req.BudgetLimit, req.MonthlyBudget)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c.ToMap())
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := s.tracker.DeleteCategory(r.Context(), name); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": name})
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	if cached, found := s.statsCache.Get(statisticsCacheKey); found {
		slog.DebugContext(r.Context(), "Statistics cache hit")
		writeJSON(w, http.StatusOK, cached)
		return
	}

	results, err := s.tracker.Statistics(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	s.statsCache.Set(statisticsCacheKey, results)
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleStatistic(w http.ResponseWriter, r *http.Request) {
	value, err := s.tracker.Statistic(r.Context(), r.PathValue("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"name": r.PathValue("name"), "value": value})
}
