package http

import (
	"net/http"

	"finance/internal/core"
	"finance/internal/log"
)

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	const op = "create budget"
	var in core.Budget
	if err := DecodeJSON(w, r, &in); err != nil {
		s.fail(w, r, log.ComponentBudget, op, err)
		return
	}
	b, err := s.budgets.Create(r.Context(), &in)
	if err != nil {
		s.fail(w, r, log.ComponentBudget, op, err)
		return
	}
	writeJSON(w, b)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	list, err := s.budgets.List(r.Context())
	if err != nil {
		s.fail(w, r, log.ComponentBudget, "fetch budgets", err)
		return
	}
	writeJSON(w, list)
}

func (s *Server) handleBudgetsByPeriod(w http.ResponseWriter, r *http.Request) {
	const op = "fetch budgets"
	month, year, err := ParsePeriod(r.PathValue("month"), r.PathValue("year"))
	if err != nil {
		s.fail(w, r, log.ComponentBudget, op, err)
		return
	}
	list, err := s.budgets.ListByPeriod(r.Context(), month, year)
	if err != nil {
		s.fail(w, r, log.ComponentBudget, op, err)
		return
	}
	writeJSON(w, list)
}

func (s *Server) handleBudgetProgress(w http.ResponseWriter, r *http.Request) {
	const op = "calculate budget progress"
	query := r.URL.Query()
	month, year, err := ParsePeriod(query.Get("month"), query.Get("year"))
	if err != nil {
		s.fail(w, r, log.ComponentBudget, op, err)
		return
	}
	items, err := s.budgets.Progress(r.Context(), month, year)
	if err != nil {
		s.fail(w, r, log.ComponentBudget, op, err)
		return
	}
	writeJSON(w, items)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	const op = "update budget"
	id, err := PathID(r)
	if err != nil {
		s.fail(w, r, log.ComponentBudget, op, err)
		return
	}
	var patch core.Budget
	if err := DecodeJSON(w, r, &patch); err != nil {
		s.fail(w, r, log.ComponentBudget, op, err)
		return
	}
	b, err := s.budgets.Update(r.Context(), id, &patch)
	if err != nil {
		s.fail(w, r, log.ComponentBudget, op, err)
		return
	}
	writeJSON(w, b)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	const op = "delete budget"
	id, err := PathID(r)
	if err != nil {
		s.fail(w, r, log.ComponentBudget, op, err)
		return
	}
	if err := s.budgets.Delete(r.Context(), id); err != nil {
		s.fail(w, r, log.ComponentBudget, op, err)
		return
	}
	writeMessage(w, "Budget deleted successfully")
}
