package http

import (
	"net/http"

	"finance/internal/core"
	"finance/internal/log"
)

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	const op = "create income"
	var in core.Income
	if err := DecodeJSON(w, r, &in); err != nil {
		s.fail(w, r, log.ComponentIncome, op, err)
		return
	}
	income, err := s.incomes.Create(r.Context(), &in)
	if err != nil {
		s.fail(w, r, log.ComponentIncome, op, err)
		return
	}
	writeJSON(w, income)
}

func (s *Server) handleListIncomes(w http.ResponseWriter, r *http.Request) {
	list, err := s.incomes.List(r.Context())
	if err != nil {
		s.fail(w, r, log.ComponentIncome, "fetch incomes", err)
		return
	}
	writeJSON(w, list)
}

func (s *Server) handleIncomesByDateRange(w http.ResponseWriter, r *http.Request) {
	const op = "fetch incomes"
	from, to, err := ParseDateRange(r.URL.Query())
	if err != nil {
		s.fail(w, r, log.ComponentIncome, op, err)
		return
	}
	list, err := s.incomes.ListBetween(r.Context(), from, to)
	if err != nil {
		s.fail(w, r, log.ComponentIncome, op, err)
		return
	}
	writeJSON(w, list)
}

func (s *Server) handleIncomesByRecurring(w http.ResponseWriter, r *http.Request) {
	const op = "fetch incomes"
	recurring, err := ParseRecurring(r.URL.Query())
	if err != nil {
		s.fail(w, r, log.ComponentIncome, op, err)
		return
	}
	list, err := s.incomes.ListByRecurring(r.Context(), recurring)
	if err != nil {
		s.fail(w, r, log.ComponentIncome, op, err)
		return
	}
	writeJSON(w, list)
}

func (s *Server) handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
	const op = "update income"
	id, err := PathID(r)
	if err != nil {
		s.fail(w, r, log.ComponentIncome, op, err)
		return
	}
	var patch core.Income
	if err := DecodeJSON(w, r, &patch); err != nil {
		s.fail(w, r, log.ComponentIncome, op, err)
		return
	}
	income, err := s.incomes.Update(r.Context(), id, &patch)
	if err != nil {
		s.fail(w, r, log.ComponentIncome, op, err)
		return
	}
	writeJSON(w, income)
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	const op = "delete income"
	id, err := PathID(r)
	if err != nil {
		s.fail(w, r, log.ComponentIncome, op, err)
		return
	}
	if err := s.incomes.Delete(r.Context(), id); err != nil {
		s.fail(w, r, log.ComponentIncome, op, err)
		return
	}
	writeMessage(w, "Income deleted successfully")
}
