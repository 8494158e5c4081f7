package http

import (
	"net/http"

	"finance/internal/core"
	"finance/internal/log"
)

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	const op = "create expense"
	var in core.Expense
	if err := DecodeJSON(w, r, &in); err != nil {
		s.fail(w, r, log.ComponentExpense, op, err)
		return
	}
	e, err := s.expenses.Create(r.Context(), &in)
	if err != nil {
		s.fail(w, r, log.ComponentExpense, op, err)
		return
	}
	writeJSON(w, e)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	list, err := s.expenses.List(r.Context())
	if err != nil {
		s.fail(w, r, log.ComponentExpense, "fetch expenses", err)
		return
	}
	writeJSON(w, list)
}

func (s *Server) handleExpensesByCategory(w http.ResponseWriter, r *http.Request) {
	list, err := s.expenses.ListByCategory(r.Context(), r.PathValue("category"))
	if err != nil {
		s.fail(w, r, log.ComponentExpense, "fetch expenses", err)
		return
	}
	writeJSON(w, list)
}

func (s *Server) handleExpensesByDateRange(w http.ResponseWriter, r *http.Request) {
	const op = "fetch expenses"
	from, to, err := ParseDateRange(r.URL.Query())
	if err != nil {
		s.fail(w, r, log.ComponentExpense, op, err)
		return
	}
	list, err := s.expenses.ListBetween(r.Context(), from, to)
	if err != nil {
		s.fail(w, r, log.ComponentExpense, op, err)
		return
	}
	writeJSON(w, list)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	const op = "update expense"
	id, err := PathID(r)
	if err != nil {
		s.fail(w, r, log.ComponentExpense, op, err)
		return
	}
	var patch core.Expense
	if err := DecodeJSON(w, r, &patch); err != nil {
		s.fail(w, r, log.ComponentExpense, op, err)
		return
	}
	e, err := s.expenses.Update(r.Context(), id, &patch)
	if err != nil {
		s.fail(w, r, log.ComponentExpense, op, err)
		return
	}
	writeJSON(w, e)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	const op = "delete expense"
	id, err := PathID(r)
	if err != nil {
		s.fail(w, r, log.ComponentExpense, op, err)
		return
	}
	if err := s.expenses.Delete(r.Context(), id); err != nil {
		s.fail(w, r, log.ComponentExpense, op, err)
		return
	}
	writeMessage(w, "Expense deleted successfully")
}
