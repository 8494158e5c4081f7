package http

import (
	"errors"
	"fmt"
	"net/http"

	"finance/internal/auth"
	"finance/internal/core"
	"finance/internal/log"
)

// fail writes the error response for a failed operation. Ownership
// violations are 403; every other failure, including a missing principal
// or an unknown id, is reported as 400 "Failed to <op>: <detail>".
func (s *Server) fail(w http.ResponseWriter, r *http.Request, component, op string, err error) {
	fields := log.NewFields().WithOperation(op).WithError(err)
	if user := auth.PrincipalFrom(r.Context()); user != nil {
		fields.WithUser(user.ID)
	}
	logger := log.FromContext(r.Context()).WithComponent(component)

	if errors.Is(err, core.ErrForbidden) {
		logger.WarnContext(r.Context(), "Ownership check failed", fields.ToSlice()...)
		ForbiddenError("Unauthorized").Write(w)
		return
	}

	logger.WarnContext(r.Context(), "Request failed", fields.ToSlice()...)
	BadRequestError(fmt.Sprintf("Failed to %s: %s", op, err)).Write(w)
}

func writeJSON(w http.ResponseWriter, v any) {
	NewJSONResponse().Payload(v).Write(w)
}

func writeMessage(w http.ResponseWriter, msg string) {
	NewJSONResponse().Message(msg).Write(w)
}
