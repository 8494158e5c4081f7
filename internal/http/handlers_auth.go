package http

import (
	"errors"
	"net/http"

	"finance/internal/auth"
	"finance/internal/core"
	"finance/internal/log"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context()).WithComponent(log.ComponentAuth)

	var req registerRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		BadRequestError("Registration failed: " + err.Error()).Write(w)
		return
	}

	session, err := s.auth.Register(r.Context(), req.Email, req.Password, req.FullName)
	switch {
	case errors.Is(err, core.ErrEmailExists):
		logger.InfoContext(r.Context(), "Registration rejected, email taken", log.FieldOperation, log.OpRegister)
		BadRequestError("Email already exists").Write(w)
		return
	case err != nil:
		logger.WarnContext(r.Context(), "Registration failed",
			log.NewFields().WithOperation(log.OpRegister).WithError(err).ToSlice()...)
		BadRequestError("Registration failed: " + err.Error()).Write(w)
		return
	}

	logger.InfoContext(r.Context(), "User registered", log.FieldOperation, log.OpRegister)
	writeSession(w, session)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context()).WithComponent(log.ComponentAuth)

	var req loginRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		BadRequestError("Invalid email or password").Write(w)
		return
	}

	session, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, core.ErrInvalidCredentials) {
			logger.ErrorContext(r.Context(), "Login failed",
				log.NewFields().WithOperation(log.OpLogin).WithError(err).ToSlice()...)
		}
		BadRequestError("Invalid email or password").Write(w)
		return
	}

	logger.DebugContext(r.Context(), "User logged in", log.FieldOperation, log.OpLogin)
	writeSession(w, session)
}

// writeSession returns the session body and mirrors the token in the
// Authorization header, which the CORS policy exposes.
func writeSession(w http.ResponseWriter, session *auth.Session) {
	NewJSONResponse().
		Header("Authorization", "Bearer "+session.Token).
		Payload(session).
		Write(w)
}
