package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/authvault/internal/common"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userPayload is the externally visible account summary. The password hash
// is deliberately unrepresentable here.
type userPayload struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type authResponse struct {
	User  userPayload `json:"user"`
	Token string      `json:"token"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps the error taxonomy onto status codes. Client-fault
// outcomes carry the (generic) reason; server faults are logged with detail
// and answered with a generic message only.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		writeError(w, http.StatusConflict, "email already registered")
	case errors.Is(err, common.ErrorUnauthorized):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrorUnavailable):
		s.logger.Error(r.Context(), "store unavailable", "request_id", RequestID(r.Context()), "error", err)
		writeError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
	default:
		s.logger.Error(r.Context(), "request failed", "request_id", RequestID(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, token, err := s.accounts.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	created := account.CreatedAt
	writeJSON(w, http.StatusCreated, authResponse{
		User:  userPayload{ID: account.ID, Name: account.Name, Email: account.Email, CreatedAt: &created},
		Token: token,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	account, token, err := s.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		User:  userPayload{ID: account.ID, Name: account.Name, Email: account.Email},
		Token: token,
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := AccountID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	account, err := s.accounts.Profile(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	created := account.CreatedAt
	writeJSON(w, http.StatusOK, userPayload{
		ID: account.ID, Name: account.Name, Email: account.Email, CreatedAt: &created,
	})
}

// handleLogout is advisory: token verification is stateless, so the server
// has nothing to revoke. The client is told to discard its token.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out, discard your token"})
}

func (s *Server) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := AccountID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	if err := s.accounts.Deactivate(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleHealth reports liveness and store connectivity. An unreachable store
// degrades the report but does not fail it.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok", "database": "ok"}
	if err := s.pool.Probe(r.Context()); err != nil {
		resp["status"] = "degraded"
		resp["database"] = "unreachable"
	}
	writeJSON(w, http.StatusOK, resp)
}
