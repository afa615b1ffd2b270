package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/avelichko/inkwell-auth/internal/server/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type authorResponse struct {
	ID    int64       `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

type loginResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	Author       authorResponse `json:"author"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type logoutResponse struct {
	Success bool `json:"success"`
}

type sessionResponse struct {
	ID        string    `json:"id"`
	AuthorID  int64     `json:"author_id"`
	Revoked   bool      `json:"revoked"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleLogin exchanges email/password for a token pair and a public
// profile. All authentication failures share one 401 response; internal
// faults are logged but answer the same way, leaking nothing.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.logger.Warn(r.Context(), "login rejected", "error", err.Error())
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		Author: authorResponse{
			ID:    result.Author.ID,
			Name:  result.Author.Name,
			Email: result.Author.Email,
			Role:  result.Author.Role,
		},
	})
}

// handleRefresh rotates a refresh token. Any validity failure answers with
// the same 403; the caller cannot tell expired from revoked from forged.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	pair, err := s.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeMessage(w, http.StatusForbidden, "Invalid refresh token")
		return
	}

	writeJSON(w, http.StatusOK, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// handleLogout always reports success, whatever was posted.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
		s.auth.Logout(r.Context(), req.RefreshToken)
	}
	writeJSON(w, http.StatusOK, logoutResponse{Success: true})
}

// handleMe answers with the profile carried by the verified access token.
// No store lookup: the token is the only source.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	id, err := claims.AuthorID()
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, authorResponse{
		ID:    id,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  claims.Role,
	})
}

// handleSessions lists an author's refresh-token records (admin only,
// enforced by the route middleware).
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	authorID, err := strconv.ParseInt(r.URL.Query().Get("author_id"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid author_id")
		return
	}

	tokens, err := s.auth.Sessions(r.Context(), authorID)
	if err != nil {
		s.logger.Error(r.Context(), "listing sessions failed", "error", err.Error())
		writeMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}

	sessions := make([]sessionResponse, 0, len(tokens))
	for _, t := range tokens {
		sessions = append(sessions, sessionResponse{
			ID:        t.ID,
			AuthorID:  t.AuthorID,
			Revoked:   t.Revoked,
			ExpiresAt: t.ExpiresAt,
			CreatedAt: t.CreatedAt,
			UpdatedAt: t.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, sessions)
}
