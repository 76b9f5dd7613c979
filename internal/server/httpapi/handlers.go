package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mapsketch/mapsketch/internal/common"
	"github.com/mapsketch/mapsketch/internal/server/auth"
	"github.com/mapsketch/mapsketch/internal/server/services"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type saveRequest struct {
	Name    string          `json:"name"`
	GeoJSON json.RawMessage `json:"geojson"`
}

type exportResponse struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// errStatus maps the shared sentinel errors onto HTTP status codes.
func errStatus(err error) int {
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrUnauthenticated),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, common.ErrMalformedDocument):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	status := errStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "internal error", "path", r.URL.Path, "error", err.Error())
		ErrorResponse(w, status, "internal error")
		return
	}
	ErrorResponse(w, status, err.Error())
}

// handleRegister handles POST /api/register.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	s.handleCredentials(w, r, s.users.Register)
}

// handleLogin handles POST /api/login.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.handleCredentials(w, r, s.users.Login)
}

func (s *Server) handleCredentials(w http.ResponseWriter, r *http.Request,
	fn func(ctx context.Context, username, password string) (*services.Session, error)) {

	var req credentialsRequest
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	session, err := fn(r.Context(), req.Username, req.Password)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	JSONResponse(w, http.StatusOK, sessionResponse{
		Token:    session.Token,
		Username: session.Username,
		Role:     session.Role,
	})
}

// handleLogout handles POST /api/logout. Sessions are stateless JWTs with no
// server-side revocation list, so logout only acknowledges; the client
// discards its token.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	s.logger.Info(r.Context(), "user logged out", "username", claims.Username)
	w.WriteHeader(http.StatusNoContent)
}

// handleSaveDocument handles POST /api/documents.
func (s *Server) handleSaveDocument(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	var req saveRequest
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := s.documents.Save(r.Context(), claims.Username, req.Name, req.GeoJSON); err != nil {
		s.serviceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleListDocuments handles GET /api/documents.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	names, err := s.documents.List(r.Context(), claims.Username)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	JSONResponse(w, http.StatusOK, names)
}

// handleLoadDocument handles GET /api/documents/{name}.
func (s *Server) handleLoadDocument(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	s.writePayload(w, r, claims.Username, r.PathValue("name"))
}

// handleExportDocument handles POST /api/documents/{name}/export.
func (s *Server) handleExportDocument(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	name := r.PathValue("name")

	payload, err := s.documents.Load(r.Context(), claims.Username, name)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	key, url, err := s.snapshots.Export(r.Context(), claims.Username, name, payload)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	JSONResponse(w, http.StatusOK, exportResponse{URL: url, Key: key})
}

// handleAdminListDocuments handles GET /api/admin/documents.
func (s *Server) handleAdminListDocuments(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	infos, err := s.documents.ListAll(r.Context())
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	JSONResponse(w, http.StatusOK, infos)
}

// handleAdminLoadDocument handles GET /api/admin/documents/{owner}/{name}.
func (s *Server) handleAdminLoadDocument(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	s.writePayload(w, r, r.PathValue("owner"), r.PathValue("name"))
}

func (s *Server) writePayload(w http.ResponseWriter, r *http.Request, owner, name string) {
	payload, err := s.documents.Load(r.Context(), owner, name)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	JSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
