package httpapi

import "net/http"

// Routes builds the full route table. Method and path parameters use the
// net/http 1.22 mux patterns.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/logout", s.withAuth(s.handleLogout))

	mux.HandleFunc("POST /api/documents", s.withAuth(s.handleSaveDocument))
	mux.HandleFunc("GET /api/documents", s.withAuth(s.handleListDocuments))
	mux.HandleFunc("GET /api/documents/{name}", s.withAuth(s.handleLoadDocument))
	mux.HandleFunc("POST /api/documents/{name}/export", s.withAuth(s.handleExportDocument))

	mux.HandleFunc("GET /api/admin/documents", s.withAdmin(s.handleAdminListDocuments))
	mux.HandleFunc("GET /api/admin/documents/{owner}/{name}", s.withAdmin(s.handleAdminLoadDocument))

	return CORS(s.withLogging(mux))
}
