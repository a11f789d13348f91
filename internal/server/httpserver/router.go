package httpserver

import "net/http"

// router wires the facade routes. Everything under /api requires a bearer
// token identifying the profile owner.
func (s *HTTPServer) router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	api := http.NewServeMux()

	// snapshots
	api.HandleFunc("GET /api/snapshots", s.handleListSnapshots)
	api.HandleFunc("POST /api/snapshots", s.handleCreateSnapshot)
	api.HandleFunc("POST /api/snapshots/{id}/restore", s.handleRestoreSnapshot)
	api.HandleFunc("PATCH /api/snapshots/{id}", s.handleRenameSnapshot)
	api.HandleFunc("DELETE /api/snapshots/{id}", s.handleDeleteSnapshot)

	// recycle bin
	api.HandleFunc("GET /api/trash/{kind}", s.handleListDeleted)
	api.HandleFunc("POST /api/trash/{kind}/{id}/restore", s.handleRestoreDeleted)
	api.HandleFunc("DELETE /api/trash/{kind}/{id}", s.handlePurgeDeleted)

	// risky document operations
	api.HandleFunc("POST /api/journey/import", s.handleImport)
	api.HandleFunc("POST /api/journey/bulk-delete", s.handleBulkDelete)

	mux.Handle("/api/", s.withAuth(s.withRequestLog(api)))

	return mux
}
