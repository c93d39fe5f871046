// internal/app/features/admin/routes.go
package admin

import "github.com/go-chi/chi/v5"

// Routes returns the /admin subrouter.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/login", h.ServeLogin)
	r.Post("/login", h.HandleLogin)
	r.Post("/logout", h.HandleLogout)

	r.Group(func(pr chi.Router) {
		pr.Use(h.Cap.RequireAdmin)
		pr.Get("/", h.ServeDashboard)
		pr.Get("/export.csv", h.ServeExport)
		pr.Get("/applicants/{id}", h.ServeDetail)
	})
	return r
}
