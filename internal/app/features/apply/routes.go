// internal/app/features/apply/routes.go
package apply

import "github.com/go-chi/chi/v5"

// Routes returns the /apply subrouter.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeStep)
	r.Post("/", h.HandleStep)
	r.Post("/validate", h.HandleValidate)
	r.Post("/team", h.HandleTeam)
	return r
}
