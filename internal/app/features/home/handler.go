package home

import (
	"net/http"

	"github.com/dalemusser/hackreg/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Handler holds dependencies needed to serve the landing page.
type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{
		Log: logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	data := struct {
		viewdata.BaseVM
		Submitted bool
	}{
		BaseVM:    viewdata.NewBaseVM(r, "Welcome", "/"),
		Submitted: r.URL.Query().Get("submitted") == "1",
	}

	templates.Render(w, r, "home", data)
}
