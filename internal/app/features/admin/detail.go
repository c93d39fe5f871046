// internal/app/features/admin/detail.go
package admin

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/hackreg/internal/app/features/errors"
	applicantstore "github.com/dalemusser/hackreg/internal/app/store/applicants"
	"github.com/dalemusser/hackreg/internal/app/system/timeouts"
	"github.com/dalemusser/hackreg/internal/app/system/viewdata"
	"github.com/dalemusser/hackreg/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
)

type detailVM struct {
	viewdata.BaseVM
	App                 models.Application
	TrackLabel          string
	TeamPreferenceLabel string
	TeamMembers         []string
	CreatedAt           string
	MailtoURL           string
}

// ServeDetail shows one application in full.
// GET /admin/applicants/{id}
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Store())
	defer cancel()
	app, err := h.Store.GetByID(ctx, id)
	if errors.Is(err, applicantstore.ErrNotFound) {
		uierrors.RenderNotFound(w, r, "No application with that id.", "/admin")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load applicant failed", err, "Could not load the application.", "/admin")
		return
	}

	templates.Render(w, r, "admin_detail", detailVM{
		BaseVM:              viewdata.NewBaseVM(r, app.FullName, "/admin"),
		App:                 app,
		TrackLabel:          models.TrackLabel(app.Track),
		TeamPreferenceLabel: models.TeamPreferenceLabel(app.TeamPreference),
		TeamMembers:         app.ListedTeamMembers(),
		CreatedAt:           app.CreatedAt.Format("2006-01-02 15:04 MST"),
		MailtoURL:           h.mailto(app),
	})
}
