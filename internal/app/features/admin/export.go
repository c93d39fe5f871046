// internal/app/features/admin/export.go
package admin

import (
	"net/http"

	"github.com/dalemusser/hackreg/internal/app/system/applicantquery"
	"go.uber.org/zap"
)

// ServeExport downloads the currently filtered applicants as CSV.
// GET /admin/export.csv
func (h *Handler) ServeExport(w http.ResponseWriter, r *http.Request) {
	all, err := h.loadAll(r.Context())
	if err != nil {
		h.ErrLog.LogServerError(w, r, "export applicants failed", err, "Could not load applications.", "/admin")
		return
	}
	crit, filterErr := criteriaFrom(r.URL.Query())
	if filterErr != "" {
		h.ErrLog.LogBadRequest(w, r, "invalid export filter", nil, filterErr, "/admin")
		return
	}
	rows := applicantquery.Filter(all, crit)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+applicantquery.ExportFilename(h.now())+`"`)
	if err := applicantquery.Export(w, rows); err != nil {
		// Headers are already sent; all we can do is log.
		h.Log.Error("write export failed", zap.Error(err))
		return
	}
	h.Log.Info("applicants exported", zap.Int("rows", len(rows)))
}
