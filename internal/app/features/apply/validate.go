// internal/app/features/apply/validate.go
package apply

import (
	"net/http"
	"strings"

	"github.com/dalemusser/hackreg/internal/app/system/wizard"
	"github.com/dalemusser/waffle/pantry/templates"
)

type fieldErrorVM struct {
	Field   string
	Message string
}

// triggerField picks the field to validate. HTMX posts the whole enclosing
// form, so the triggering input is named by HX-Trigger-Name; without it the
// request must carry exactly one known field.
func triggerField(r *http.Request, wz *wizard.Wizard) string {
	if name := strings.TrimSpace(r.Header.Get("HX-Trigger-Name")); name != "" {
		if _, known := wz.Table().Lookup(name); known {
			if _, posted := r.PostForm[name]; posted {
				return name
			}
		}
		return ""
	}
	field := ""
	for name := range r.PostForm {
		if _, known := wz.Table().Lookup(name); !known {
			continue
		}
		if field != "" {
			return ""
		}
		field = name
	}
	return field
}

// HandleValidate is the live (per keystroke / blur) validation endpoint.
// The response is the triggering field's error snippet, empty when the
// value is valid.
//
// POST /apply/validate
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/apply")
		return
	}
	e, ok := h.entry(w, r)
	if !ok {
		return
	}

	field := triggerField(r, e.Wizard)
	if field == "" {
		http.Error(w, "unknown field", http.StatusBadRequest)
		return
	}
	if err := e.Wizard.Set(field, r.PostForm.Get(field)); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	templates.RenderSnippet(w, "apply_field_error", fieldErrorVM{
		Field:   field,
		Message: e.Wizard.Errors()[field],
	})
}

// HandleTeam stores a changed team preference and re-renders the team
// member fieldset, so the member inputs appear or disappear without a save.
//
// POST /apply/team
func (h *Handler) HandleTeam(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/apply")
		return
	}
	e, ok := h.entry(w, r)
	if !ok {
		return
	}

	pref := strings.TrimSpace(r.PostForm.Get(wizard.FieldTeamPreference))
	if pref != e.Wizard.Draft().TeamPreference {
		if err := e.Wizard.Set(wizard.FieldTeamPreference, pref); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	templates.RenderSnippet(w, "apply_team_members", h.buildStepVM(r, e.Wizard, ""))
}
