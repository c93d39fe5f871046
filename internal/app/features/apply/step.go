// internal/app/features/apply/step.go
package apply

import (
	"net/http"
	"strings"

	"github.com/dalemusser/hackreg/internal/app/system/drafts"
	"github.com/dalemusser/hackreg/internal/app/system/skills"
	"github.com/dalemusser/hackreg/internal/app/system/wizard"
	"github.com/dalemusser/waffle/pantry/templates"
)

// Form actions posted by the step buttons.
const (
	actionNext   = "next"
	actionPrev   = "prev"
	actionSubmit = "submit"
	actionSave   = "save"
)

// Form fields outside the requirement table.
const (
	fieldSkills      = "skills"
	fieldOtherSkills = "skills_other"
	fieldSkillsShown = "skills_present"
)

func (h *Handler) entry(w http.ResponseWriter, r *http.Request) (*drafts.Entry, bool) {
	key, err := h.Sessions.DraftKey(w, r)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "draft session failed", err, "We could not start your application. Please try again.", "/")
		return nil, false
	}
	return h.Drafts.Get(key), true
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /apply – current step                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeStep(w http.ResponseWriter, r *http.Request) {
	e, ok := h.entry(w, r)
	if !ok {
		return
	}
	h.renderStep(w, r, e.Wizard, "", http.StatusOK)
}

func (h *Handler) renderStep(w http.ResponseWriter, r *http.Request, wz *wizard.Wizard, banner string, status int) {
	vm := h.buildStepVM(r, wz, banner)
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	templates.Render(w, r, "apply_step", vm)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /apply – save the step's fields, then move                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleStep(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/apply")
		return
	}
	e, ok := h.entry(w, r)
	if !ok {
		return
	}
	wz := e.Wizard

	applyForm(wz, h.Catalog, r)

	switch r.PostForm.Get("action") {
	case actionNext:
		wz.Next()
	case actionPrev:
		wz.Previous()
	case actionSubmit:
		h.submit(w, r, e)
		return
	case actionSave, "":
	default:
		h.ErrLog.LogBadRequest(w, r, "unknown wizard action", nil, "Invalid form action.", "/apply")
		return
	}
	http.Redirect(w, r, "/apply", http.StatusSeeOther)
}

// applyForm copies posted values for the current step into the wizard. Only
// values that changed are set, so untouched fields stay free of errors.
func applyForm(wz *wizard.Wizard, catalog *skills.Catalog, r *http.Request) {
	d := wz.Draft()
	for _, req := range wz.Table().ForStep(wz.Step()) {
		vals, posted := r.PostForm[req.Field]
		if !posted {
			continue
		}
		v := ""
		if len(vals) > 0 {
			v = strings.TrimSpace(vals[0])
		}
		if v != d.Value(req.Field) {
			_ = wz.Set(req.Field, v)
		}
	}

	if _, shown := r.PostForm[fieldSkillsShown]; shown {
		tags := append([]string{}, r.PostForm[fieldSkills]...)
		tags = append(tags, skills.Parse(r.PostForm.Get(fieldOtherSkills))...)
		wz.SetSkills(catalog.Normalize(tags))
	}
}
