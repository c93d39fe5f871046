// internal/app/features/apply/submit.go
package apply

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dalemusser/hackreg/internal/app/system/drafts"
	"github.com/dalemusser/hackreg/internal/app/system/ratelimit"
	"github.com/dalemusser/hackreg/internal/app/system/submission"
	"github.com/dalemusser/hackreg/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type successVM struct {
	viewdata.BaseVM
	FullName        string
	Email           string
	RedirectURL     string
	RedirectSeconds int
}

// landingAfterSubmit is where the success page sends the browser.
const landingAfterSubmit = "/?submitted=1"

func (h *Handler) submit(w http.ResponseWriter, r *http.Request, e *drafts.Entry) {
	if h.Limiter != nil && !h.Limiter.AllowRequest(r) {
		h.ErrLog.LogTooManyRequests(w, r, ratelimit.ClientIP(r),
			"Too many submissions from your network. Please wait a minute and try again.", "/apply")
		return
	}

	conf, err := e.Pipeline.Submit(r.Context(), e.Wizard)
	if err != nil {
		var verr *submission.ValidationError
		switch {
		case errors.As(err, &verr):
			// The wizard now shows the first failing step with its errors.
			http.Redirect(w, r, "/apply", http.StatusSeeOther)
		case errors.Is(err, submission.ErrDuplicateEmail), errors.Is(err, submission.ErrSubmitInProgress):
			h.renderStep(w, r, e.Wizard, submission.UserMessage(err), http.StatusConflict)
		default:
			h.Log.Warn("application submit failed", zap.Error(err))
			h.renderStep(w, r, e.Wizard, submission.UserMessage(err), http.StatusServiceUnavailable)
		}
		return
	}

	secs := int(conf.RedirectAfter.Seconds())
	if secs < 1 {
		secs = 1
	}
	vm := successVM{
		BaseVM:          viewdata.NewBaseVM(r, "Application submitted", "/"),
		FullName:        conf.FullName,
		Email:           conf.Email,
		RedirectURL:     landingAfterSubmit,
		RedirectSeconds: secs,
	}
	vm.MetaRefresh = fmt.Sprintf("%d;url=%s", secs, landingAfterSubmit)
	templates.Render(w, r, "apply_success", vm)
}
