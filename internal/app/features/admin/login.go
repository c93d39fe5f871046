// internal/app/features/admin/login.go
package admin

import (
	"net/http"

	"github.com/dalemusser/hackreg/internal/app/system/navigation"
	"github.com/dalemusser/hackreg/internal/app/system/ratelimit"
	"github.com/dalemusser/hackreg/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type loginVM struct {
	viewdata.BaseVM
	Return  string
	Error   string
	Enabled bool
}

// safeReturn keeps post-login redirects inside the admin area.
func safeReturn(ret string) string {
	return navigation.Safe(ret, navigation.AdminBackURL)
}

// ServeLogin renders the admin key form.
// GET /admin/login
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if h.Cap.Granted(r) {
		http.Redirect(w, r, safeReturn(r.URL.Query().Get("return")), http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, r.URL.Query().Get("return"), "", http.StatusOK)
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, ret, msg string, status int) {
	vm := loginVM{
		BaseVM:  viewdata.NewBaseVM(r, "Admin sign in", "/"),
		Return:  safeReturn(ret),
		Error:   msg,
		Enabled: h.Cap.Enabled(),
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	templates.Render(w, r, "admin_login", vm)
}

// HandleLogin checks the admin key and grants the admin cookie.
// POST /admin/login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/admin/login")
		return
	}
	ret := r.PostForm.Get("return")

	ip := ratelimit.ClientIP(r)
	if h.Limiter != nil && !h.Limiter.Allow(ip) {
		h.Log.Warn("admin login rate limited", zap.String("ip", ip))
		h.renderLogin(w, r, ret, "Too many attempts. Please wait a minute before trying again.", http.StatusTooManyRequests)
		return
	}

	if err := h.Cap.Check(r.PostForm.Get("admin_key")); err != nil {
		h.Log.Warn("admin login failed", zap.String("ip", ip), zap.Error(err))
		h.renderLogin(w, r, ret, "That key is not valid.", http.StatusUnauthorized)
		return
	}

	if err := h.Cap.Grant(w); err != nil {
		h.ErrLog.LogServerError(w, r, "grant admin cookie failed", err, "Could not sign you in.", "/admin/login")
		return
	}
	if h.Limiter != nil {
		h.Limiter.Reset(ip)
	}
	h.Log.Info("admin signed in", zap.String("ip", ip))
	http.Redirect(w, r, safeReturn(ret), http.StatusSeeOther)
}

// HandleLogout revokes the admin cookie.
// POST /admin/logout
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.Cap.Revoke(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
