// internal/app/system/auth/admin.go
package auth

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/securecookie"
	"golang.org/x/crypto/bcrypt"
)

const (
	AdminCookieName = "hackreg-admin"
	adminMaxAge     = 12 * time.Hour
	adminLoginPath  = "/admin/login"
)

// ErrAdminDisabled is returned when no admin key hash is configured.
var ErrAdminDisabled = errors.New("admin access is not configured")

// Capability grants access to the admin surface. It is constructed from the
// configured bcrypt hash of the admin key and passed to the admin handlers.
type Capability struct {
	hash   []byte
	cookie *securecookie.SecureCookie
	secure bool
}

type adminClaim struct {
	IssuedAt int64
}

// NewCapability builds the admin capability. An empty hash disables admin
// access entirely. hashKey signs the admin cookie.
func NewCapability(bcryptHash, hashKey string, secure bool) (*Capability, error) {
	if bcryptHash != "" {
		if _, err := bcrypt.Cost([]byte(bcryptHash)); err != nil {
			return nil, err
		}
	}
	sc := securecookie.New([]byte(hashKey), nil)
	sc.MaxAge(int(adminMaxAge / time.Second))
	return &Capability{hash: []byte(bcryptHash), cookie: sc, secure: secure}, nil
}

// Enabled reports whether an admin key is configured.
func (c *Capability) Enabled() bool { return len(c.hash) > 0 }

// Check compares key against the configured hash.
func (c *Capability) Check(key string) error {
	if !c.Enabled() {
		return ErrAdminDisabled
	}
	return bcrypt.CompareHashAndPassword(c.hash, []byte(key))
}

// Grant writes the signed admin cookie.
func (c *Capability) Grant(w http.ResponseWriter) error {
	v, err := c.cookie.Encode(AdminCookieName, adminClaim{IssuedAt: time.Now().Unix()})
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     AdminCookieName,
		Value:    v,
		Path:     "/admin",
		MaxAge:   int(adminMaxAge / time.Second),
		Secure:   c.secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	return nil
}

// Revoke clears the admin cookie.
func (c *Capability) Revoke(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AdminCookieName,
		Value:    "",
		Path:     "/admin",
		MaxAge:   -1,
		Secure:   c.secure,
		HttpOnly: true,
	})
}

// Granted reports whether r carries a valid admin cookie.
func (c *Capability) Granted(r *http.Request) bool {
	if !c.Enabled() {
		return false
	}
	ck, err := r.Cookie(AdminCookieName)
	if err != nil {
		return false
	}
	var claim adminClaim
	if err := c.cookie.Decode(AdminCookieName, ck.Value, &claim); err != nil {
		return false
	}
	return claim.IssuedAt > 0
}

// RequireAdmin ensures the request carries the admin capability.
// If not:
//   - HTMX: sends HX-Redirect to /admin/login?return=...
//   - HTML: 303 redirect to /admin/login?return=...
//   - API:  401 Unauthorized with a plain error body.
func (c *Capability) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c.Granted(r) {
			next.ServeHTTP(w, r)
			return
		}

		ret := url.QueryEscape(currentURI(r))

		if r.Header.Get("HX-Request") == "true" {
			w.Header().Set("HX-Redirect", adminLoginPath+"?return="+ret)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		if wantsHTML(r) {
			http.Redirect(w, r, adminLoginPath+"?return="+ret, http.StatusSeeOther)
			return
		}

		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})
}
