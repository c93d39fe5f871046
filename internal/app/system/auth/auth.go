// Package auth manages the visitor session cookie and the admin capability.
//
// Applicants are anonymous: their session cookie only carries an opaque draft
// key. Admin access is a capability granted by presenting the admin key,
// remembered in a separate signed cookie.
package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session constants                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	DefaultSessionName = "hackreg-session"

	draftKey = "draft_id"
)

// Sessions wraps the cookie store that carries each visitor's draft key.
type Sessions struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewSessions creates the session store using the provided session key and
// domain. The `secure` flag controls whether cookies are marked Secure and
// which SameSite mode is used.
//
// In local dev over http://localhost, use secure=false so cookies are accepted.
func NewSessions(sessionKey, name, domain string, secure bool, logger *zap.Logger) (*Sessions, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if name == "" {
		name = DefaultSessionName
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	logger.Info("session store initialized",
		zap.String("name", name),
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &Sessions{store: store, name: name, log: logger}, nil
}

// DraftKey returns the visitor's draft key, issuing a new one (and writing the
// cookie) on first visit or when the cookie cannot be decoded.
func (s *Sessions) DraftKey(w http.ResponseWriter, r *http.Request) (string, error) {
	sess, err := s.store.Get(r, s.name)
	if err != nil {
		// Tampered or rotated-key cookie: Get still returns a fresh session.
		s.log.Debug("discarding unreadable session cookie", zap.Error(err))
	}
	if id, ok := sess.Values[draftKey].(string); ok && id != "" {
		return id, nil
	}
	id := uuid.NewString()
	sess.Values[draftKey] = id
	if err := sess.Save(r, w); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return id, nil
}

// PeekDraftKey returns the draft key without issuing one.
func (s *Sessions) PeekDraftKey(r *http.Request) (string, bool) {
	sess, err := s.store.Get(r, s.name)
	if err != nil {
		return "", false
	}
	id, ok := sess.Values[draftKey].(string)
	return id, ok && id != ""
}

// helpers

func wantsHTML(r *http.Request) bool {
	// Very light heuristic: treat it as HTML if it's HTMX or Accepts text/html.
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html")
}

func currentURI(r *http.Request) string {
	// Preserve path + query as a return param.
	u := *r.URL
	return u.RequestURI()
}
