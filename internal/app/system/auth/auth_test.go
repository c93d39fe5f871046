package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/hackreg/internal/app/system/auth"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testKey = "test-session-key-must-be-32-chars-long"

func newTestSessions(t *testing.T) *auth.Sessions {
	t.Helper()
	s, err := auth.NewSessions(testKey, "test-session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create sessions: %v", err)
	}
	return s
}

func newTestCapability(t *testing.T, adminKey string) *auth.Capability {
	t.Helper()
	hash := ""
	if adminKey != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(adminKey), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("bcrypt failed: %v", err)
		}
		hash = string(h)
	}
	c, err := auth.NewCapability(hash, testKey, false)
	if err != nil {
		t.Fatalf("NewCapability failed: %v", err)
	}
	return c
}

func carry(req *http.Request, rec *httptest.ResponseRecorder) {
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
}

func TestNewSessions_EmptyKey(t *testing.T) {
	if _, err := auth.NewSessions("", "x", "", false, zap.NewNop()); err == nil {
		t.Error("expected error for empty session key")
	}
}

func TestDraftKey_StableAcrossRequests(t *testing.T) {
	s := newTestSessions(t)

	req := httptest.NewRequest("GET", "/apply", nil)
	rec := httptest.NewRecorder()
	first, err := s.DraftKey(rec, req)
	if err != nil {
		t.Fatalf("DraftKey failed: %v", err)
	}
	if first == "" {
		t.Fatal("expected a draft key")
	}

	req2 := httptest.NewRequest("GET", "/apply", nil)
	carry(req2, rec)
	rec2 := httptest.NewRecorder()
	second, err := s.DraftKey(rec2, req2)
	if err != nil {
		t.Fatalf("DraftKey failed: %v", err)
	}
	if second != first {
		t.Errorf("draft key changed: %q then %q", first, second)
	}
	if got, ok := s.PeekDraftKey(req2); !ok || got != first {
		t.Errorf("PeekDraftKey = %q, %v", got, ok)
	}
}

func TestDraftKey_DistinctVisitors(t *testing.T) {
	s := newTestSessions(t)
	a, _ := s.DraftKey(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	b, _ := s.DraftKey(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	if a == b {
		t.Error("two cookieless visitors received the same draft key")
	}
}

func TestPeekDraftKey_NoCookie(t *testing.T) {
	s := newTestSessions(t)
	if _, ok := s.PeekDraftKey(httptest.NewRequest("GET", "/", nil)); ok {
		t.Error("expected no draft key without cookie")
	}
}

func TestCapability_Check(t *testing.T) {
	c := newTestCapability(t, "open-sesame")
	if err := c.Check("open-sesame"); err != nil {
		t.Errorf("Check(correct) = %v", err)
	}
	if err := c.Check("wrong"); err == nil {
		t.Error("Check(wrong) should fail")
	}

	disabled := newTestCapability(t, "")
	if disabled.Enabled() {
		t.Error("capability without hash should be disabled")
	}
	if err := disabled.Check(""); err != auth.ErrAdminDisabled {
		t.Errorf("Check on disabled = %v, want ErrAdminDisabled", err)
	}
}

func TestNewCapability_RejectsNonBcryptHash(t *testing.T) {
	if _, err := auth.NewCapability("plaintext", testKey, false); err == nil {
		t.Error("expected error for non-bcrypt hash")
	}
}

func TestRequireAdmin(t *testing.T) {
	c := newTestCapability(t, "open-sesame")
	handler := c.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("html redirects to login", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin?skill=Go", nil)
		req.Header.Set("Accept", "text/html")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("expected %d, got %d", http.StatusSeeOther, rec.Code)
		}
		if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/admin/login?return=") {
			t.Errorf("unexpected Location %q", loc)
		}
	})

	t.Run("api gets 401", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin/export.csv", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("htmx gets HX-Redirect", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("HX-Request", "true")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Header().Get("HX-Redirect") == "" {
			t.Error("expected HX-Redirect header")
		}
	})

	t.Run("granted cookie passes", func(t *testing.T) {
		grant := httptest.NewRecorder()
		if err := c.Grant(grant); err != nil {
			t.Fatalf("Grant failed: %v", err)
		}
		req := httptest.NewRequest("GET", "/admin", nil)
		carry(req, grant)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("forged cookie rejected", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin", nil)
		req.AddCookie(&http.Cookie{Name: auth.AdminCookieName, Value: "forged"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code == http.StatusOK {
			t.Error("forged cookie should not grant access")
		}
	})
}
