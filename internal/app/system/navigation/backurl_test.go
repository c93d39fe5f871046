package navigation

import (
	"net/http/httptest"
	"testing"
)

func TestSafe_Admin(t *testing.T) {
	tests := map[string]string{
		"":                       "/admin",
		"/admin":                 "/admin",
		"/admin?q=ada&skill=Go":  "/admin?q=ada&skill=Go",
		"/admin/applicants/abc":  "/admin/applicants/abc",
		"/admin/login":           "/admin",
		"/admin/login?return=/x": "/admin",
		"/adminx":                "/admin",
		"/apply":                 "/admin",
		"//evil.example/admin":   "/admin",
		"/admin//evil":           "/admin",
		"https://evil.example":   "/admin",
		`/admin\evil`:            "/admin",
	}
	for in, want := range tests {
		if got := Safe(in, AdminBackURL); got != want {
			t.Errorf("Safe(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSafe_NoPrefix(t *testing.T) {
	opts := BackURLOptions{Fallback: "/"}
	if got := Safe("/apply", opts); got != "/apply" {
		t.Errorf("got %q, want /apply", got)
	}
	if got := Safe("apply", opts); got != "/" {
		t.Errorf("got %q, want /", got)
	}
}

func TestSafeBackURL_FormValue(t *testing.T) {
	req := httptest.NewRequest("POST", "/admin/login", nil)
	req.Form = map[string][]string{"return": {"/admin?team=individual"}}
	if got := SafeBackURL(req, AdminBackURL); got != "/admin?team=individual" {
		t.Errorf("got %q", got)
	}
}
