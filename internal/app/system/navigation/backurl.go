// Package navigation provides helpers for safe URL navigation and redirects.
package navigation

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
)

// BackURLOptions configures the behavior of SafeBackURL.
type BackURLOptions struct {
	// AllowedPrefix is the required URL prefix (e.g., "/admin").
	// If empty, any safe local URL is allowed.
	AllowedPrefix string

	// ExcludedSubpaths are prefixes to reject (e.g., "/admin/login").
	// These prevent redirect loops back to action pages.
	ExcludedSubpaths []string

	// Fallback is the default URL if no valid return URL is found.
	Fallback string
}

// AdminBackURL keeps post-login redirects inside the admin area.
var AdminBackURL = BackURLOptions{
	AllowedPrefix:    "/admin",
	ExcludedSubpaths: []string{"/admin/login", "/admin/logout"},
	Fallback:         "/admin",
}

// SafeBackURL extracts and validates a return URL from the request.
//
// It checks the "return" query parameter first, then the form value.
func SafeBackURL(r *http.Request, opts BackURLOptions) string {
	ret := query.Get(r, "return")
	if ret == "" {
		ret = strings.TrimSpace(r.FormValue("return"))
	}
	return Safe(ret, opts)
}

// Safe returns ret when it is a local path that satisfies opts, otherwise
// opts.Fallback. Absolute and scheme-relative URLs are never accepted.
func Safe(ret string, opts BackURLOptions) string {
	ret = strings.TrimSpace(ret)
	if !isLocalPath(ret) {
		return opts.Fallback
	}
	if opts.AllowedPrefix != "" && !hasPathPrefix(ret, opts.AllowedPrefix) {
		return opts.Fallback
	}
	for _, excluded := range opts.ExcludedSubpaths {
		if hasPathPrefix(ret, excluded) {
			return opts.Fallback
		}
	}
	return ret
}

func isLocalPath(s string) bool {
	if !strings.HasPrefix(s, "/") || strings.Contains(s, "//") || strings.Contains(s, `\`) {
		return false
	}
	return !strings.ContainsAny(s, "\r\n")
}

// hasPathPrefix reports whether p equals prefix or continues it at a
// segment, query or fragment boundary, so "/adminx" does not match "/admin".
func hasPathPrefix(p, prefix string) bool {
	if !strings.HasPrefix(p, prefix) {
		return false
	}
	if len(p) == len(prefix) {
		return true
	}
	switch p[len(prefix)] {
	case '/', '?', '#':
		return true
	}
	return false
}
