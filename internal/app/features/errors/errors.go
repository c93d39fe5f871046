// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/hackreg/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// pageData is the basic view model for error pages.
type pageData struct {
	viewdata.BaseVM
	Status  int
	Message string
}

// Handler is the errors feature handler.
// No store needed; it just renders templates.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// NotFound renders a friendly "page not found" page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	renderError(w, r, http.StatusNotFound, "Page not found", "We couldn't find that page.", "/")
}

// RenderNotFound shows a 404 page with msg.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	renderError(w, r, http.StatusNotFound, "Not found", msg, backURL)
}

// Forbidden renders the page shown when a form post fails its CSRF check.
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	renderError(w, r, http.StatusForbidden, "Form expired", "This form has expired. Please reload the page and try again.", "/")
}

// Unauthorized renders a friendly "admin key required" page.
// GET /unauthorized
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	renderError(w, r, http.StatusUnauthorized, "Sign in required", "Please enter the admin key to continue.", "/admin/login")
}

func renderError(w http.ResponseWriter, r *http.Request, status int, title, msg, backURL string) {
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, title, backURL),
		Status:  status,
		Message: msg,
	}
	if backURL != "" {
		data.BackURL = backURL
	}
	w.WriteHeader(status)
	templates.Render(w, r, "error_page", data)
}

// ErrorLogger logs handler failures and renders a friendly page for the user.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger creates an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

// LogServerError logs err with msg and renders a 500 page showing userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.Log.Error(msg, zap.Error(err), zap.String("path", r.URL.Path), zap.String("method", r.Method))
	renderError(w, r, http.StatusInternalServerError, "Something went wrong", userMsg, backURL)
}

// LogBadRequest logs err with msg and renders a 400 page showing userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.Log.Warn(msg, zap.Error(err), zap.String("path", r.URL.Path), zap.String("method", r.Method))
	renderError(w, r, http.StatusBadRequest, "Invalid request", userMsg, backURL)
}

// LogTooManyRequests logs a rate-limit rejection and renders a 429 page.
func (e *ErrorLogger) LogTooManyRequests(w http.ResponseWriter, r *http.Request, key, userMsg, backURL string) {
	e.Log.Warn("rate limited", zap.String("key", key), zap.String("path", r.URL.Path))
	w.Header().Set("Retry-After", "60")
	renderError(w, r, http.StatusTooManyRequests, "Slow down", userMsg, backURL)
}
