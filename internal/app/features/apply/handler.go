// internal/app/features/apply/handler.go
package apply

import (
	uierrors "github.com/dalemusser/hackreg/internal/app/features/errors"
	"github.com/dalemusser/hackreg/internal/app/system/auth"
	"github.com/dalemusser/hackreg/internal/app/system/drafts"
	"github.com/dalemusser/hackreg/internal/app/system/ratelimit"
	"github.com/dalemusser/hackreg/internal/app/system/skills"
	"go.uber.org/zap"
)

// Handler serves the application wizard.
type Handler struct {
	Drafts   *drafts.Registry
	Sessions *auth.Sessions
	Catalog  *skills.Catalog
	Limiter  *ratelimit.Limiter
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

// NewHandler wires the wizard handler. limiter may be nil to disable submit
// rate limiting.
func NewHandler(reg *drafts.Registry, sess *auth.Sessions, catalog *skills.Catalog, limiter *ratelimit.Limiter, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Drafts:   reg,
		Sessions: sess,
		Catalog:  catalog,
		Limiter:  limiter,
		ErrLog:   errLog,
		Log:      logger,
	}
}
