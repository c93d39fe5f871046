// internal/app/features/admin/handler.go
package admin

import (
	"context"
	"time"

	uierrors "github.com/dalemusser/hackreg/internal/app/features/errors"
	"github.com/dalemusser/hackreg/internal/app/system/auth"
	"github.com/dalemusser/hackreg/internal/app/system/ratelimit"
	"github.com/dalemusser/hackreg/internal/domain/models"
	"go.uber.org/zap"
)

// Store is the read side of the applicant store the dashboard uses.
type Store interface {
	ListAll(ctx context.Context) ([]models.Application, error)
	GetByID(ctx context.Context, id string) (models.Application, error)
}

// Handler serves the admin dashboard. Every route except login requires the
// admin capability.
type Handler struct {
	Store     Store
	Cap       *auth.Capability
	Limiter   *ratelimit.Limiter
	EventName string
	ErrLog    *uierrors.ErrorLogger
	Log       *zap.Logger

	now func() time.Time
}

// NewHandler wires the admin handler. loginLimiter may be nil.
func NewHandler(store Store, capability *auth.Capability, loginLimiter *ratelimit.Limiter, eventName string, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:     store,
		Cap:       capability,
		Limiter:   loginLimiter,
		EventName: eventName,
		ErrLog:    errLog,
		Log:       logger,
		now:       time.Now,
	}
}
