// Package notify sends the applicant confirmation message.
//
// A Gateway turns a stored application into a confirmation email and hands
// it to a mailer.Sender. Delivery is best-effort: callers run Notify in the
// background and only log its result.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/dalemusser/hackreg/internal/app/system/mailer"
	"github.com/dalemusser/hackreg/internal/domain/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Transport names accepted by NewSender.
const (
	TransportSMTP = "smtp"
	TransportSES  = "ses"
	TransportLog  = "log"
)

// Transports lists every supported transport.
var Transports = []string{TransportSMTP, TransportSES, TransportLog}

var sentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "hackreg_notifications_total",
	Help: "Confirmation emails attempted, by result.",
}, []string{"result"})

// Gateway delivers confirmation messages.
type Gateway struct {
	sender    mailer.Sender
	eventName string
	log       *zap.Logger
}

func New(sender mailer.Sender, eventName string, logger *zap.Logger) *Gateway {
	return &Gateway{sender: sender, eventName: eventName, log: logger}
}

// Notify sends the confirmation for app.
func (g *Gateway) Notify(ctx context.Context, app models.Application) error {
	e := mailer.BuildConfirmationEmail(g.eventName, app)
	if err := g.sender.Send(ctx, e); err != nil {
		sentTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("notify %s: %w", app.ID, err)
	}
	sentTotal.WithLabelValues("sent").Inc()
	return nil
}

// SenderConfig selects and configures a transport.
type SenderConfig struct {
	Transport string
	SMTP      mailer.Config
	SESRegion string
}

// NewSender builds the mailer.Sender for cfg.Transport.
func NewSender(ctx context.Context, cfg SenderConfig, logger *zap.Logger) (mailer.Sender, error) {
	switch strings.ToLower(cfg.Transport) {
	case TransportSMTP:
		return mailer.New(cfg.SMTP, logger), nil
	case TransportSES:
		return mailer.NewSESSender(ctx, cfg.SESRegion, cfg.SMTP.From, cfg.SMTP.FromName, logger)
	case TransportLog, "":
		return mailer.NewLogSender(logger), nil
	default:
		return nil, fmt.Errorf("unknown notify transport %q (want one of %s)", cfg.Transport, strings.Join(Transports, ", "))
	}
}
