package mailer

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"
)

// sesAPI is the part of *ses.Client SESSender uses.
type sesAPI interface {
	SendEmail(ctx context.Context, in *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESSender sends email through the Amazon SES API.
type SESSender struct {
	client sesAPI
	source string
	log    *zap.Logger
}

// NewSESSender loads the default AWS credential chain for region.
func NewSESSender(ctx context.Context, region, from, fromName string, logger *zap.Logger) (*SESSender, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return newSESSender(ses.NewFromConfig(cfg), from, fromName, logger), nil
}

func newSESSender(client sesAPI, from, fromName string, logger *zap.Logger) *SESSender {
	return &SESSender{
		client: client,
		source: (&mail.Address{Name: fromName, Address: from}).String(),
		log:    logger,
	}
}

func (s *SESSender) Send(ctx context.Context, e Email) error {
	if e.To == "" {
		return ErrNoRecipient
	}
	body := &types.Body{Text: &types.Content{Data: aws.String(e.TextBody), Charset: aws.String("UTF-8")}}
	if e.HTMLBody != "" {
		body.Html = &types.Content{Data: aws.String(e.HTMLBody), Charset: aws.String("UTF-8")}
	}

	out, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(s.source),
		Destination: &types.Destination{ToAddresses: []string{e.To}},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(e.Subject), Charset: aws.String("UTF-8")},
			Body:    body,
		},
	})
	if err != nil {
		return fmt.Errorf("ses send: %w", err)
	}
	s.log.Debug("email sent",
		zap.String("transport", "ses"),
		zap.String("message_id", aws.ToString(out.MessageId)))
	return nil
}
