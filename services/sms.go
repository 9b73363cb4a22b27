package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/hamim5264/devengine/catalog"
	"github.com/hamim5264/devengine/errs"
	"github.com/hamim5264/devengine/models"
)

type SMSConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// SMS sends text messages through Twilio to Bangladeshi mobiles.
type SMS struct {
	from   string
	api    messageCreator
	logger zerolog.Logger
}

func NewSMS(cfg SMSConfig) *SMS {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return newSMS(cfg.FromNumber, client.Api)
}

func newSMS(from string, api messageCreator) *SMS {
	return &SMS{
		from:   from,
		api:    api,
		logger: log.With().Str("service", "twilio").Logger(),
	}
}

// Send delivers body to a local mobile number (01XXXXXXXXX).
func (s *SMS) Send(_ context.Context, mobile, body string) error {
	to, err := catalog.InternationalMobile(mobile)
	if err != nil {
		return errs.NewInvalidFieldError("mobile", "must match 01XXXXXXXXX")
	}
	if s.from == "" {
		return errs.NewConfigMissingError("TWILIO_FROM_NUMBER")
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio create message: %w", err)
	}
	if resp != nil && resp.Sid != nil {
		s.logger.Info().Str("sid", *resp.Sid).Msg("Sent SMS via Twilio")
	}
	return nil
}

// SendPurchaseConfirmation texts the buyer a short receipt.
func (s *SMS) SendPurchaseConfirmation(ctx context.Context, mobile string, p models.Purchase) error {
	body := fmt.Sprintf("DevEngine: payment of %s BDT for %s received. Transaction %s.",
		p.TotalAmount, p.ProjectName, p.TransactionID)
	return s.Send(ctx, mobile, body)
}
