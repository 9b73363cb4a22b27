package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hamim5264/devengine/errs"
	"github.com/hamim5264/devengine/models"
)

type receiptMailer interface {
	SendPurchaseReceipt(ctx context.Context, p models.Purchase) error
}

type purchaseTexter interface {
	SendPurchaseConfirmation(ctx context.Context, mobile string, p models.Purchase) error
}

// PurchaseNotifier tells a buyer their payment went through. Either channel may be nil.
type PurchaseNotifier struct {
	Mail receiptMailer
	SMS  purchaseTexter
}

// NotifyPurchase sends the email receipt and, when mobile is set, the SMS
// confirmation. Every configured channel is attempted even if an earlier one
// fails; the returned error lists each failed channel.
func (n PurchaseNotifier) NotifyPurchase(ctx context.Context, p models.Purchase, mobile string) error {
	var failures []string
	var successes []string

	if n.Mail != nil {
		if err := n.Mail.SendPurchaseReceipt(ctx, p); err != nil {
			log.Error().Err(err).Str("tranId", p.TransactionID).Msg("Failed to email purchase receipt")
			failures = append(failures, fmt.Sprintf("email: %v", err))
		} else {
			successes = append(successes, "email")
		}
	}

	if n.SMS != nil {
		if mobile == "" {
			log.Debug().Str("tranId", p.TransactionID).Msg("Skipping SMS: buyer has no mobile on file")
		} else if err := n.SMS.SendPurchaseConfirmation(ctx, mobile, p); err != nil {
			log.Error().Err(err).Str("tranId", p.TransactionID).Msg("Failed to text purchase confirmation")
			failures = append(failures, fmt.Sprintf("sms: %v", err))
		} else {
			successes = append(successes, "sms")
		}
	}

	if len(successes) > 0 {
		log.Info().Strs("channels", successes).Str("tranId", p.TransactionID).Msg("Sent purchase notifications")
	}

	if len(failures) > 0 {
		return fmt.Errorf("%w: %s", errs.ErrNotificationFailed, strings.Join(failures, "; "))
	}
	return nil
}
