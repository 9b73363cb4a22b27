package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hamim5264/devengine/errs"
	"github.com/hamim5264/devengine/models"
)

const ResendAPIURL = "https://api.resend.com"

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

type MailerConfig struct {
	APIKey    string
	FromEmail string
	// Recipients of contact form messages.
	ContactRecipients []string
	Endpoint          string
}

// Mailer sends transactional email through Resend.
type Mailer struct {
	cfg    MailerConfig
	client *http.Client
	logger zerolog.Logger
}

func NewMailer(cfg MailerConfig) *Mailer {
	if cfg.Endpoint == "" {
		cfg.Endpoint = ResendAPIURL
	}
	return &Mailer{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: log.With().Str("service", "resend").Logger(),
	}
}

func (m *Mailer) Configured() bool {
	return m.cfg.APIKey != "" && m.cfg.FromEmail != ""
}

// SendEmail sends an HTML email to every recipient in one request.
func (m *Mailer) SendEmail(ctx context.Context, subject, body string, recipients []string, replyTo string) error {
	if len(recipients) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}
	if m.cfg.APIKey == "" {
		return errs.NewConfigMissingError("RESEND_API_KEY")
	}
	if m.cfg.FromEmail == "" {
		return errs.NewConfigMissingError("RESEND_FROM_EMAIL")
	}

	payload := ResendEmailRequest{
		From:    m.cfg.FromEmail,
		To:      recipients,
		Subject: subject,
		Html:    body,
		ReplyTo: replyTo,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.Endpoint+"/emails", bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to Resend API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, errorResp.Message)
		}
		return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		m.logger.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		m.logger.Info().Str("emailId", emailResponse.ID).Msg("Successfully sent email via Resend")
	}

	return nil
}

// SendPasswordReset mails the one-time reset link.
func (m *Mailer) SendPasswordReset(ctx context.Context, to, link string) error {
	body := fmt.Sprintf(`<p>We received a request to reset your DevEngine password.</p>
<p><a href="%s">Choose a new password</a>. The link expires in one hour.</p>
<p>If you did not ask for this, you can ignore this email.</p>`, html.EscapeString(link))
	return m.SendEmail(ctx, "Reset your DevEngine password", body, []string{to}, "")
}

type ContactMessage struct {
	Name    string
	Email   string
	Message string
}

// SendContact forwards a contact form message to the site owners. Replies go to the sender.
func (m *Mailer) SendContact(ctx context.Context, msg ContactMessage) error {
	if len(m.cfg.ContactRecipients) == 0 {
		return errs.NewConfigMissingError("CONTACT_RECIPIENTS")
	}

	body := fmt.Sprintf("<p><strong>%s</strong> &lt;%s&gt; wrote:</p><p>%s</p>",
		html.EscapeString(msg.Name),
		html.EscapeString(msg.Email),
		strings.ReplaceAll(html.EscapeString(msg.Message), "\n", "<br>"),
	)
	return m.SendEmail(ctx, "New contact message from "+msg.Name, body, m.cfg.ContactRecipients, msg.Email)
}

// SendPurchaseReceipt confirms a stored purchase to the buyer.
func (m *Mailer) SendPurchaseReceipt(ctx context.Context, p models.Purchase) error {
	if p.UserEmail == "" {
		return fmt.Errorf("purchase %s has no buyer email", p.TransactionID)
	}

	body := fmt.Sprintf(`<p>Thanks for your purchase of <strong>%s</strong>.</p>
<p>Amount: %s BDT<br>Transaction: %s<br>Paid with: %s</p>
<p>Your download instructions are on the purchase history page.</p>`,
		html.EscapeString(p.ProjectName),
		html.EscapeString(p.TotalAmount),
		html.EscapeString(p.TransactionID),
		html.EscapeString(p.PaymentType),
	)
	return m.SendEmail(ctx, "Your DevEngine purchase", body, []string{p.UserEmail}, "")
}
