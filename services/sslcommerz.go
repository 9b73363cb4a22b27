package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/hamim5264/devengine/errs"
)

const (
	SSLCommerzLiveURL    = "https://securepay.sslcommerz.com"
	SSLCommerzSandboxURL = "https://sandbox.sslcommerz.com"

	initiatePath = "/gwprocess/v4/api.php"
	validatePath = "/validator/api/validationserverAPI.php"
)

// SSLCommerzConfig points the adapter at one gateway environment. BaseURL is
// SSLCommerzLiveURL or SSLCommerzSandboxURL; CallbackBase is the public API
// origin the gateway sends the buyer back to.
type SSLCommerzConfig struct {
	StoreID       string
	StorePassword string
	BaseURL       string
	CallbackBase  string
	Timeout       time.Duration
}

// PaymentRequest is one checkout attempt. TranID must be unique per attempt.
// UserID and UserEmail come back from validation as value_a and value_b.
type PaymentRequest struct {
	Amount          int64
	TranID          string
	ProductName     string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerAddress string
	CustomerCity    string
	CustomerCountry string
	UserID          string
	UserEmail       string
}

// Validation is the gateway's verdict on a completed payment.
type Validation struct {
	Status         string
	TranID         string
	Amount         string
	CurrencyAmount string
	CardIssuer     string
	ProductName    string
	UserID         string
	UserEmail      string
}

// Valid reports whether the gateway accepted the payment.
func (v Validation) Valid() bool {
	return v.Status == "VALID" || v.Status == "VALIDATED"
}

type SSLCommerz struct {
	cfg    SSLCommerzConfig
	client *http.Client
	logger zerolog.Logger
}

func NewSSLCommerz(cfg SSLCommerzConfig) *SSLCommerz {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	cfg.CallbackBase = strings.TrimRight(cfg.CallbackBase, "/")

	return &SSLCommerz{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		logger: log.With().Str("service", "sslcommerz").Logger(),
	}
}

// Configured is false when the store credentials are missing.
func (g *SSLCommerz) Configured() bool {
	return g.cfg.StoreID != "" && g.cfg.StorePassword != ""
}

// NewTransactionID builds the per-attempt id "{slug}_{epoch millis}".
func NewTransactionID(slug string, now time.Time) string {
	return fmt.Sprintf("%s_%d", slug, now.UnixMilli())
}

// InitiatePayment opens a gateway session and returns the page the buyer must be sent to.
// It makes exactly one request and never retries.
func (g *SSLCommerz) InitiatePayment(ctx context.Context, req PaymentRequest) (string, error) {
	if !g.Configured() {
		return "", errs.NewConfigMissingError("STORE_ID/STORE_PASSWORD")
	}

	form := url.Values{}
	form.Set("store_id", g.cfg.StoreID)
	form.Set("store_passwd", g.cfg.StorePassword)
	form.Set("total_amount", strconv.FormatInt(req.Amount, 10))
	form.Set("currency", "BDT")
	form.Set("tran_id", req.TranID)
	form.Set("success_url", g.cfg.CallbackBase+"/payment/success")
	form.Set("fail_url", g.cfg.CallbackBase+"/payment/fail")
	form.Set("cancel_url", g.cfg.CallbackBase+"/payment/cancel")
	form.Set("cus_name", req.CustomerName)
	form.Set("cus_email", req.CustomerEmail)
	form.Set("cus_add1", req.CustomerAddress)
	form.Set("cus_city", req.CustomerCity)
	form.Set("cus_country", req.CustomerCountry)
	form.Set("cus_phone", req.CustomerPhone)
	form.Set("shipping_method", "NO")
	form.Set("product_name", req.ProductName)
	form.Set("product_category", "Software")
	form.Set("product_profile", "general")
	form.Set("value_a", req.UserID)
	form.Set("value_b", req.UserEmail)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+initiatePath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build gateway request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, status, err := g.do(httpReq)
	if err != nil {
		return "", errs.NewGatewayUnavailableError(err)
	}
	if status != http.StatusOK {
		g.logger.Error().Int("status", status).Str("tranId", req.TranID).Msg("gateway rejected session request")
		return "", errs.NewGatewayRejectedError(fmt.Sprintf("gateway answered %d", status))
	}

	parsed := gjson.ParseBytes(body)
	pageURL := parsed.Get("GatewayPageURL").String()
	if pageURL == "" {
		reason := parsed.Get("failedreason").String()
		g.logger.Error().Str("tranId", req.TranID).Str("reason", reason).Msg("gateway returned no GatewayPageURL")
		return "", errs.NewGatewayRejectedError(reason)
	}

	g.logger.Info().Str("tranId", req.TranID).Int64("amount", req.Amount).Msg("payment session opened")
	return pageURL, nil
}

// ValidatePayment asks the gateway about val_id. A non-nil Validation with
// Valid() == false means the gateway answered but did not accept the payment.
func (g *SSLCommerz) ValidatePayment(ctx context.Context, valID string) (*Validation, error) {
	if !g.Configured() {
		return nil, errs.NewConfigMissingError("STORE_ID/STORE_PASSWORD")
	}
	if valID == "" {
		return nil, errs.NewMissingRequiredFieldError("val_id")
	}

	q := url.Values{}
	q.Set("val_id", valID)
	q.Set("store_id", g.cfg.StoreID)
	q.Set("store_passwd", g.cfg.StorePassword)
	q.Set("v", "1")
	q.Set("format", "json")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.BaseURL+validatePath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build validation request: %w", err)
	}

	body, status, err := g.do(httpReq)
	if err != nil {
		return nil, errs.NewGatewayUnavailableError(err)
	}
	if status != http.StatusOK {
		return nil, errs.NewGatewayRejectedError(fmt.Sprintf("validation answered %d", status))
	}

	parsed := gjson.ParseBytes(body)
	return &Validation{
		Status:         parsed.Get("status").String(),
		TranID:         parsed.Get("tran_id").String(),
		Amount:         parsed.Get("amount").String(),
		CurrencyAmount: parsed.Get("currency_amount").String(),
		CardIssuer:     parsed.Get("card_issuer").String(),
		ProductName:    parsed.Get("product_name").String(),
		UserID:         parsed.Get("value_a").String(),
		UserEmail:      parsed.Get("value_b").String(),
	}, nil
}

func (g *SSLCommerz) do(req *http.Request) ([]byte, int, error) {
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read gateway response: %w", err)
	}
	return body, resp.StatusCode, nil
}
