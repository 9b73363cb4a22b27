package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamim5264/devengine/errs"
)

func newTestGateway(t *testing.T, h http.HandlerFunc) *SSLCommerz {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewSSLCommerz(SSLCommerzConfig{
		StoreID:       "store",
		StorePassword: "secret",
		BaseURL:       srv.URL,
		CallbackBase:  "https://api.example.com/",
		Timeout:       2 * time.Second,
	})
}

func TestInitiatePaymentSendsForm(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, initiatePath, r.URL.Path)
		require.NoError(t, r.ParseForm())

		assert.Equal(t, "store", r.PostForm.Get("store_id"))
		assert.Equal(t, "secret", r.PostForm.Get("store_passwd"))
		assert.Equal(t, "70000", r.PostForm.Get("total_amount"))
		assert.Equal(t, "BDT", r.PostForm.Get("currency"))
		assert.Equal(t, "craftybay_1700000000000", r.PostForm.Get("tran_id"))
		assert.Equal(t, "https://api.example.com/payment/success", r.PostForm.Get("success_url"))
		assert.Equal(t, "https://api.example.com/payment/fail", r.PostForm.Get("fail_url"))
		assert.Equal(t, "https://api.example.com/payment/cancel", r.PostForm.Get("cancel_url"))
		assert.Equal(t, "NO", r.PostForm.Get("shipping_method"))
		assert.Equal(t, "craftybay", r.PostForm.Get("product_name"))
		assert.Equal(t, "Software", r.PostForm.Get("product_category"))
		assert.Equal(t, "uid-1", r.PostForm.Get("value_a"))
		assert.Equal(t, "buyer@example.com", r.PostForm.Get("value_b"))

		_, _ = w.Write([]byte(`{"status":"SUCCESS","GatewayPageURL":"https://sandbox.sslcommerz.com/pay/abc"}`))
	})

	pageURL, err := gw.InitiatePayment(context.Background(), PaymentRequest{
		Amount:      70000,
		TranID:      NewTransactionID("craftybay", time.UnixMilli(1700000000000)),
		ProductName: "craftybay",
		UserID:      "uid-1",
		UserEmail:   "buyer@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://sandbox.sslcommerz.com/pay/abc", pageURL)
}

func TestInitiatePaymentFailures(t *testing.T) {
	t.Run("no gateway page", func(t *testing.T) {
		gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"FAILED","failedreason":"Store Credential Error"}`))
		})
		_, err := gw.InitiatePayment(context.Background(), PaymentRequest{Amount: 1, TranID: "x_1"})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadGateway, errs.StatusCode(err))
		assert.ErrorIs(t, err, errs.ErrGatewayRejected)
	})

	t.Run("non 200", func(t *testing.T) {
		gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		_, err := gw.InitiatePayment(context.Background(), PaymentRequest{Amount: 1, TranID: "x_1"})
		assert.Equal(t, http.StatusBadGateway, errs.StatusCode(err))
	})

	t.Run("unreachable", func(t *testing.T) {
		gw := NewSSLCommerz(SSLCommerzConfig{StoreID: "s", StorePassword: "p", BaseURL: "http://127.0.0.1:1"})
		_, err := gw.InitiatePayment(context.Background(), PaymentRequest{Amount: 1, TranID: "x_1"})
		assert.ErrorIs(t, err, errs.ErrGatewayUnavailable)
		assert.Equal(t, http.StatusBadGateway, errs.StatusCode(err))
	})

	t.Run("missing credentials", func(t *testing.T) {
		gw := NewSSLCommerz(SSLCommerzConfig{BaseURL: SSLCommerzSandboxURL})
		assert.False(t, gw.Configured())
		_, err := gw.InitiatePayment(context.Background(), PaymentRequest{Amount: 1, TranID: "x_1"})
		assert.Equal(t, http.StatusInternalServerError, errs.StatusCode(err))
	})
}

func TestValidatePayment(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, validatePath, r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "val-1", q.Get("val_id"))
		assert.Equal(t, "store", q.Get("store_id"))
		assert.Equal(t, "json", q.Get("format"))

		_, _ = w.Write([]byte(`{
			"status": "VALID",
			"tran_id": "craftybay_1",
			"amount": "70000.00",
			"currency_amount": "70000.00",
			"card_issuer": "BRAC BANK",
			"product_name": "craftybay",
			"value_a": "uid-1",
			"value_b": "buyer@example.com"
		}`))
	})

	v, err := gw.ValidatePayment(context.Background(), "val-1")
	require.NoError(t, err)
	assert.True(t, v.Valid())
	assert.Equal(t, "craftybay_1", v.TranID)
	assert.Equal(t, "70000.00", v.Amount)
	assert.Equal(t, "BRAC BANK", v.CardIssuer)
	assert.Equal(t, "uid-1", v.UserID)
	assert.Equal(t, "buyer@example.com", v.UserEmail)
}

func TestValidatePaymentNotValid(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"INVALID_TRANSACTION"}`))
	})

	v, err := gw.ValidatePayment(context.Background(), "val-1")
	require.NoError(t, err)
	assert.False(t, v.Valid())

	_, err = gw.ValidatePayment(context.Background(), "")
	assert.True(t, errs.IsMissingRequiredFieldError(err))
}
