package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/hamim5264/devengine/errs"
	"github.com/hamim5264/devengine/models"
)

type fakeTwilio struct {
	sent []*twilioApi.CreateMessageParams
	err  error
}

func (f *fakeTwilio) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, params)
	sid := "SM123"
	return &twilioApi.ApiV2010Message{Sid: &sid}, nil
}

func TestSMSSendUsesInternationalNumber(t *testing.T) {
	api := &fakeTwilio{}
	sms := newSMS("+15005550006", api)

	err := sms.SendPurchaseConfirmation(context.Background(), "01712345678", models.Purchase{
		ProjectName:   "craftybay",
		TotalAmount:   "70000.00",
		TransactionID: "craftybay_1",
	})
	require.NoError(t, err)
	require.Len(t, api.sent, 1)
	assert.Equal(t, "+8801712345678", *api.sent[0].To)
	assert.Equal(t, "+15005550006", *api.sent[0].From)
	assert.Contains(t, *api.sent[0].Body, "craftybay_1")
}

func TestSMSRejectsBadMobile(t *testing.T) {
	api := &fakeTwilio{}
	err := newSMS("+15005550006", api).Send(context.Background(), "12345", "hi")
	assert.True(t, errs.IsInvalidFieldError(err))
	assert.Empty(t, api.sent)
}

type fakeMailer struct{ err error }

func (f fakeMailer) SendPurchaseReceipt(ctx context.Context, p models.Purchase) error { return f.err }

type fakeTexter struct {
	calls int
	err   error
}

func (f *fakeTexter) SendPurchaseConfirmation(ctx context.Context, mobile string, p models.Purchase) error {
	f.calls++
	return f.err
}

func TestNotifyPurchase(t *testing.T) {
	p := models.Purchase{TransactionID: "craftybay_1", UserEmail: "u@example.com"}

	t.Run("all channels succeed", func(t *testing.T) {
		texter := &fakeTexter{}
		n := PurchaseNotifier{Mail: fakeMailer{}, SMS: texter}
		assert.NoError(t, n.NotifyPurchase(context.Background(), p, "01712345678"))
		assert.Equal(t, 1, texter.calls)
	})

	t.Run("sms skipped without mobile", func(t *testing.T) {
		texter := &fakeTexter{}
		n := PurchaseNotifier{SMS: texter}
		assert.NoError(t, n.NotifyPurchase(context.Background(), p, ""))
		assert.Zero(t, texter.calls)
	})

	t.Run("email failure still texts", func(t *testing.T) {
		texter := &fakeTexter{}
		n := PurchaseNotifier{Mail: fakeMailer{err: errors.New("down")}, SMS: texter}
		err := n.NotifyPurchase(context.Background(), p, "01712345678")
		assert.ErrorIs(t, err, errs.ErrNotificationFailed)
		assert.Contains(t, err.Error(), "email: down")
		assert.Equal(t, 1, texter.calls)
	})

	t.Run("no channels", func(t *testing.T) {
		assert.NoError(t, PurchaseNotifier{}.NotifyPurchase(context.Background(), p, "01712345678"))
	})
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	f.body, _ = io.ReadAll(params.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestStorageUpload(t *testing.T) {
	client := &fakeS3{}
	store := NewStorage(client, StorageConfig{Bucket: "devengine-uploads", Region: "ap-south-1"})
	store.now = func() time.Time { return time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC) }

	url, err := store.Upload(context.Background(), "Quiz Whiz v1.APK", "application/vnd.android.package-archive", bytes.NewReader([]byte("apk")))
	require.NoError(t, err)

	key := aws.ToString(client.input.Key)
	assert.True(t, strings.HasPrefix(key, "uploads/2026/03/"))
	assert.True(t, strings.HasSuffix(key, "-quiz-whiz-v1.apk"))
	assert.Equal(t, "devengine-uploads", aws.ToString(client.input.Bucket))
	assert.Equal(t, "application/vnd.android.package-archive", aws.ToString(client.input.ContentType))
	assert.Equal(t, []byte("apk"), client.body)
	assert.Equal(t, "https://devengine-uploads.s3.ap-south-1.amazonaws.com/"+key, url)
}

func TestStorageErrors(t *testing.T) {
	_, err := NewStorage(&fakeS3{}, StorageConfig{}).Upload(context.Background(), "a.png", "", strings.NewReader("x"))
	assert.ErrorIs(t, err, errs.ErrConfigMissing)

	store := NewStorage(&fakeS3{err: errors.New("denied")}, StorageConfig{Bucket: "b", PublicBaseURL: "https://cdn.example.com/"})
	_, err = store.Upload(context.Background(), "a.png", "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, errs.ErrStorageFailed)
}
