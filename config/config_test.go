package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() map[string]string {
	return map[string]string{"JWT_SECRET": "test-secret"}
}

func TestLoadDefaults(t *testing.T) {
	s, err := Load(baseConfig())
	require.NoError(t, err)

	assert.Equal(t, "8080", s.Port)
	assert.Equal(t, 180*time.Second, s.ReadTimeout)
	assert.Equal(t, PaymentModeSandbox, s.Payment.Mode)
	assert.Equal(t, AuthProviderLocal, s.Auth.Provider)
	assert.Equal(t, "http://localhost:3000/reset-password", s.Auth.PasswordResetURL)
	assert.Equal(t, 24*time.Hour, s.SessionTTL)
	assert.Equal(t, "Dhaka", s.Payment.DefaultCity)
	assert.Contains(t, s.DatabaseDSN, "dbname=devengine")
	assert.False(t, s.SMS.Enabled())
}

func TestLoadParsesValues(t *testing.T) {
	c := baseConfig()
	c["PAYMENT_MODE"] = "LIVE"
	c["SITE_BASE_URL"] = "https://devengine.dev/"
	c["ACCEPTED_ORIGINS"] = "https://devengine.dev, ,https://admin.devengine.dev"
	c["DB_DSN"] = "postgres://u:p@db/devengine"
	c["RATE_LIMIT_RPS"] = "2.5"
	c["SEED_CATALOG"] = "true"
	c["TWILIO_ACCOUNT_SID"] = "AC1"
	c["TWILIO_AUTH_TOKEN"] = "tok"
	c["TWILIO_FROM_NUMBER"] = "+15550001111"

	s, err := Load(c)
	require.NoError(t, err)

	assert.Equal(t, PaymentModeLive, s.Payment.Mode)
	assert.Equal(t, "https://devengine.dev", s.SiteBaseURL)
	assert.Equal(t, []string{"https://devengine.dev", "https://admin.devengine.dev"}, s.AcceptedOrigins)
	assert.Equal(t, "postgres://u:p@db/devengine", s.DatabaseDSN)
	assert.Equal(t, 2.5, s.RateLimitRPS)
	assert.True(t, s.SeedCatalog)
	assert.True(t, s.SMS.Enabled())
}

func TestLoadRejectsBadModes(t *testing.T) {
	c := baseConfig()
	c["PAYMENT_MODE"] = "production"
	_, err := Load(c)
	assert.ErrorContains(t, err, "PAYMENT_MODE")

	c = baseConfig()
	c["AUTH_PROVIDER"] = "firebase"
	_, err = Load(c)
	assert.ErrorContains(t, err, "AUTH_PROVIDER")

	_, err = Load(map[string]string{})
	assert.ErrorContains(t, err, "JWT_SECRET")

	_, err = Load(map[string]string{"AUTH_PROVIDER": "descope"})
	assert.ErrorContains(t, err, "DESCOPE_PROJECT_ID")
}

func TestGetters(t *testing.T) {
	c := map[string]string{"N": " 42 ", "BAD": "x", "B": "TRUE", "EMPTY": ""}

	assert.Equal(t, 42, GetInt(c, "N", 1))
	assert.Equal(t, 1, GetInt(c, "BAD", 1))
	assert.True(t, GetBool(c, "B", false))
	assert.Equal(t, "fallback", GetString(c, "EMPTY", "fallback"))
	assert.Equal(t, "fallback", GetString(nil, "N", "fallback"))
	assert.Nil(t, GetList(c, "MISSING"))
}

func TestMergeFileFillsUnsetKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devengine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9090"
store_id: from-file
db:
  dsn: postgres://file/devengine
admin_emails:
  - a@devengine.dev
  - b@devengine.dev
`), 0o600))

	c := map[string]string{"STORE_ID": "from-env"}
	require.NoError(t, MergeFile(c, path))

	assert.Equal(t, "9090", c["PORT"])
	assert.Equal(t, "from-env", c["STORE_ID"])
	assert.Equal(t, "postgres://file/devengine", c["DB_DSN"])
	assert.Equal(t, "a@devengine.dev,b@devengine.dev", c["ADMIN_EMAILS"])

	assert.Error(t, MergeFile(c, filepath.Join(t.TempDir(), "missing.yaml")))
}

type fakeSSM struct {
	pages []*ssm.GetParametersByPathOutput
	calls int
}

func (f *fakeSSM) GetParametersByPath(ctx context.Context, in *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	page := f.pages[f.calls]
	f.calls++
	return page, nil
}

func TestOverlaySSM(t *testing.T) {
	client := &fakeSSM{pages: []*ssm.GetParametersByPathOutput{
		{
			Parameters: []ssmtypes.Parameter{
				{Name: aws.String("/devengine/prod/store_password"), Value: aws.String("s3cret")},
			},
			NextToken: aws.String("page-2"),
		},
		{
			Parameters: []ssmtypes.Parameter{
				{Name: aws.String("/devengine/prod/JWT_SECRET"), Value: aws.String("from-ssm")},
			},
		},
	}}

	c := map[string]string{"JWT_SECRET": "from-env"}
	require.NoError(t, OverlaySSM(context.Background(), client, c, "/devengine/prod"))

	assert.Equal(t, 2, client.calls)
	assert.Equal(t, "s3cret", c["STORE_PASSWORD"])
	assert.Equal(t, "from-ssm", c["JWT_SECRET"])
}
