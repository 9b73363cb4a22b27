package main

import (
	"context"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.uber.org/automaxprocs/maxprocs"
	"gorm.io/gorm/logger"

	"github.com/hamim5264/devengine/api"
	"github.com/hamim5264/devengine/auth"
	"github.com/hamim5264/devengine/config"
	"github.com/hamim5264/devengine/database"
	"github.com/hamim5264/devengine/live"
	"github.com/hamim5264/devengine/models"
	"github.com/hamim5264/devengine/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	ctx := context.Background()

	c, err := config.Resolve(ctx)
	if err != nil {
		fmt.Printf("Error resolving configuration: %v\n", err)
		os.Exit(1)
	}
	settings, err := config.Load(c)
	if err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	setupLogging(settings)

	if settings.AutoMaxProcs {
		if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			log.Info().Msgf(format, args...)
		})); err != nil {
			log.Warn().Err(err).Msg("Failed to set GOMAXPROCS")
		}
	}

	gormLogger := logger.New(
		stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  settings.LogFormat == "console",
		},
	)

	db, err := database.Open(settings.DatabaseDSN, settings.ReplicaDSNs, gormLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	// If generating models, run generation and exit
	if settings.GenerateModels {
		log.Info().Msg("Generating models and query helpers...")
		if err := models.GenerateModels(db); err != nil {
			log.Fatal().Err(err).Msg("Model generation failed")
		}
		return
	}

	if settings.RunMigrations {
		if err := database.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("Migration failed")
		}
	}
	if settings.SeedCatalog {
		if err := database.SeedCatalog(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("Seeding catalog failed")
		}
	}

	currentDB := database.New(db)

	deps, err := buildDependencies(ctx, settings, currentDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing services")
	}

	errChannel := make(chan error, 2)

	server, err := api.NewServer(settings, deps)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

func setupLogging(settings config.Settings) {
	level, err := zerolog.ParseLevel(settings.LogLevel)
	if err != nil || settings.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if settings.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func buildDependencies(ctx context.Context, settings config.Settings, db database.Database) (api.Dependencies, error) {
	mailer := services.NewMailer(services.MailerConfig{
		APIKey:            settings.Email.APIKey,
		FromEmail:         settings.Email.FromEmail,
		ContactRecipients: settings.ContactEmails,
	})
	if !mailer.Configured() {
		log.Warn().Msg("RESEND_API_KEY not set; contact and receipt emails are disabled")
	}

	authenticator, err := newAuthenticator(settings, db, mailer)
	if err != nil {
		return api.Dependencies{}, err
	}

	baseURL := services.SSLCommerzSandboxURL
	if settings.Payment.Mode == config.PaymentModeLive {
		baseURL = services.SSLCommerzLiveURL
	}
	gateway := services.NewSSLCommerz(services.SSLCommerzConfig{
		StoreID:       settings.Payment.StoreID,
		StorePassword: settings.Payment.StorePassword,
		BaseURL:       baseURL,
		CallbackBase:  settings.APIBaseURL,
		Timeout:       settings.Payment.Timeout,
	})
	if !gateway.Configured() {
		log.Warn().Msg("STORE_ID or STORE_PASSWORD not set; checkout will fail")
	}
	log.Info().Str("mode", settings.Payment.Mode).Msg("Payment gateway configured")

	notifier := services.PurchaseNotifier{Mail: mailer}
	if settings.SMS.Enabled() {
		notifier.SMS = services.NewSMS(services.SMSConfig{
			AccountSID: settings.SMS.AccountSID,
			AuthToken:  settings.SMS.AuthToken,
			FromNumber: settings.SMS.FromNumber,
		})
	}

	storage, err := newStorage(ctx, settings)
	if err != nil {
		return api.Dependencies{}, err
	}

	deps := api.Dependencies{
		Auth:     authenticator,
		Gateway:  gateway,
		Mailer:   mailer,
		Notifier: notifier,
		Storage:  storage,
		Hub:      live.NewHub(),
	}
	return api.DatabaseDependencies(db, deps), nil
}

func newAuthenticator(settings config.Settings, db database.Database, mailer *services.Mailer) (auth.Authenticator, error) {
	switch settings.Auth.Provider {
	case config.AuthProviderDescope:
		log.Info().Msg("Using Descope authentication")
		d, err := auth.NewDescope(auth.DescopeConfig{
			ProjectID:     settings.Auth.DescopeProjectID,
			ManagementKey: settings.Auth.DescopeMgmtKey,
			AdminRole:     settings.Auth.AdminRole,
			ResetURL:      settings.Auth.PasswordResetURL,
		})
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		log.Info().Msg("Using local authentication")
		return auth.NewLocal(db.CredentialRepo(), mailer, auth.LocalConfig{
			Secret:      settings.Auth.JWTSecret,
			TTL:         settings.SessionTTL,
			ResetURL:    settings.Auth.PasswordResetURL,
			AdminEmails: settings.AdminEmails,
		}), nil
	}
}

func newStorage(ctx context.Context, settings config.Settings) (*services.Storage, error) {
	cfg := services.StorageConfig{
		Bucket:        settings.Storage.Bucket,
		PublicBaseURL: settings.Storage.PublicBaseURL,
		Region:        settings.AWSRegion,
	}
	if cfg.Bucket == "" {
		log.Warn().Msg("S3_BUCKET not set; uploads are disabled")
		return services.NewStorage(nil, cfg), nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(settings.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return services.NewStorage(s3.NewFromConfig(awsCfg), cfg), nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
