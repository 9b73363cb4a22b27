package api

import (
	"strings"
	"time"

	"github.com/hamim5264/devengine/config"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(settings config.Settings, deps Dependencies, startupTime time.Time) *routeHandlers {
	cookie := sessionCookie{
		name:   settings.SessionCookie,
		secure: strings.HasPrefix(settings.APIBaseURL, "https://"),
	}

	return &routeHandlers{
		projectHandler:   newProjectHandler(deps.Projects, deps.Tags, deps.Hub),
		tagHandler:       newTagHandler(deps.Tags, deps.Hub),
		appLabHandler:    newAppLabHandler(deps.AppLab, deps.Hub, settings.SiteBaseURL),
		paymentHandler:   newPaymentHandler(deps.Projects, deps.Users, deps.Purchases, deps.Gateway, deps.Notifier, settings.Payment, settings.SiteBaseURL),
		accountHandler:   newAccountHandler(deps.Auth, deps.Users, deps.Purchases, cookie),
		reviewHandler:    newReviewHandler(deps.Reviews, deps.Users),
		contactHandler:   newContactHandler(deps.Mailer),
		siteHandler:      newSiteHandler(startupTime),
		dashboardHandler: newDashboardHandler(deps.Projects, deps.Tags, deps.AppLab, deps.Users, deps.Purchases),
		uploadHandler:    newUploadHandler(deps.Storage),
	}
}
