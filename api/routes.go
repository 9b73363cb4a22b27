package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/hamim5264/devengine/live"
	"github.com/hamim5264/devengine/metrics"
)

// setupRoutes mounts the public, signed-in and admin surfaces.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware, limiter *rateLimiter, feeds *live.Server, logFormat string) {
	r.Handle("/metrics", metrics.Handler())
	r.Get("/health", handlers.siteHandler.health())

	r.Group(func(r chi.Router) {
		r.Use(HTTPLoggingMiddleware(logFormat))
		r.Use(authMiddleware.identify)

		// Public catalog
		r.Get("/home", handlers.projectHandler.home())
		r.Get("/projects", handlers.projectHandler.listProjects())
		r.Get("/projects/{slug}", handlers.projectHandler.getProject())
		r.Get("/tags", handlers.tagHandler.listTags())
		r.Get("/app-lab", handlers.appLabHandler.listApps())
		r.Get("/app-lab/{slug}", handlers.appLabHandler.getApp())
		r.Get("/app-lab/{slug}/download", handlers.appLabHandler.downloadApp())
		r.Get("/reviews", handlers.reviewHandler.listReviews())
		r.Get("/site/session", handlers.siteHandler.session())
		r.Get("/site/pages/{slug}", handlers.siteHandler.page())

		// Checkout and gateway callbacks
		r.Get("/checkout/{slug}", handlers.paymentHandler.checkout())
		r.Get("/payment/success", handlers.paymentHandler.paymentSuccess())
		r.Post("/payment/success", handlers.paymentHandler.paymentSuccess())
		r.Get("/payment/fail", handlers.paymentHandler.paymentFail())
		r.Post("/payment/fail", handlers.paymentHandler.paymentFail())
		r.Get("/payment/cancel", handlers.paymentHandler.paymentCancel())
		r.Post("/payment/cancel", handlers.paymentHandler.paymentCancel())

		// Rate limited endpoints
		r.Group(func(r chi.Router) {
			r.Use(limiter.Handler)

			r.Post("/contact", handlers.contactHandler.sendMessage())
			r.Post("/auth/signup", handlers.accountHandler.signUp())
			r.Post("/auth/login", handlers.accountHandler.signIn())
			r.Post("/auth/password-reset", handlers.accountHandler.requestPasswordReset())
			r.Post("/auth/password-reset/confirm", handlers.accountHandler.confirmPasswordReset())
			r.With(authMiddleware.requireSignedIn).Post("/api/initiate-payment", handlers.paymentHandler.initiatePayment())
		})

		// Signed-in routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.requireSignedIn)

			r.Post("/auth/logout", handlers.accountHandler.signOut())
			r.Get("/me", handlers.accountHandler.getProfile())
			r.Put("/me", handlers.accountHandler.updateProfile())
			r.Get("/me/purchases", handlers.accountHandler.listPurchases())
			r.Post("/reviews", handlers.reviewHandler.createReview())
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Use(authMiddleware.requireAdmin)

			r.Get("/dashboard", handlers.dashboardHandler.overview())
			r.Post("/uploads", handlers.uploadHandler.upload())

			r.Get("/projects", handlers.projectHandler.listAllProjects())
			r.Post("/projects", handlers.projectHandler.createProject())
			r.Put("/projects/{slug}", handlers.projectHandler.updateProject())
			r.Patch("/projects/{slug}/publish", handlers.projectHandler.togglePublish())
			r.Delete("/projects/{slug}", handlers.projectHandler.deleteProject())

			r.Post("/tags", handlers.tagHandler.createTag())
			r.Put("/tags/{id}", handlers.tagHandler.renameTag())
			r.Delete("/tags/{id}", handlers.tagHandler.deleteTag())

			r.Get("/app-lab", handlers.appLabHandler.listAllApps())
			r.Post("/app-lab", handlers.appLabHandler.createApp())
			r.Patch("/app-lab/{slug}/publish", handlers.appLabHandler.togglePublish())
			r.Delete("/app-lab/{slug}", handlers.appLabHandler.deleteApp())

			r.Get("/live/projects", feeds.Handler(live.Projects))
			r.Get("/live/tags", feeds.Handler(live.Tags))
			r.Get("/live/app-lab", feeds.Handler(live.AppLab))
		})
	})
}
