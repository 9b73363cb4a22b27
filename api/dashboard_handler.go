package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hamim5264/devengine/models"
)

const (
	dashboardDraftLimit = 5
	dashboardUserLimit  = 50
)

type dashboardHandler struct {
	responder Responder
	logger    zerolog.Logger
	projects  projectStore
	tags      tagStore
	apps      appLabStore
	users     userStore
	purchases purchaseStore
}

func newDashboardHandler(projects projectStore, tags tagStore, apps appLabStore, users userStore, purchases purchaseStore) dashboardHandler {
	logger := log.With().Str("handlerName", "dashboardHandler").Logger()

	return dashboardHandler{
		responder: NewResponder(logger),
		logger:    logger,
		projects:  projects,
		tags:      tags,
		apps:      apps,
		users:     users,
		purchases: purchases,
	}
}

// overview loads the admin totals, recent drafts and users concurrently
// @Summary Admin dashboard
// @Tags Admin
// @Produce json
// @Success 200 {object} DashboardResponse
// @Failure 403 {object} ErrorResponse "Forbidden - Admin role required"
// @Router /admin/dashboard [get]
func (h dashboardHandler) overview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var resp DashboardResponse
		g, ctx := errgroup.WithContext(r.Context())

		g.Go(func() (err error) {
			resp.Totals.Projects, err = h.projects.Count(ctx)
			return err
		})
		g.Go(func() (err error) {
			resp.Totals.Tags, err = h.tags.Count(ctx)
			return err
		})
		g.Go(func() (err error) {
			resp.Totals.Categories, err = h.projects.CountCategories(ctx)
			return err
		})
		g.Go(func() (err error) {
			resp.Totals.Users, err = h.users.Count(ctx)
			return err
		})
		g.Go(func() (err error) {
			resp.Totals.Apps, err = h.apps.Count(ctx)
			return err
		})
		g.Go(func() (err error) {
			resp.Totals.Purchases, err = h.purchases.Count(ctx)
			return err
		})
		g.Go(func() (err error) {
			resp.RecentDrafts, err = h.projects.RecentDrafts(ctx, dashboardDraftLimit)
			return err
		})
		g.Go(func() (err error) {
			resp.Users, err = h.users.List(ctx, dashboardUserLimit)
			return err
		})

		if err := g.Wait(); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("load dashboard", "dashboard", err))
			return
		}

		if resp.RecentDrafts == nil {
			resp.RecentDrafts = []models.Project{}
		}
		if resp.Users == nil {
			resp.Users = []models.UserProfile{}
		}
		h.responder.WriteJSON(w, resp)
	}
}
