package api

import (
	"context"
	"io"

	"github.com/hamim5264/devengine/live"
	"github.com/hamim5264/devengine/models"
	"github.com/hamim5264/devengine/services"
)

type projectStore interface {
	FindAll(ctx context.Context, includeDrafts bool) ([]models.Project, error)
	FindBySlug(ctx context.Context, slug string) (*models.Project, error)
	Add(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	TogglePublic(ctx context.Context, slug string) (bool, error)
	Delete(ctx context.Context, slug string) error
	Count(ctx context.Context) (int64, error)
	CountCategories(ctx context.Context) (int64, error)
	RecentDrafts(ctx context.Context, limit int) ([]models.Project, error)
}

type tagStore interface {
	FindAll(ctx context.Context) ([]models.Tag, error)
	Add(ctx context.Context, tag *models.Tag) error
	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type appLabStore interface {
	FindAll(ctx context.Context, includeDrafts bool) ([]models.AppLabEntry, error)
	FindBySlug(ctx context.Context, slug string) (*models.AppLabEntry, error)
	Add(ctx context.Context, entry *models.AppLabEntry) error
	TogglePublic(ctx context.Context, slug string) (bool, error)
	Delete(ctx context.Context, slug string) error
	Count(ctx context.Context) (int64, error)
}

type userStore interface {
	FindByUID(ctx context.Context, uid string) (*models.UserProfile, error)
	Upsert(ctx context.Context, user *models.UserProfile) error
	List(ctx context.Context, limit int) ([]models.UserProfile, error)
	Count(ctx context.Context) (int64, error)
}

type purchaseStore interface {
	Record(ctx context.Context, purchase *models.Purchase) (bool, error)
	FindByUser(ctx context.Context, userID string) ([]models.Purchase, error)
	Count(ctx context.Context) (int64, error)
}

type reviewStore interface {
	FindAll(ctx context.Context) ([]models.Review, error)
	Add(ctx context.Context, review *models.Review) error
}

type paymentGateway interface {
	InitiatePayment(ctx context.Context, req services.PaymentRequest) (string, error)
	ValidatePayment(ctx context.Context, valID string) (*services.Validation, error)
}

type contactMailer interface {
	SendContact(ctx context.Context, msg services.ContactMessage) error
}

type purchaseNotifier interface {
	NotifyPurchase(ctx context.Context, p models.Purchase, mobile string) error
}

type objectUploader interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

type collectionNotifier interface {
	Notify(ctx context.Context, c live.Collection)
}
