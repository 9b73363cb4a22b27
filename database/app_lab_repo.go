package database

import (
	"context"
	"errors"

	"github.com/hamim5264/devengine/errs"
	"github.com/hamim5264/devengine/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AppLabRepo struct {
	db *gorm.DB
}

func NewAppLabRepo(db *gorm.DB) *AppLabRepo {
	return &AppLabRepo{db}
}

func (r *AppLabRepo) FindAll(ctx context.Context, includeDrafts bool) ([]models.AppLabEntry, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if !includeDrafts {
		q = q.Where("is_public = ?", true)
	}

	var entries []models.AppLabEntry
	err := q.Find(&entries).Error
	return entries, err
}

func (r *AppLabRepo) FindBySlug(ctx context.Context, slug string) (*models.AppLabEntry, error) {
	var entry models.AppLabEntry
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("app")
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *AppLabRepo) Add(ctx context.Context, entry *models.AppLabEntry) error {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).
		Create(entry)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewAlreadyExists("app")
	}
	return nil
}

func (r *AppLabRepo) TogglePublic(ctx context.Context, slug string) (bool, error) {
	return togglePublic(ctx, r.db, models.AppLabEntry{}.TableName(), "app", slug)
}

func (r *AppLabRepo) Delete(ctx context.Context, slug string) error {
	result := r.db.WithContext(ctx).Where("slug = ?", slug).Delete(&models.AppLabEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound("app")
	}
	return nil
}

func (r *AppLabRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.AppLabEntry{}).Count(&n).Error
	return n, err
}
