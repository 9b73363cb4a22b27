package database

import (
	"context"

	"github.com/hamim5264/devengine/errs"
	"github.com/hamim5264/devengine/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TagRepo struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{db}
}

// FindAll returns all tags sorted by name
func (r *TagRepo) FindAll(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error
	return tags, err
}

// Add inserts a tag, rejecting an id that is already taken.
func (r *TagRepo) Add(ctx context.Context, tag *models.Tag) error {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(tag)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewAlreadyExists("tag")
	}
	return nil
}

// Rename changes the display name. The id stays the same so project references keep resolving.
func (r *TagRepo) Rename(ctx context.Context, id, name string) error {
	result := r.db.WithContext(ctx).Model(&models.Tag{}).Where("id = ?", id).Update("name", name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound("tag")
	}
	return nil
}

// Delete removes the tag row only. Projects still listing the id are left as they are.
func (r *TagRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Tag{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound("tag")
	}
	return nil
}

func (r *TagRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Tag{}).Count(&n).Error
	return n, err
}
