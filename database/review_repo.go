package database

import (
	"context"

	"github.com/hamim5264/devengine/models"
	"gorm.io/gorm"
)

type ReviewRepo struct {
	db *gorm.DB
}

func NewReviewRepo(db *gorm.DB) *ReviewRepo {
	return &ReviewRepo{db}
}

// FindAll returns reviews newest first
func (r *ReviewRepo) FindAll(ctx context.Context) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepo) Add(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}
