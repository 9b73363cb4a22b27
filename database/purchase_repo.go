package database

import (
	"context"

	"github.com/hamim5264/devengine/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PurchaseRepo struct {
	db *gorm.DB
}

func NewPurchaseRepo(db *gorm.DB) *PurchaseRepo {
	return &PurchaseRepo{db}
}

// Record stores a purchase once per transaction id. It reports false when the
// transaction was already recorded.
func (r *PurchaseRepo) Record(ctx context.Context, purchase *models.Purchase) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "transaction_id"}}, DoNothing: true}).
		Create(purchase)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FindByUser returns the user's purchases, newest first.
func (r *PurchaseRepo) FindByUser(ctx context.Context, userID string) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&purchases).Error
	return purchases, err
}

func (r *PurchaseRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Purchase{}).Count(&n).Error
	return n, err
}
