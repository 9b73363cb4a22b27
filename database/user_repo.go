package database

import (
	"context"
	"errors"

	"github.com/hamim5264/devengine/errs"
	"github.com/hamim5264/devengine/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

func (r *UserRepo) FindByUID(ctx context.Context, uid string) (*models.UserProfile, error) {
	var user models.UserProfile
	err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("user")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Upsert creates the profile or overwrites its editable fields.
func (r *UserRepo) Upsert(ctx context.Context, user *models.UserProfile) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uid"}},
		DoUpdates: clause.AssignmentColumns([]string{"full_name", "email", "mobile", "address", "updated_at"}),
	}).Create(user).Error
}

// List returns up to limit users ordered by email.
func (r *UserRepo) List(ctx context.Context, limit int) ([]models.UserProfile, error) {
	var users []models.UserProfile
	err := r.db.WithContext(ctx).Order("email ASC").Limit(limit).Find(&users).Error
	return users, err
}

func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.UserProfile{}).Count(&n).Error
	return n, err
}
