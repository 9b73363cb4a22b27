package database

import (
	"context"
	"errors"
	"time"

	"github.com/hamim5264/devengine/errs"
	"github.com/hamim5264/devengine/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CredentialRepo struct {
	db *gorm.DB
}

func NewCredentialRepo(db *gorm.DB) *CredentialRepo {
	return &CredentialRepo{db}
}

func (r *CredentialRepo) FindByEmail(ctx context.Context, email string) (*models.Credential, error) {
	var cred models.Credential
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&cred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("account")
	}
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// Add registers a credential. A second sign-up with the same email is rejected.
func (r *CredentialRepo) Add(ctx context.Context, cred *models.Credential) error {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(cred)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewAlreadyExists("account")
	}
	return nil
}

// SetResetCode stores the hash of a pending reset code for the account with email.
func (r *CredentialRepo) SetResetCode(ctx context.Context, email, codeHash string, expiresAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.Credential{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{
			"reset_code_hash":  codeHash,
			"reset_expires_at": expiresAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound("account")
	}
	return nil
}

// ResetPassword swaps in a new password hash for the account holding an unexpired
// codeHash and clears the code so it cannot be used twice.
func (r *CredentialRepo) ResetPassword(ctx context.Context, codeHash, passwordHash string, now time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.Credential{}).
		Where("reset_code_hash = ? AND reset_expires_at > ?", codeHash, now).
		Updates(map[string]interface{}{
			"password_hash":    passwordHash,
			"reset_code_hash":  nil,
			"reset_expires_at": nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewInvalidResetCodeError()
	}
	return nil
}
