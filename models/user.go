package models

import "time"

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// UserProfile holds the storefront profile of an authenticated identity.
type UserProfile struct {
	UID       string    `json:"uid" gorm:"column:uid;type:text;primaryKey"`
	FullName  string    `json:"fullName" gorm:"column:full_name;type:text;not null;default:''"`
	Email     string    `json:"email" gorm:"column:email;type:text;not null;index:idx_users_email"`
	Mobile    string    `json:"mobile" gorm:"column:mobile;type:text;not null;default:''"`
	Address   string    `json:"address" gorm:"column:address;type:text;not null;default:''"`
	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (UserProfile) TableName() string {
	return "users"
}

// Credential backs the local auth provider. Hosted providers keep their own.
type Credential struct {
	UID            string     `json:"uid" gorm:"column:uid;type:text;primaryKey"`
	Email          string     `json:"email" gorm:"column:email;type:text;not null;uniqueIndex:idx_credentials_email"`
	PasswordHash   string     `json:"-" gorm:"column:password_hash;type:text;not null"`
	DisplayName    string     `json:"displayName" gorm:"column:display_name;type:text;not null;default:''"`
	Role           string     `json:"role" gorm:"column:role;type:text;not null;default:'customer'"`
	ResetCodeHash  *string    `json:"-" gorm:"column:reset_code_hash;type:text"`
	ResetExpiresAt *time.Time `json:"-" gorm:"column:reset_expires_at"`
	CreatedAt      time.Time  `json:"createdAt" gorm:"column:created_at;not null;autoCreateTime"`
}

func (Credential) TableName() string {
	return "credentials"
}
