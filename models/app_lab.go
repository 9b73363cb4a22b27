package models

import (
	"time"

	"gorm.io/datatypes"
)

const PlatformAndroid = "android"

// AppLabEntry is a downloadable Android build shown in the App Lab.
type AppLabEntry struct {
	Slug        string                      `json:"slug" gorm:"column:slug;type:text;primaryKey"`
	Name        string                      `json:"name" gorm:"column:name;type:text;not null"`
	Subtitle    string                      `json:"subtitle" gorm:"column:subtitle;type:text;not null;default:''"`
	Version     string                      `json:"version" gorm:"column:version;type:text;not null;default:''"`
	Platform    string                      `json:"platform" gorm:"column:platform;type:text;not null;default:'android'"`
	ApkURL      string                      `json:"apkUrl,omitempty" gorm:"column:apk_url;type:text;not null"`
	Description string                      `json:"description" gorm:"column:description;type:text;not null;default:''"`
	Usages      datatypes.JSONSlice[string] `json:"usages" gorm:"column:usages;type:jsonb;not null"`
	Warnings    datatypes.JSONSlice[string] `json:"warnings" gorm:"column:warnings;type:jsonb;not null"`
	Images      datatypes.JSONSlice[string] `json:"images" gorm:"column:images;type:jsonb;not null"`
	IsPublic    bool                        `json:"isPublic" gorm:"column:is_public;not null;default:false"`
	CreatedAt   time.Time                   `json:"createdAt" gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt   time.Time                   `json:"updatedAt" gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (AppLabEntry) TableName() string {
	return "app_lab"
}
