package models

import (
	"time"

	"gorm.io/datatypes"
)

type Category string

const (
	CategoryAndroid Category = "android"
	CategoryIOS     Category = "ios"
	CategoryDesktop Category = "desktop"
	CategoryWeb     Category = "web"
)

var Categories = []Category{CategoryAndroid, CategoryIOS, CategoryDesktop, CategoryWeb}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Project is a pre-built software project offered in the catalog. Slug is the
// primary key and never changes after creation.
type Project struct {
	Slug         string                      `json:"slug" gorm:"column:slug;type:text;primaryKey"`
	Title        string                      `json:"title" gorm:"column:title;type:text;not null"`
	Subtitle     string                      `json:"subtitle" gorm:"column:subtitle;type:text;not null;default:''"`
	Details      string                      `json:"details" gorm:"column:details;type:text;not null;default:''"`
	Installation string                      `json:"installation" gorm:"column:installation;type:text;not null;default:''"`
	Tools        datatypes.JSONSlice[string] `json:"tools" gorm:"column:tools;type:jsonb;not null"`
	Price        string                      `json:"price" gorm:"column:price;type:text;not null"`
	Discount     string                      `json:"discount" gorm:"column:discount;type:text;not null;default:''"`
	Category     Category                    `json:"category" gorm:"column:category;type:text;not null;index:idx_projects_category"`
	Tags         datatypes.JSONSlice[string] `json:"tags" gorm:"column:tags;type:jsonb;not null"`
	IsPublic     bool                        `json:"isPublic" gorm:"column:is_public;not null;default:false;index:idx_projects_is_public"`
	CreatedBy    string                      `json:"createdBy" gorm:"column:created_by;type:text;not null;default:''"`
	CreatedAt    time.Time                   `json:"createdAt" gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt    time.Time                   `json:"updatedAt" gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (Project) TableName() string {
	return "projects"
}

// EffectivePrice is the amount actually charged: the discount when present, the list price otherwise.
func (p Project) EffectivePrice() string {
	if p.Discount != "" {
		return p.Discount
	}
	return p.Price
}

// HasTag reports whether tagID is among the project's tags.
func (p Project) HasTag(tagID string) bool {
	for _, t := range p.Tags {
		if t == tagID {
			return true
		}
	}
	return false
}
