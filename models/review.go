package models

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID           uuid.UUID `json:"id" gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ReviewText   string    `json:"reviewText" gorm:"column:review_text;type:text;not null"`
	ReviewerName string    `json:"reviewerName" gorm:"column:reviewer_name;type:text;not null"`
	Rating       int       `json:"rating" gorm:"column:rating;type:integer;not null;check:chk_reviews_rating,rating BETWEEN 1 AND 5"`
	UserID       string    `json:"userId" gorm:"column:user_id;type:text;not null"`
	CreatedAt    time.Time `json:"createdAt" gorm:"column:created_at;not null;autoCreateTime;index:idx_reviews_created_at"`
}

func (Review) TableName() string {
	return "reviews"
}
