package models

import (
	"time"

	"github.com/google/uuid"
)

// Purchase records one validated payment.
type Purchase struct {
	ID            uuid.UUID `json:"id" gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid();not null"`
	UserID        string    `json:"userId" gorm:"column:user_id;type:text;not null;index:idx_purchases_user_id"`
	UserEmail     string    `json:"userEmail" gorm:"column:user_email;type:text;not null;default:''"`
	ProjectName   string    `json:"projectName" gorm:"column:project_name;type:text;not null"`
	PaymentType   string    `json:"paymentType" gorm:"column:payment_type;type:text;not null"`
	PaymentDate   string    `json:"paymentDate" gorm:"column:payment_date;type:text;not null"`
	Discount      string    `json:"discount" gorm:"column:discount;type:text;not null"`
	TotalAmount   string    `json:"totalAmount" gorm:"column:total_amount;type:text;not null"`
	TransactionID string    `json:"transactionId" gorm:"column:transaction_id;type:text;not null;uniqueIndex:idx_purchases_transaction_id"`
	CreatedAt     time.Time `json:"createdAt" gorm:"column:created_at;not null;autoCreateTime"`
}

func (Purchase) TableName() string {
	return "purchases"
}
