package models

import "time"

const DefaultPaymentMethod = "cash"

type Payment struct {
	ID                 string    `gorm:"type:varchar(36);primaryKey" json:"id" bson:"id"`
	StudentID          string    `gorm:"type:varchar(36);not null;index" json:"student_id" bson:"student_id"`
	StudentFeeRecordID string    `gorm:"type:varchar(36);not null;index" json:"student_fee_record_id" bson:"student_fee_record_id"`
	Amount             float64   `gorm:"type:numeric(12,2);not null" json:"amount" bson:"amount"`
	PaymentDate        time.Time `gorm:"not null;index" json:"payment_date" bson:"payment_date"`
	PaymentMethod      string    `gorm:"size:50;not null;default:'cash'" json:"payment_method" bson:"payment_method"`
	TransactionID      *string   `gorm:"size:255" json:"transaction_id" bson:"transaction_id,omitempty"`
	Notes              *string   `gorm:"type:text" json:"notes" bson:"notes,omitempty"`
	CreatedAt          time.Time `json:"created_at" bson:"created_at"`
}
