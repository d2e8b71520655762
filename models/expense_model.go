package models

import "time"

type Expense struct {
	ID          string          `gorm:"type:varchar(36);primaryKey" json:"id" bson:"id"`
	Title       string          `gorm:"size:255;not null" json:"title" bson:"title"`
	Category    ExpenseCategory `gorm:"size:30;not null;index" json:"category" bson:"category"`
	Amount      float64         `gorm:"type:numeric(12,2);not null" json:"amount" bson:"amount"`
	Description *string         `gorm:"type:text" json:"description" bson:"description,omitempty"`
	ExpenseDate time.Time       `gorm:"not null;index" json:"expense_date" bson:"expense_date"`
	Vendor      *string         `gorm:"size:255" json:"vendor" bson:"vendor,omitempty"`
	CreatedAt   time.Time       `json:"created_at" bson:"created_at"`
}
