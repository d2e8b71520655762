package models

import "time"

type FeeStructure struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id" bson:"id"`
	Name         string    `gorm:"size:255;not null" json:"name" bson:"name"`
	FeeType      FeeType   `gorm:"size:20;not null" json:"fee_type" bson:"fee_type"`
	Amount       float64   `gorm:"type:numeric(12,2);not null" json:"amount" bson:"amount"`
	AcademicYear string    `gorm:"size:20;not null" json:"academic_year" bson:"academic_year"`
	Description  *string   `gorm:"type:text" json:"description" bson:"description,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}
