package models

import "time"

type Student struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id" bson:"id"`
	StudentID string    `gorm:"size:64;not null;uniqueIndex" json:"student_id" bson:"student_id"`
	Name      string    `gorm:"size:255;not null" json:"name" bson:"name"`
	Email     string    `gorm:"size:255;not null" json:"email" bson:"email"`
	Course    string    `gorm:"size:255;not null;index" json:"course" bson:"course"`
	Year      int       `gorm:"not null" json:"year" bson:"year"`
	Phone     *string   `gorm:"size:32" json:"phone" bson:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
