package models

import "time"

// StudentFeeRecord is one student's obligation against a fee structure.
// AmountPaid and PaymentStatus are only ever written together, by the ledger.
type StudentFeeRecord struct {
	ID             string        `gorm:"type:varchar(36);primaryKey" json:"id" bson:"id"`
	StudentID      string        `gorm:"type:varchar(36);not null;index" json:"student_id" bson:"student_id"`
	FeeStructureID string        `gorm:"type:varchar(36);not null;index" json:"fee_structure_id" bson:"fee_structure_id"`
	AmountDue      float64       `gorm:"type:numeric(12,2);not null" json:"amount_due" bson:"amount_due"`
	AmountPaid     float64       `gorm:"type:numeric(12,2);not null;default:0" json:"amount_paid" bson:"amount_paid"`
	PaymentStatus  PaymentStatus `gorm:"size:20;not null;default:'pending';index" json:"payment_status" bson:"payment_status"`
	DueDate        time.Time     `gorm:"not null" json:"due_date" bson:"due_date"`
	CreatedAt      time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" bson:"updated_at"`
}

// SettleStatus is the status a record must carry once amountPaid has been applied.
// Overdue records stay overdue until fully paid.
func SettleStatus(amountPaid, amountDue float64, current PaymentStatus) PaymentStatus {
	if amountPaid >= amountDue {
		return StatusPaid
	}
	if current == StatusOverdue {
		return StatusOverdue
	}
	return StatusPending
}

// IsOverdue reports whether the record should be swept into the overdue state at now.
func (r StudentFeeRecord) IsOverdue(now time.Time) bool {
	return r.PaymentStatus == StatusPending && r.AmountPaid < r.AmountDue && r.DueDate.Before(now)
}

func (r StudentFeeRecord) Balance() float64 {
	return r.AmountDue - r.AmountPaid
}
