package models

import "time"

type StudentFilter struct {
	Search string
	Course string
}

type FeeRecordFilter struct {
	StudentID string
	Status    PaymentStatus
}

type PaymentFilter struct {
	StudentID string
	From      *time.Time
	To        *time.Time
}

type ExpenseFilter struct {
	Category ExpenseCategory
	From     *time.Time
	To       *time.Time
}
