package models

type PaymentStatus string

const (
	StatusPending PaymentStatus = "pending"
	StatusPaid    PaymentStatus = "paid"
	StatusOverdue PaymentStatus = "overdue"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue:
		return true
	}
	return false
}

type FeeType string

const (
	FeeTuition       FeeType = "tuition"
	FeeHostel        FeeType = "hostel"
	FeeLab           FeeType = "lab"
	FeeLibrary       FeeType = "library"
	FeeExam          FeeType = "exam"
	FeeMiscellaneous FeeType = "miscellaneous"
)

func (t FeeType) Valid() bool {
	switch t {
	case FeeTuition, FeeHostel, FeeLab, FeeLibrary, FeeExam, FeeMiscellaneous:
		return true
	}
	return false
}

type ExpenseCategory string

const (
	ExpenseInfrastructure ExpenseCategory = "infrastructure"
	ExpenseSalaries       ExpenseCategory = "salaries"
	ExpenseUtilities      ExpenseCategory = "utilities"
	ExpenseMaintenance    ExpenseCategory = "maintenance"
	ExpenseEquipment      ExpenseCategory = "equipment"
	ExpenseMiscellaneous  ExpenseCategory = "miscellaneous"
)

func (c ExpenseCategory) Valid() bool {
	switch c {
	case ExpenseInfrastructure, ExpenseSalaries, ExpenseUtilities,
		ExpenseMaintenance, ExpenseEquipment, ExpenseMiscellaneous:
		return true
	}
	return false
}
