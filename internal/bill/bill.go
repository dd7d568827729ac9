package bill

import (
	"time"
)

const (
	StatusPending = "Pending"
	StatusPaid    = "Paid"

	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// Bill is an upcoming payable. Paying one archives it into a BillReport;
// a recurring bill also spawns next month's copy in the same commit.
type Bill struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	ReminderDate time.Time `json:"reminder_date" gorm:"column:reminder_date;index;not null"`
	Status       string    `json:"status" gorm:"default:'Pending'"`
	Priority     string    `json:"priority" gorm:"default:'Medium'"`
	Recurring    bool      `json:"recurring"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Bill) TableName() string {
	return "bills"
}

// BillReport is the archived record of a paid bill.
type BillReport struct {
	ID                   int64     `json:"id" gorm:"primaryKey"`
	Name                 string    `json:"name" gorm:"not null"`
	OriginalReminderDate time.Time `json:"original_reminder_date" gorm:"column:original_reminder_date;not null"`
	Priority             string    `json:"priority"`
	PaidDate             time.Time `json:"paid_date" gorm:"column:paid_date;not null"`
	CreatedAt            time.Time `json:"created_at"`
}

func (BillReport) TableName() string {
	return "bill_reports"
}

func IsValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}
