package maintenance

import (
	"time"
)

const (
	// notes stamped on reminders spawned by the two circulation paths
	NotesCirculatedAfterReturn = "Auto-circulated after return"
	NotesCirculatedFromSweep   = "Auto-circulated from previous reminder"
)

// Reminder is an active maintenance obligation: the named employee has the
// asset out and must bring it in around ReminderDate. Returning it archives
// the reminder into a MaintenanceReport.
type Reminder struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	EmployeeID   int64     `json:"employee_id" gorm:"column:employee_id;index;not null"`
	AssetID      int64     `json:"asset_id" gorm:"column:asset_id;index;not null"`
	ReminderDate time.Time `json:"reminder_date" gorm:"column:reminder_date;index;not null"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Reminder) TableName() string {
	return "maintenance_reminders"
}

// MaintenanceReport is the archived record of a completed cycle. Rows here
// are append-only.
type MaintenanceReport struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	EmployeeID   int64     `json:"employee_id" gorm:"column:employee_id;index;not null"`
	AssetID      int64     `json:"asset_id" gorm:"column:asset_id;index;not null"`
	ReminderDate time.Time `json:"reminder_date" gorm:"column:reminder_date;not null"`
	Notes        string    `json:"notes"`
	ReturnedAt   time.Time `json:"returned_at" gorm:"column:returned_at;not null"`
	CreatedAt    time.Time `json:"created_at"`
}

func (MaintenanceReport) TableName() string {
	return "maintenance_reports"
}

// SweepSummary is what the daily circulation reports to the admin.
type SweepSummary struct {
	Circulated int `json:"circulated"`
	EmailsSent int `json:"emails_sent"`
	Failures   int `json:"failures"`
}
