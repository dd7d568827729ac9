package attendance

import (
	"time"
)

const (
	SendToEmployee = "employee"
	SendToHR       = "hr"
	SendToBoth     = "both"
)

// FingerprintAudit records one fingerprint-assignment notification run.
// Unlike every other notification path, the outcomes here are persisted:
// HR needs to prove who was told what when access disputes come up.
type FingerprintAudit struct {
	ID            int64              `json:"id" gorm:"primaryKey"`
	EmployeeID    int64              `json:"employee_id" gorm:"column:employee_id;index;not null"`
	EmployeeName  string             `json:"employee_name" gorm:"column:employee_name"`
	EmployeeEmail string             `json:"employee_email" gorm:"column:employee_email"`
	AssignedBy    string             `json:"assigned_by" gorm:"column:assigned_by"`
	SendTo        string             `json:"send_to" gorm:"column:send_to"`
	Outcomes      []RecipientOutcome `json:"outcomes" gorm:"foreignKey:AuditID"`
	CreatedAt     time.Time          `json:"created_at"`
}

func (FingerprintAudit) TableName() string {
	return "fingerprint_audits"
}

// RecipientOutcome is the delivery result for one recipient of the run.
type RecipientOutcome struct {
	ID        int64  `json:"id" gorm:"primaryKey"`
	AuditID   int64  `json:"audit_id" gorm:"column:audit_id;index;not null"`
	Recipient string `json:"recipient" gorm:"not null"`
	Address   string `json:"address" gorm:"not null"`
	Status    string `json:"status" gorm:"not null"`
	Error     string `json:"error,omitempty"`
}

func (RecipientOutcome) TableName() string {
	return "fingerprint_audit_outcomes"
}

func IsValidSendTo(s string) bool {
	return s == SendToEmployee || s == SendToHR || s == SendToBoth
}
