package software

import (
	"time"
)

const (
	StatusActive   = "active"
	StatusExpiring = "expiring"
	StatusExpired  = "expired"

	CycleMonthly = "monthly"
	CycleYearly  = "yearly"
	CycleNone    = "none"
)

// Software is a license or subscription with an expiry the daily sweep
// watches. Notified flips after the expiry warning so the alert only goes
// out once per cycle; a renewal resets it.
type Software struct {
	ID            int64      `json:"id" gorm:"primaryKey"`
	Name          string     `json:"name" gorm:"not null"`
	Category      string     `json:"category"`
	Vendor        string     `json:"vendor"`
	LicenseKey    string     `json:"license_key" gorm:"column:license_key"`
	AssignedTo    string     `json:"assigned_to" gorm:"column:assigned_to"`
	PurchaseDate  *time.Time `json:"purchase_date,omitempty" gorm:"column:purchase_date"`
	ExpiryDate    time.Time  `json:"expiry_date" gorm:"column:expiry_date;index;not null"`
	RenewalCycle  string     `json:"renewal_cycle" gorm:"column:renewal_cycle;default:'yearly'"`
	Cost          float64    `json:"cost"`
	PaymentMethod string     `json:"payment_method" gorm:"column:payment_method"`
	AutoRenew     bool       `json:"auto_renew" gorm:"column:auto_renew"`
	Status        string     `json:"status" gorm:"default:'active'"`
	Notes         string     `json:"notes"`
	Notified      bool       `json:"notified"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (Software) TableName() string {
	return "software"
}

func IsValidCycle(c string) bool {
	return c == CycleMonthly || c == CycleYearly || c == CycleNone
}

// SweepSummary reports what the daily sweep did.
type SweepSummary struct {
	Notified int `json:"notified"`
	Renewed  int `json:"renewed"`
	Expired  int `json:"expired"`
}
