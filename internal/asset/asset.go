package asset

import (
	"time"
)

const (
	StatusAvailable   = "available"
	StatusInUse       = "in-use"
	StatusMaintenance = "maintenance"
	StatusUnderRepair = "under-repair"
)

// Asset is a tracked hardware item. AssetTag is the immutable human-facing
// identifier printed on the physical label.
type Asset struct {
	ID             int64      `json:"id" gorm:"primaryKey"`
	AssetTag       string     `json:"asset_tag" gorm:"column:asset_tag;uniqueIndex;not null"`
	Name           string     `json:"name" gorm:"not null"`
	Category       string     `json:"category" gorm:"not null"`
	Brand          string     `json:"brand"`
	Model          string     `json:"model"`
	SerialNumber   string     `json:"serial_number" gorm:"column:serial_number"`
	PurchaseDate   *time.Time `json:"purchase_date,omitempty" gorm:"column:purchase_date"`
	WarrantyExpiry *time.Time `json:"warranty_expiry,omitempty" gorm:"column:warranty_expiry"`
	AssignedTo     *int64     `json:"assigned_to,omitempty" gorm:"column:assigned_to"`
	Status         string     `json:"status" gorm:"default:'available'"`
	Location       string     `json:"location"`
	Remarks        string     `json:"remarks"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (Asset) TableName() string {
	return "assets"
}

func (a *Asset) IsAssigned() bool {
	return a.AssignedTo != nil
}

func (a *Asset) CanDispatch() bool {
	return a.Status != StatusUnderRepair
}

var ValidStatuses = []string{StatusAvailable, StatusInUse, StatusMaintenance, StatusUnderRepair}

func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}
