package employee

import (
	"time"
)

const (
	ModePermanent = "permanent"
	ModeTemporary = "temporary"
)

// Employee is a staff member who can hold company assets.
type Employee struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"not null"`
	Email      string    `json:"email" gorm:"uniqueIndex;not null"`
	Department string    `json:"department"`
	Position   string    `json:"position"`
	Phone      string    `json:"phone"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}

// Assignment links an asset to its current holder. The unique index on
// asset_id is the invariant that an asset has at most one holder across
// all employees and both modes.
type Assignment struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	EmployeeID int64     `json:"employee_id" gorm:"column:employee_id;index;not null"`
	AssetID    int64     `json:"asset_id" gorm:"column:asset_id;uniqueIndex;not null"`
	Mode       string    `json:"mode" gorm:"not null"`
	AssignedAt time.Time `json:"assigned_at" gorm:"column:assigned_at"`
}

func (Assignment) TableName() string {
	return "employee_assets"
}

func IsValidMode(mode string) bool {
	return mode == ModePermanent || mode == ModeTemporary
}
