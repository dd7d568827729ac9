package broadband

import (
	"time"
)

// MonthData is one provider's usage ledger for one calendar month. The
// composite unique index keeps a provider from getting two ledgers for the
// same month.
type MonthData struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Month       string    `json:"month" gorm:"uniqueIndex:idx_month_provider;not null"`
	Provider    string    `json:"provider" gorm:"uniqueIndex:idx_month_provider;not null"`
	BasePlanGB  float64   `json:"base_plan_gb" gorm:"column:base_plan_gb"`
	BaseCost    float64   `json:"base_cost" gorm:"column:base_cost"`
	TotalUsedGB float64   `json:"total_used_gb" gorm:"column:total_used_gb"`
	Addons      []Addon   `json:"addons" gorm:"foreignKey:MonthDataID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (MonthData) TableName() string {
	return "broadband_months"
}

// Addon is an extra data pack bought mid-month.
type Addon struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	MonthDataID int64     `json:"month_data_id" gorm:"column:month_data_id;index;not null"`
	Name        string    `json:"name" gorm:"not null"`
	GB          float64   `json:"gb" gorm:"column:gb"`
	Cost        float64   `json:"cost"`
	AddedAt     time.Time `json:"added_at" gorm:"column:added_at"`
}

func (Addon) TableName() string {
	return "broadband_addons"
}

// TotalCost is the base plan plus every addon.
func (m *MonthData) TotalCost() float64 {
	total := m.BaseCost
	for _, a := range m.Addons {
		total += a.Cost
	}
	return total
}

// TotalCapGB is the base allowance plus every addon's data.
func (m *MonthData) TotalCapGB() float64 {
	total := m.BasePlanGB
	for _, a := range m.Addons {
		total += a.GB
	}
	return total
}
