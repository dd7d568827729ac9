package broadband

import (
	"time"

	"github.com/sterlingsteels/itdesk/internal"
)

type CreateMonthDataDTO struct {
	Month       string  `json:"month"`
	Provider    string  `json:"provider"`
	BasePlanGB  float64 `json:"base_plan_gb"`
	BaseCost    float64 `json:"base_cost"`
	TotalUsedGB float64 `json:"total_used_gb"`
}

func (d CreateMonthDataDTO) Validate() error {
	if d.Month == "" || d.Provider == "" {
		return internal.NewValidationError("month and provider are required", internal.ErrCodeMissingFields)
	}
	if _, err := time.Parse("2006-01", d.Month); err != nil {
		return internal.NewValidationError("month must be in YYYY-MM format", internal.ErrCodeValidationFailed)
	}
	return nil
}

// UpdateMonthDataDTO is the whitelist of mutable fields. Month and
// provider form the identity and never change.
type UpdateMonthDataDTO struct {
	BasePlanGB  *float64 `json:"base_plan_gb"`
	BaseCost    *float64 `json:"base_cost"`
	TotalUsedGB *float64 `json:"total_used_gb"`
}

func (d UpdateMonthDataDTO) ApplyTo(m *MonthData) {
	if d.BasePlanGB != nil {
		m.BasePlanGB = *d.BasePlanGB
	}
	if d.BaseCost != nil {
		m.BaseCost = *d.BaseCost
	}
	if d.TotalUsedGB != nil {
		m.TotalUsedGB = *d.TotalUsedGB
	}
}

type AddAddonDTO struct {
	Name string  `json:"name"`
	GB   float64 `json:"gb"`
	Cost float64 `json:"cost"`
}

func (d AddAddonDTO) Validate() error {
	if d.Name == "" {
		return internal.NewValidationError("name is required", internal.ErrCodeMissingFields)
	}
	return nil
}
