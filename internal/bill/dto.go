package bill

import (
	"time"

	"github.com/sterlingsteels/itdesk/internal"
)

type CreateBillDTO struct {
	Name         string     `json:"name"`
	ReminderDate *time.Time `json:"reminder_date"`
	Priority     string     `json:"priority"`
	Recurring    bool       `json:"recurring"`
}

func (d CreateBillDTO) Validate() error {
	if d.Name == "" || d.ReminderDate == nil {
		return internal.NewValidationError("name and reminder_date are required", internal.ErrCodeMissingFields)
	}
	if d.Priority != "" && !IsValidPriority(d.Priority) {
		return internal.NewValidationError("priority must be Low, Medium or High", internal.ErrCodeValidationFailed)
	}
	return nil
}

// UpdateBillDTO is the whitelist of mutable bill fields. Status is not
// updatable; a bill leaves Pending only by being paid.
type UpdateBillDTO struct {
	Name         *string    `json:"name"`
	ReminderDate *time.Time `json:"reminder_date"`
	Priority     *string    `json:"priority"`
	Recurring    *bool      `json:"recurring"`
}

func (d UpdateBillDTO) Validate() error {
	if d.Priority != nil && !IsValidPriority(*d.Priority) {
		return internal.NewValidationError("priority must be Low, Medium or High", internal.ErrCodeValidationFailed)
	}
	return nil
}

func (d UpdateBillDTO) ApplyTo(b *Bill) {
	if d.Name != nil {
		b.Name = *d.Name
	}
	if d.ReminderDate != nil {
		b.ReminderDate = *d.ReminderDate
	}
	if d.Priority != nil {
		b.Priority = *d.Priority
	}
	if d.Recurring != nil {
		b.Recurring = *d.Recurring
	}
}
