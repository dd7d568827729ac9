package maintenance

import (
	"time"

	"github.com/sterlingsteels/itdesk/internal"
)

type CreateReminderDTO struct {
	EmployeeID   int64      `json:"employee_id"`
	AssetID      int64      `json:"asset_id"`
	ReminderDate *time.Time `json:"reminder_date"`
	Notes        string     `json:"notes"`
	Notify       bool       `json:"notify"`
}

func (d CreateReminderDTO) Validate() error {
	if d.EmployeeID == 0 || d.AssetID == 0 || d.ReminderDate == nil {
		return internal.NewValidationError("employee_id, asset_id and reminder_date are required", internal.ErrCodeMissingFields)
	}
	return nil
}

type MarkReturnedDTO struct {
	Notes string `json:"notes"`
}
