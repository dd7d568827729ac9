package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	MaintenanceReminderReturned = "maintenance.reminder_returned"
)

// NewReminderReturnedEvent is published after a reminder has been archived
// so the next cycle can be circulated without blocking the caller.
func NewReminderReturnedEvent(reminderID, employeeID, assetID int64, reminderDate time.Time, notes string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      MaintenanceReminderReturned,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"reminder_id":   reminderID,
			"employee_id":   employeeID,
			"asset_id":      assetID,
			"reminder_date": reminderDate,
			"notes":         notes,
		},
	}
}
