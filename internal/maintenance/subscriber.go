package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/sterlingsteels/itdesk/internal/core/events"
)

// RegisterCirculationSubscriber wires the post-return circulation onto the
// event bus. The handler runs off the request path; any failure inside is
// logged by the service and swallowed here.
func RegisterCirculationSubscriber(bus *events.EventBus, service *Service) {
	bus.Subscribe(events.MaintenanceReminderReturned, func(ctx context.Context, event events.Event) error {
		data, ok := event.Payload().(map[string]interface{})
		if !ok {
			return fmt.Errorf("unexpected payload for %s", event.EventType())
		}

		employeeID, ok := data["employee_id"].(int64)
		if !ok {
			return fmt.Errorf("missing employee_id in %s", event.EventType())
		}
		assetID, ok := data["asset_id"].(int64)
		if !ok {
			return fmt.Errorf("missing asset_id in %s", event.EventType())
		}
		reminderDate, ok := data["reminder_date"].(time.Time)
		if !ok {
			return fmt.Errorf("missing reminder_date in %s", event.EventType())
		}

		service.CirculateAfterReturn(employeeID, assetID, reminderDate)
		return nil
	})
}
