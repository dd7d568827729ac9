package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// startScheduler wires the recurring jobs: reminder circulation, bill due
// alerts, license renewal sweeps and the M365 usage sync. Specs and the
// timezone come from config so staging can run on a different cadence.
func startScheduler(deps *Dependencies) (*cron.Cron, error) {
	loc, err := deps.Config.Scheduler.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler timezone: %w", err)
	}

	scheduler := cron.New(cron.WithLocation(loc))

	jobs := []struct {
		name string
		spec string
		run  func() error
	}{
		{
			name: "maintenance-circulation",
			spec: deps.Config.Scheduler.MaintenanceSpec,
			run: func() error {
				summary, err := deps.Maintenance.CirculateDue()
				if err != nil {
					return err
				}
				deps.Logger.Info("maintenance circulation finished",
					"circulated", summary.Circulated,
					"emails_sent", summary.EmailsSent,
					"failures", summary.Failures)
				return nil
			},
		},
		{
			name: "bill-due-alerts",
			spec: deps.Config.Scheduler.BillSpec,
			run: func() error {
				sent, err := deps.Bill.SendDueReminders()
				if err != nil {
					return err
				}
				deps.Logger.Info("bill due alerts finished", "sent", sent)
				return nil
			},
		},
		{
			name: "software-renewal-sweep",
			spec: deps.Config.Scheduler.SoftwareSpec,
			run: func() error {
				summary, err := deps.Software.RunDailySweep()
				if err != nil {
					return err
				}
				deps.Logger.Info("software renewal sweep finished",
					"notified", summary.Notified,
					"renewed", summary.Renewed,
					"expired", summary.Expired)
				return nil
			},
		},
		{
			name: "m365-usage-sync",
			spec: deps.Config.Scheduler.M365Spec,
			run: func() error {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
				defer cancel()

				synced, err := deps.M365.Sync(ctx)
				if err != nil {
					return err
				}
				deps.Logger.Info("m365 usage sync finished", "synced", synced)
				return nil
			},
		},
	}

	for _, job := range jobs {
		job := job
		_, err := scheduler.AddFunc(job.spec, func() {
			deps.Logger.Info("scheduled job starting", "job", job.name)
			if err := job.run(); err != nil {
				deps.Logger.Error("scheduled job failed", "job", job.name, "error", err)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("failed to schedule %s (%q): %w", job.name, job.spec, err)
		}
	}

	scheduler.Start()
	deps.Logger.Info("scheduler started", "timezone", loc.String(), "jobs", len(jobs))

	return scheduler, nil
}
