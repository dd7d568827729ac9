package maintenance

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/sterlingsteels/itdesk/internal"
	"github.com/sterlingsteels/itdesk/internal/asset"
	"github.com/sterlingsteels/itdesk/internal/core/clock"
	"github.com/sterlingsteels/itdesk/internal/core/events"
	"github.com/sterlingsteels/itdesk/internal/core/locking"
	"github.com/sterlingsteels/itdesk/internal/employee"
	"github.com/sterlingsteels/itdesk/internal/export"
	"github.com/sterlingsteels/itdesk/internal/mailer"
)

// Repository defines the data access methods for reminders and reports
type Repository interface {
	CreateReminder(r *Reminder) error
	GetReminders() ([]*Reminder, error)
	GetReminderByID(id int64) (*Reminder, error)
	DeleteReminder(id int64) error
	// DueBetween returns reminders whose date falls in [start, end).
	DueBetween(start, end time.Time) ([]*Reminder, error)
	// Archive inserts the report and deletes the reminder in one
	// transaction; if the insert fails nothing is deleted.
	Archive(report *MaintenanceReport, reminderID int64) error
	GetReports() ([]*MaintenanceReport, error)
}

type EmployeeStore interface {
	GetByID(id int64) (*employee.Employee, error)
}

type AssetStore interface {
	GetByID(id int64) (*asset.Asset, error)
}

type Service struct {
	repo       Repository
	employees  EmployeeStore
	assets     AssetStore
	mail       mailer.Mailer
	bus        *events.EventBus
	keys       *locking.KeyedMutex
	clock      clock.Clock
	adminEmail string
	logger     *slog.Logger
}

func NewService(repo Repository, employees EmployeeStore, assets AssetStore, mail mailer.Mailer, bus *events.EventBus, keys *locking.KeyedMutex, clk clock.Clock, adminEmail string, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		employees:  employees,
		assets:     assets,
		mail:       mail,
		bus:        bus,
		keys:       keys,
		clock:      clk,
		adminEmail: adminEmail,
		logger:     logger,
	}
}

func (s *Service) CreateReminder(dto CreateReminderDTO) (*Reminder, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	emp, err := s.employees.GetByID(dto.EmployeeID)
	if err != nil {
		return nil, internal.ErrEmployeeNotFound
	}
	if _, err := s.assets.GetByID(dto.AssetID); err != nil {
		return nil, internal.ErrAssetNotFound
	}

	r := &Reminder{
		EmployeeID:   dto.EmployeeID,
		AssetID:      dto.AssetID,
		ReminderDate: *dto.ReminderDate,
		Notes:        dto.Notes,
	}
	if err := s.repo.CreateReminder(r); err != nil {
		s.logger.Error("failed to create reminder", "error", err, "employee_id", dto.EmployeeID)
		return nil, err
	}

	s.logger.Info("maintenance reminder created",
		"reminder_id", r.ID, "employee_id", r.EmployeeID, "asset_id", r.AssetID,
		"reminder_date", r.ReminderDate.Format("2006-01-02"))

	if dto.Notify && emp.Email != "" {
		s.notifyEmployee(emp, r, "Maintenance reminder scheduled")
	}

	return r, nil
}

func (s *Service) GetReminders() ([]*Reminder, error) {
	return s.repo.GetReminders()
}

func (s *Service) GetReminder(id int64) (*Reminder, error) {
	r, err := s.repo.GetReminderByID(id)
	if err != nil {
		return nil, internal.ErrReminderNotFound
	}
	return r, nil
}

func (s *Service) DeleteReminder(id int64) error {
	if _, err := s.repo.GetReminderByID(id); err != nil {
		return internal.ErrReminderNotFound
	}
	return s.repo.DeleteReminder(id)
}

// MarkReturned archives a reminder into the report table. The report insert
// and the reminder delete commit together; only after that commit is the
// circulation event published, so a failed archive never spawns a next
// cycle.
func (s *Service) MarkReturned(id int64, dto MarkReturnedDTO) (*MaintenanceReport, error) {
	key := fmt.Sprintf("reminder:%d", id)
	s.keys.Lock(key)
	defer s.keys.Unlock(key)

	r, err := s.repo.GetReminderByID(id)
	if err != nil {
		return nil, internal.ErrReminderNotFound
	}

	notes := r.Notes
	if dto.Notes != "" {
		notes = dto.Notes
	}

	report := &MaintenanceReport{
		EmployeeID:   r.EmployeeID,
		AssetID:      r.AssetID,
		ReminderDate: r.ReminderDate,
		Notes:        notes,
		ReturnedAt:   s.clock.Now(),
	}

	if err := s.repo.Archive(report, r.ID); err != nil {
		s.logger.Error("failed to archive reminder", "error", err, "reminder_id", id)
		return nil, internal.NewStoreError("could not archive maintenance reminder", err)
	}

	s.logger.Info("reminder archived", "reminder_id", id, "report_id", report.ID)

	event := events.NewReminderReturnedEvent(r.ID, r.EmployeeID, r.AssetID, r.ReminderDate, notes)
	if err := s.bus.Publish(context.Background(), event); err != nil {
		s.logger.Error("failed to publish reminder returned event", "error", err, "reminder_id", id)
	}

	return report, nil
}

// circulate spawns the next cycle one month after the given date. AddDate
// normalizes overflow the same way the rest of the month arithmetic here
// does (Jan 31 + 1 month lands on Mar 2/3).
func (s *Service) circulate(employeeID, assetID int64, fromDate time.Time, notes string) (*Reminder, error) {
	next := &Reminder{
		EmployeeID:   employeeID,
		AssetID:      assetID,
		ReminderDate: fromDate.AddDate(0, 1, 0),
		Notes:        notes,
	}
	if err := s.repo.CreateReminder(next); err != nil {
		return nil, err
	}
	s.logger.Info("reminder circulated",
		"reminder_id", next.ID, "employee_id", employeeID,
		"next_date", next.ReminderDate.Format("2006-01-02"), "notes", notes)
	return next, nil
}

// CirculateAfterReturn is the event-bus side of the manual path: the
// archived reminder's successor plus a heads-up email. Failures are logged,
// never propagated to the request that triggered the return.
func (s *Service) CirculateAfterReturn(employeeID, assetID int64, reminderDate time.Time) {
	next, err := s.circulate(employeeID, assetID, reminderDate, NotesCirculatedAfterReturn)
	if err != nil {
		s.logger.Error("post-return circulation failed", "error", err, "employee_id", employeeID)
		return
	}

	emp, err := s.employees.GetByID(employeeID)
	if err != nil || emp.Email == "" {
		return
	}
	s.notifyEmployee(emp, next, "Next maintenance cycle scheduled")
}

// CirculateDue is the daily sweep: every reminder due today gets a
// successor and its employee an email. The due reminder itself is left in
// place; archiving stays a manual act. Per-item failures are isolated and
// the admin summary goes out even when nothing circulated.
func (s *Service) CirculateDue() (*SweepSummary, error) {
	start, end := clock.DayBounds(s.clock.Now())
	due, err := s.repo.DueBetween(start, end)
	if err != nil {
		s.logger.Error("failed to load due reminders", "error", err)
		return nil, err
	}

	summary := &SweepSummary{}
	for _, r := range due {
		next, err := s.circulate(r.EmployeeID, r.AssetID, r.ReminderDate, NotesCirculatedFromSweep)
		if err != nil {
			s.logger.Error("sweep circulation failed", "error", err, "reminder_id", r.ID)
			summary.Failures++
			continue
		}
		summary.Circulated++

		emp, err := s.employees.GetByID(r.EmployeeID)
		if err != nil || emp.Email == "" {
			continue
		}
		if s.notifyEmployee(emp, next, "Maintenance due today") {
			summary.EmailsSent++
		}
	}

	s.sendSweepSummary(summary)
	return summary, nil
}

func (s *Service) notifyEmployee(emp *employee.Employee, r *Reminder, subject string) bool {
	assetLabel := fmt.Sprintf("#%d", r.AssetID)
	if a, err := s.assets.GetByID(r.AssetID); err == nil {
		assetLabel = fmt.Sprintf("%s (%s)", a.AssetTag, a.Name)
	}

	html := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Maintenance for asset <b>%s</b> is scheduled on <b>%s</b>.</p>
		<p>Notes: %s</p>`,
		emp.Name, assetLabel, r.ReminderDate.Format("2006-01-02"), r.Notes)

	result := s.mail.Send(context.Background(), mailer.Message{
		To:      emp.Email,
		Subject: subject,
		HTML:    html,
	})
	if !result.OK() {
		s.logger.Error("maintenance notification failed",
			"employee_id", emp.ID, "reminder_id", r.ID, "error", result.Err)
		return false
	}
	return true
}

func (s *Service) sendSweepSummary(summary *SweepSummary) {
	html := fmt.Sprintf(`
		<p>Daily maintenance circulation finished.</p>
		<ul>
			<li>Reminders circulated: %d</li>
			<li>Emails sent: %d</li>
			<li>Failures: %d</li>
		</ul>`,
		summary.Circulated, summary.EmailsSent, summary.Failures)

	result := s.mail.Send(context.Background(), mailer.Message{
		To:      s.adminEmail,
		Subject: fmt.Sprintf("Maintenance circulation summary: %d circulated", summary.Circulated),
		HTML:    html,
	})
	if !result.OK() {
		s.logger.Error("sweep summary email failed", "error", result.Err)
	}
}

func (s *Service) GetReports() ([]*MaintenanceReport, error) {
	return s.repo.GetReports()
}

// ExportExcel streams the archived maintenance reports.
func (s *Service) ExportExcel(w io.Writer) error {
	reports, err := s.repo.GetReports()
	if err != nil {
		return err
	}

	sheet, err := export.NewSheet("Maintenance Reports", []export.Column{
		{Header: "Employee", Width: 20},
		{Header: "Asset", Width: 25},
		{Header: "Reminder Date", Width: 15},
		{Header: "Returned At", Width: 15},
		{Header: "Notes", Width: 40},
	})
	if err != nil {
		return err
	}

	for _, rep := range reports {
		empLabel := fmt.Sprintf("#%d", rep.EmployeeID)
		if emp, err := s.employees.GetByID(rep.EmployeeID); err == nil {
			empLabel = emp.Name
		}
		assetLabel := fmt.Sprintf("#%d", rep.AssetID)
		if a, err := s.assets.GetByID(rep.AssetID); err == nil {
			assetLabel = fmt.Sprintf("%s (%s)", a.AssetTag, a.Name)
		}
		if err := sheet.AddRow(
			empLabel, assetLabel,
			rep.ReminderDate.Format("2006-01-02"),
			rep.ReturnedAt.Format("2006-01-02"),
			rep.Notes,
		); err != nil {
			return err
		}
	}

	_, err = sheet.WriteTo(w)
	return err
}
