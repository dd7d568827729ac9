package bill

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/sterlingsteels/itdesk/internal"
	"github.com/sterlingsteels/itdesk/internal/core/clock"
	"github.com/sterlingsteels/itdesk/internal/core/locking"
	"github.com/sterlingsteels/itdesk/internal/export"
	"github.com/sterlingsteels/itdesk/internal/mailer"
)

// Repository defines the data access methods for bills and their reports
type Repository interface {
	Create(b *Bill) error
	GetAll() ([]*Bill, error)
	GetByID(id int64) (*Bill, error)
	Update(b *Bill) error
	Delete(id int64) error
	// PendingDueBetween returns pending bills due in [start, end).
	PendingDueBetween(start, end time.Time) ([]*Bill, error)
	CountPending() (int64, error)
	// Pay archives the bill, optionally creates its successor and deletes
	// the original, all in one transaction.
	Pay(report *BillReport, next *Bill, billID int64) error
	GetReports() ([]*BillReport, error)
}

type Service struct {
	repo       Repository
	mail       mailer.Mailer
	keys       *locking.KeyedMutex
	clock      clock.Clock
	alertEmail string
	logger     *slog.Logger
}

func NewService(repo Repository, mail mailer.Mailer, keys *locking.KeyedMutex, clk clock.Clock, alertEmail string, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		mail:       mail,
		keys:       keys,
		clock:      clk,
		alertEmail: alertEmail,
		logger:     logger,
	}
}

func (s *Service) CreateBill(dto CreateBillDTO) (*Bill, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	priority := dto.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	b := &Bill{
		Name:         dto.Name,
		ReminderDate: *dto.ReminderDate,
		Status:       StatusPending,
		Priority:     priority,
		Recurring:    dto.Recurring,
	}
	if err := s.repo.Create(b); err != nil {
		s.logger.Error("failed to create bill", "error", err, "name", dto.Name)
		return nil, err
	}

	s.logger.Info("bill created", "bill_id", b.ID, "name", b.Name, "recurring", b.Recurring)
	return b, nil
}

func (s *Service) GetBills() ([]*Bill, error) {
	return s.repo.GetAll()
}

func (s *Service) GetBill(id int64) (*Bill, error) {
	b, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrBillNotFound
	}
	return b, nil
}

func (s *Service) UpdateBill(id int64, dto UpdateBillDTO) (*Bill, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	b, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrBillNotFound
	}

	dto.ApplyTo(b)

	if err := s.repo.Update(b); err != nil {
		s.logger.Error("failed to update bill", "error", err, "bill_id", id)
		return nil, err
	}
	return b, nil
}

func (s *Service) DeleteBill(id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return internal.ErrBillNotFound
	}
	return s.repo.Delete(id)
}

// Pay archives a bill into the report table. A recurring bill's successor
// lands one month out in the same commit, so either the whole rollover
// happens or none of it does.
func (s *Service) Pay(id int64) (*BillReport, error) {
	key := fmt.Sprintf("bill:%d", id)
	s.keys.Lock(key)
	defer s.keys.Unlock(key)

	b, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrBillNotFound
	}

	report := &BillReport{
		Name:                 b.Name,
		OriginalReminderDate: b.ReminderDate,
		Priority:             b.Priority,
		PaidDate:             s.clock.Now(),
	}

	var next *Bill
	if b.Recurring {
		next = &Bill{
			Name:         b.Name,
			ReminderDate: b.ReminderDate.AddDate(0, 1, 0),
			Status:       StatusPending,
			Priority:     b.Priority,
			Recurring:    true,
		}
	}

	if err := s.repo.Pay(report, next, b.ID); err != nil {
		s.logger.Error("failed to pay bill", "error", err, "bill_id", id)
		return nil, internal.NewStoreError("could not record bill payment", err)
	}

	if next != nil {
		s.logger.Info("bill paid and rolled over",
			"bill_id", id, "report_id", report.ID,
			"next_date", next.ReminderDate.Format("2006-01-02"))
	} else {
		s.logger.Info("bill paid", "bill_id", id, "report_id", report.ID)
	}

	return report, nil
}

// SendDueReminders emails one alert per pending bill due today. The bills
// themselves are not touched, so a bill left unpaid alerts again tomorrow
// if its date is moved, and every day it stays due.
func (s *Service) SendDueReminders() (int, error) {
	start, end := clock.DayBounds(s.clock.Now())
	due, err := s.repo.PendingDueBetween(start, end)
	if err != nil {
		s.logger.Error("failed to load due bills", "error", err)
		return 0, err
	}

	sent := 0
	for _, b := range due {
		html := fmt.Sprintf(`
			<p>Bill <b>%s</b> is due today (%s).</p>
			<p>Priority: %s</p>`,
			b.Name, b.ReminderDate.Format("2006-01-02"), b.Priority)

		result := s.mail.Send(context.Background(), mailer.Message{
			To:      s.alertEmail,
			Subject: fmt.Sprintf("Bill due today: %s", b.Name),
			HTML:    html,
		})
		if !result.OK() {
			s.logger.Error("bill reminder failed", "bill_id", b.ID, "error", result.Err)
			continue
		}
		sent++
	}

	s.logger.Info("bill reminders sent", "due", len(due), "sent", sent)
	return sent, nil
}

func (s *Service) PendingCount() (int64, error) {
	return s.repo.CountPending()
}

func (s *Service) GetReports() ([]*BillReport, error) {
	return s.repo.GetReports()
}

// ExportExcel streams the paid-bill archive.
func (s *Service) ExportExcel(w io.Writer) error {
	reports, err := s.repo.GetReports()
	if err != nil {
		return err
	}

	sheet, err := export.NewSheet("Paid Bills", []export.Column{
		{Header: "Name", Width: 25},
		{Header: "Original Due Date", Width: 18},
		{Header: "Priority", Width: 12},
		{Header: "Paid Date", Width: 15},
	})
	if err != nil {
		return err
	}

	for _, rep := range reports {
		if err := sheet.AddRow(
			rep.Name,
			rep.OriginalReminderDate.Format("2006-01-02"),
			rep.Priority,
			rep.PaidDate.Format("2006-01-02"),
		); err != nil {
			return err
		}
	}

	_, err = sheet.WriteTo(w)
	return err
}
