package software

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sterlingsteels/itdesk/internal"
	"github.com/sterlingsteels/itdesk/internal/core/clock"
	"github.com/sterlingsteels/itdesk/internal/mailer"
)

// Repository defines the data access methods for software licenses
type Repository interface {
	Create(s *Software) error
	GetAll() ([]*Software, error)
	GetByID(id int64) (*Software, error)
	Update(s *Software) error
	Delete(id int64) error
	// ExpiringBefore returns unnotified licenses expiring at or before the
	// cutoff.
	ExpiringBefore(cutoff time.Time) ([]*Software, error)
	// ExpiredBefore returns non-expired licenses whose expiry has passed.
	ExpiredBefore(now time.Time) ([]*Software, error)
}

type Service struct {
	repo       Repository
	mail       mailer.Mailer
	clock      clock.Clock
	alertEmail string
	logger     *slog.Logger
}

func NewService(repo Repository, mail mailer.Mailer, clk clock.Clock, alertEmail string, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		mail:       mail,
		clock:      clk,
		alertEmail: alertEmail,
		logger:     logger,
	}
}

func (s *Service) CreateSoftware(dto CreateSoftwareDTO) (*Software, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	cycle := dto.RenewalCycle
	if cycle == "" {
		cycle = CycleYearly
	}

	sw := &Software{
		Name:          dto.Name,
		Category:      dto.Category,
		Vendor:        dto.Vendor,
		LicenseKey:    dto.LicenseKey,
		AssignedTo:    dto.AssignedTo,
		PurchaseDate:  dto.PurchaseDate,
		ExpiryDate:    *dto.ExpiryDate,
		RenewalCycle:  cycle,
		Cost:          dto.Cost,
		PaymentMethod: dto.PaymentMethod,
		AutoRenew:     dto.AutoRenew,
		Status:        StatusActive,
		Notes:         dto.Notes,
	}
	if err := s.repo.Create(sw); err != nil {
		s.logger.Error("failed to create software", "error", err, "name", dto.Name)
		return nil, err
	}

	s.logger.Info("software created", "software_id", sw.ID, "name", sw.Name,
		"expiry", sw.ExpiryDate.Format("2006-01-02"))
	return sw, nil
}

func (s *Service) GetSoftware(id int64) (*Software, error) {
	sw, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrSoftwareNotFound
	}
	return sw, nil
}

func (s *Service) GetAllSoftware() ([]*Software, error) {
	return s.repo.GetAll()
}

func (s *Service) UpdateSoftware(id int64, dto UpdateSoftwareDTO) (*Software, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	sw, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrSoftwareNotFound
	}

	dto.ApplyTo(sw)

	if err := s.repo.Update(sw); err != nil {
		s.logger.Error("failed to update software", "error", err, "software_id", id)
		return nil, err
	}
	return sw, nil
}

func (s *Service) DeleteSoftware(id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return internal.ErrSoftwareNotFound
	}
	return s.repo.Delete(id)
}

// NotifyUpcomingRenewals alerts on licenses expiring within the next seven
// days that haven't been warned about yet, marking each as notified and
// expiring so the alert fires once per cycle.
func (s *Service) NotifyUpcomingRenewals() (int, error) {
	now := s.clock.Now()
	cutoff := now.AddDate(0, 0, 7)

	upcoming, err := s.repo.ExpiringBefore(cutoff)
	if err != nil {
		s.logger.Error("failed to load expiring software", "error", err)
		return 0, err
	}

	notified := 0
	for _, sw := range upcoming {
		days := int(sw.ExpiryDate.Sub(now).Hours() / 24)
		html := fmt.Sprintf(`
			<p>License <b>%s</b> (%s) expires on <b>%s</b> (%d day(s) left).</p>
			<p>Renewal cycle: %s<br>Auto-renew: %t</p>`,
			sw.Name, sw.Vendor, sw.ExpiryDate.Format("2006-01-02"), days,
			sw.RenewalCycle, sw.AutoRenew)

		result := s.mail.Send(context.Background(), mailer.Message{
			To:      s.alertEmail,
			Subject: fmt.Sprintf("License expiring soon: %s", sw.Name),
			HTML:    html,
		})
		if !result.OK() {
			s.logger.Error("renewal notice failed", "software_id", sw.ID, "error", result.Err)
			continue
		}

		sw.Notified = true
		sw.Status = StatusExpiring
		if err := s.repo.Update(sw); err != nil {
			s.logger.Error("failed to mark software notified", "error", err, "software_id", sw.ID)
			continue
		}
		notified++
	}

	return notified, nil
}

// RenewOrExpire settles licenses whose expiry has passed: auto-renewing
// ones advance a cycle and re-arm their warning, the rest go to expired.
func (s *Service) RenewOrExpire() (renewed, expired int, err error) {
	now := s.clock.Now()
	past, err := s.repo.ExpiredBefore(now)
	if err != nil {
		s.logger.Error("failed to load lapsed software", "error", err)
		return 0, 0, err
	}

	for _, sw := range past {
		if sw.AutoRenew {
			if sw.RenewalCycle == CycleMonthly {
				sw.ExpiryDate = sw.ExpiryDate.AddDate(0, 1, 0)
			} else {
				sw.ExpiryDate = sw.ExpiryDate.AddDate(1, 0, 0)
			}
			sw.Status = StatusActive
			sw.Notified = false
			if err := s.repo.Update(sw); err != nil {
				s.logger.Error("failed to renew software", "error", err, "software_id", sw.ID)
				continue
			}
			renewed++
			s.logger.Info("software auto-renewed", "software_id", sw.ID,
				"next_expiry", sw.ExpiryDate.Format("2006-01-02"))
		} else {
			sw.Status = StatusExpired
			if err := s.repo.Update(sw); err != nil {
				s.logger.Error("failed to expire software", "error", err, "software_id", sw.ID)
				continue
			}
			expired++
			s.logger.Info("software expired", "software_id", sw.ID, "name", sw.Name)
		}
	}

	return renewed, expired, nil
}

// RunDailySweep runs the warning pass before the renewal pass so a license
// expiring today still gets its notice before auto-renew pushes the date
// out.
func (s *Service) RunDailySweep() (*SweepSummary, error) {
	notified, err := s.NotifyUpcomingRenewals()
	if err != nil {
		return nil, err
	}
	renewed, expired, err := s.RenewOrExpire()
	if err != nil {
		return nil, err
	}
	return &SweepSummary{Notified: notified, Renewed: renewed, Expired: expired}, nil
}
