package broadband

import (
	"log/slog"

	"github.com/sterlingsteels/itdesk/internal"
	"github.com/sterlingsteels/itdesk/internal/core/clock"
)

// Repository defines the data access methods for monthly usage ledgers
type Repository interface {
	Create(m *MonthData) error
	GetAll() ([]*MonthData, error)
	GetByID(id int64) (*MonthData, error)
	Update(m *MonthData) error
	Delete(id int64) error
	AddAddon(a *Addon) error
}

type Service struct {
	repo   Repository
	clock  clock.Clock
	logger *slog.Logger
}

func NewService(repo Repository, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{repo: repo, clock: clk, logger: logger}
}

func (s *Service) CreateMonth(dto CreateMonthDataDTO) (*MonthData, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	m := &MonthData{
		Month:       dto.Month,
		Provider:    dto.Provider,
		BasePlanGB:  dto.BasePlanGB,
		BaseCost:    dto.BaseCost,
		TotalUsedGB: dto.TotalUsedGB,
	}
	if err := s.repo.Create(m); err != nil {
		s.logger.Error("failed to create month data", "error", err,
			"month", dto.Month, "provider", dto.Provider)
		return nil, err
	}

	s.logger.Info("month data created", "month_id", m.ID, "month", m.Month, "provider", m.Provider)
	return m, nil
}

func (s *Service) GetMonths() ([]*MonthData, error) {
	return s.repo.GetAll()
}

func (s *Service) GetMonth(id int64) (*MonthData, error) {
	m, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrMonthNotFound
	}
	return m, nil
}

func (s *Service) UpdateMonth(id int64, dto UpdateMonthDataDTO) (*MonthData, error) {
	m, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrMonthNotFound
	}

	dto.ApplyTo(m)

	if err := s.repo.Update(m); err != nil {
		s.logger.Error("failed to update month data", "error", err, "month_id", id)
		return nil, err
	}
	return m, nil
}

func (s *Service) DeleteMonth(id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return internal.ErrMonthNotFound
	}
	return s.repo.Delete(id)
}

// AddAddon attaches a mid-month data pack to a ledger.
func (s *Service) AddAddon(monthID int64, dto AddAddonDTO) (*MonthData, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByID(monthID); err != nil {
		return nil, internal.ErrMonthNotFound
	}

	addon := &Addon{
		MonthDataID: monthID,
		Name:        dto.Name,
		GB:          dto.GB,
		Cost:        dto.Cost,
		AddedAt:     s.clock.Now(),
	}
	if err := s.repo.AddAddon(addon); err != nil {
		s.logger.Error("failed to add addon", "error", err, "month_id", monthID)
		return nil, err
	}

	s.logger.Info("addon added", "month_id", monthID, "name", dto.Name, "gb", dto.GB)
	return s.GetMonth(monthID)
}
