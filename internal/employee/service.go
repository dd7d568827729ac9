package employee

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/sterlingsteels/itdesk/internal"
	"github.com/sterlingsteels/itdesk/internal/asset"
	"github.com/sterlingsteels/itdesk/internal/core/clock"
	"github.com/sterlingsteels/itdesk/internal/core/locking"
	"github.com/sterlingsteels/itdesk/internal/export"
	"github.com/sterlingsteels/itdesk/internal/mailer"
)

// Repository defines the data access methods for employees and their
// asset assignments
type Repository interface {
	Create(e *Employee) error
	GetAll() ([]*Employee, error)
	GetByID(id int64) (*Employee, error)
	Update(e *Employee) error
	Delete(id int64) error

	AssignmentsFor(employeeID int64) ([]*Assignment, error)
	AssignmentForAsset(assetID int64) (*Assignment, error)
	AddAssignment(a *Assignment) error
	RemoveAssignment(employeeID, assetID int64) error
}

// AssetStore is the slice of the asset domain this service needs to move
// assets between holders.
type AssetStore interface {
	GetByID(id int64) (*asset.Asset, error)
	Update(a *asset.Asset) error
}

type Service struct {
	repo       Repository
	assets     AssetStore
	mail       mailer.Mailer
	keys       *locking.KeyedMutex
	clock      clock.Clock
	adminEmail string
	logger     *slog.Logger
}

func NewService(repo Repository, assets AssetStore, mail mailer.Mailer, keys *locking.KeyedMutex, clk clock.Clock, adminEmail string, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		assets:     assets,
		mail:       mail,
		keys:       keys,
		clock:      clk,
		adminEmail: adminEmail,
		logger:     logger,
	}
}

func (s *Service) CreateEmployee(dto CreateEmployeeDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	e := &Employee{
		Name:       dto.Name,
		Email:      dto.Email,
		Department: dto.Department,
		Position:   dto.Position,
		Phone:      dto.Phone,
	}

	if err := s.repo.Create(e); err != nil {
		s.logger.Error("failed to create employee", "error", err, "email", dto.Email)
		return nil, err
	}

	s.logger.Info("employee created", "employee_id", e.ID, "email", e.Email)
	return e, nil
}

func (s *Service) GetEmployees() ([]*Employee, error) {
	return s.repo.GetAll()
}

func (s *Service) GetEmployee(id int64) (*Employee, error) {
	e, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrEmployeeNotFound
	}
	return e, nil
}

// EmployeeDetail is an employee with their current holdings split by mode.
type EmployeeDetail struct {
	*Employee
	AssignedAssets     []*asset.Asset `json:"assigned_assets"`
	TempAssignedAssets []*asset.Asset `json:"temp_assigned_assets"`
}

func (s *Service) GetEmployeeDetail(id int64) (*EmployeeDetail, error) {
	e, err := s.GetEmployee(id)
	if err != nil {
		return nil, err
	}

	assignments, err := s.repo.AssignmentsFor(id)
	if err != nil {
		return nil, err
	}

	detail := &EmployeeDetail{
		Employee:           e,
		AssignedAssets:     []*asset.Asset{},
		TempAssignedAssets: []*asset.Asset{},
	}
	for _, asg := range assignments {
		a, err := s.assets.GetByID(asg.AssetID)
		if err != nil {
			s.logger.Warn("assignment points at a missing asset", "employee_id", id, "asset_id", asg.AssetID)
			continue
		}
		if asg.Mode == ModeTemporary {
			detail.TempAssignedAssets = append(detail.TempAssignedAssets, a)
		} else {
			detail.AssignedAssets = append(detail.AssignedAssets, a)
		}
	}
	return detail, nil
}

func (s *Service) UpdateEmployee(id int64, dto UpdateEmployeeDTO) (*Employee, error) {
	e, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrEmployeeNotFound
	}

	dto.ApplyTo(e)

	if err := s.repo.Update(e); err != nil {
		s.logger.Error("failed to update employee", "error", err, "employee_id", id)
		return nil, err
	}
	return e, nil
}

// DeleteEmployee releases every held asset back to the pool before the
// employee row goes away.
func (s *Service) DeleteEmployee(id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return internal.ErrEmployeeNotFound
	}

	assignments, err := s.repo.AssignmentsFor(id)
	if err != nil {
		return err
	}
	for _, asg := range assignments {
		if err := s.releaseAsset(id, asg.AssetID); err != nil {
			return err
		}
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete employee", "error", err, "employee_id", id)
		return err
	}
	s.logger.Info("employee deleted", "employee_id", id)
	return nil
}

// AssignAssets hands the listed assets to an employee. Membership is
// idempotent: an asset the employee already holds is skipped. Permanent
// assignment marks the asset in-use; temporary assignment leaves it
// available so it still shows up in the loaner pool.
func (s *Service) AssignAssets(employeeID int64, dto AssignAssetsDTO) (*EmployeeDetail, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	e, err := s.repo.GetByID(employeeID)
	if err != nil {
		return nil, internal.ErrEmployeeNotFound
	}

	var granted []*asset.Asset
	for _, assetID := range dto.AssetIDs {
		a, err := s.assignOne(employeeID, assetID, dto.Mode)
		if err != nil {
			return nil, err
		}
		if a != nil {
			granted = append(granted, a)
		}
	}

	if dto.Notify && e.Email != "" && len(granted) > 0 {
		s.notifyAssignment(e, granted, dto.Mode)
	}

	return s.GetEmployeeDetail(employeeID)
}

// assignOne returns the asset when a new assignment was made, nil when the
// employee already held it.
func (s *Service) assignOne(employeeID, assetID int64, mode string) (*asset.Asset, error) {
	key := fmt.Sprintf("asset:%d", assetID)
	s.keys.Lock(key)
	defer s.keys.Unlock(key)

	a, err := s.assets.GetByID(assetID)
	if err != nil {
		return nil, internal.ErrAssetNotFound
	}

	existing, err := s.repo.AssignmentForAsset(assetID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.EmployeeID == employeeID {
			return nil, nil
		}
		return nil, internal.ErrAssetAssigned
	}

	if err := s.repo.AddAssignment(&Assignment{
		EmployeeID: employeeID,
		AssetID:    assetID,
		Mode:       mode,
		AssignedAt: s.clock.Now(),
	}); err != nil {
		s.logger.Error("failed to record assignment", "error", err, "employee_id", employeeID, "asset_id", assetID)
		return nil, err
	}

	a.AssignedTo = &employeeID
	if mode == ModePermanent {
		a.Status = asset.StatusInUse
	}
	if err := s.assets.Update(a); err != nil {
		return nil, err
	}

	s.logger.Info("asset assigned", "employee_id", employeeID, "asset_id", assetID, "mode", mode)
	return a, nil
}

// UnassignAssets releases the listed assets. Assets the employee does not
// hold are skipped.
func (s *Service) UnassignAssets(employeeID int64, dto UnassignAssetsDTO) (*EmployeeDetail, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByID(employeeID); err != nil {
		return nil, internal.ErrEmployeeNotFound
	}

	for _, assetID := range dto.AssetIDs {
		if err := s.releaseAsset(employeeID, assetID); err != nil {
			return nil, err
		}
	}

	return s.GetEmployeeDetail(employeeID)
}

func (s *Service) releaseAsset(employeeID, assetID int64) error {
	key := fmt.Sprintf("asset:%d", assetID)
	s.keys.Lock(key)
	defer s.keys.Unlock(key)

	existing, err := s.repo.AssignmentForAsset(assetID)
	if err != nil {
		return err
	}
	if existing == nil || existing.EmployeeID != employeeID {
		return nil
	}

	if err := s.repo.RemoveAssignment(employeeID, assetID); err != nil {
		return err
	}

	a, err := s.assets.GetByID(assetID)
	if err != nil {
		s.logger.Warn("released assignment for a missing asset", "asset_id", assetID)
		return nil
	}
	a.AssignedTo = nil
	a.Status = asset.StatusAvailable
	if err := s.assets.Update(a); err != nil {
		return err
	}

	s.logger.Info("asset unassigned", "employee_id", employeeID, "asset_id", assetID)
	return nil
}

// Resolve satisfies the asset domain's assignee lookup for scan payloads.
func (s *Service) Resolve(employeeID int64) (*asset.ScanAssignee, error) {
	e, err := s.repo.GetByID(employeeID)
	if err != nil {
		return nil, internal.ErrEmployeeNotFound
	}
	return &asset.ScanAssignee{
		Name:       e.Name,
		Email:      e.Email,
		Department: e.Department,
	}, nil
}

func (s *Service) notifyAssignment(e *Employee, granted []*asset.Asset, mode string) {
	var rows strings.Builder
	for _, a := range granted {
		rows.WriteString(fmt.Sprintf(
			"<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
			a.AssetTag, a.Name, a.Brand, a.SerialNumber,
		))
	}

	modeLabel := "permanently"
	if mode == ModeTemporary {
		modeLabel = "temporarily"
	}

	html := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>The following assets have been %s assigned to you:</p>
		<table border="1" cellpadding="6" cellspacing="0">
			<tr><th>Asset Tag</th><th>Name</th><th>Brand</th><th>Serial</th></tr>
			%s
		</table>
		<p>Please contact the IT department if anything looks wrong.</p>`,
		e.Name, modeLabel, rows.String())

	result := s.mail.Send(context.Background(), mailer.Message{
		To:      e.Email,
		CC:      s.adminEmail,
		Subject: "Assets assigned to you",
		HTML:    html,
	})
	if !result.OK() {
		s.logger.Error("assignment notification failed", "employee_id", e.ID, "error", result.Err)
	}
}

// ExportExcel streams the employee register with current holdings.
func (s *Service) ExportExcel(w io.Writer) error {
	employees, err := s.repo.GetAll()
	if err != nil {
		return err
	}

	sheet, err := export.NewSheet("Employees Report", []export.Column{
		{Header: "Name", Width: 20},
		{Header: "Email", Width: 25},
		{Header: "Department", Width: 15},
		{Header: "Position", Width: 15},
		{Header: "Assigned Assets", Width: 35},
		{Header: "Temporary Assets", Width: 35},
	})
	if err != nil {
		return err
	}

	for _, e := range employees {
		assignments, err := s.repo.AssignmentsFor(e.ID)
		if err != nil {
			return err
		}
		var permanent, temporary []string
		for _, asg := range assignments {
			a, err := s.assets.GetByID(asg.AssetID)
			if err != nil {
				continue
			}
			label := fmt.Sprintf("%s (%s)", a.AssetTag, a.Name)
			if asg.Mode == ModeTemporary {
				temporary = append(temporary, label)
			} else {
				permanent = append(permanent, label)
			}
		}
		if err := sheet.AddRow(
			e.Name, e.Email, e.Department, e.Position,
			strings.Join(permanent, ", "), strings.Join(temporary, ", "),
		); err != nil {
			return err
		}
	}

	_, err = sheet.WriteTo(w)
	return err
}
