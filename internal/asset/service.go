package asset

import (
	"io"
	"log/slog"

	"github.com/sterlingsteels/itdesk/internal"
	"github.com/sterlingsteels/itdesk/internal/core/clock"
	"github.com/sterlingsteels/itdesk/internal/export"
)

// Repository defines the data access methods for assets
type Repository interface {
	Create(a *Asset) error
	GetAll() ([]*Asset, error)
	GetByID(id int64) (*Asset, error)
	GetByTag(tag string) (*Asset, error)
	Update(a *Asset) error
	Delete(id int64) error
}

// AssigneeResolver looks up the employee snapshot embedded in scan payloads.
type AssigneeResolver interface {
	Resolve(employeeID int64) (*ScanAssignee, error)
}

type Service struct {
	repo     Repository
	resolver AssigneeResolver
	clock    clock.Clock
	logger   *slog.Logger
}

func NewService(repo Repository, resolver AssigneeResolver, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		clock:    clk,
		logger:   logger,
	}
}

func (s *Service) CreateAsset(dto CreateAssetDTO) (*Asset, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("asset validation failed", "error", err, "asset_tag", dto.AssetTag)
		return nil, err
	}

	status := dto.Status
	if status == "" {
		status = StatusAvailable
	}

	a := &Asset{
		AssetTag:       dto.AssetTag,
		Name:           dto.Name,
		Category:       dto.Category,
		Brand:          dto.Brand,
		Model:          dto.Model,
		SerialNumber:   dto.SerialNumber,
		PurchaseDate:   dto.PurchaseDate,
		WarrantyExpiry: dto.WarrantyExpiry,
		Status:         status,
		Location:       dto.Location,
		Remarks:        dto.Remarks,
	}

	if err := s.repo.Create(a); err != nil {
		s.logger.Error("failed to create asset", "error", err, "asset_tag", dto.AssetTag)
		return nil, err
	}

	s.logger.Info("asset created", "asset_id", a.ID, "asset_tag", a.AssetTag)
	return a, nil
}

func (s *Service) GetAssets() ([]*Asset, error) {
	assets, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list assets", "error", err)
		return nil, err
	}
	return assets, nil
}

func (s *Service) GetAsset(id int64) (*Asset, error) {
	a, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get asset", "error", err, "asset_id", id)
		return nil, internal.ErrAssetNotFound
	}
	return a, nil
}

func (s *Service) GetAssetByTag(tag string) (*Asset, error) {
	a, err := s.repo.GetByTag(tag)
	if err != nil {
		s.logger.Error("failed to get asset by tag", "error", err, "asset_tag", tag)
		return nil, internal.ErrAssetNotFound
	}
	return a, nil
}

func (s *Service) UpdateAsset(id int64, dto UpdateAssetDTO) (*Asset, error) {
	a, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrAssetNotFound
	}

	dto.ApplyTo(a)

	if err := s.repo.Update(a); err != nil {
		s.logger.Error("failed to update asset", "error", err, "asset_id", id)
		return nil, err
	}

	return a, nil
}

func (s *Service) DeleteAsset(id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return internal.ErrAssetNotFound
	}
	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete asset", "error", err, "asset_id", id)
		return err
	}
	s.logger.Info("asset deleted", "asset_id", id)
	return nil
}

// AgeOf renders the asset's calendar age, empty when no purchase date is
// recorded.
func (s *Service) AgeOf(a *Asset) string {
	if a.PurchaseDate == nil {
		return ""
	}
	return AgeAt(*a.PurchaseDate, s.clock.Now()).String()
}

// ScanPayloadFor builds the label snapshot, resolving the current assignee
// when the asset is assigned.
func (s *Service) ScanPayloadFor(a *Asset) (ScanPayload, error) {
	var assignee *ScanAssignee
	if a.AssignedTo != nil {
		resolved, err := s.resolver.Resolve(*a.AssignedTo)
		if err != nil {
			s.logger.Warn("assignee lookup failed for scan payload",
				"asset_id", a.ID, "employee_id", *a.AssignedTo, "error", err)
		} else {
			assignee = resolved
		}
	}
	return NewScanPayload(a, assignee), nil
}

func (s *Service) QRCodePNG(id int64, size int) ([]byte, error) {
	a, err := s.GetAsset(id)
	if err != nil {
		return nil, err
	}
	payload, err := s.ScanPayloadFor(a)
	if err != nil {
		return nil, err
	}
	return payload.EncodePNG(size)
}

// ExportExcel streams the asset register, including the computed age column.
func (s *Service) ExportExcel(w io.Writer) error {
	assets, err := s.repo.GetAll()
	if err != nil {
		return err
	}

	sheet, err := export.NewSheet("Assets Report", []export.Column{
		{Header: "Asset Tag", Width: 15},
		{Header: "Name", Width: 20},
		{Header: "Brand", Width: 15},
		{Header: "Model", Width: 15},
		{Header: "Serial Number", Width: 20},
		{Header: "Purchase Date", Width: 15},
		{Header: "Age", Width: 20},
		{Header: "Warranty Expiry", Width: 15},
		{Header: "Location", Width: 15},
		{Header: "Status", Width: 15},
		{Header: "Remarks", Width: 30},
	})
	if err != nil {
		return err
	}

	for _, a := range assets {
		purchase := ""
		if a.PurchaseDate != nil {
			purchase = a.PurchaseDate.Format("2006-01-02")
		}
		warranty := ""
		if a.WarrantyExpiry != nil {
			warranty = a.WarrantyExpiry.Format("2006-01-02")
		}
		if err := sheet.AddRow(
			a.AssetTag, a.Name, a.Brand, a.Model, a.SerialNumber,
			purchase, s.AgeOf(a), warranty, a.Location, a.Status, a.Remarks,
		); err != nil {
			return err
		}
	}

	_, err = sheet.WriteTo(w)
	return err
}
