package repair

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sterlingsteels/itdesk/internal"
	"github.com/sterlingsteels/itdesk/internal/asset"
	"github.com/sterlingsteels/itdesk/internal/core/clock"
	"github.com/sterlingsteels/itdesk/internal/core/locking"
	"github.com/sterlingsteels/itdesk/internal/mailer"
)

// gate pass collisions are short-hex rare; a handful of retries is plenty
const maxGatePassAttempts = 5

// Repository defines the data access methods for repairs
type Repository interface {
	Create(r *Repair) error
	GetAll() ([]*Repair, error)
	GetByID(id int64) (*Repair, error)
	GetByGatePass(gatePass string) (*Repair, error)
	// CompleteReturn persists the returned repair and flips its asset back
	// to available in one transaction.
	CompleteReturn(r *Repair) error
}

// AssetStore is the slice of the asset domain repairs need.
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

// Dispatch sends an asset out to a vendor under a fresh gate pass and moves
// it to under-repair.
func (s *Service) Dispatch(dto DispatchDTO) (*Repair, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("asset:%d", dto.AssetID)
	s.keys.Lock(key)
	defer s.keys.Unlock(key)

	a, err := s.assets.GetByID(dto.AssetID)
	if err != nil {
		return nil, internal.ErrAssetNotFound
	}
	if !a.CanDispatch() {
		return nil, internal.NewConflictError("Asset is already under repair", internal.ErrCodeValidationFailed)
	}

	rep := &Repair{
		AssetID:      dto.AssetID,
		Reason:       dto.Reason,
		Vendor:       dto.Vendor,
		Notes:        dto.Notes,
		DispatchDate: s.clock.Now(),
		Status:       StatusDispatched,
	}

	for attempt := 0; ; attempt++ {
		rep.GatePassNumber = NewGatePassNumber()
		err = s.repo.Create(rep)
		if err == nil {
			break
		}
		if errors.Is(err, internal.ErrDuplicateGatePass) && attempt < maxGatePassAttempts-1 {
			s.logger.Warn("gate pass collision, regenerating", "attempt", attempt+1)
			continue
		}
		s.logger.Error("failed to create repair", "error", err, "asset_id", dto.AssetID)
		return nil, err
	}

	a.Status = asset.StatusUnderRepair
	if err := s.assets.Update(a); err != nil {
		s.logger.Error("failed to mark asset under repair", "error", err, "asset_id", a.ID)
		return nil, err
	}

	s.logger.Info("asset dispatched for repair",
		"repair_id", rep.ID, "asset_id", a.ID, "gate_pass", rep.GatePassNumber)

	if dto.NotifyAdmin {
		s.notifyAdmin("Asset dispatched for repair", fmt.Sprintf(
			`<p>Asset <b>%s</b> (%s) was dispatched for repair.</p>
			<p>Gate pass: <b>%s</b><br>Vendor: %s<br>Reason: %s</p>`,
			a.AssetTag, a.Name, rep.GatePassNumber, rep.Vendor, rep.Reason))
	}

	return rep, nil
}

// Return closes out a dispatched repair. The repair row and the asset's
// status change commit together; the transition is one-way.
func (s *Service) Return(id int64, dto ReturnDTO) (*Repair, error) {
	rep, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrRepairNotFound
	}

	key := fmt.Sprintf("asset:%d", rep.AssetID)
	s.keys.Lock(key)
	defer s.keys.Unlock(key)

	// re-read under the lock
	rep, err = s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrRepairNotFound
	}
	if rep.IsReturned() {
		return nil, internal.NewConflictError("Repair is already marked as returned", internal.ErrCodeValidationFailed)
	}

	now := s.clock.Now()
	rep.Status = StatusReturned
	rep.ReturnDate = &now
	rep.ProofRef = dto.ProofRef
	if dto.Notes != "" {
		rep.Notes = dto.Notes
	}

	if err := s.repo.CompleteReturn(rep); err != nil {
		s.logger.Error("failed to complete repair return", "error", err, "repair_id", id)
		return nil, internal.NewStoreError("could not record repair return", err)
	}

	s.logger.Info("repair returned", "repair_id", rep.ID, "asset_id", rep.AssetID)

	if dto.NotifyAdmin {
		a, err := s.assets.GetByID(rep.AssetID)
		assetLabel := fmt.Sprintf("#%d", rep.AssetID)
		if err == nil {
			assetLabel = fmt.Sprintf("%s (%s)", a.AssetTag, a.Name)
		}
		s.notifyAdmin("Asset returned from repair", fmt.Sprintf(
			`<p>Asset <b>%s</b> returned from repair.</p>
			<p>Gate pass: <b>%s</b><br>Notes: %s</p>`,
			assetLabel, rep.GatePassNumber, rep.Notes))
	}

	return rep, nil
}

func (s *Service) GetRepairs() ([]*Repair, error) {
	return s.repo.GetAll()
}

func (s *Service) GetRepair(id int64) (*Repair, error) {
	rep, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrRepairNotFound
	}
	return rep, nil
}

func (s *Service) GetByGatePass(gatePass string) (*Repair, error) {
	rep, err := s.repo.GetByGatePass(gatePass)
	if err != nil {
		return nil, internal.ErrRepairNotFound
	}
	return rep, nil
}

// GatePassPNG renders the gate pass slip QR for a repair.
func (s *Service) GatePassPNG(id int64, size int) ([]byte, error) {
	rep, err := s.GetRepair(id)
	if err != nil {
		return nil, err
	}

	payload := GatePassPayload{
		GatePassNumber: rep.GatePassNumber,
		Reason:         rep.Reason,
		Vendor:         rep.Vendor,
		DispatchDate:   rep.DispatchDate.Format("2006-01-02"),
		Status:         rep.Status,
	}
	if a, err := s.assets.GetByID(rep.AssetID); err == nil {
		payload.AssetTag = a.AssetTag
		payload.AssetName = a.Name
	}
	return payload.EncodePNG(size)
}

func (s *Service) notifyAdmin(subject, html string) {
	result := s.mail.Send(context.Background(), mailer.Message{
		To:      s.adminEmail,
		Subject: subject,
		HTML:    html,
	})
	if !result.OK() {
		s.logger.Error("admin notification failed", "subject", subject, "error", result.Err)
	}
}
