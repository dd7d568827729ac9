package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/sterlingsteels/itdesk/internal"
	"github.com/sterlingsteels/itdesk/internal/asset"
	"github.com/sterlingsteels/itdesk/internal/repair"
)

// RepairRepository implements the repair.Repository interface using GORM
type RepairRepository struct {
	db *gorm.DB
}

func NewRepairRepository(db *gorm.DB) repair.Repository {
	return &RepairRepository{db: db}
}

func (r *RepairRepository) Create(rep *repair.Repair) error {
	if err := r.db.Create(rep).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return internal.ErrDuplicateGatePass
		}
		return err
	}
	return nil
}

func (r *RepairRepository) GetAll() ([]*repair.Repair, error) {
	var repairs []*repair.Repair
	err := r.db.Order("dispatch_date DESC").Find(&repairs).Error
	return repairs, err
}

func (r *RepairRepository) GetByID(id int64) (*repair.Repair, error) {
	var rep repair.Repair
	err := r.db.Where("id = ?", id).First(&rep).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrRepairNotFound
		}
		return nil, err
	}
	return &rep, nil
}

func (r *RepairRepository) GetByGatePass(gatePass string) (*repair.Repair, error) {
	var rep repair.Repair
	err := r.db.Where("gate_pass_number = ?", gatePass).First(&rep).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrRepairNotFound
		}
		return nil, err
	}
	return &rep, nil
}

// CompleteReturn commits the returned repair and the asset's move back to
// available as one unit, so a crash can never leave the asset stranded in
// under-repair with a closed repair row.
func (r *RepairRepository) CompleteReturn(rep *repair.Repair) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		rep.UpdatedAt = time.Now()
		if err := tx.Save(rep).Error; err != nil {
			return err
		}
		return tx.Model(&asset.Asset{}).
			Where("id = ?", rep.AssetID).
			Update("status", asset.StatusAvailable).Error
	})
}
