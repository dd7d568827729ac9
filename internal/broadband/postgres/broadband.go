package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/sterlingsteels/itdesk/internal"
	"github.com/sterlingsteels/itdesk/internal/broadband"
)

// BroadbandRepository implements the broadband.Repository interface using
// GORM
type BroadbandRepository struct {
	db *gorm.DB
}

func NewBroadbandRepository(db *gorm.DB) broadband.Repository {
	return &BroadbandRepository{db: db}
}

func (r *BroadbandRepository) Create(m *broadband.MonthData) error {
	if err := r.db.Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return internal.ErrDuplicateMonth
		}
		return err
	}
	return nil
}

func (r *BroadbandRepository) GetAll() ([]*broadband.MonthData, error) {
	var months []*broadband.MonthData
	err := r.db.Preload("Addons").Order("month DESC, provider ASC").Find(&months).Error
	return months, err
}

func (r *BroadbandRepository) GetByID(id int64) (*broadband.MonthData, error) {
	var m broadband.MonthData
	err := r.db.Preload("Addons").Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrMonthNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *BroadbandRepository) Update(m *broadband.MonthData) error {
	m.UpdatedAt = time.Now()
	return r.db.Omit("Addons").Save(m).Error
}

func (r *BroadbandRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("month_data_id = ?", id).Delete(&broadband.Addon{}).Error; err != nil {
			return err
		}
		return tx.Delete(&broadband.MonthData{}, id).Error
	})
}

func (r *BroadbandRepository) AddAddon(a *broadband.Addon) error {
	return r.db.Create(a).Error
}
