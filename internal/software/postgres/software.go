package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/sterlingsteels/itdesk/internal"
	"github.com/sterlingsteels/itdesk/internal/software"
)

// SoftwareRepository implements the software.Repository interface using GORM
type SoftwareRepository struct {
	db *gorm.DB
}

func NewSoftwareRepository(db *gorm.DB) software.Repository {
	return &SoftwareRepository{db: db}
}

func (r *SoftwareRepository) Create(s *software.Software) error {
	return r.db.Create(s).Error
}

func (r *SoftwareRepository) GetAll() ([]*software.Software, error) {
	var all []*software.Software
	err := r.db.Order("expiry_date ASC").Find(&all).Error
	return all, err
}

func (r *SoftwareRepository) GetByID(id int64) (*software.Software, error) {
	var s software.Software
	err := r.db.Where("id = ?", id).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrSoftwareNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *SoftwareRepository) Update(s *software.Software) error {
	s.UpdatedAt = time.Now()
	return r.db.Save(s).Error
}

func (r *SoftwareRepository) Delete(id int64) error {
	return r.db.Delete(&software.Software{}, id).Error
}

func (r *SoftwareRepository) ExpiringBefore(cutoff time.Time) ([]*software.Software, error) {
	var all []*software.Software
	err := r.db.
		Where("expiry_date <= ? AND notified = ? AND status <> ?", cutoff, false, software.StatusExpired).
		Order("expiry_date ASC").
		Find(&all).Error
	return all, err
}

func (r *SoftwareRepository) ExpiredBefore(now time.Time) ([]*software.Software, error) {
	var all []*software.Software
	err := r.db.
		Where("expiry_date < ? AND status <> ?", now, software.StatusExpired).
		Order("expiry_date ASC").
		Find(&all).Error
	return all, err
}
