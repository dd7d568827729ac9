package postgres

import (
	"gorm.io/gorm"

	"github.com/sterlingsteels/itdesk/internal/attendance"
)

// AttendanceRepository implements the attendance.Repository interface using
// GORM
type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) attendance.Repository {
	return &AttendanceRepository{db: db}
}

func (r *AttendanceRepository) Create(a *attendance.FingerprintAudit) error {
	return r.db.Create(a).Error
}

func (r *AttendanceRepository) GetAll() ([]*attendance.FingerprintAudit, error) {
	var audits []*attendance.FingerprintAudit
	err := r.db.Preload("Outcomes").Order("created_at DESC").Find(&audits).Error
	return audits, err
}
