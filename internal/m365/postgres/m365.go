package postgres

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sterlingsteels/itdesk/internal/m365"
)

// UsageRepository implements the m365.Repository interface using GORM
type UsageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) m365.Repository {
	return &UsageRepository{db: db}
}

// Upsert relies on the unique index over user_principal_name; concurrent
// syncs collapse into last-writer-wins per user.
func (r *UsageRepository) Upsert(u *m365.Usage) error {
	u.UpdatedAt = time.Now()
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_principal_name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"display_name",
			"mailbox_used_mb", "mailbox_quota_mb",
			"onedrive_used_mb", "onedrive_total_mb",
			"last_activity_date", "report_date", "updated_at",
		}),
	}).Create(u).Error
}

func (r *UsageRepository) GetAll() ([]*m365.Usage, error) {
	var usage []*m365.Usage
	err := r.db.Order("user_principal_name ASC").Find(&usage).Error
	return usage, err
}
