package m365

import (
	"time"
)

// Usage is one user's merged mailbox and OneDrive consumption snapshot.
// Rows are keyed by the lowercased user principal name so re-syncs update
// in place.
type Usage struct {
	ID                int64      `json:"id" gorm:"primaryKey"`
	UserPrincipalName string     `json:"user_principal_name" gorm:"column:user_principal_name;uniqueIndex;not null"`
	DisplayName       string     `json:"display_name" gorm:"column:display_name"`
	MailboxUsedMB     float64    `json:"mailbox_used_mb" gorm:"column:mailbox_used_mb"`
	MailboxQuotaMB    float64    `json:"mailbox_quota_mb" gorm:"column:mailbox_quota_mb"`
	OneDriveUsedMB    float64    `json:"onedrive_used_mb" gorm:"column:onedrive_used_mb"`
	OneDriveTotalMB   float64    `json:"onedrive_total_mb" gorm:"column:onedrive_total_mb"`
	LastActivityDate  *time.Time `json:"last_activity_date,omitempty" gorm:"column:last_activity_date"`
	ReportDate        time.Time  `json:"report_date" gorm:"column:report_date"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (Usage) TableName() string {
	return "m365_usage"
}
