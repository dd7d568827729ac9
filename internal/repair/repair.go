package repair

import (
	"time"
)

const (
	StatusDispatched = "dispatched"
	StatusReturned   = "returned"
)

// Repair is a vendor round trip for a broken asset. The gate pass number
// is the physical document the security desk checks on the way out and
// back in, hence the uniqueness constraint.
type Repair struct {
	ID             int64      `json:"id" gorm:"primaryKey"`
	AssetID        int64      `json:"asset_id" gorm:"column:asset_id;index;not null"`
	Reason         string     `json:"reason" gorm:"not null"`
	Vendor         string     `json:"vendor"`
	GatePassNumber string     `json:"gate_pass_number" gorm:"column:gate_pass_number;uniqueIndex;not null"`
	DispatchDate   time.Time  `json:"dispatch_date" gorm:"column:dispatch_date"`
	ReturnDate     *time.Time `json:"return_date,omitempty" gorm:"column:return_date"`
	Status         string     `json:"status" gorm:"default:'dispatched'"`
	ProofRef       string     `json:"proof_ref" gorm:"column:proof_ref"`
	Notes          string     `json:"notes"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (Repair) TableName() string {
	return "repairs"
}

func (r *Repair) IsReturned() bool {
	return r.Status == StatusReturned
}
