package asset

import (
	"time"

	"github.com/sterlingsteels/itdesk/internal"
)

type CreateAssetDTO struct {
	AssetTag       string     `json:"asset_tag"`
	Name           string     `json:"name"`
	Category       string     `json:"category"`
	Brand          string     `json:"brand"`
	Model          string     `json:"model"`
	SerialNumber   string     `json:"serial_number"`
	PurchaseDate   *time.Time `json:"purchase_date"`
	WarrantyExpiry *time.Time `json:"warranty_expiry"`
	Status         string     `json:"status"`
	Location       string     `json:"location"`
	Remarks        string     `json:"remarks"`
}

func (d CreateAssetDTO) Validate() error {
	if d.AssetTag == "" || d.Name == "" || d.Category == "" {
		return internal.NewValidationError("asset_tag, name and category are required", internal.ErrCodeMissingFields)
	}
	if d.Status != "" && !IsValidStatus(d.Status) {
		return internal.NewValidationError("invalid asset status", internal.ErrCodeValidationFailed)
	}
	return nil
}

// UpdateAssetDTO is the explicit whitelist of mutable fields. AssetTag,
// Status and AssignedTo are invariant-bearing and only change through their
// own operations (dispatch/return, assign/unassign), never through a patch.
type UpdateAssetDTO struct {
	Name           *string    `json:"name"`
	Category       *string    `json:"category"`
	Brand          *string    `json:"brand"`
	Model          *string    `json:"model"`
	SerialNumber   *string    `json:"serial_number"`
	PurchaseDate   *time.Time `json:"purchase_date"`
	WarrantyExpiry *time.Time `json:"warranty_expiry"`
	Location       *string    `json:"location"`
	Remarks        *string    `json:"remarks"`
}

func (d UpdateAssetDTO) ApplyTo(a *Asset) {
	if d.Name != nil {
		a.Name = *d.Name
	}
	if d.Category != nil {
		a.Category = *d.Category
	}
	if d.Brand != nil {
		a.Brand = *d.Brand
	}
	if d.Model != nil {
		a.Model = *d.Model
	}
	if d.SerialNumber != nil {
		a.SerialNumber = *d.SerialNumber
	}
	if d.PurchaseDate != nil {
		a.PurchaseDate = d.PurchaseDate
	}
	if d.WarrantyExpiry != nil {
		a.WarrantyExpiry = d.WarrantyExpiry
	}
	if d.Location != nil {
		a.Location = *d.Location
	}
	if d.Remarks != nil {
		a.Remarks = *d.Remarks
	}
}
