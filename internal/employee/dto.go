package employee

import (
	"github.com/sterlingsteels/itdesk/internal"
)

type CreateEmployeeDTO struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Position   string `json:"position"`
	Phone      string `json:"phone"`
}

func (d CreateEmployeeDTO) Validate() error {
	if d.Name == "" || d.Email == "" {
		return internal.NewValidationError("name and email are required", internal.ErrCodeMissingFields)
	}
	return nil
}

// UpdateEmployeeDTO is the whitelist of mutable employee fields.
type UpdateEmployeeDTO struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Department *string `json:"department"`
	Position   *string `json:"position"`
	Phone      *string `json:"phone"`
}

func (d UpdateEmployeeDTO) ApplyTo(e *Employee) {
	if d.Name != nil {
		e.Name = *d.Name
	}
	if d.Email != nil {
		e.Email = *d.Email
	}
	if d.Department != nil {
		e.Department = *d.Department
	}
	if d.Position != nil {
		e.Position = *d.Position
	}
	if d.Phone != nil {
		e.Phone = *d.Phone
	}
}

type AssignAssetsDTO struct {
	AssetIDs []int64 `json:"asset_ids"`
	Mode     string  `json:"mode"`
	Notify   bool    `json:"notify"`
}

func (d AssignAssetsDTO) Validate() error {
	if len(d.AssetIDs) == 0 {
		return internal.NewValidationError("asset_ids is required", internal.ErrCodeMissingFields)
	}
	if !IsValidMode(d.Mode) {
		return internal.NewValidationError("mode must be permanent or temporary", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UnassignAssetsDTO struct {
	AssetIDs []int64 `json:"asset_ids"`
}

func (d UnassignAssetsDTO) Validate() error {
	if len(d.AssetIDs) == 0 {
		return internal.NewValidationError("asset_ids is required", internal.ErrCodeMissingFields)
	}
	return nil
}
