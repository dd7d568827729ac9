package software

import (
	"time"

	"github.com/sterlingsteels/itdesk/internal"
)

type CreateSoftwareDTO struct {
	Name          string     `json:"name"`
	Category      string     `json:"category"`
	Vendor        string     `json:"vendor"`
	LicenseKey    string     `json:"license_key"`
	AssignedTo    string     `json:"assigned_to"`
	PurchaseDate  *time.Time `json:"purchase_date"`
	ExpiryDate    *time.Time `json:"expiry_date"`
	RenewalCycle  string     `json:"renewal_cycle"`
	Cost          float64    `json:"cost"`
	PaymentMethod string     `json:"payment_method"`
	AutoRenew     bool       `json:"auto_renew"`
	Notes         string     `json:"notes"`
}

func (d CreateSoftwareDTO) Validate() error {
	if d.Name == "" || d.ExpiryDate == nil {
		return internal.NewValidationError("name and expiry_date are required", internal.ErrCodeMissingFields)
	}
	if d.RenewalCycle != "" && !IsValidCycle(d.RenewalCycle) {
		return internal.NewValidationError("renewal_cycle must be monthly, yearly or none", internal.ErrCodeValidationFailed)
	}
	return nil
}

// UpdateSoftwareDTO is the whitelist of mutable fields. Status and the
// notified flag move only through the sweep.
type UpdateSoftwareDTO struct {
	Name          *string    `json:"name"`
	Category      *string    `json:"category"`
	Vendor        *string    `json:"vendor"`
	LicenseKey    *string    `json:"license_key"`
	AssignedTo    *string    `json:"assigned_to"`
	PurchaseDate  *time.Time `json:"purchase_date"`
	ExpiryDate    *time.Time `json:"expiry_date"`
	RenewalCycle  *string    `json:"renewal_cycle"`
	Cost          *float64   `json:"cost"`
	PaymentMethod *string    `json:"payment_method"`
	AutoRenew     *bool      `json:"auto_renew"`
	Notes         *string    `json:"notes"`
}

func (d UpdateSoftwareDTO) Validate() error {
	if d.RenewalCycle != nil && !IsValidCycle(*d.RenewalCycle) {
		return internal.NewValidationError("renewal_cycle must be monthly, yearly or none", internal.ErrCodeValidationFailed)
	}
	return nil
}

func (d UpdateSoftwareDTO) ApplyTo(s *Software) {
	if d.Name != nil {
		s.Name = *d.Name
	}
	if d.Category != nil {
		s.Category = *d.Category
	}
	if d.Vendor != nil {
		s.Vendor = *d.Vendor
	}
	if d.LicenseKey != nil {
		s.LicenseKey = *d.LicenseKey
	}
	if d.AssignedTo != nil {
		s.AssignedTo = *d.AssignedTo
	}
	if d.PurchaseDate != nil {
		s.PurchaseDate = d.PurchaseDate
	}
	if d.ExpiryDate != nil {
		s.ExpiryDate = *d.ExpiryDate
		// a pushed-out expiry re-arms the warning
		s.Notified = false
	}
	if d.RenewalCycle != nil {
		s.RenewalCycle = *d.RenewalCycle
	}
	if d.Cost != nil {
		s.Cost = *d.Cost
	}
	if d.PaymentMethod != nil {
		s.PaymentMethod = *d.PaymentMethod
	}
	if d.AutoRenew != nil {
		s.AutoRenew = *d.AutoRenew
	}
	if d.Notes != nil {
		s.Notes = *d.Notes
	}
}
