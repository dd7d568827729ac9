package repair

import (
	"github.com/sterlingsteels/itdesk/internal"
)

type DispatchDTO struct {
	AssetID     int64  `json:"asset_id"`
	Reason      string `json:"reason"`
	Vendor      string `json:"vendor"`
	Notes       string `json:"notes"`
	NotifyAdmin bool   `json:"notify_admin"`
}

func (d DispatchDTO) Validate() error {
	if d.AssetID == 0 || d.Reason == "" {
		return internal.NewValidationError("asset_id and reason are required", internal.ErrCodeMissingFields)
	}
	return nil
}

type ReturnDTO struct {
	ProofRef    string `json:"proof_ref"`
	Notes       string `json:"notes"`
	NotifyAdmin bool   `json:"notify_admin"`
}
