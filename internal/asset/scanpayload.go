package asset

import (
	"encoding/json"

	qrcode "github.com/skip2/go-qrcode"
)

// ScanPayload is the snapshot embedded in an asset's printed QR label.
type ScanPayload struct {
	AssetTag       string        `json:"assetTag"`
	Name           string        `json:"name"`
	Category       string        `json:"category"`
	Brand          string        `json:"brand,omitempty"`
	Model          string        `json:"model,omitempty"`
	SerialNumber   string        `json:"serialNumber,omitempty"`
	PurchaseDate   string        `json:"purchaseDate,omitempty"`
	WarrantyExpiry string        `json:"warrantyExpiry,omitempty"`
	Location       string        `json:"location,omitempty"`
	Status         string        `json:"status"`
	AssignedTo     *ScanAssignee `json:"assignedTo"`
	Remarks        string        `json:"remarks,omitempty"`
}

type ScanAssignee struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

func NewScanPayload(a *Asset, assignee *ScanAssignee) ScanPayload {
	p := ScanPayload{
		AssetTag:     a.AssetTag,
		Name:         a.Name,
		Category:     a.Category,
		Brand:        a.Brand,
		Model:        a.Model,
		SerialNumber: a.SerialNumber,
		Location:     a.Location,
		Status:       a.Status,
		Remarks:      a.Remarks,
		AssignedTo:   assignee,
	}
	if a.PurchaseDate != nil {
		p.PurchaseDate = a.PurchaseDate.Format("2006-01-02")
	}
	if a.WarrantyExpiry != nil {
		p.WarrantyExpiry = a.WarrantyExpiry.Format("2006-01-02")
	}
	return p
}

// EncodePNG renders the payload as a QR image suitable for label printing.
func (p ScanPayload) EncodePNG(size int) ([]byte, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(string(raw), qrcode.Medium, size)
}
