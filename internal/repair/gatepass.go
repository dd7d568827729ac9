package repair

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

// NewGatePassNumber generates a short human-readable pass number from the
// leading hex of a fresh uuid. Collisions are possible at this length, so
// insertion retries on a uniqueness conflict.
func NewGatePassNumber() string {
	return "GP-" + strings.ToUpper(uuid.NewString()[:8])
}

// GatePassPayload is the snapshot printed as a QR on the gate pass slip.
type GatePassPayload struct {
	GatePassNumber string `json:"gatePassNumber"`
	AssetTag       string `json:"assetTag"`
	AssetName      string `json:"assetName"`
	Reason         string `json:"reason"`
	Vendor         string `json:"vendor,omitempty"`
	DispatchDate   string `json:"dispatchDate"`
	Status         string `json:"status"`
}

func (p GatePassPayload) EncodePNG(size int) ([]byte, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(string(raw), qrcode.Medium, size)
}
