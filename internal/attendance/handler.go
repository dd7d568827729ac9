package attendance

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sterlingsteels/itdesk/internal/transport"
	"github.com/sterlingsteels/itdesk/pkg/logger"
)

type ServiceAPI interface {
	NotifyFingerprintAssignment(dto NotifyDTO) (*FingerprintAudit, error)
	GetAudits() ([]*FingerprintAudit, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) Notify(w http.ResponseWriter, r *http.Request) {
	var dto NotifyDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("NotifyFingerprintAssignment: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	audit, err := h.Service.NotifyFingerprintAssignment(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, audit)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	audits, err := h.Service.GetAudits()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, audits)
}
