package attendance

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sterlingsteels/itdesk/internal"
	"github.com/sterlingsteels/itdesk/internal/mailer"
)

// Repository defines the data access methods for fingerprint audits
type Repository interface {
	Create(a *FingerprintAudit) error
	GetAll() ([]*FingerprintAudit, error)
}

type NotifyDTO struct {
	EmployeeID int64  `json:"employee_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	AssignedBy string `json:"assigned_by"`
	SendTo     string `json:"send_to"`
}

func (d NotifyDTO) Validate() error {
	if d.EmployeeID == 0 || d.Name == "" {
		return internal.NewValidationError("employee_id and name are required", internal.ErrCodeMissingFields)
	}
	if !IsValidSendTo(d.SendTo) {
		return internal.NewValidationError("send_to must be employee, hr or both", internal.ErrCodeValidationFailed)
	}
	if (d.SendTo == SendToEmployee || d.SendTo == SendToBoth) && d.Email == "" {
		return internal.NewValidationError("email is required when notifying the employee", internal.ErrCodeMissingFields)
	}
	return nil
}

type Service struct {
	repo    Repository
	mail    mailer.Mailer
	hrEmail string
	logger  *slog.Logger
}

func NewService(repo Repository, mail mailer.Mailer, hrEmail string, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		mail:    mail,
		hrEmail: hrEmail,
		logger:  logger,
	}
}

// NotifyFingerprintAssignment sends the requested notifications and
// persists the audit trail. A failed send goes into the trail as failed;
// it does not fail the request.
func (s *Service) NotifyFingerprintAssignment(dto NotifyDTO) (*FingerprintAudit, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	audit := &FingerprintAudit{
		EmployeeID:    dto.EmployeeID,
		EmployeeName:  dto.Name,
		EmployeeEmail: dto.Email,
		AssignedBy:    dto.AssignedBy,
		SendTo:        dto.SendTo,
	}

	if dto.SendTo == SendToEmployee || dto.SendTo == SendToBoth {
		audit.Outcomes = append(audit.Outcomes,
			s.deliver(SendToEmployee, dto.Email, "Fingerprint access assigned", fmt.Sprintf(`
				<p>Hi %s,</p>
				<p>Your fingerprint has been registered for door access by %s.</p>
				<p>Please verify at the main entrance reader.</p>`,
				dto.Name, dto.AssignedBy)))
	}

	if dto.SendTo == SendToHR || dto.SendTo == SendToBoth {
		audit.Outcomes = append(audit.Outcomes,
			s.deliver(SendToHR, s.hrEmail, "Fingerprint assignment recorded", fmt.Sprintf(`
				<p>Fingerprint access was assigned to <b>%s</b> (employee #%d) by %s.</p>`,
				dto.Name, dto.EmployeeID, dto.AssignedBy)))
	}

	if err := s.repo.Create(audit); err != nil {
		s.logger.Error("failed to persist fingerprint audit", "error", err, "employee_id", dto.EmployeeID)
		return nil, internal.NewStoreError("could not persist fingerprint audit", err)
	}

	s.logger.Info("fingerprint assignment notified",
		"audit_id", audit.ID, "employee_id", dto.EmployeeID, "send_to", dto.SendTo)
	return audit, nil
}

func (s *Service) deliver(recipient, address, subject, html string) RecipientOutcome {
	result := s.mail.Send(context.Background(), mailer.Message{
		To:      address,
		Subject: subject,
		HTML:    html,
	})

	outcome := RecipientOutcome{
		Recipient: recipient,
		Address:   address,
		Status:    string(result.Status),
	}
	if result.Err != nil {
		outcome.Error = result.Err.Error()
		s.logger.Error("fingerprint notification failed",
			"recipient", recipient, "address", address, "error", result.Err)
	}
	return outcome
}

func (s *Service) GetAudits() ([]*FingerprintAudit, error) {
	return s.repo.GetAll()
}
