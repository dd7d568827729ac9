package software_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sterlingsteels/itdesk/internal/core/clock"
	"github.com/sterlingsteels/itdesk/internal/mailer"
	"github.com/sterlingsteels/itdesk/internal/software"
)

func TestSoftwareService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Software Service Suite")
}

// Mock repository for testing
type mockSoftwareRepository struct {
	items  map[int64]*software.Software
	nextID int64
}

func newMockSoftwareRepository() *mockSoftwareRepository {
	return &mockSoftwareRepository{items: make(map[int64]*software.Software), nextID: 1}
}

func (m *mockSoftwareRepository) Create(s *software.Software) error {
	s.ID = m.nextID
	m.nextID++
	s.CreatedAt = time.Now()
	m.items[s.ID] = s
	return nil
}

func (m *mockSoftwareRepository) GetAll() ([]*software.Software, error) {
	all := make([]*software.Software, 0, len(m.items))
	for _, s := range m.items {
		all = append(all, s)
	}
	return all, nil
}

func (m *mockSoftwareRepository) GetByID(id int64) (*software.Software, error) {
	s, exists := m.items[id]
	if !exists {
		return nil, errors.New("software not found")
	}
	return s, nil
}

func (m *mockSoftwareRepository) Update(s *software.Software) error {
	m.items[s.ID] = s
	return nil
}

func (m *mockSoftwareRepository) Delete(id int64) error {
	delete(m.items, id)
	return nil
}

func (m *mockSoftwareRepository) ExpiringBefore(cutoff time.Time) ([]*software.Software, error) {
	var out []*software.Software
	for _, s := range m.items {
		if !s.ExpiryDate.After(cutoff) && !s.Notified && s.Status != software.StatusExpired {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSoftwareRepository) ExpiredBefore(now time.Time) ([]*software.Software, error) {
	var out []*software.Software
	for _, s := range m.items {
		if s.ExpiryDate.Before(now) && s.Status != software.StatusExpired {
			out = append(out, s)
		}
	}
	return out, nil
}

type recordingMailer struct {
	messages []mailer.Message
	fail     bool
}

func (m *recordingMailer) Send(ctx context.Context, msg mailer.Message) mailer.Result {
	m.messages = append(m.messages, msg)
	if m.fail {
		return mailer.Failure(errors.New("smtp down"))
	}
	return mailer.Success()
}

var _ = Describe("SoftwareService", func() {
	var (
		service  *software.Service
		mockRepo *mockSoftwareRepository
		mail     *recordingMailer
		now      time.Time
		logger   *slog.Logger
	)

	BeforeEach(func() {
		mockRepo = newMockSoftwareRepository()
		mail = &recordingMailer{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		now = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
		service = software.NewService(mockRepo, mail, clock.Fixed(now), "alerts@example.com", logger)
	})

	newLicense := func(name string, expiry time.Time, autoRenew bool, cycle string) *software.Software {
		sw := &software.Software{
			Name: name, Vendor: "Vendor", ExpiryDate: expiry,
			RenewalCycle: cycle, AutoRenew: autoRenew, Status: software.StatusActive,
		}
		Expect(mockRepo.Create(sw)).To(Succeed())
		return sw
	}

	Describe("NotifyUpcomingRenewals", func() {
		It("should alert on licenses expiring within seven days and mark them notified", func() {
			sw := newLicense("Microsoft 365", now.AddDate(0, 0, 3), true, software.CycleYearly)
			newLicense("Far away", now.AddDate(0, 0, 30), false, software.CycleYearly)

			notified, err := service.NotifyUpcomingRenewals()

			Expect(err).NotTo(HaveOccurred())
			Expect(notified).To(Equal(1))
			Expect(mail.messages).To(HaveLen(1))
			Expect(mail.messages[0].Subject).To(ContainSubstring("Microsoft 365"))
			Expect(mockRepo.items[sw.ID].Notified).To(BeTrue())
			Expect(mockRepo.items[sw.ID].Status).To(Equal(software.StatusExpiring))
		})

		It("should not alert twice for the same cycle", func() {
			newLicense("Microsoft 365", now.AddDate(0, 0, 3), true, software.CycleYearly)

			_, err := service.NotifyUpcomingRenewals()
			Expect(err).NotTo(HaveOccurred())
			notified, err := service.NotifyUpcomingRenewals()
			Expect(err).NotTo(HaveOccurred())

			Expect(notified).To(Equal(0))
			Expect(mail.messages).To(HaveLen(1))
		})

		It("should leave the notified flag off when the email fails", func() {
			sw := newLicense("Microsoft 365", now.AddDate(0, 0, 3), true, software.CycleYearly)
			mail.fail = true

			notified, err := service.NotifyUpcomingRenewals()

			Expect(err).NotTo(HaveOccurred())
			Expect(notified).To(Equal(0))
			Expect(mockRepo.items[sw.ID].Notified).To(BeFalse())
		})
	})

	Describe("RenewOrExpire", func() {
		It("should advance a monthly auto-renewing license one month", func() {
			expiry := now.AddDate(0, 0, -1)
			sw := newLicense("Adobe CC", expiry, true, software.CycleMonthly)
			sw.Notified = true

			renewed, expired, err := service.RenewOrExpire()

			Expect(err).NotTo(HaveOccurred())
			Expect(renewed).To(Equal(1))
			Expect(expired).To(Equal(0))
			Expect(mockRepo.items[sw.ID].ExpiryDate).To(Equal(expiry.AddDate(0, 1, 0)))
			Expect(mockRepo.items[sw.ID].Status).To(Equal(software.StatusActive))
			Expect(mockRepo.items[sw.ID].Notified).To(BeFalse())
		})

		It("should advance a yearly auto-renewing license one year", func() {
			expiry := now.AddDate(0, 0, -1)
			sw := newLicense("Microsoft 365", expiry, true, software.CycleYearly)

			renewed, _, err := service.RenewOrExpire()

			Expect(err).NotTo(HaveOccurred())
			Expect(renewed).To(Equal(1))
			Expect(mockRepo.items[sw.ID].ExpiryDate).To(Equal(expiry.AddDate(1, 0, 0)))
		})

		It("should expire licenses without auto-renew", func() {
			sw := newLicense("Old CAD tool", now.AddDate(0, 0, -2), false, software.CycleNone)

			renewed, expired, err := service.RenewOrExpire()

			Expect(err).NotTo(HaveOccurred())
			Expect(renewed).To(Equal(0))
			Expect(expired).To(Equal(1))
			Expect(mockRepo.items[sw.ID].Status).To(Equal(software.StatusExpired))
		})

		It("should leave future licenses alone", func() {
			sw := newLicense("Fresh", now.AddDate(0, 6, 0), false, software.CycleYearly)

			renewed, expired, err := service.RenewOrExpire()

			Expect(err).NotTo(HaveOccurred())
			Expect(renewed).To(Equal(0))
			Expect(expired).To(Equal(0))
			Expect(mockRepo.items[sw.ID].Status).To(Equal(software.StatusActive))
		})
	})

	Describe("RunDailySweep", func() {
		It("should warn before renewing, so a license expiring today gets both", func() {
			sw := newLicense("Expiring today", now.Add(-1*time.Hour), true, software.CycleMonthly)

			summary, err := service.RunDailySweep()

			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Notified).To(Equal(1))
			Expect(summary.Renewed).To(Equal(1))
			Expect(summary.Expired).To(Equal(0))
			// renewed after the notice, warning re-armed for next cycle
			Expect(mockRepo.items[sw.ID].Notified).To(BeFalse())
			Expect(mockRepo.items[sw.ID].Status).To(Equal(software.StatusActive))
		})
	})

	Describe("UpdateSoftware", func() {
		It("should re-arm the warning when the expiry moves", func() {
			sw := newLicense("Microsoft 365", now.AddDate(0, 0, 3), true, software.CycleYearly)
			sw.Notified = true

			newExpiry := now.AddDate(0, 3, 0)
			updated, err := service.UpdateSoftware(sw.ID, software.UpdateSoftwareDTO{ExpiryDate: &newExpiry})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Notified).To(BeFalse())
			Expect(updated.ExpiryDate).To(Equal(newExpiry))
		})
	})
})
