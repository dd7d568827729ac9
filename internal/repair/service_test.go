package repair_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sterlingsteels/itdesk/internal"
	"github.com/sterlingsteels/itdesk/internal/asset"
	"github.com/sterlingsteels/itdesk/internal/core/clock"
	"github.com/sterlingsteels/itdesk/internal/core/locking"
	"github.com/sterlingsteels/itdesk/internal/mailer"
	"github.com/sterlingsteels/itdesk/internal/repair"
)

func TestRepairService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Repair Service Suite")
}

// Mock repository for testing
type mockRepairRepository struct {
	repairs        map[int64]*repair.Repair
	gatePasses     map[string]int64
	failCreates    int // number of leading Create calls to fail with a gate pass conflict
	completeError  error
	completedCalls int
	nextID         int64
}

func newMockRepairRepository() *mockRepairRepository {
	return &mockRepairRepository{
		repairs:    make(map[int64]*repair.Repair),
		gatePasses: make(map[string]int64),
		nextID:     1,
	}
}

func (m *mockRepairRepository) Create(rep *repair.Repair) error {
	if m.failCreates > 0 {
		m.failCreates--
		return internal.ErrDuplicateGatePass
	}
	if _, exists := m.gatePasses[rep.GatePassNumber]; exists {
		return internal.ErrDuplicateGatePass
	}
	rep.ID = m.nextID
	m.nextID++
	rep.CreatedAt = time.Now()
	m.repairs[rep.ID] = rep
	m.gatePasses[rep.GatePassNumber] = rep.ID
	return nil
}

func (m *mockRepairRepository) GetAll() ([]*repair.Repair, error) {
	all := make([]*repair.Repair, 0, len(m.repairs))
	for _, rep := range m.repairs {
		all = append(all, rep)
	}
	return all, nil
}

func (m *mockRepairRepository) GetByID(id int64) (*repair.Repair, error) {
	rep, exists := m.repairs[id]
	if !exists {
		return nil, errors.New("repair not found")
	}
	return rep, nil
}

func (m *mockRepairRepository) GetByGatePass(gatePass string) (*repair.Repair, error) {
	id, exists := m.gatePasses[gatePass]
	if !exists {
		return nil, errors.New("repair not found")
	}
	return m.repairs[id], nil
}

func (m *mockRepairRepository) CompleteReturn(rep *repair.Repair) error {
	if m.completeError != nil {
		return m.completeError
	}
	m.completedCalls++
	m.repairs[rep.ID] = rep
	return nil
}

type mockAssetStore struct {
	assets map[int64]*asset.Asset
}

func (m *mockAssetStore) GetByID(id int64) (*asset.Asset, error) {
	a, exists := m.assets[id]
	if !exists {
		return nil, errors.New("asset not found")
	}
	return a, nil
}

func (m *mockAssetStore) Update(a *asset.Asset) error {
	m.assets[a.ID] = a
	return nil
}

type recordingMailer struct {
	messages []mailer.Message
}

func (m *recordingMailer) Send(ctx context.Context, msg mailer.Message) mailer.Result {
	m.messages = append(m.messages, msg)
	return mailer.Success()
}

var _ = Describe("RepairService", func() {
	var (
		service  *repair.Service
		mockRepo *mockRepairRepository
		assets   *mockAssetStore
		mail     *recordingMailer
		logger   *slog.Logger
	)

	BeforeEach(func() {
		mockRepo = newMockRepairRepository()
		assets = &mockAssetStore{assets: map[int64]*asset.Asset{
			1: {ID: 1, AssetTag: "LT-0001", Name: "ThinkPad T14", Category: "laptop", Status: asset.StatusAvailable},
		}}
		mail = &recordingMailer{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
		service = repair.NewService(mockRepo, assets, mail, locking.NewKeyedMutex(), clock.Fixed(now), "admin@example.com", logger)
	})

	Describe("Dispatch", func() {
		It("should create a repair with a GP- gate pass and mark the asset under repair", func() {
			// When
			rep, err := service.Dispatch(repair.DispatchDTO{
				AssetID: 1, Reason: "Screen flicker", Vendor: "TechFix Lanka",
			})

			// Then
			Expect(err).NotTo(HaveOccurred())
			Expect(rep.GatePassNumber).To(MatchRegexp(`^GP-[0-9A-F]{8}$`))
			Expect(rep.Status).To(Equal(repair.StatusDispatched))
			Expect(assets.assets[1].Status).To(Equal(asset.StatusUnderRepair))
		})

		It("should retry gate pass generation on a uniqueness conflict", func() {
			mockRepo.failCreates = 2

			rep, err := service.Dispatch(repair.DispatchDTO{AssetID: 1, Reason: "Dead battery"})

			Expect(err).NotTo(HaveOccurred())
			Expect(rep.ID).To(BeNumerically(">", 0))
		})

		It("should refuse to dispatch an asset already under repair", func() {
			assets.assets[1].Status = asset.StatusUnderRepair

			_, err := service.Dispatch(repair.DispatchDTO{AssetID: 1, Reason: "Again"})

			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeConflict))
		})

		It("should return not found for a missing asset", func() {
			_, err := service.Dispatch(repair.DispatchDTO{AssetID: 99, Reason: "Ghost"})
			Expect(err).To(MatchError(internal.ErrAssetNotFound))
		})

		It("should email the admin when requested", func() {
			_, err := service.Dispatch(repair.DispatchDTO{
				AssetID: 1, Reason: "Screen flicker", NotifyAdmin: true,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(mail.messages).To(HaveLen(1))
			Expect(mail.messages[0].To).To(Equal("admin@example.com"))
			Expect(mail.messages[0].HTML).To(ContainSubstring("LT-0001"))
		})
	})

	Describe("Return", func() {
		var rep *repair.Repair

		BeforeEach(func() {
			var err error
			rep, err = service.Dispatch(repair.DispatchDTO{AssetID: 1, Reason: "Screen flicker"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should close the repair and run the combined commit", func() {
			returned, err := service.Return(rep.ID, repair.ReturnDTO{ProofRef: "proof-123.jpg"})

			Expect(err).NotTo(HaveOccurred())
			Expect(returned.Status).To(Equal(repair.StatusReturned))
			Expect(returned.ReturnDate).NotTo(BeNil())
			Expect(returned.ProofRef).To(Equal("proof-123.jpg"))
			Expect(mockRepo.completedCalls).To(Equal(1))
		})

		It("should refuse a second return", func() {
			_, err := service.Return(rep.ID, repair.ReturnDTO{})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Return(rep.ID, repair.ReturnDTO{})
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeConflict))
		})

		It("should surface a store error when the commit fails", func() {
			mockRepo.completeError = errors.New("disk full")

			_, err := service.Return(rep.ID, repair.ReturnDTO{})

			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeStoreFailure))
		})

		It("should return not found for a missing repair", func() {
			_, err := service.Return(9999, repair.ReturnDTO{})
			Expect(err).To(MatchError(internal.ErrRepairNotFound))
		})
	})

	Describe("GetByGatePass", func() {
		It("should find a repair by its gate pass number", func() {
			rep, err := service.Dispatch(repair.DispatchDTO{AssetID: 1, Reason: "Keyboard"})
			Expect(err).NotTo(HaveOccurred())

			found, err := service.GetByGatePass(rep.GatePassNumber)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.ID).To(Equal(rep.ID))
		})
	})
})
