package asset_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sterlingsteels/itdesk/internal/asset"
	"github.com/sterlingsteels/itdesk/internal/core/clock"
)

func TestAssetService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Asset Service Suite")
}

// Mock repository for testing
type mockAssetRepository struct {
	assets      map[int64]*asset.Asset
	byTag       map[string]*asset.Asset
	createError error
	getError    error
	updateError error
	deleteError error
	nextID      int64
}

func newMockAssetRepository() *mockAssetRepository {
	return &mockAssetRepository{
		assets: make(map[int64]*asset.Asset),
		byTag:  make(map[string]*asset.Asset),
		nextID: 1,
	}
}

func (m *mockAssetRepository) Create(a *asset.Asset) error {
	if m.createError != nil {
		return m.createError
	}
	a.ID = m.nextID
	m.nextID++
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	m.assets[a.ID] = a
	m.byTag[a.AssetTag] = a
	return nil
}

func (m *mockAssetRepository) GetAll() ([]*asset.Asset, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	all := make([]*asset.Asset, 0, len(m.assets))
	for _, a := range m.assets {
		all = append(all, a)
	}
	return all, nil
}

func (m *mockAssetRepository) GetByID(id int64) (*asset.Asset, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	a, exists := m.assets[id]
	if !exists {
		return nil, errors.New("asset not found")
	}
	return a, nil
}

func (m *mockAssetRepository) GetByTag(tag string) (*asset.Asset, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	a, exists := m.byTag[tag]
	if !exists {
		return nil, errors.New("asset not found")
	}
	return a, nil
}

func (m *mockAssetRepository) Update(a *asset.Asset) error {
	if m.updateError != nil {
		return m.updateError
	}
	a.UpdatedAt = time.Now()
	m.assets[a.ID] = a
	m.byTag[a.AssetTag] = a
	return nil
}

func (m *mockAssetRepository) Delete(id int64) error {
	if m.deleteError != nil {
		return m.deleteError
	}
	if a, exists := m.assets[id]; exists {
		delete(m.byTag, a.AssetTag)
		delete(m.assets, id)
	}
	return nil
}

type mockAssigneeResolver struct {
	assignee     *asset.ScanAssignee
	resolveError error
}

func (m *mockAssigneeResolver) Resolve(employeeID int64) (*asset.ScanAssignee, error) {
	if m.resolveError != nil {
		return nil, m.resolveError
	}
	return m.assignee, nil
}

var _ = Describe("AssetService", func() {
	var (
		service  *asset.Service
		mockRepo *mockAssetRepository
		resolver *mockAssigneeResolver
		now      time.Time
		logger   *slog.Logger
	)

	BeforeEach(func() {
		mockRepo = newMockAssetRepository()
		resolver = &mockAssigneeResolver{}
		now = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = asset.NewService(mockRepo, resolver, clock.Fixed(now), logger)
	})

	Describe("CreateAsset", func() {
		Context("when the request is valid", func() {
			It("should create the asset with default status available", func() {
				// Given
				dto := asset.CreateAssetDTO{
					AssetTag: "LT-0042",
					Name:     "ThinkPad T14",
					Category: "laptop",
				}

				// When
				created, err := service.CreateAsset(dto)

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(created.ID).To(BeNumerically(">", 0))
				Expect(created.Status).To(Equal(asset.StatusAvailable))
			})

			It("should keep an explicit valid status", func() {
				dto := asset.CreateAssetDTO{
					AssetTag: "LT-0043",
					Name:     "ThinkPad T14",
					Category: "laptop",
					Status:   asset.StatusInUse,
				}

				created, err := service.CreateAsset(dto)

				Expect(err).NotTo(HaveOccurred())
				Expect(created.Status).To(Equal(asset.StatusInUse))
			})
		})

		Context("when required fields are missing", func() {
			It("should return a validation error", func() {
				dto := asset.CreateAssetDTO{Name: "ThinkPad T14"}

				_, err := service.CreateAsset(dto)

				Expect(err).To(HaveOccurred())
			})
		})

		Context("when the status is unknown", func() {
			It("should reject the request", func() {
				dto := asset.CreateAssetDTO{
					AssetTag: "LT-0044",
					Name:     "ThinkPad T14",
					Category: "laptop",
					Status:   "broken",
				}

				_, err := service.CreateAsset(dto)

				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("UpdateAsset", func() {
		var existing *asset.Asset

		BeforeEach(func() {
			existing = &asset.Asset{
				AssetTag: "LT-0050",
				Name:     "MacBook Air",
				Category: "laptop",
				Status:   asset.StatusAvailable,
			}
			Expect(mockRepo.Create(existing)).To(Succeed())
		})

		It("should apply whitelisted fields", func() {
			name := "MacBook Air M3"
			location := "Colombo HQ"

			updated, err := service.UpdateAsset(existing.ID, asset.UpdateAssetDTO{
				Name:     &name,
				Location: &location,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("MacBook Air M3"))
			Expect(updated.Location).To(Equal("Colombo HQ"))
		})

		It("should leave the tag and status untouched by a patch", func() {
			name := "Renamed"

			updated, err := service.UpdateAsset(existing.ID, asset.UpdateAssetDTO{Name: &name})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.AssetTag).To(Equal("LT-0050"))
			Expect(updated.Status).To(Equal(asset.StatusAvailable))
		})

		It("should return not found for a missing asset", func() {
			name := "Ghost"
			_, err := service.UpdateAsset(9999, asset.UpdateAssetDTO{Name: &name})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("AgeOf", func() {
		It("should render full calendar years, months and days", func() {
			purchase := time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)
			a := &asset.Asset{PurchaseDate: &purchase}

			Expect(service.AgeOf(a)).To(Equal("2y 0m 0d"))
		})

		It("should borrow across month-length boundaries", func() {
			// 2023-01-31 plus one year is 2024-01-31, plus 30 days lands on
			// 2024-03-01, so the age at that date is exactly 1y 0m 30d.
			purchase := time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC)
			at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

			Expect(asset.AgeAt(purchase, at).String()).To(Equal("1y 0m 30d"))
		})

		It("should handle a purchase late in a longer month", func() {
			purchase := time.Date(2024, 10, 31, 0, 0, 0, 0, time.UTC)
			at := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)

			Expect(asset.AgeAt(purchase, at).String()).To(Equal("0y 1m 1d"))
		})

		It("should return empty when no purchase date is recorded", func() {
			Expect(service.AgeOf(&asset.Asset{})).To(Equal(""))
		})
	})

	Describe("ScanPayloadFor", func() {
		It("should embed the assignee when the asset is assigned", func() {
			empID := int64(7)
			resolver.assignee = &asset.ScanAssignee{
				Name:       "Nimal Perera",
				Email:      "nimal@example.com",
				Department: "Finance",
			}
			a := &asset.Asset{AssetTag: "LT-0060", Name: "Latitude", Category: "laptop", AssignedTo: &empID}

			payload, err := service.ScanPayloadFor(a)

			Expect(err).NotTo(HaveOccurred())
			Expect(payload.AssignedTo).NotTo(BeNil())
			Expect(payload.AssignedTo.Email).To(Equal("nimal@example.com"))
		})

		It("should degrade to a nil assignee when the lookup fails", func() {
			empID := int64(7)
			resolver.resolveError = errors.New("employee gone")
			a := &asset.Asset{AssetTag: "LT-0061", Name: "Latitude", Category: "laptop", AssignedTo: &empID}

			payload, err := service.ScanPayloadFor(a)

			Expect(err).NotTo(HaveOccurred())
			Expect(payload.AssignedTo).To(BeNil())
		})
	})

	Describe("DeleteAsset", func() {
		It("should delete an existing asset", func() {
			a := &asset.Asset{AssetTag: "LT-0070", Name: "Old box", Category: "desktop"}
			Expect(mockRepo.Create(a)).To(Succeed())

			Expect(service.DeleteAsset(a.ID)).To(Succeed())
			_, err := mockRepo.GetByID(a.ID)
			Expect(err).To(HaveOccurred())
		})

		It("should return not found for a missing asset", func() {
			Expect(service.DeleteAsset(12345)).To(HaveOccurred())
		})
	})
})
