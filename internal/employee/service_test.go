package employee_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sterlingsteels/itdesk/internal"
	"github.com/sterlingsteels/itdesk/internal/asset"
	"github.com/sterlingsteels/itdesk/internal/core/clock"
	"github.com/sterlingsteels/itdesk/internal/core/locking"
	"github.com/sterlingsteels/itdesk/internal/employee"
	"github.com/sterlingsteels/itdesk/internal/mailer"
)

func TestEmployeeService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Employee Service Suite")
}

// Mock repository for testing
type mockEmployeeRepository struct {
	employees   map[int64]*employee.Employee
	assignments map[int64]*employee.Assignment // keyed by asset ID
	nextID      int64
}

func newMockEmployeeRepository() *mockEmployeeRepository {
	return &mockEmployeeRepository{
		employees:   make(map[int64]*employee.Employee),
		assignments: make(map[int64]*employee.Assignment),
		nextID:      1,
	}
}

func (m *mockEmployeeRepository) Create(e *employee.Employee) error {
	e.ID = m.nextID
	m.nextID++
	e.CreatedAt = time.Now()
	e.UpdatedAt = time.Now()
	m.employees[e.ID] = e
	return nil
}

func (m *mockEmployeeRepository) GetAll() ([]*employee.Employee, error) {
	all := make([]*employee.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		all = append(all, e)
	}
	return all, nil
}

func (m *mockEmployeeRepository) GetByID(id int64) (*employee.Employee, error) {
	e, exists := m.employees[id]
	if !exists {
		return nil, errors.New("employee not found")
	}
	return e, nil
}

func (m *mockEmployeeRepository) Update(e *employee.Employee) error {
	m.employees[e.ID] = e
	return nil
}

func (m *mockEmployeeRepository) Delete(id int64) error {
	delete(m.employees, id)
	return nil
}

func (m *mockEmployeeRepository) AssignmentsFor(employeeID int64) ([]*employee.Assignment, error) {
	var out []*employee.Assignment
	for _, a := range m.assignments {
		if a.EmployeeID == employeeID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockEmployeeRepository) AssignmentForAsset(assetID int64) (*employee.Assignment, error) {
	return m.assignments[assetID], nil
}

func (m *mockEmployeeRepository) AddAssignment(a *employee.Assignment) error {
	if _, exists := m.assignments[a.AssetID]; exists {
		return internal.ErrAssetAssigned
	}
	m.assignments[a.AssetID] = a
	return nil
}

func (m *mockEmployeeRepository) RemoveAssignment(employeeID, assetID int64) error {
	if a, exists := m.assignments[assetID]; exists && a.EmployeeID == employeeID {
		delete(m.assignments, assetID)
	}
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
	fail     bool
}

func (m *recordingMailer) Send(ctx context.Context, msg mailer.Message) mailer.Result {
	m.messages = append(m.messages, msg)
	if m.fail {
		return mailer.Failure(errors.New("smtp down"))
	}
	return mailer.Success()
}

var _ = Describe("EmployeeService", func() {
	var (
		service  *employee.Service
		mockRepo *mockEmployeeRepository
		assets   *mockAssetStore
		mail     *recordingMailer
		emp      *employee.Employee
		logger   *slog.Logger
	)

	BeforeEach(func() {
		mockRepo = newMockEmployeeRepository()
		assets = &mockAssetStore{assets: map[int64]*asset.Asset{
			1: {ID: 1, AssetTag: "LT-0001", Name: "ThinkPad T14", Category: "laptop", Status: asset.StatusAvailable},
			2: {ID: 2, AssetTag: "LT-0002", Name: "Latitude 5440", Category: "laptop", Status: asset.StatusAvailable},
		}}
		mail = &recordingMailer{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
		service = employee.NewService(mockRepo, assets, mail, locking.NewKeyedMutex(), clock.Fixed(now), "admin@example.com", logger)

		emp = &employee.Employee{Name: "Nimal Perera", Email: "nimal@example.com", Department: "Finance"}
		Expect(mockRepo.Create(emp)).To(Succeed())
	})

	Describe("AssignAssets", func() {
		Context("permanent assignment", func() {
			It("should mark the asset in-use and set the holder", func() {
				// When
				detail, err := service.AssignAssets(emp.ID, employee.AssignAssetsDTO{
					AssetIDs: []int64{1},
					Mode:     employee.ModePermanent,
				})

				// Then
				Expect(err).NotTo(HaveOccurred())
				Expect(detail.AssignedAssets).To(HaveLen(1))
				Expect(assets.assets[1].Status).To(Equal(asset.StatusInUse))
				Expect(*assets.assets[1].AssignedTo).To(Equal(emp.ID))
			})
		})

		Context("temporary assignment", func() {
			It("should keep the asset available while holding it", func() {
				detail, err := service.AssignAssets(emp.ID, employee.AssignAssetsDTO{
					AssetIDs: []int64{1},
					Mode:     employee.ModeTemporary,
				})

				Expect(err).NotTo(HaveOccurred())
				Expect(detail.TempAssignedAssets).To(HaveLen(1))
				Expect(assets.assets[1].Status).To(Equal(asset.StatusAvailable))
				Expect(*assets.assets[1].AssignedTo).To(Equal(emp.ID))
			})
		})

		It("should be idempotent for an asset the employee already holds", func() {
			_, err := service.AssignAssets(emp.ID, employee.AssignAssetsDTO{
				AssetIDs: []int64{1}, Mode: employee.ModePermanent,
			})
			Expect(err).NotTo(HaveOccurred())

			detail, err := service.AssignAssets(emp.ID, employee.AssignAssetsDTO{
				AssetIDs: []int64{1}, Mode: employee.ModePermanent, Notify: true,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(detail.AssignedAssets).To(HaveLen(1))
			// nothing newly granted, so no mail either
			Expect(mail.messages).To(BeEmpty())
		})

		It("should refuse an asset held by another employee", func() {
			other := &employee.Employee{Name: "Kamala Silva", Email: "kamala@example.com"}
			Expect(mockRepo.Create(other)).To(Succeed())
			_, err := service.AssignAssets(other.ID, employee.AssignAssetsDTO{
				AssetIDs: []int64{1}, Mode: employee.ModeTemporary,
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.AssignAssets(emp.ID, employee.AssignAssetsDTO{
				AssetIDs: []int64{1}, Mode: employee.ModePermanent,
			})
			Expect(err).To(MatchError(internal.ErrAssetAssigned))
		})

		It("should send one email enumerating the granted assets", func() {
			_, err := service.AssignAssets(emp.ID, employee.AssignAssetsDTO{
				AssetIDs: []int64{1, 2}, Mode: employee.ModePermanent, Notify: true,
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(mail.messages).To(HaveLen(1))
			Expect(mail.messages[0].To).To(Equal("nimal@example.com"))
			Expect(mail.messages[0].CC).To(Equal("admin@example.com"))
			Expect(mail.messages[0].HTML).To(ContainSubstring("LT-0001"))
			Expect(mail.messages[0].HTML).To(ContainSubstring("LT-0002"))
		})

		It("should not fail the assignment when the notification fails", func() {
			mail.fail = true

			_, err := service.AssignAssets(emp.ID, employee.AssignAssetsDTO{
				AssetIDs: []int64{1}, Mode: employee.ModePermanent, Notify: true,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(*assets.assets[1].AssignedTo).To(Equal(emp.ID))
		})

		It("should reject an unknown mode", func() {
			_, err := service.AssignAssets(emp.ID, employee.AssignAssetsDTO{
				AssetIDs: []int64{1}, Mode: "forever",
			})
			Expect(err).To(HaveOccurred())
		})

		It("should return not found for a missing employee", func() {
			_, err := service.AssignAssets(999, employee.AssignAssetsDTO{
				AssetIDs: []int64{1}, Mode: employee.ModePermanent,
			})
			Expect(err).To(MatchError(internal.ErrEmployeeNotFound))
		})
	})

	Describe("UnassignAssets", func() {
		BeforeEach(func() {
			_, err := service.AssignAssets(emp.ID, employee.AssignAssetsDTO{
				AssetIDs: []int64{1}, Mode: employee.ModePermanent,
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should reset the asset to available with no holder", func() {
			detail, err := service.UnassignAssets(emp.ID, employee.UnassignAssetsDTO{AssetIDs: []int64{1}})

			Expect(err).NotTo(HaveOccurred())
			Expect(detail.AssignedAssets).To(BeEmpty())
			Expect(assets.assets[1].Status).To(Equal(asset.StatusAvailable))
			Expect(assets.assets[1].AssignedTo).To(BeNil())
		})

		It("should skip assets the employee does not hold", func() {
			_, err := service.UnassignAssets(emp.ID, employee.UnassignAssetsDTO{AssetIDs: []int64{2}})
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("DeleteEmployee", func() {
		It("should release held assets before deleting", func() {
			_, err := service.AssignAssets(emp.ID, employee.AssignAssetsDTO{
				AssetIDs: []int64{1, 2}, Mode: employee.ModePermanent,
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.DeleteEmployee(emp.ID)).To(Succeed())
			Expect(assets.assets[1].AssignedTo).To(BeNil())
			Expect(assets.assets[2].AssignedTo).To(BeNil())
			Expect(assets.assets[1].Status).To(Equal(asset.StatusAvailable))
		})
	})

	Describe("Resolve", func() {
		It("should return the scan assignee snapshot", func() {
			assignee, err := service.Resolve(emp.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(assignee.Name).To(Equal("Nimal Perera"))
			Expect(assignee.Department).To(Equal("Finance"))
		})

		It("should return not found for a missing employee", func() {
			_, err := service.Resolve(999)
			Expect(err).To(MatchError(internal.ErrEmployeeNotFound))
		})
	})

	Describe("CreateEmployee", func() {
		It("should require name and email", func() {
			_, err := service.CreateEmployee(employee.CreateEmployeeDTO{Name: "No Email"})
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should create a valid employee", func() {
			created, err := service.CreateEmployee(employee.CreateEmployeeDTO{
				Name:       "Ruwan Jayasuriya",
				Email:      "ruwan@example.com",
				Department: "IT",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).To(BeNumerically(">", 0))
			Expect(strings.ToLower(created.Email)).To(Equal("ruwan@example.com"))
		})
	})
})
