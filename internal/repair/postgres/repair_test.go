package postgres

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sterlingsteels/itdesk/internal"
	"github.com/sterlingsteels/itdesk/internal/asset"
	"github.com/sterlingsteels/itdesk/internal/repair"
)

func TestRepairRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Repair Repository Suite")
}

type SQLiteRepair struct {
	ID             int64      `gorm:"primaryKey"`
	AssetID        int64      `gorm:"column:asset_id;index;not null"`
	Reason         string     `gorm:"not null"`
	Vendor         string     `gorm:"column:vendor"`
	GatePassNumber string     `gorm:"column:gate_pass_number;uniqueIndex;not null"`
	DispatchDate   time.Time  `gorm:"column:dispatch_date"`
	ReturnDate     *time.Time `gorm:"column:return_date"`
	Status         string     `gorm:"default:'dispatched'"`
	ProofRef       string     `gorm:"column:proof_ref"`
	Notes          string     `gorm:"column:notes"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (SQLiteRepair) TableName() string {
	return "repairs"
}

type SQLiteAsset struct {
	ID        int64     `gorm:"primaryKey"`
	AssetTag  string    `gorm:"column:asset_tag;uniqueIndex;not null"`
	Name      string    `gorm:"not null"`
	Category  string    `gorm:"not null"`
	Status    string    `gorm:"default:'available'"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (SQLiteAsset) TableName() string {
	return "assets"
}

var _ = Describe("RepairRepository", func() {
	var (
		db   *gorm.DB
		repo repair.Repository
	)

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteRepair{}, &SQLiteAsset{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewRepairRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		err = sqlDB.Close()
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Create", func() {
		It("should map a duplicate gate pass to ErrDuplicateGatePass", func() {
			first := &repair.Repair{
				AssetID: 1, Reason: "Screen", GatePassNumber: "GP-AAAA1111",
				DispatchDate: time.Now(), Status: repair.StatusDispatched,
			}
			Expect(repo.Create(first)).To(Succeed())

			dup := &repair.Repair{
				AssetID: 2, Reason: "Battery", GatePassNumber: "GP-AAAA1111",
				DispatchDate: time.Now(), Status: repair.StatusDispatched,
			}
			Expect(repo.Create(dup)).To(MatchError(internal.ErrDuplicateGatePass))
		})
	})

	Describe("CompleteReturn", func() {
		It("should close the repair and free the asset in one commit", func() {
			a := &SQLiteAsset{AssetTag: "LT-0001", Name: "ThinkPad", Category: "laptop", Status: asset.StatusUnderRepair}
			Expect(db.Create(a).Error).To(Succeed())

			rep := &repair.Repair{
				AssetID: a.ID, Reason: "Screen", GatePassNumber: "GP-BBBB2222",
				DispatchDate: time.Now(), Status: repair.StatusDispatched,
			}
			Expect(repo.Create(rep)).To(Succeed())

			now := time.Now()
			rep.Status = repair.StatusReturned
			rep.ReturnDate = &now
			Expect(repo.CompleteReturn(rep)).To(Succeed())

			found, err := repo.GetByID(rep.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Status).To(Equal(repair.StatusReturned))

			var stored SQLiteAsset
			Expect(db.First(&stored, a.ID).Error).To(Succeed())
			Expect(stored.Status).To(Equal(asset.StatusAvailable))
		})
	})

	Describe("GetByGatePass", func() {
		It("should map an unknown gate pass to ErrRepairNotFound", func() {
			_, err := repo.GetByGatePass("GP-ZZZZ9999")
			Expect(err).To(MatchError(internal.ErrRepairNotFound))
		})
	})
})
