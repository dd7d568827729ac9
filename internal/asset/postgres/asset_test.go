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
)

func TestAssetRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Asset Repository Suite")
}

type SQLiteAsset struct {
	ID             int64      `gorm:"primaryKey"`
	AssetTag       string     `gorm:"column:asset_tag;uniqueIndex;not null"`
	Name           string     `gorm:"not null"`
	Category       string     `gorm:"not null"`
	Brand          string     `gorm:"column:brand"`
	Model          string     `gorm:"column:model"`
	SerialNumber   string     `gorm:"column:serial_number"`
	PurchaseDate   *time.Time `gorm:"column:purchase_date"`
	WarrantyExpiry *time.Time `gorm:"column:warranty_expiry"`
	AssignedTo     *int64     `gorm:"column:assigned_to"`
	Status         string     `gorm:"default:'available'"`
	Location       string     `gorm:"column:location"`
	Remarks        string     `gorm:"column:remarks"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (SQLiteAsset) TableName() string {
	return "assets"
}

var _ = Describe("AssetRepository", func() {
	var (
		db   *gorm.DB
		repo asset.Repository
	)

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteAsset{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewAssetRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		err = sqlDB.Close()
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Create", func() {
		It("should create an asset successfully", func() {
			a := &asset.Asset{
				AssetTag: "LT-0001",
				Name:     "ThinkPad T14",
				Category: "laptop",
				Status:   asset.StatusAvailable,
			}

			err := repo.Create(a)
			Expect(err).NotTo(HaveOccurred())
			Expect(a.ID).To(BeNumerically(">", 0))
		})

		It("should reject a duplicate asset tag", func() {
			a := &asset.Asset{AssetTag: "LT-0001", Name: "First", Category: "laptop", Status: asset.StatusAvailable}
			Expect(repo.Create(a)).To(Succeed())

			dup := &asset.Asset{AssetTag: "LT-0001", Name: "Second", Category: "laptop", Status: asset.StatusAvailable}
			err := repo.Create(dup)
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeConflict))
		})
	})

	Describe("GetByID", func() {
		It("should return the stored asset", func() {
			a := &asset.Asset{AssetTag: "LT-0002", Name: "Latitude", Category: "laptop", Status: asset.StatusAvailable}
			Expect(repo.Create(a)).To(Succeed())

			found, err := repo.GetByID(a.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.AssetTag).To(Equal("LT-0002"))
		})

		It("should map a missing row to ErrAssetNotFound", func() {
			_, err := repo.GetByID(9999)
			Expect(err).To(MatchError(internal.ErrAssetNotFound))
		})
	})

	Describe("GetByTag", func() {
		It("should find an asset by its tag", func() {
			a := &asset.Asset{AssetTag: "PR-0009", Name: "LaserJet", Category: "printer", Status: asset.StatusAvailable}
			Expect(repo.Create(a)).To(Succeed())

			found, err := repo.GetByTag("PR-0009")
			Expect(err).NotTo(HaveOccurred())
			Expect(found.ID).To(Equal(a.ID))
		})

		It("should map an unknown tag to ErrAssetNotFound", func() {
			_, err := repo.GetByTag("NOPE-0000")
			Expect(err).To(MatchError(internal.ErrAssetNotFound))
		})
	})

	Describe("Update", func() {
		It("should persist field changes", func() {
			a := &asset.Asset{AssetTag: "LT-0003", Name: "Old name", Category: "laptop", Status: asset.StatusAvailable}
			Expect(repo.Create(a)).To(Succeed())

			a.Name = "New name"
			a.Location = "Server room"
			Expect(repo.Update(a)).To(Succeed())

			found, err := repo.GetByID(a.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Name).To(Equal("New name"))
			Expect(found.Location).To(Equal("Server room"))
		})
	})

	Describe("Delete", func() {
		It("should remove the asset", func() {
			a := &asset.Asset{AssetTag: "LT-0004", Name: "Retired", Category: "laptop", Status: asset.StatusAvailable}
			Expect(repo.Create(a)).To(Succeed())

			Expect(repo.Delete(a.ID)).To(Succeed())
			_, err := repo.GetByID(a.ID)
			Expect(err).To(MatchError(internal.ErrAssetNotFound))
		})
	})
})
