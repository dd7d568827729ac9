package postgres

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sterlingsteels/itdesk/internal"
	"github.com/sterlingsteels/itdesk/internal/broadband"
)

func TestBroadbandRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Broadband Repository Suite")
}

type SQLiteMonthData struct {
	ID          int64     `gorm:"primaryKey"`
	Month       string    `gorm:"uniqueIndex:idx_month_provider;not null"`
	Provider    string    `gorm:"uniqueIndex:idx_month_provider;not null"`
	BasePlanGB  float64   `gorm:"column:base_plan_gb"`
	BaseCost    float64   `gorm:"column:base_cost"`
	TotalUsedGB float64   `gorm:"column:total_used_gb"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (SQLiteMonthData) TableName() string {
	return "broadband_months"
}

type SQLiteAddon struct {
	ID          int64     `gorm:"primaryKey"`
	MonthDataID int64     `gorm:"column:month_data_id;index;not null"`
	Name        string    `gorm:"not null"`
	GB          float64   `gorm:"column:gb"`
	Cost        float64   `gorm:"column:cost"`
	AddedAt     time.Time `gorm:"column:added_at"`
}

func (SQLiteAddon) TableName() string {
	return "broadband_addons"
}

var _ = Describe("BroadbandRepository", func() {
	var (
		db   *gorm.DB
		repo broadband.Repository
	)

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteMonthData{}, &SQLiteAddon{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewBroadbandRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		err = sqlDB.Close()
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Create", func() {
		It("should map a duplicate month+provider to ErrDuplicateMonth", func() {
			first := &broadband.MonthData{Month: "2025-06", Provider: "SLT", BasePlanGB: 400, BaseCost: 6500}
			Expect(repo.Create(first)).To(Succeed())

			dup := &broadband.MonthData{Month: "2025-06", Provider: "SLT", BasePlanGB: 100, BaseCost: 2000}
			Expect(repo.Create(dup)).To(MatchError(internal.ErrDuplicateMonth))
		})

		It("should allow the same month for a different provider", func() {
			Expect(repo.Create(&broadband.MonthData{Month: "2025-06", Provider: "SLT"})).To(Succeed())
			Expect(repo.Create(&broadband.MonthData{Month: "2025-06", Provider: "Dialog"})).To(Succeed())
		})
	})

	Describe("AddAddon", func() {
		It("should attach addons and load them with the month", func() {
			m := &broadband.MonthData{Month: "2025-06", Provider: "SLT", BasePlanGB: 400, BaseCost: 6500}
			Expect(repo.Create(m)).To(Succeed())

			Expect(repo.AddAddon(&broadband.Addon{MonthDataID: m.ID, Name: "Extra 50GB", GB: 50, Cost: 950, AddedAt: time.Now()})).To(Succeed())
			Expect(repo.AddAddon(&broadband.Addon{MonthDataID: m.ID, Name: "Night pack", GB: 100, Cost: 500, AddedAt: time.Now()})).To(Succeed())

			found, err := repo.GetByID(m.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Addons).To(HaveLen(2))
			Expect(found.TotalCapGB()).To(BeNumerically("==", 550))
			Expect(found.TotalCost()).To(BeNumerically("==", 7950))
		})
	})

	Describe("Delete", func() {
		It("should remove the month and its addons", func() {
			m := &broadband.MonthData{Month: "2025-05", Provider: "SLT"}
			Expect(repo.Create(m)).To(Succeed())
			Expect(repo.AddAddon(&broadband.Addon{MonthDataID: m.ID, Name: "Extra", GB: 10, Cost: 300, AddedAt: time.Now()})).To(Succeed())

			Expect(repo.Delete(m.ID)).To(Succeed())

			_, err := repo.GetByID(m.ID)
			Expect(err).To(MatchError(internal.ErrMonthNotFound))

			var count int64
			Expect(db.Model(&SQLiteAddon{}).Count(&count).Error).To(Succeed())
			Expect(count).To(BeZero())
		})
	})
})
