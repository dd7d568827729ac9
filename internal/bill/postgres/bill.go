package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/sterlingsteels/itdesk/internal"
	"github.com/sterlingsteels/itdesk/internal/bill"
)

// BillRepository implements the bill.Repository interface using GORM
type BillRepository struct {
	db *gorm.DB
}

func NewBillRepository(db *gorm.DB) bill.Repository {
	return &BillRepository{db: db}
}

func (r *BillRepository) Create(b *bill.Bill) error {
	return r.db.Create(b).Error
}

func (r *BillRepository) GetAll() ([]*bill.Bill, error) {
	var bills []*bill.Bill
	err := r.db.Order("reminder_date ASC").Find(&bills).Error
	return bills, err
}

func (r *BillRepository) GetByID(id int64) (*bill.Bill, error) {
	var b bill.Bill
	err := r.db.Where("id = ?", id).First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrBillNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *BillRepository) Update(b *bill.Bill) error {
	b.UpdatedAt = time.Now()
	return r.db.Save(b).Error
}

func (r *BillRepository) Delete(id int64) error {
	return r.db.Delete(&bill.Bill{}, id).Error
}

func (r *BillRepository) PendingDueBetween(start, end time.Time) ([]*bill.Bill, error) {
	var bills []*bill.Bill
	err := r.db.
		Where("status = ? AND reminder_date >= ? AND reminder_date < ?", bill.StatusPending, start, end).
		Order("reminder_date ASC").
		Find(&bills).Error
	return bills, err
}

func (r *BillRepository) CountPending() (int64, error) {
	var count int64
	err := r.db.Model(&bill.Bill{}).Where("status = ?", bill.StatusPending).Count(&count).Error
	return count, err
}

// Pay performs the archive-rollover-delete sequence atomically. next is nil
// for non-recurring bills.
func (r *BillRepository) Pay(report *bill.BillReport, next *bill.Bill, billID int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(report).Error; err != nil {
			return err
		}
		if next != nil {
			if err := tx.Create(next).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&bill.Bill{}, billID).Error
	})
}

func (r *BillRepository) GetReports() ([]*bill.BillReport, error) {
	var reports []*bill.BillReport
	err := r.db.Order("paid_date DESC").Find(&reports).Error
	return reports, err
}
