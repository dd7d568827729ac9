package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/sterlingsteels/itdesk/internal"
	"github.com/sterlingsteels/itdesk/internal/maintenance"
)

// MaintenanceRepository implements the maintenance.Repository interface
// using GORM
type MaintenanceRepository struct {
	db *gorm.DB
}

func NewMaintenanceRepository(db *gorm.DB) maintenance.Repository {
	return &MaintenanceRepository{db: db}
}

func (r *MaintenanceRepository) CreateReminder(reminder *maintenance.Reminder) error {
	return r.db.Create(reminder).Error
}

func (r *MaintenanceRepository) GetReminders() ([]*maintenance.Reminder, error) {
	var reminders []*maintenance.Reminder
	err := r.db.Order("reminder_date ASC").Find(&reminders).Error
	return reminders, err
}

func (r *MaintenanceRepository) GetReminderByID(id int64) (*maintenance.Reminder, error) {
	var reminder maintenance.Reminder
	err := r.db.Where("id = ?", id).First(&reminder).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrReminderNotFound
		}
		return nil, err
	}
	return &reminder, nil
}

func (r *MaintenanceRepository) DeleteReminder(id int64) error {
	return r.db.Delete(&maintenance.Reminder{}, id).Error
}

func (r *MaintenanceRepository) DueBetween(start, end time.Time) ([]*maintenance.Reminder, error) {
	var reminders []*maintenance.Reminder
	err := r.db.
		Where("reminder_date >= ? AND reminder_date < ?", start, end).
		Order("reminder_date ASC").
		Find(&reminders).Error
	return reminders, err
}

// Archive inserts the report and removes the reminder atomically. A failed
// insert rolls the whole thing back, so the reminder survives.
func (r *MaintenanceRepository) Archive(report *maintenance.MaintenanceReport, reminderID int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(report).Error; err != nil {
			return err
		}
		return tx.Delete(&maintenance.Reminder{}, reminderID).Error
	})
}

func (r *MaintenanceRepository) GetReports() ([]*maintenance.MaintenanceReport, error) {
	var reports []*maintenance.MaintenanceReport
	err := r.db.Order("returned_at DESC").Find(&reports).Error
	return reports, err
}
