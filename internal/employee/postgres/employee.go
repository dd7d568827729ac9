package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/sterlingsteels/itdesk/internal"
	"github.com/sterlingsteels/itdesk/internal/employee"
)

// EmployeeRepository implements the employee.Repository interface using GORM
type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.Repository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Create(e *employee.Employee) error {
	if err := r.db.Create(e).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return internal.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *EmployeeRepository) GetAll() ([]*employee.Employee, error) {
	var employees []*employee.Employee
	err := r.db.Order("name ASC").Find(&employees).Error
	return employees, err
}

func (r *EmployeeRepository) GetByID(id int64) (*employee.Employee, error) {
	var e employee.Employee
	err := r.db.Where("id = ?", id).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *EmployeeRepository) Update(e *employee.Employee) error {
	e.UpdatedAt = time.Now()
	if err := r.db.Save(e).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return internal.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *EmployeeRepository) Delete(id int64) error {
	return r.db.Delete(&employee.Employee{}, id).Error
}

func (r *EmployeeRepository) AssignmentsFor(employeeID int64) ([]*employee.Assignment, error) {
	var assignments []*employee.Assignment
	err := r.db.Where("employee_id = ?", employeeID).Order("assigned_at ASC").Find(&assignments).Error
	return assignments, err
}

func (r *EmployeeRepository) AssignmentForAsset(assetID int64) (*employee.Assignment, error) {
	var a employee.Assignment
	err := r.db.Where("asset_id = ?", assetID).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *EmployeeRepository) AddAssignment(a *employee.Assignment) error {
	if err := r.db.Create(a).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return internal.ErrAssetAssigned
		}
		return err
	}
	return nil
}

func (r *EmployeeRepository) RemoveAssignment(employeeID, assetID int64) error {
	return r.db.
		Where("employee_id = ? AND asset_id = ?", employeeID, assetID).
		Delete(&employee.Assignment{}).Error
}
