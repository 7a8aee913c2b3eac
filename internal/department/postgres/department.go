package postgres

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	rbacDatamodel "github.com/portal-labs/project-portal/internal/core/datamodel/rbac"
	"github.com/portal-labs/project-portal/internal/department"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) department.RepositoryAPI {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) GetForUser(userID int64) ([]*rbacDatamodel.DepartmentPermission, error) {
	var rows []*rbacDatamodel.DepartmentPermission
	err := r.db.Where("user_id = ?", userID).Order("department ASC").Find(&rows).Error
	return rows, err
}

func (r *DepartmentRepository) GetForUserAndDepartment(userID int64, dept string) (*rbacDatamodel.DepartmentPermission, error) {
	var dm rbacDatamodel.DepartmentPermission
	err := r.db.Where("user_id = ? AND department = ?", userID, dept).First(&dm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &dm, nil
}

func (r *DepartmentRepository) GetForDepartment(dept string) ([]*rbacDatamodel.DepartmentPermission, error) {
	var rows []*rbacDatamodel.DepartmentPermission
	err := r.db.Where("department = ?", dept).Order("user_id ASC").Find(&rows).Error
	return rows, err
}

func (r *DepartmentRepository) Upsert(dm *rbacDatamodel.DepartmentPermission) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "department"}},
		DoUpdates: clause.AssignmentColumns([]string{"can_view", "can_edit", "can_create", "can_delete", "updated_at"}),
	}).Create(dm).Error
}

func (r *DepartmentRepository) Delete(userID int64, dept string) error {
	return r.db.Where("user_id = ? AND department = ?", userID, dept).
		Delete(&rbacDatamodel.DepartmentPermission{}).Error
}
