package postgres

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	rbacDatamodel "github.com/portal-labs/project-portal/internal/core/datamodel/rbac"
	"github.com/portal-labs/project-portal/internal/role"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) role.RepositoryAPI {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) GetAllRoles() ([]*rbacDatamodel.Role, error) {
	var roles []*rbacDatamodel.Role
	err := r.db.Preload("Permissions").Order("name ASC").Find(&roles).Error
	return roles, err
}

func (r *RoleRepository) GetRoleByID(id int64) (*rbacDatamodel.Role, error) {
	var dm rbacDatamodel.Role
	err := r.db.Preload("Permissions").Where("id = ?", id).First(&dm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &dm, nil
}

func (r *RoleRepository) GetRoleByName(name string) (*rbacDatamodel.Role, error) {
	var dm rbacDatamodel.Role
	err := r.db.Preload("Permissions").Where("name = ?", name).First(&dm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &dm, nil
}

func (r *RoleRepository) CreateRole(dm *rbacDatamodel.Role) error {
	return r.db.Omit("Permissions").Create(dm).Error
}

func (r *RoleRepository) UpdateRole(dm *rbacDatamodel.Role) error {
	return r.db.Omit("Permissions").Save(dm).Error
}

func (r *RoleRepository) DeleteRole(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM role_permissions WHERE role_id = ?`, id).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM user_roles WHERE role_id = ?`, id).Error; err != nil {
			return err
		}
		return tx.Delete(&rbacDatamodel.Role{}, id).Error
	})
}

func (r *RoleRepository) SetRolePermissions(roleID int64, permissionIDs []int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM role_permissions WHERE role_id = ?`, roleID).Error; err != nil {
			return err
		}
		for _, pid := range permissionIDs {
			if err := tx.Exec(`INSERT INTO role_permissions (role_id, permission_id) VALUES (?, ?)`, roleID, pid).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *RoleRepository) GetAllPermissions() ([]*rbacDatamodel.Permission, error) {
	var perms []*rbacDatamodel.Permission
	err := r.db.Where("is_active = ?", true).Order("codename ASC").Find(&perms).Error
	return perms, err
}

func (r *RoleRepository) GetPermissionsByCodenames(codenames []string) ([]*rbacDatamodel.Permission, error) {
	if len(codenames) == 0 {
		return nil, nil
	}
	var perms []*rbacDatamodel.Permission
	err := r.db.Where("codename IN ? AND is_active = ?", codenames, true).Find(&perms).Error
	return perms, err
}

// UpsertPermission inserts the permission or refreshes its name and
// category if the codename already exists.
func (r *RoleRepository) UpsertPermission(p *rbacDatamodel.Permission) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "codename"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "category", "is_active"}),
	}).Create(p).Error
}
