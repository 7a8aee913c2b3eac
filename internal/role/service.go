package role

import (
	"log/slog"
	"sort"
	"time"

	apperrors "github.com/portal-labs/project-portal/internal"
	rbacDatamodel "github.com/portal-labs/project-portal/internal/core/datamodel/rbac"
	"github.com/portal-labs/project-portal/internal/rbac"
)

type RepositoryAPI interface {
	GetAllRoles() ([]*rbacDatamodel.Role, error)
	GetRoleByID(id int64) (*rbacDatamodel.Role, error)
	GetRoleByName(name string) (*rbacDatamodel.Role, error)
	CreateRole(role *rbacDatamodel.Role) error
	UpdateRole(role *rbacDatamodel.Role) error
	DeleteRole(id int64) error
	SetRolePermissions(roleID int64, permissionIDs []int64) error
	GetAllPermissions() ([]*rbacDatamodel.Permission, error)
	GetPermissionsByCodenames(codenames []string) ([]*rbacDatamodel.Permission, error)
	UpsertPermission(p *rbacDatamodel.Permission) error
}

// systemRoles are the seeded French display roles and the built-in role
// whose permission set each one mirrors.
var systemRoles = []struct {
	Name        string
	DisplayName string
	Builtin     string
}{
	{"Administrateur", "Administrateur", rbac.RoleAdmin},
	{"Manager", "Manager", rbac.RoleManager},
	{"Développeur", "Développeur", rbac.RoleDeveloper},
	{"Designer", "Designer", rbac.RoleDesigner},
	{"Testeur", "Testeur", rbac.RoleTester},
	{"Utilisateur", "Utilisateur", rbac.RoleUser},
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) ListRoles() ([]*Role, error) {
	rows, err := s.repo.GetAllRoles()
	if err != nil {
		s.logger.Error("failed to list roles", "error", err)
		return nil, err
	}
	return FromDataModelSlice(rows), nil
}

func (s *Service) GetRole(id int64) (*Role, error) {
	dm, err := s.repo.GetRoleByID(id)
	if err != nil {
		return nil, err
	}
	if dm == nil {
		return nil, apperrors.ErrRoleNotFound
	}
	return FromDataModel(dm), nil
}

func (s *Service) CreateRole(dto CreateRoleDTO) (*Role, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	for _, code := range dto.Permissions {
		if !rbac.IsKnownPermission(code) {
			return nil, apperrors.NewValidationError("unknown permission: "+code, apperrors.ErrCodeValidationFailed)
		}
	}

	if existing, err := s.repo.GetRoleByName(dto.Name); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperrors.ErrRoleExists
	}

	dm := &rbacDatamodel.Role{
		Name:        dto.Name,
		DisplayName: dto.DisplayName,
		Description: dto.Description,
		IsActive:    true,
	}
	if dm.DisplayName == "" {
		dm.DisplayName = dto.Name
	}

	if err := s.repo.CreateRole(dm); err != nil {
		s.logger.Error("failed to create role", "error", err, "name", dto.Name)
		return nil, err
	}

	if len(dto.Permissions) > 0 {
		if err := s.setPermissionsByCodenames(dm.ID, dto.Permissions); err != nil {
			return nil, err
		}
	}

	s.logger.Info("role created", "role_id", dm.ID, "name", dm.Name, "permission_count", len(dto.Permissions))
	return s.GetRole(dm.ID)
}

func (s *Service) UpdateRole(id int64, dto UpdateRoleDTO) (*Role, error) {
	dm, err := s.repo.GetRoleByID(id)
	if err != nil {
		return nil, err
	}
	if dm == nil {
		return nil, apperrors.ErrRoleNotFound
	}

	if dto.DisplayName != nil {
		dm.DisplayName = *dto.DisplayName
	}
	if dto.Description != nil {
		dm.Description = *dto.Description
	}
	if dto.IsActive != nil {
		if dm.IsSystem && !*dto.IsActive {
			return nil, apperrors.ErrRoleSystem
		}
		dm.IsActive = *dto.IsActive
	}
	dm.UpdatedAt = time.Now()

	if err := s.repo.UpdateRole(dm); err != nil {
		s.logger.Error("failed to update role", "error", err, "role_id", id)
		return nil, err
	}

	if dto.Permissions != nil {
		if err := s.SetPermissions(id, *dto.Permissions); err != nil {
			return nil, err
		}
	}

	return s.GetRole(id)
}

// DeleteRole removes a custom role. System roles are seeded and protected.
func (s *Service) DeleteRole(id int64) error {
	dm, err := s.repo.GetRoleByID(id)
	if err != nil {
		return err
	}
	if dm == nil {
		return apperrors.ErrRoleNotFound
	}
	if dm.IsSystem {
		s.logger.Warn("blocked deletion of system role", "role_id", id, "name", dm.Name)
		return apperrors.ErrRoleSystem
	}

	if err := s.repo.DeleteRole(id); err != nil {
		s.logger.Error("failed to delete role", "error", err, "role_id", id)
		return err
	}

	s.logger.Info("role deleted", "role_id", id, "name", dm.Name)
	return nil
}

// SetPermissions replaces the role's permission set with the given codenames.
func (s *Service) SetPermissions(roleID int64, codenames []string) error {
	dm, err := s.repo.GetRoleByID(roleID)
	if err != nil {
		return err
	}
	if dm == nil {
		return apperrors.ErrRoleNotFound
	}

	for _, code := range codenames {
		if !rbac.IsKnownPermission(code) {
			return apperrors.NewValidationError("unknown permission: "+code, apperrors.ErrCodeValidationFailed)
		}
	}

	return s.setPermissionsByCodenames(roleID, codenames)
}

func (s *Service) setPermissionsByCodenames(roleID int64, codenames []string) error {
	perms, err := s.repo.GetPermissionsByCodenames(codenames)
	if err != nil {
		return err
	}
	if len(perms) != len(codenames) {
		return apperrors.ErrPermissionNotFound
	}

	ids := make([]int64, len(perms))
	for i, p := range perms {
		ids[i] = p.ID
	}

	if err := s.repo.SetRolePermissions(roleID, ids); err != nil {
		s.logger.Error("failed to set role permissions", "error", err, "role_id", roleID)
		return err
	}

	s.logger.Info("role permissions replaced", "role_id", roleID, "permission_count", len(ids))
	return nil
}

// AddPermission grants one more permission to the role.
func (s *Service) AddPermission(roleID int64, codename string) error {
	r, err := s.GetRole(roleID)
	if err != nil {
		return err
	}
	for _, code := range r.Permissions {
		if code == codename {
			return nil
		}
	}
	return s.SetPermissions(roleID, append(r.Permissions, codename))
}

// RemovePermission revokes one permission from the role.
func (s *Service) RemovePermission(roleID int64, codename string) error {
	r, err := s.GetRole(roleID)
	if err != nil {
		return err
	}
	kept := make([]string, 0, len(r.Permissions))
	for _, code := range r.Permissions {
		if code != codename {
			kept = append(kept, code)
		}
	}
	if len(kept) == len(r.Permissions) {
		return nil
	}
	return s.SetPermissions(roleID, kept)
}

func (s *Service) ListPermissions() ([]*Permission, error) {
	rows, err := s.repo.GetAllPermissions()
	if err != nil {
		s.logger.Error("failed to list permissions", "error", err)
		return nil, err
	}
	return PermissionsFromDataModelSlice(rows), nil
}

// ListPermissionsGrouped returns the catalog organized by category for
// admin screens.
func (s *Service) ListPermissionsGrouped() ([]*PermissionGroup, error) {
	perms, err := s.ListPermissions()
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string][]*Permission)
	for _, p := range perms {
		byCategory[p.Category] = append(byCategory[p.Category], p)
	}

	var groups []*PermissionGroup
	for _, cat := range rbac.Categories() {
		entries := byCategory[cat.Code]
		if len(entries) == 0 {
			continue
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Codename < entries[j].Codename })
		groups = append(groups, &PermissionGroup{
			Category: cat.Code,
			Label:    cat.Label,
			Entries:  entries,
		})
	}
	return groups, nil
}

// Bootstrap seeds the permission catalog and the system roles. It is
// idempotent: re-running refreshes names and permission sets without
// duplicating rows.
func (s *Service) Bootstrap() error {
	for _, entry := range rbac.Catalog() {
		p := &rbacDatamodel.Permission{
			Codename: entry.Code,
			Name:     entry.Name,
			Category: entry.Category,
			IsActive: true,
		}
		if err := s.repo.UpsertPermission(p); err != nil {
			s.logger.Error("failed to upsert permission", "error", err, "codename", entry.Code)
			return err
		}
	}

	for _, sys := range systemRoles {
		dm, err := s.repo.GetRoleByName(sys.Name)
		if err != nil {
			return err
		}
		if dm == nil {
			dm = &rbacDatamodel.Role{
				Name:        sys.Name,
				DisplayName: sys.DisplayName,
				IsActive:    true,
				IsSystem:    true,
			}
			if err := s.repo.CreateRole(dm); err != nil {
				s.logger.Error("failed to create system role", "error", err, "name", sys.Name)
				return err
			}
		} else if !dm.IsSystem {
			dm.IsSystem = true
			if err := s.repo.UpdateRole(dm); err != nil {
				return err
			}
		}

		codes := rbac.PermissionsForRole(sys.Builtin).Codes()
		sort.Strings(codes)
		if err := s.setPermissionsByCodenames(dm.ID, codes); err != nil {
			return err
		}
	}

	s.logger.Info("permission catalog and system roles seeded",
		"permissions", len(rbac.Catalog()), "system_roles", len(systemRoles))
	return nil
}
