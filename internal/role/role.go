package role

import (
	"time"

	rbacDatamodel "github.com/portal-labs/project-portal/internal/core/datamodel/rbac"
)

type Role struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	IsSystem    bool      `json:"is_system"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Permission struct {
	ID          int64     `json:"id"`
	Codename    string    `json:"codename"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromDataModel(r *rbacDatamodel.Role) *Role {
	codes := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		if p.IsActive {
			codes = append(codes, p.Codename)
		}
	}
	return &Role{
		ID:          r.ID,
		Name:        r.Name,
		DisplayName: r.DisplayName,
		Description: r.Description,
		IsActive:    r.IsActive,
		IsSystem:    r.IsSystem,
		Permissions: codes,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func FromDataModelSlice(roles []*rbacDatamodel.Role) []*Role {
	result := make([]*Role, len(roles))
	for i, r := range roles {
		result[i] = FromDataModel(r)
	}
	return result
}

func PermissionFromDataModel(p *rbacDatamodel.Permission) *Permission {
	return &Permission{
		ID:          p.ID,
		Codename:    p.Codename,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
	}
}

func PermissionsFromDataModelSlice(perms []*rbacDatamodel.Permission) []*Permission {
	result := make([]*Permission, len(perms))
	for i, p := range perms {
		result[i] = PermissionFromDataModel(p)
	}
	return result
}
