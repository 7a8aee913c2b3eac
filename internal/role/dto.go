package role

import (
	apperrors "github.com/portal-labs/project-portal/internal"
	"github.com/portal-labs/project-portal/internal/core/common/validation"
)

type CreateRoleDTO struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

func (d *CreateRoleDTO) Validate() *apperrors.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MinLength(2).MaxLength(100)
	v.Field("display_name", d.DisplayName).MaxLength(150)
	v.Field("description", d.Description).MaxLength(500)
	return v.Validate()
}

type UpdateRoleDTO struct {
	DisplayName *string   `json:"display_name"`
	Description *string   `json:"description"`
	IsActive    *bool     `json:"is_active"`
	Permissions *[]string `json:"permissions"`
}

type SetPermissionsDTO struct {
	Permissions []string `json:"permissions"`
}

type RolesResponse struct {
	Roles []*Role `json:"roles"`
}

type PermissionsResponse struct {
	Permissions []*Permission `json:"permissions"`
}

// PermissionGroup is a catalog category with its permissions, for admin UIs.
type PermissionGroup struct {
	Category string        `json:"category"`
	Label    string        `json:"label"`
	Entries  []*Permission `json:"entries"`
}
