package user

import (
	"time"

	apperrors "github.com/portal-labs/project-portal/internal"
	"github.com/portal-labs/project-portal/internal/core/common/validation"
	"github.com/portal-labs/project-portal/internal/rbac"
)

type CreateUserDTO struct {
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Password    string     `json:"password"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Role        string     `json:"role"`
	IsSuperuser bool       `json:"is_superuser"`
	IsStaff     bool       `json:"is_staff"`
	Department  string     `json:"department"`
	Position    string     `json:"position"`
	Filiale     string     `json:"filiale"`
	Phone       string     `json:"phone"`
	Location    string     `json:"location"`
	JoinDate    *time.Time `json:"join_date"`
}

func (d *CreateUserDTO) Validate() *apperrors.AppError {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required().MinLength(3).MaxLength(150)
	v.Field("email", d.Email).Required().MaxLength(254)
	v.Field("password", d.Password).Required().MinLength(8)
	v.Field("role", d.Role).OneOf(rbac.BuiltinRoles(), apperrors.ErrCodeValidationFailed)
	v.Field("department", d.Department).OneOf(rbac.Departments(), apperrors.ErrCodeInvalidDepartment)
	return v.Validate()
}

// UpdateUserDTO carries a partial update; nil fields are left untouched.
type UpdateUserDTO struct {
	Email      *string    `json:"email"`
	FirstName  *string    `json:"first_name"`
	LastName   *string    `json:"last_name"`
	Role       *string    `json:"role"`
	Status     *string    `json:"status"`
	IsStaff    *bool      `json:"is_staff"`
	IsActive   *bool      `json:"is_active"`
	Avatar     *string    `json:"avatar"`
	Phone      *string    `json:"phone"`
	Location   *string    `json:"location"`
	Department *string    `json:"department"`
	Position   *string    `json:"position"`
	Filiale    *string    `json:"filiale"`
	JoinDate   *time.Time `json:"join_date"`
}

func (d *UpdateUserDTO) Validate() *apperrors.AppError {
	v := validation.NewValidator()
	if d.Role != nil {
		v.Field("role", *d.Role).OneOf(rbac.BuiltinRoles(), apperrors.ErrCodeValidationFailed)
	}
	if d.Department != nil {
		v.Field("department", *d.Department).OneOf(rbac.Departments(), apperrors.ErrCodeInvalidDepartment)
	}
	if d.Email != nil {
		v.Field("email", *d.Email).Required().MaxLength(254)
	}
	return v.Validate()
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (d *ChangePasswordDTO) Validate() *apperrors.AppError {
	v := validation.NewValidator()
	v.Field("current_password", d.CurrentPassword).Required()
	v.Field("new_password", d.NewPassword).Required().MinLength(8)
	return v.Validate()
}

type AssignRolesDTO struct {
	RoleIDs []int64 `json:"role_ids"`
}

type ListUsersFilter struct {
	Department string
	Role       string
	Status     string
	Search     string
	Limit      int
	Offset     int
}

type UsersResponse struct {
	Users []*User `json:"users"`
	Total int64   `json:"total"`
}
