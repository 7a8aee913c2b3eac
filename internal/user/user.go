package user

import (
	"strings"
	"time"

	userDatamodel "github.com/portal-labs/project-portal/internal/core/datamodel/user"
	"github.com/portal-labs/project-portal/internal/rbac"
)

type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	Status       string     `json:"status"`
	IsSuperuser  bool       `json:"is_superuser"`
	IsStaff      bool       `json:"is_staff"`
	IsActive     bool       `json:"is_active"`
	Avatar       string     `json:"avatar,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Location     string     `json:"location,omitempty"`
	Department   string     `json:"department"`
	Position     string     `json:"position,omitempty"`
	Filiale      string     `json:"filiale,omitempty"`
	JoinDate     *time.Time `json:"join_date,omitempty"`
	Preferences  string     `json:"preferences,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// Actor projects the user into the shape access decisions operate on.
// Custom role grants are not loaded here; callers that need them go
// through the auth repository.
func (u *User) Actor() *rbac.Actor {
	return &rbac.Actor{
		ID:          u.ID,
		Username:    u.Username,
		Role:        u.Role,
		IsSuperuser: u.IsSuperuser,
		IsStaff:     u.IsStaff,
		Department:  u.Department,
	}
}

func (u *User) IsProtected() bool {
	return rbac.IsProtectedUser(u.Actor())
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Status:       u.Status,
		IsSuperuser:  u.IsSuperuser,
		IsStaff:      u.IsStaff,
		IsActive:     u.IsActive,
		Avatar:       u.Avatar,
		Phone:        u.Phone,
		Location:     u.Location,
		Department:   u.Department,
		Position:     u.Position,
		Filiale:      u.Filiale,
		JoinDate:     u.JoinDate,
		Preferences:  u.Preferences,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Status:       u.Status,
		IsSuperuser:  u.IsSuperuser,
		IsStaff:      u.IsStaff,
		IsActive:     u.IsActive,
		Avatar:       u.Avatar,
		Phone:        u.Phone,
		Location:     u.Location,
		Department:   u.Department,
		Position:     u.Position,
		Filiale:      u.Filiale,
		JoinDate:     u.JoinDate,
		Preferences:  u.Preferences,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModelSlice(users []*userDatamodel.User) []*User {
	result := make([]*User, len(users))
	for i, u := range users {
		result[i] = FromDataModel(u)
	}
	return result
}
