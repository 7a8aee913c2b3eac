package department

import (
	"time"

	rbacDatamodel "github.com/portal-labs/project-portal/internal/core/datamodel/rbac"
	"github.com/portal-labs/project-portal/internal/rbac"
)

// Grant is one user's explicit access row for one department.
type Grant struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Department string    `json:"department"`
	CanView    bool      `json:"can_view"`
	CanEdit    bool      `json:"can_edit"`
	CanCreate  bool      `json:"can_create"`
	CanDelete  bool      `json:"can_delete"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (g *Grant) ToAccessGrant() rbac.DepartmentGrant {
	return rbac.DepartmentGrant{
		Department: g.Department,
		CanView:    g.CanView,
		CanEdit:    g.CanEdit,
		CanCreate:  g.CanCreate,
		CanDelete:  g.CanDelete,
	}
}

func ToDataModel(g *Grant) *rbacDatamodel.DepartmentPermission {
	return &rbacDatamodel.DepartmentPermission{
		ID:         g.ID,
		UserID:     g.UserID,
		Department: g.Department,
		CanView:    g.CanView,
		CanEdit:    g.CanEdit,
		CanCreate:  g.CanCreate,
		CanDelete:  g.CanDelete,
		CreatedAt:  g.CreatedAt,
		UpdatedAt:  g.UpdatedAt,
	}
}

func FromDataModel(dm *rbacDatamodel.DepartmentPermission) *Grant {
	return &Grant{
		ID:         dm.ID,
		UserID:     dm.UserID,
		Department: dm.Department,
		CanView:    dm.CanView,
		CanEdit:    dm.CanEdit,
		CanCreate:  dm.CanCreate,
		CanDelete:  dm.CanDelete,
		CreatedAt:  dm.CreatedAt,
		UpdatedAt:  dm.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*rbacDatamodel.DepartmentPermission) []*Grant {
	result := make([]*Grant, len(rows))
	for i, dm := range rows {
		result[i] = FromDataModel(dm)
	}
	return result
}

// AccessGrants converts persisted rows to the shape the access checks use.
func AccessGrants(rows []*rbacDatamodel.DepartmentPermission) []rbac.DepartmentGrant {
	grants := make([]rbac.DepartmentGrant, len(rows))
	for i, dm := range rows {
		grants[i] = FromDataModel(dm).ToAccessGrant()
	}
	return grants
}
