package postgres

import (
	"database/sql"
	"fmt"

	"gorm.io/gorm"

	"github.com/portal-labs/project-portal/internal/rbac"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

// GetCredentials resolves a login, either username or email, to the stored
// password hash. Inactive accounts do not authenticate.
func (r *Repository) GetCredentials(login string) (string, int64, error) {
	var passwordHash string
	var userID int64
	query := `SELECT id, password_hash FROM users WHERE (username = ? OR email = ?) AND is_active = true`

	row := r.db.Raw(query, login, login).Row()
	if err := row.Scan(&userID, &passwordHash); err != nil {
		if err == sql.ErrNoRows {
			return "", 0, fmt.Errorf("user not found")
		}
		return "", 0, err
	}
	return passwordHash, userID, nil
}

// GetActor loads the identity fields access decisions depend on plus every
// active custom role assigned to the user, with that role's permission
// codenames.
func (r *Repository) GetActor(userID int64) (*rbac.Actor, error) {
	var actor rbac.Actor

	query := `SELECT id, username, role, is_superuser, is_staff, department
	          FROM users WHERE id = ? AND is_active = true`

	row := r.db.Raw(query, userID).Row()
	if err := row.Scan(&actor.ID, &actor.Username, &actor.Role, &actor.IsSuperuser, &actor.IsStaff, &actor.Department); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}

	grantQuery := `SELECT cr.name, cp.codename
	               FROM user_roles ur
	               JOIN custom_roles cr ON cr.id = ur.role_id AND cr.is_active = true
	               LEFT JOIN role_permissions rp ON rp.role_id = cr.id
	               LEFT JOIN custom_permissions cp ON cp.id = rp.permission_id AND cp.is_active = true
	               WHERE ur.user_id = ?
	               ORDER BY cr.name`

	rows, err := r.db.Raw(grantQuery, userID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byRole := make(map[string]*rbac.RoleGrant)
	var order []string
	for rows.Next() {
		var roleName string
		var codename sql.NullString
		if err := rows.Scan(&roleName, &codename); err != nil {
			return nil, err
		}
		grant, ok := byRole[roleName]
		if !ok {
			grant = &rbac.RoleGrant{Name: roleName}
			byRole[roleName] = grant
			order = append(order, roleName)
		}
		if codename.Valid {
			grant.Permissions = append(grant.Permissions, codename.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, name := range order {
		actor.CustomRoles = append(actor.CustomRoles, *byRole[name])
	}

	return &actor, nil
}
