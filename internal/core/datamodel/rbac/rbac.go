package rbac

import "time"

// Permission is one grantable capability row. The codename is immutable
// after creation; rows referenced by roles are soft-deactivated, never
// deleted.
type Permission struct {
	ID          int64     `gorm:"primaryKey"`
	Codename    string    `gorm:"column:codename;uniqueIndex;not null"`
	Name        string    `gorm:"column:name;not null"`
	Description string    `gorm:"column:description"`
	Category    string    `gorm:"column:category;not null;default:users"`
	IsActive    bool      `gorm:"column:is_active;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time `gorm:"column:updated_at;default:now()"`
}

func (Permission) TableName() string { return "custom_permissions" }

// Role is an administrator-defined bundle of permissions. System roles are
// seeded at bootstrap and protected from deletion.
type Role struct {
	ID          int64        `gorm:"primaryKey"`
	Name        string       `gorm:"column:name;uniqueIndex;not null"`
	DisplayName string       `gorm:"column:display_name"`
	Description string       `gorm:"column:description"`
	IsActive    bool         `gorm:"column:is_active;default:true"`
	IsSystem    bool         `gorm:"column:is_system;default:false"`
	Permissions []Permission `gorm:"many2many:role_permissions;joinForeignKey:RoleID;joinReferences:PermissionID"`
	CreatedAt   time.Time    `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time    `gorm:"column:updated_at;default:now()"`
}

func (Role) TableName() string { return "custom_roles" }

// DepartmentPermission is an explicit per-user, per-department grant. At
// most one row exists per (user, department); absence means the resolver
// falls back to the home-department check.
type DepartmentPermission struct {
	ID         int64     `gorm:"primaryKey"`
	UserID     int64     `gorm:"column:user_id;not null;uniqueIndex:idx_dept_perm_user_dept"`
	Department string    `gorm:"column:department;not null;uniqueIndex:idx_dept_perm_user_dept"`
	CanView    bool      `gorm:"column:can_view;default:true"`
	CanEdit    bool      `gorm:"column:can_edit;default:false"`
	CanCreate  bool      `gorm:"column:can_create;default:false"`
	CanDelete  bool      `gorm:"column:can_delete;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt  time.Time `gorm:"column:updated_at;default:now()"`
}

func (DepartmentPermission) TableName() string { return "department_permissions" }
