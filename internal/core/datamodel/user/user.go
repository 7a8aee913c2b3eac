package user

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           int64      `gorm:"primaryKey"`
	Username     string     `gorm:"column:username;uniqueIndex;not null"`
	Email        string     `gorm:"column:email;uniqueIndex;not null"`
	FirstName    string     `gorm:"column:first_name"`
	LastName     string     `gorm:"column:last_name"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	Role         string     `gorm:"column:role;not null;default:user"`
	Status       string     `gorm:"column:status;not null;default:active"`
	IsSuperuser  bool       `gorm:"column:is_superuser;default:false"`
	IsStaff      bool       `gorm:"column:is_staff;default:false"`
	IsActive     bool       `gorm:"column:is_active;default:true"`
	Avatar       string     `gorm:"column:avatar"`
	Phone        string     `gorm:"column:phone"`
	Location     string     `gorm:"column:location"`
	Department   string     `gorm:"column:department"`
	Position     string     `gorm:"column:position"`
	Filiale      string     `gorm:"column:filiale"`
	JoinDate     *time.Time `gorm:"column:join_date"`
	Preferences  string     `gorm:"column:preferences;default:'{}'"`
	CreatedAt    time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;default:now()"`
}

func (User) TableName() string { return "users" }

// BeforeSave keeps the superuser flags coherent on every write: a superuser
// always ends up with the admin built-in role and the staff flag set. This
// is a standing normalization, not a one-off migration.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.IsSuperuser {
		u.Role = "admin"
		u.IsStaff = true
	}
	return nil
}

// UserRole links a user to a custom role.
type UserRole struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_user_roles_user_role"`
	RoleID    int64     `gorm:"column:role_id;not null;uniqueIndex:idx_user_roles_user_role"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
}

func (UserRole) TableName() string { return "user_roles" }
