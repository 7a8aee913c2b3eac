package postgres

import (
	"gorm.io/gorm"

	userDatamodel "github.com/portal-labs/project-portal/internal/core/datamodel/user"
	"github.com/portal-labs/project-portal/internal/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("id = ?", id).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(username string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("username = ?", username).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) List(filter user.ListUsersFilter) ([]*userDatamodel.User, int64, error) {
	query := r.db.Model(&userDatamodel.User{})

	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("username LIKE ? OR email LIKE ? OR first_name LIKE ? OR last_name LIKE ?",
			like, like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*userDatamodel.User
	err := query.Order("username ASC").Limit(filter.Limit).Offset(filter.Offset).Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepository) Create(u *userDatamodel.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) Update(u *userDatamodel.User) error {
	return r.db.Save(u).Error
}

func (r *UserRepository) Delete(id int64) error {
	return r.db.Model(&userDatamodel.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": false, "status": "inactive"}).Error
}

func (r *UserRepository) ReplaceRoles(userID int64, roleIDs []int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&userDatamodel.UserRole{}).Error; err != nil {
			return err
		}
		for _, roleID := range roleIDs {
			if err := tx.Create(&userDatamodel.UserRole{UserID: userID, RoleID: roleID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *UserRepository) GetRoleIDs(userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&userDatamodel.UserRole{}).Where("user_id = ?", userID).
		Pluck("role_id", &ids).Error
	return ids, err
}
