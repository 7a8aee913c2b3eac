package user

import (
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/portal-labs/project-portal/internal"
	userDatamodel "github.com/portal-labs/project-portal/internal/core/datamodel/user"
	"github.com/portal-labs/project-portal/internal/rbac"
)

type Repository interface {
	GetByID(id int64) (*userDatamodel.User, error)
	GetByUsername(username string) (*userDatamodel.User, error)
	GetByEmail(email string) (*userDatamodel.User, error)
	List(filter ListUsersFilter) ([]*userDatamodel.User, int64, error)
	Create(u *userDatamodel.User) error
	Update(u *userDatamodel.User) error
	Delete(id int64) error
	ReplaceRoles(userID int64, roleIDs []int64) error
	GetRoleIDs(userID int64) ([]int64, error)
}

type Service struct {
	repo       Repository
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) GetByID(id int64) (*User, error) {
	dm, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get user", "error", err, "user_id", id)
		return nil, err
	}
	if dm == nil {
		return nil, apperrors.ErrUserNotFound
	}
	return FromDataModel(dm), nil
}

func (s *Service) List(filter ListUsersFilter) (*UsersResponse, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Department != "" && !rbac.IsValidDepartment(filter.Department) {
		return nil, apperrors.ErrInvalidDepartment
	}

	rows, total, err := s.repo.List(filter)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, err
	}

	return &UsersResponse{Users: FromDataModelSlice(rows), Total: total}, nil
}

// Create registers a new account. Only a superuser may mint another
// superuser or a staff account.
func (s *Service) Create(requester *rbac.Actor, dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if (dto.IsSuperuser || dto.IsStaff) && !requester.IsSuperuser {
		s.logger.Warn("non-superuser attempted privileged account creation",
			"requester_id", requester.ID, "username", dto.Username)
		return nil, apperrors.ErrAccessDenied
	}

	if existing, err := s.repo.GetByUsername(dto.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperrors.ErrUserExists
	}
	if existing, err := s.repo.GetByEmail(dto.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperrors.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	role := dto.Role
	if role == "" {
		role = rbac.RoleUser
	}

	dm := &userDatamodel.User{
		Username:     dto.Username,
		Email:        dto.Email,
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		PasswordHash: string(hash),
		Role:         role,
		Status:       "active",
		IsSuperuser:  dto.IsSuperuser,
		IsStaff:      dto.IsStaff,
		IsActive:     true,
		Phone:        dto.Phone,
		Location:     dto.Location,
		Department:   dto.Department,
		Position:     dto.Position,
		Filiale:      dto.Filiale,
		JoinDate:     dto.JoinDate,
		Preferences:  "{}",
	}

	if err := s.repo.Create(dm); err != nil {
		s.logger.Error("failed to create user", "error", err, "username", dto.Username)
		return nil, err
	}

	s.logger.Info("user created", "user_id", dm.ID, "username", dm.Username, "role", dm.Role)
	return FromDataModel(dm), nil
}

// Update applies a partial update. Protected targets can only be touched
// by a superuser, regardless of the requester's permission grants.
func (s *Service) Update(requester *rbac.Actor, id int64, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	dm, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if dm == nil {
		return nil, apperrors.ErrUserNotFound
	}

	target := FromDataModel(dm)
	if !rbac.CanModifyUser(target.Actor(), requester) {
		if target.IsProtected() {
			s.logger.Warn("blocked modification of protected account",
				"requester_id", requester.ID, "target_id", id, "target_username", target.Username)
			return nil, apperrors.ErrUserProtected
		}
		return nil, apperrors.ErrAccessDenied
	}

	if dto.Email != nil && *dto.Email != dm.Email {
		if existing, err := s.repo.GetByEmail(*dto.Email); err != nil {
			return nil, err
		} else if existing != nil && existing.ID != id {
			return nil, apperrors.ErrUserExists
		}
		dm.Email = *dto.Email
	}
	if dto.FirstName != nil {
		dm.FirstName = *dto.FirstName
	}
	if dto.LastName != nil {
		dm.LastName = *dto.LastName
	}
	if dto.Role != nil {
		dm.Role = *dto.Role
	}
	if dto.Status != nil {
		dm.Status = *dto.Status
	}
	if dto.IsStaff != nil {
		if !requester.IsSuperuser {
			return nil, apperrors.ErrAccessDenied
		}
		dm.IsStaff = *dto.IsStaff
	}
	if dto.IsActive != nil {
		dm.IsActive = *dto.IsActive
	}
	if dto.Avatar != nil {
		dm.Avatar = *dto.Avatar
	}
	if dto.Phone != nil {
		dm.Phone = *dto.Phone
	}
	if dto.Location != nil {
		dm.Location = *dto.Location
	}
	if dto.Department != nil {
		dm.Department = *dto.Department
	}
	if dto.Position != nil {
		dm.Position = *dto.Position
	}
	if dto.Filiale != nil {
		dm.Filiale = *dto.Filiale
	}
	if dto.JoinDate != nil {
		dm.JoinDate = dto.JoinDate
	}
	dm.UpdatedAt = time.Now()

	if err := s.repo.Update(dm); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", id)
		return nil, err
	}

	s.logger.Info("user updated", "user_id", id, "requester_id", requester.ID)
	return FromDataModel(dm), nil
}

func (s *Service) Delete(requester *rbac.Actor, id int64) error {
	dm, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if dm == nil {
		return apperrors.ErrUserNotFound
	}

	target := FromDataModel(dm)
	if !rbac.CanModifyUser(target.Actor(), requester) {
		if target.IsProtected() {
			return apperrors.ErrUserProtected
		}
		return apperrors.ErrAccessDenied
	}
	if requester.ID == id {
		return apperrors.NewForbiddenError("Cannot delete your own account", apperrors.ErrCodeAccessDenied)
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete user", "error", err, "user_id", id)
		return err
	}

	s.logger.Info("user deleted", "user_id", id, "requester_id", requester.ID)
	return nil
}

// ChangePassword lets a user rotate their own password, or a superuser
// reset anyone's. Self-service requires the current password.
func (s *Service) ChangePassword(requester *rbac.Actor, id int64, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	dm, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if dm == nil {
		return apperrors.ErrUserNotFound
	}

	if requester.ID != id && !requester.IsSuperuser {
		return apperrors.ErrAccessDenied
	}

	if requester.ID == id {
		if err := bcrypt.CompareHashAndPassword([]byte(dm.PasswordHash), []byte(dto.CurrentPassword)); err != nil {
			return apperrors.ErrInvalidCredentials
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.NewPassword), s.bcryptCost)
	if err != nil {
		return err
	}
	dm.PasswordHash = string(hash)
	dm.UpdatedAt = time.Now()

	if err := s.repo.Update(dm); err != nil {
		s.logger.Error("failed to change password", "error", err, "user_id", id)
		return err
	}

	s.logger.Info("password changed", "user_id", id, "requester_id", requester.ID)
	return nil
}

// AssignRoles replaces the user's custom role set.
func (s *Service) AssignRoles(requester *rbac.Actor, id int64, roleIDs []int64) error {
	dm, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if dm == nil {
		return apperrors.ErrUserNotFound
	}

	target := FromDataModel(dm)
	if !rbac.CanModifyUser(target.Actor(), requester) {
		if target.IsProtected() {
			return apperrors.ErrUserProtected
		}
		return apperrors.ErrAccessDenied
	}

	if err := s.repo.ReplaceRoles(id, roleIDs); err != nil {
		s.logger.Error("failed to assign roles", "error", err, "user_id", id)
		return err
	}

	s.logger.Info("roles assigned", "user_id", id, "role_count", len(roleIDs), "requester_id", requester.ID)
	return nil
}

func (s *Service) GetRoleIDs(id int64) ([]int64, error) {
	return s.repo.GetRoleIDs(id)
}
