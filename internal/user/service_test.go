package user

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/portal-labs/project-portal/internal"
	userDatamodel "github.com/portal-labs/project-portal/internal/core/datamodel/user"
	"github.com/portal-labs/project-portal/internal/rbac"
)

func TestUser(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "User Module Suite")
}

type mockUserRepo struct {
	users         map[int64]*userDatamodel.User
	roles         map[int64][]int64
	nextID        int64
	returnError   bool
	errorToReturn error
}

func newMockUserRepo() *mockUserRepo {
	hash, _ := bcrypt.GenerateFromPassword([]byte("old_password"), bcrypt.MinCost)

	return &mockUserRepo{
		users: map[int64]*userDatamodel.User{
			1: {ID: 1, Username: "admin", Email: "admin@example.com", Role: rbac.RoleAdmin, IsSuperuser: true, IsStaff: true, IsActive: true, PasswordHash: string(hash)},
			2: {ID: 2, Username: "mclaire", Email: "mclaire@example.com", Role: rbac.RoleManager, Department: rbac.DeptFinance, IsActive: true, PasswordHash: string(hash)},
			3: {ID: 3, Username: "jdupont", Email: "jdupont@example.com", Role: rbac.RoleUser, Department: rbac.DeptFinance, IsActive: true, PasswordHash: string(hash)},
		},
		roles:  map[int64][]int64{},
		nextID: 4,
	}
}

func (m *mockUserRepo) GetByID(id int64) (*userDatamodel.User, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	return m.users[id], nil
}

func (m *mockUserRepo) GetByUsername(username string) (*userDatamodel.User, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) GetByEmail(email string) (*userDatamodel.User, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) List(filter ListUsersFilter) ([]*userDatamodel.User, int64, error) {
	if m.returnError {
		return nil, 0, m.errorToReturn
	}
	var out []*userDatamodel.User
	for _, u := range m.users {
		if filter.Department != "" && u.Department != filter.Department {
			continue
		}
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (m *mockUserRepo) Create(u *userDatamodel.User) error {
	if m.returnError {
		return m.errorToReturn
	}
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) Update(u *userDatamodel.User) error {
	if m.returnError {
		return m.errorToReturn
	}
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) Delete(id int64) error {
	if m.returnError {
		return m.errorToReturn
	}
	if u, ok := m.users[id]; ok {
		u.IsActive = false
		u.Status = "inactive"
	}
	return nil
}

func (m *mockUserRepo) ReplaceRoles(userID int64, roleIDs []int64) error {
	if m.returnError {
		return m.errorToReturn
	}
	m.roles[userID] = roleIDs
	return nil
}

func (m *mockUserRepo) GetRoleIDs(userID int64) ([]int64, error) {
	return m.roles[userID], nil
}

var _ = ginkgo.Describe("UserService", func() {
	var (
		service   *Service
		mockRepo  *mockUserRepo
		superuser *rbac.Actor
		manager   *rbac.Actor
		regular   *rbac.Actor
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockUserRepo()
		service = NewService(mockRepo, bcrypt.MinCost, slog.Default())
		superuser = &rbac.Actor{ID: 1, Username: "admin", Role: rbac.RoleAdmin, IsSuperuser: true, IsStaff: true}
		manager = &rbac.Actor{ID: 2, Username: "mclaire", Role: rbac.RoleManager, Department: rbac.DeptFinance}
		regular = &rbac.Actor{ID: 3, Username: "jdupont", Role: rbac.RoleUser, Department: rbac.DeptFinance}
	})

	ginkgo.Describe("Create", func() {
		ginkgo.It("should create a regular user with defaults", func() {
			dto := CreateUserDTO{
				Username:   "nmartin",
				Email:      "nmartin@example.com",
				Password:   "longenough",
				Department: rbac.DeptJuridique,
			}

			u, err := service.Create(manager, dto)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(u.Role).To(gomega.Equal(rbac.RoleUser))
			gomega.Expect(u.IsActive).To(gomega.BeTrue())
			gomega.Expect(u.PasswordHash).ToNot(gomega.Equal("longenough"))
		})

		ginkgo.It("should reject a duplicate username", func() {
			dto := CreateUserDTO{
				Username:   "jdupont",
				Email:      "other@example.com",
				Password:   "longenough",
				Department: rbac.DeptFinance,
			}

			_, err := service.Create(manager, dto)

			gomega.Expect(err).To(gomega.Equal(apperrors.ErrUserExists))
		})

		ginkgo.It("should reject a duplicate email", func() {
			dto := CreateUserDTO{
				Username:   "fresh",
				Email:      "jdupont@example.com",
				Password:   "longenough",
				Department: rbac.DeptFinance,
			}

			_, err := service.Create(manager, dto)

			gomega.Expect(err).To(gomega.Equal(apperrors.ErrUserExists))
		})

		ginkgo.It("should only let a superuser create a superuser", func() {
			dto := CreateUserDTO{
				Username:    "newroot",
				Email:       "newroot@example.com",
				Password:    "longenough",
				IsSuperuser: true,
			}

			_, err := service.Create(manager, dto)
			gomega.Expect(err).To(gomega.Equal(apperrors.ErrAccessDenied))

			u, err := service.Create(superuser, dto)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(u.IsSuperuser).To(gomega.BeTrue())
		})

		ginkgo.It("should reject an unknown department", func() {
			dto := CreateUserDTO{
				Username:   "nmartin",
				Email:      "nmartin@example.com",
				Password:   "longenough",
				Department: "marketing",
			}

			_, err := service.Create(manager, dto)

			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("Update", func() {
		ginkgo.It("should let a manager update a regular user", func() {
			position := "analyste"

			u, err := service.Update(manager, 3, UpdateUserDTO{Position: &position})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(u.Position).To(gomega.Equal("analyste"))
		})

		ginkgo.It("should block a manager from touching a protected account", func() {
			position := "hijacked"

			_, err := service.Update(manager, 1, UpdateUserDTO{Position: &position})

			gomega.Expect(err).To(gomega.Equal(apperrors.ErrUserProtected))
		})

		ginkgo.It("should let a superuser update a protected account", func() {
			position := "directeur"

			u, err := service.Update(superuser, 1, UpdateUserDTO{Position: &position})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(u.Position).To(gomega.Equal("directeur"))
		})

		ginkgo.It("should block a regular user entirely", func() {
			position := "nope"

			_, err := service.Update(regular, 2, UpdateUserDTO{Position: &position})

			gomega.Expect(err).To(gomega.Equal(apperrors.ErrAccessDenied))
		})

		ginkgo.It("should only let a superuser toggle the staff flag", func() {
			staff := true

			_, err := service.Update(manager, 3, UpdateUserDTO{IsStaff: &staff})

			gomega.Expect(err).To(gomega.Equal(apperrors.ErrAccessDenied))
		})

		ginkgo.It("should return not found for a missing user", func() {
			position := "ghost"

			_, err := service.Update(manager, 99, UpdateUserDTO{Position: &position})

			gomega.Expect(err).To(gomega.Equal(apperrors.ErrUserNotFound))
		})
	})

	ginkgo.Describe("Delete", func() {
		ginkgo.It("should deactivate a regular user", func() {
			err := service.Delete(manager, 3)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.users[3].IsActive).To(gomega.BeFalse())
		})

		ginkgo.It("should block deleting a protected account", func() {
			err := service.Delete(manager, 1)

			gomega.Expect(err).To(gomega.Equal(apperrors.ErrUserProtected))
		})

		ginkgo.It("should block self-deletion", func() {
			err := service.Delete(manager, 2)

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(mockRepo.users[2].IsActive).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("ChangePassword", func() {
		ginkgo.It("should rotate the caller's own password with the current one", func() {
			dto := ChangePasswordDTO{CurrentPassword: "old_password", NewPassword: "brand_new_pw"}

			err := service.ChangePassword(regular, 3, dto)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			check := bcrypt.CompareHashAndPassword([]byte(mockRepo.users[3].PasswordHash), []byte("brand_new_pw"))
			gomega.Expect(check).To(gomega.Succeed())
		})

		ginkgo.It("should reject a wrong current password", func() {
			dto := ChangePasswordDTO{CurrentPassword: "wrong", NewPassword: "brand_new_pw"}

			err := service.ChangePassword(regular, 3, dto)

			gomega.Expect(err).To(gomega.Equal(apperrors.ErrInvalidCredentials))
		})

		ginkgo.It("should let a superuser reset without the current password", func() {
			dto := ChangePasswordDTO{CurrentPassword: "ignored", NewPassword: "reset_by_root"}

			err := service.ChangePassword(superuser, 3, dto)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("should block resetting someone else's password", func() {
			dto := ChangePasswordDTO{CurrentPassword: "old_password", NewPassword: "brand_new_pw"}

			err := service.ChangePassword(regular, 2, dto)

			gomega.Expect(err).To(gomega.Equal(apperrors.ErrAccessDenied))
		})
	})

	ginkgo.Describe("AssignRoles", func() {
		ginkgo.It("should replace the custom role set", func() {
			err := service.AssignRoles(manager, 3, []int64{10, 11})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.roles[3]).To(gomega.Equal([]int64{10, 11}))
		})

		ginkgo.It("should block assigning roles on a protected account", func() {
			err := service.AssignRoles(manager, 1, []int64{10})

			gomega.Expect(err).To(gomega.Equal(apperrors.ErrUserProtected))
		})
	})

	ginkgo.Describe("List", func() {
		ginkgo.It("should filter by department", func() {
			resp, err := service.List(ListUsersFilter{Department: rbac.DeptFinance})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(resp.Total).To(gomega.Equal(int64(2)))
		})

		ginkgo.It("should reject an unknown department filter", func() {
			_, err := service.List(ListUsersFilter{Department: "ventes"})

			gomega.Expect(err).To(gomega.Equal(apperrors.ErrInvalidDepartment))
		})

		ginkgo.It("should surface repository errors", func() {
			mockRepo.returnError = true
			mockRepo.errorToReturn = errors.New("connection refused")

			_, err := service.List(ListUsersFilter{})

			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})
})
