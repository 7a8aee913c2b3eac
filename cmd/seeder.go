package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	rbacDatamodel "github.com/portal-labs/project-portal/internal/core/datamodel/rbac"
	userDatamodel "github.com/portal-labs/project-portal/internal/core/datamodel/user"
	"github.com/portal-labs/project-portal/internal/rbac"
	"github.com/portal-labs/project-portal/internal/role"
	rolePostgres "github.com/portal-labs/project-portal/internal/role/postgres"
	"github.com/portal-labs/project-portal/pkg/logger"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with the permission catalog, system roles and sample users for development.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		_, gdb, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			for _, table := range []string{
				"department_permissions", "user_roles", "role_permissions",
				"notifications", "project_attachments", "project_comments",
				"project_members", "tasks", "projects", "users",
			} {
				if err := gdb.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		// Permission catalog and system roles are idempotent upserts.
		roleService := role.NewService(rolePostgres.NewRoleRepository(gdb), logger.LoggerWrapper())
		if err := roleService.Bootstrap(); err != nil {
			log.Fatalf("failed to bootstrap roles: %v", err)
		}
		fmt.Println("Seeded permission catalog and system roles")

		password := "password"
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("failed to hash seed password: %v", err)
		}

		users := []userDatamodel.User{
			{
				Username:     "admin",
				Email:        "admin@portal.local",
				FirstName:    "Portal",
				LastName:     "Admin",
				PasswordHash: string(hash),
				Role:         rbac.RoleAdmin,
				IsSuperuser:  true,
				IsStaff:      true,
				IsActive:     true,
			},
			{
				Username:     "mclaire",
				Email:        "m.claire@portal.local",
				FirstName:    "Marie",
				LastName:     "Claire",
				PasswordHash: string(hash),
				Role:         rbac.RoleManager,
				IsActive:     true,
				Department:   rbac.DeptFinance,
				Position:     "Responsable financier",
			},
			{
				Username:     "jdupont",
				Email:        "j.dupont@portal.local",
				FirstName:    "Jean",
				LastName:     "Dupont",
				PasswordHash: string(hash),
				Role:         rbac.RoleDeveloper,
				IsActive:     true,
				Department:   rbac.DeptFinance,
				Position:     "Développeur",
			},
		}

		for i := range users {
			if err := seedUser(gdb, &users[i]); err != nil {
				log.Fatalf("failed to seed user %s: %v", users[i].Username, err)
			}
		}

		// The manager gets cross-department visibility into juridique.
		var managerID int64
		if err := gdb.Raw("SELECT id FROM users WHERE username = ?", "mclaire").Row().Scan(&managerID); err != nil {
			log.Fatalf("failed to lookup manager id: %v", err)
		}
		if err := seedGrant(gdb, managerID, rbac.DeptJuridique); err != nil {
			log.Fatalf("failed to seed department grant: %v", err)
		}

		fmt.Println("Seeded sample users (password: password)")
	},
}

func seedUser(gdb *gorm.DB, u *userDatamodel.User) error {
	var exists int
	row := gdb.Raw("SELECT 1 FROM users WHERE email = ?", u.Email).Row()
	if err := row.Scan(&exists); err == nil {
		fmt.Printf("user %s already exists, skipping\n", u.Username)
		return nil
	}

	if err := gdb.Create(u).Error; err != nil {
		return err
	}
	fmt.Printf("Seeded user: %s <%s>\n", u.Username, u.Email)
	return nil
}

func seedGrant(gdb *gorm.DB, userID int64, department string) error {
	var exists int
	row := gdb.Raw("SELECT 1 FROM department_permissions WHERE user_id = ? AND department = ?", userID, department).Row()
	if err := row.Scan(&exists); err == nil {
		return nil
	}

	grant := rbacDatamodel.DepartmentPermission{
		UserID:     userID,
		Department: department,
		CanView:    true,
		CanEdit:    true,
	}
	return gdb.Create(&grant).Error
}
