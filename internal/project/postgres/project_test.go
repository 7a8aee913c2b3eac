package postgres

import (
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	projectDatamodel "github.com/portal-labs/project-portal/internal/core/datamodel/project"
	"github.com/portal-labs/project-portal/internal/project"
)

func TestProjectRepository(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "ProjectRepository Suite")
}

func openTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	gomega.Expect(err).NotTo(gomega.HaveOccurred())

	err = db.AutoMigrate(
		&projectDatamodel.Project{},
		&projectDatamodel.ProjectMember{},
		&projectDatamodel.ProjectComment{},
		&projectDatamodel.ProjectAttachment{},
	)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	return db
}

func seedProject(repo project.Repository, number, name, department, status string) *projectDatamodel.Project {
	p := &projectDatamodel.Project{
		ProjectNumber: number,
		Name:          name,
		Status:        status,
		Priority:      project.PriorityMoyen,
		Department:    department,
		ManagerID:     1,
	}
	gomega.Expect(repo.Create(p)).To(gomega.Succeed())
	return p
}

var _ = ginkgo.Describe("ProjectRepository", func() {
	var (
		db   *gorm.DB
		repo project.Repository
	)

	ginkgo.BeforeEach(func() {
		db = openTestDB()
		repo = NewProjectRepository(db)
	})

	ginkgo.AfterEach(func() {
		sqlDB, err := db.DB()
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(sqlDB.Close()).To(gomega.Succeed())
	})

	ginkgo.Describe("GetByID", func() {
		ginkgo.It("round-trips a created project", func() {
			created := seedProject(repo, "prj-25-01", "Refonte intranet", "finance", project.StatusPlanification)

			got, err := repo.GetByID(created.ID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(got).NotTo(gomega.BeNil())
			gomega.Expect(got.ProjectNumber).To(gomega.Equal("prj-25-01"))
			gomega.Expect(got.Department).To(gomega.Equal("finance"))
		})

		ginkgo.It("returns nil without error when the row is missing", func() {
			got, err := repo.GetByID(9999)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(got).To(gomega.BeNil())
		})

		ginkgo.It("persists category, tags and notes", func() {
			p := &projectDatamodel.Project{
				ProjectNumber: "prj-25-07",
				Name:          "Digitalisation des notes de frais",
				Status:        project.StatusEnCours,
				Priority:      project.PriorityMoyen,
				Category:      project.CategoryDigitalisation,
				Department:    "finance",
				ManagerID:     1,
				Tags:          []string{"filiale-nord", "pilote"},
				Notes:         "Attente validation juridique",
			}
			gomega.Expect(repo.Create(p)).To(gomega.Succeed())

			got, err := repo.GetByID(p.ID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(got.Category).To(gomega.Equal(project.CategoryDigitalisation))
			gomega.Expect(got.Tags).To(gomega.Equal([]string{"filiale-nord", "pilote"}))
			gomega.Expect(got.Notes).To(gomega.Equal("Attente validation juridique"))
		})
	})

	ginkgo.Describe("List", func() {
		ginkgo.BeforeEach(func() {
			seedProject(repo, "prj-25-01", "Refonte intranet", "finance", project.StatusEnCours)
			seedProject(repo, "prj-25-02", "Audit contrats", "juridique", project.StatusEnCours)
			seedProject(repo, "prj-25-03", "Cloture comptable", "finance", project.StatusTermine)
		})

		ginkgo.It("filters by department", func() {
			rows, total, err := repo.List(project.ListProjectsFilter{
				Departments: []string{"finance"},
				Limit:       10,
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(total).To(gomega.Equal(int64(2)))
			gomega.Expect(rows).To(gomega.HaveLen(2))
		})

		ginkgo.It("combines status and department filters", func() {
			rows, total, err := repo.List(project.ListProjectsFilter{
				Departments: []string{"finance"},
				Status:      project.StatusTermine,
				Limit:       10,
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(total).To(gomega.Equal(int64(1)))
			gomega.Expect(rows[0].ProjectNumber).To(gomega.Equal("prj-25-03"))
		})

		ginkgo.It("matches the search term against name and number", func() {
			rows, _, err := repo.List(project.ListProjectsFilter{Search: "contrats", Limit: 10})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(rows).To(gomega.HaveLen(1))
			gomega.Expect(rows[0].ProjectNumber).To(gomega.Equal("prj-25-02"))

			rows, _, err = repo.List(project.ListProjectsFilter{Search: "prj-25-01", Limit: 10})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(rows).To(gomega.HaveLen(1))
		})

		ginkgo.It("reports the full count alongside a limited page", func() {
			_, total, err := repo.List(project.ListProjectsFilter{Limit: 1})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(total).To(gomega.Equal(int64(3)))
		})
	})

	ginkgo.Describe("MaxNumberIndex", func() {
		ginkgo.It("returns the highest suffix for the prefix", func() {
			seedProject(repo, "prj-25-01", "a", "finance", project.StatusEnCours)
			seedProject(repo, "prj-25-12", "b", "finance", project.StatusEnCours)
			seedProject(repo, "prj-24-40", "c", "finance", project.StatusEnCours)

			max, err := repo.MaxNumberIndex("prj-25-")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(max).To(gomega.Equal(12))
		})

		ginkgo.It("returns zero when nothing matches", func() {
			max, err := repo.MaxNumberIndex("prj-26-")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(max).To(gomega.Equal(0))
		})
	})

	ginkgo.Describe("team membership", func() {
		var p *projectDatamodel.Project

		ginkgo.BeforeEach(func() {
			p = seedProject(repo, "prj-25-01", "Refonte intranet", "finance", project.StatusEnCours)
		})

		ginkgo.It("adds members idempotently", func() {
			gomega.Expect(repo.AddTeamMember(p.ID, 7)).To(gomega.Succeed())
			gomega.Expect(repo.AddTeamMember(p.ID, 7)).To(gomega.Succeed())
			gomega.Expect(repo.AddTeamMember(p.ID, 8)).To(gomega.Succeed())

			ids, err := repo.GetTeamIDs(p.ID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(ids).To(gomega.ConsistOf(int64(7), int64(8)))
		})

		ginkgo.It("removes a member", func() {
			gomega.Expect(repo.AddTeamMember(p.ID, 7)).To(gomega.Succeed())
			gomega.Expect(repo.RemoveTeamMember(p.ID, 7)).To(gomega.Succeed())

			ids, err := repo.GetTeamIDs(p.ID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(ids).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("Delete", func() {
		ginkgo.It("removes the project and its dependents", func() {
			p := seedProject(repo, "prj-25-01", "Refonte intranet", "finance", project.StatusEnCours)
			gomega.Expect(repo.AddTeamMember(p.ID, 7)).To(gomega.Succeed())
			gomega.Expect(repo.CreateComment(&projectDatamodel.ProjectComment{
				ProjectID: p.ID, AuthorID: 7, Content: "premier point",
			})).To(gomega.Succeed())

			gomega.Expect(repo.Delete(p.ID)).To(gomega.Succeed())

			got, err := repo.GetByID(p.ID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(got).To(gomega.BeNil())

			comments, err := repo.ListComments(p.ID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(comments).To(gomega.BeEmpty())

			ids, err := repo.GetTeamIDs(p.ID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(ids).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("ListOverdue", func() {
		ginkgo.It("returns open projects past their end date", func() {
			past := time.Now().AddDate(0, 0, -3)
			future := time.Now().AddDate(0, 0, 3)

			late := seedProject(repo, "prj-25-01", "En retard", "finance", project.StatusEnCours)
			late.EndDate = &past
			gomega.Expect(repo.Update(late)).To(gomega.Succeed())

			done := seedProject(repo, "prj-25-02", "Termine", "finance", project.StatusTermine)
			done.EndDate = &past
			gomega.Expect(repo.Update(done)).To(gomega.Succeed())

			ontime := seedProject(repo, "prj-25-03", "Dans les temps", "finance", project.StatusEnCours)
			ontime.EndDate = &future
			gomega.Expect(repo.Update(ontime)).To(gomega.Succeed())

			rows, err := repo.ListOverdue(time.Now())
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(rows).To(gomega.HaveLen(1))
			gomega.Expect(rows[0].ProjectNumber).To(gomega.Equal("prj-25-01"))
		})
	})

	ginkgo.Describe("comments", func() {
		ginkgo.It("lists comments oldest first", func() {
			p := seedProject(repo, "prj-25-01", "Refonte intranet", "finance", project.StatusEnCours)

			first := &projectDatamodel.ProjectComment{ProjectID: p.ID, AuthorID: 1, Content: "premier", CreatedAt: time.Now().Add(-time.Hour)}
			second := &projectDatamodel.ProjectComment{ProjectID: p.ID, AuthorID: 2, Content: "second", CreatedAt: time.Now()}
			gomega.Expect(repo.CreateComment(second)).To(gomega.Succeed())
			gomega.Expect(repo.CreateComment(first)).To(gomega.Succeed())

			rows, err := repo.ListComments(p.ID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(rows).To(gomega.HaveLen(2))
			gomega.Expect(rows[0].Content).To(gomega.Equal("premier"))
		})
	})
})
