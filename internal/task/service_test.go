package task

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	apperrors "github.com/portal-labs/project-portal/internal"
	taskDatamodel "github.com/portal-labs/project-portal/internal/core/datamodel/task"
	"github.com/portal-labs/project-portal/internal/core/events"
	"github.com/portal-labs/project-portal/internal/rbac"
)

func TestTask(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Task Module Suite")
}

type mockTaskRepo struct {
	tasks    map[int64]*taskDatamodel.Task
	projects map[int64]*ProjectHeader
	nextID   int64
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{
		tasks:    make(map[int64]*taskDatamodel.Task),
		projects: make(map[int64]*ProjectHeader),
		nextID:   1,
	}
}

func (m *mockTaskRepo) Create(t *taskDatamodel.Task) error {
	t.ID = m.nextID
	m.nextID++
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
	m.tasks[t.ID] = t
	return nil
}

func (m *mockTaskRepo) GetByID(id int64) (*taskDatamodel.Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return nil, nil
	}
	return t, nil
}

func (m *mockTaskRepo) GetByNumber(number string) (*taskDatamodel.Task, error) {
	for _, t := range m.tasks {
		if t.TaskNumber == number {
			return t, nil
		}
	}
	return nil, nil
}

func (m *mockTaskRepo) List(filter ListTasksFilter) ([]*taskDatamodel.Task, int64, error) {
	var out []*taskDatamodel.Task
	for _, t := range m.tasks {
		if len(filter.Departments) > 0 {
			h, ok := m.projects[t.ProjectID]
			if !ok {
				continue
			}
			found := false
			for _, d := range filter.Departments {
				if h.Department == d {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if filter.ProjectID != 0 && t.ProjectID != filter.ProjectID {
			continue
		}
		if filter.AssigneeID != 0 && (t.AssigneeID == nil || *t.AssigneeID != filter.AssigneeID) {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		out = append(out, t)
	}
	return out, int64(len(out)), nil
}

func (m *mockTaskRepo) Update(t *taskDatamodel.Task) error {
	m.tasks[t.ID] = t
	return nil
}

func (m *mockTaskRepo) Delete(id int64) error {
	delete(m.tasks, id)
	return nil
}

func (m *mockTaskRepo) MaxNumberIndex(yearPrefix string) (int, error) {
	max := 0
	for _, t := range m.tasks {
		if !strings.HasPrefix(t.TaskNumber, yearPrefix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(t.TaskNumber, yearPrefix))
		if err == nil && n > max {
			max = n
		}
	}
	return max, nil
}

func (m *mockTaskRepo) ProjectHeader(projectID int64) (*ProjectHeader, error) {
	h, ok := m.projects[projectID]
	if !ok {
		return nil, nil
	}
	return h, nil
}

func (m *mockTaskRepo) ListDueWithin(from, until time.Time) ([]*taskDatamodel.Task, error) {
	var out []*taskDatamodel.Task
	for _, t := range m.tasks {
		if t.DueDate == nil || t.AssigneeID == nil {
			continue
		}
		if t.Status == StatusCompleted || t.Status == StatusCancelled {
			continue
		}
		if t.DueDate.Before(from) || t.DueDate.After(until) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

type mockTaskDeptAccess struct {
	grants map[int64][]rbac.DepartmentGrant
}

func (m *mockTaskDeptAccess) AccessGrantsFor(userID int64) ([]rbac.DepartmentGrant, error) {
	return m.grants[userID], nil
}

var _ = ginkgo.Describe("Task Service", func() {
	var (
		repo    *mockTaskRepo
		access  *mockTaskDeptAccess
		bus     *events.EventBus
		service *Service

		admin     *rbac.Actor
		manager   *rbac.Actor
		developer *rbac.Actor
		regular   *rbac.Actor
	)

	nullLogger := slog.Default()

	const financeProjectID = int64(10)
	const juridiqueProjectID = int64(11)

	newDate := func(offset time.Duration) *time.Time {
		d := time.Now().Add(offset)
		return &d
	}

	seedTask := func(projectID int64, assigneeID *int64) *taskDatamodel.Task {
		dm := &taskDatamodel.Task{
			TaskNumber: fmt.Sprintf("tsk-%02d-%d", time.Now().Year()%100, repo.nextID),
			ProjectID:  projectID,
			Title:      "Corriger le rapprochement bancaire",
			Status:     StatusNotStarted,
			Priority:   "moyen",
			TaskType:   TypeBug,
			AssigneeID: assigneeID,
			ReporterID: 2,
		}
		gomega.Expect(repo.Create(dm)).To(gomega.Succeed())
		return dm
	}

	ginkgo.BeforeEach(func() {
		repo = newMockTaskRepo()
		access = &mockTaskDeptAccess{grants: make(map[int64][]rbac.DepartmentGrant)}
		bus = events.NewEventBus(nullLogger)
		service = NewService(repo, access, bus, nullLogger)

		admin = &rbac.Actor{ID: 1, Username: "admin", Role: rbac.RoleAdmin, IsSuperuser: true}
		manager = &rbac.Actor{ID: 2, Username: "mclaire", Role: rbac.RoleManager, Department: rbac.DeptFinance}
		developer = &rbac.Actor{ID: 3, Username: "jdupont", Role: rbac.RoleDeveloper, Department: rbac.DeptFinance}
		regular = &rbac.Actor{ID: 4, Username: "pmartin", Role: rbac.RoleUser, Department: rbac.DeptFinance}

		repo.projects[financeProjectID] = &ProjectHeader{ID: financeProjectID, Department: rbac.DeptFinance, ManagerID: manager.ID}
		repo.projects[juridiqueProjectID] = &ProjectHeader{ID: juridiqueProjectID, Department: rbac.DeptJuridique, ManagerID: manager.ID}
	})

	ginkgo.Describe("Create", func() {
		ginkgo.It("creates a task with a sequential number and defaults", func() {
			// Given a developer reporting a bug in their department
			dto := CreateTaskDTO{
				ProjectID: financeProjectID,
				Title:     "Ecart de solde sur le grand livre",
				TaskType:  TypeBug,
			}

			// When the task is created
			created, err := service.Create(developer, dto)

			// Then it carries the first number of the year and safe defaults
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			yearPrefix := fmt.Sprintf("tsk-%02d-", time.Now().Year()%100)
			gomega.Expect(created.TaskNumber).To(gomega.Equal(yearPrefix + "01"))
			gomega.Expect(created.Status).To(gomega.Equal(StatusNotStarted))
			gomega.Expect(created.Priority).To(gomega.Equal("moyen"))
			gomega.Expect(created.ReporterID).To(gomega.Equal(developer.ID))

			second, err := service.Create(developer, dto)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(second.TaskNumber).To(gomega.Equal(yearPrefix + "02"))
		})

		ginkgo.It("publishes an assignment event when created pre-assigned", func() {
			received := make(chan events.Event, 1)
			bus.Subscribe(events.EventTypeTaskAssigned, func(ctx context.Context, e events.Event) error {
				received <- e
				return nil
			})

			assignee := developer.ID
			dto := CreateTaskDTO{
				ProjectID:  financeProjectID,
				Title:      "Preparer la cloture mensuelle",
				AssigneeID: &assignee,
			}

			_, err := service.Create(manager, dto)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			var event events.Event
			gomega.Eventually(received).Should(gomega.Receive(&event))
			payload := event.Payload().(map[string]interface{})
			gomega.Expect(payload["assignee_id"]).To(gomega.Equal(developer.ID))
			gomega.Expect(payload["assigned_by"]).To(gomega.Equal(manager.ID))
		})

		ginkgo.It("denies roles without the task creation grant", func() {
			dto := CreateTaskDTO{ProjectID: financeProjectID, Title: "Tentative non autorisee"}

			_, err := service.Create(regular, dto)

			gomega.Expect(err).To(gomega.MatchError(apperrors.ErrAccessDenied))
		})

		ginkgo.It("denies creation in an invisible department", func() {
			dto := CreateTaskDTO{ProjectID: juridiqueProjectID, Title: "Analyse de contrat"}

			_, err := service.Create(developer, dto)

			gomega.Expect(err).To(gomega.MatchError(apperrors.ErrAccessDenied))
		})

		ginkgo.It("reports a missing parent project", func() {
			dto := CreateTaskDTO{ProjectID: 999, Title: "Projet introuvable"}

			_, err := service.Create(admin, dto)

			gomega.Expect(err).To(gomega.MatchError(apperrors.ErrProjectNotFound))
		})
	})

	ginkgo.Describe("GetByID", func() {
		ginkgo.It("returns a task in a visible department", func() {
			dm := seedTask(financeProjectID, nil)

			got, err := service.GetByID(regular, dm.ID)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(got.ID).To(gomega.Equal(dm.ID))
		})

		ginkgo.It("denies tasks outside accessible departments", func() {
			dm := seedTask(juridiqueProjectID, nil)

			_, err := service.GetByID(regular, dm.ID)

			gomega.Expect(err).To(gomega.MatchError(apperrors.ErrAccessDenied))
		})

		ginkgo.It("returns not found for a missing task", func() {
			_, err := service.GetByID(admin, 404)

			gomega.Expect(err).To(gomega.MatchError(apperrors.ErrTaskNotFound))
		})
	})

	ginkgo.Describe("List", func() {
		ginkgo.BeforeEach(func() {
			seedTask(financeProjectID, nil)
			seedTask(financeProjectID, &developer.ID)
			seedTask(juridiqueProjectID, nil)
		})

		ginkgo.It("returns everything for admin-class actors", func() {
			resp, err := service.List(admin, ListTasksFilter{})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(resp.Total).To(gomega.Equal(int64(3)))
		})

		ginkgo.It("scopes regular actors to their departments", func() {
			resp, err := service.List(regular, ListTasksFilter{})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(resp.Total).To(gomega.Equal(int64(2)))
		})

		ginkgo.It("filters by assignee", func() {
			resp, err := service.List(admin, ListTasksFilter{AssigneeID: developer.ID})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(resp.Total).To(gomega.Equal(int64(1)))
		})

		ginkgo.It("returns an empty page when nothing is accessible", func() {
			nobody := &rbac.Actor{ID: 9, Username: "ghost", Role: rbac.RoleUser}

			resp, err := service.List(nobody, ListTasksFilter{})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(resp.Tasks).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("Update", func() {
		ginkgo.It("lets the assignee move the task forward", func() {
			dm := seedTask(financeProjectID, &developer.ID)
			status := StatusInProgress

			got, err := service.Update(developer, dm.ID, UpdateTaskDTO{Status: &status})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(got.Status).To(gomega.Equal(StatusInProgress))
			gomega.Expect(got.CompletedDate).To(gomega.BeNil())
		})

		ginkgo.It("stamps the completion date and publishes when completed", func() {
			dm := seedTask(financeProjectID, &developer.ID)

			received := make(chan events.Event, 1)
			bus.Subscribe(events.EventTypeTaskCompleted, func(ctx context.Context, e events.Event) error {
				received <- e
				return nil
			})

			status := StatusCompleted
			got, err := service.Update(developer, dm.ID, UpdateTaskDTO{Status: &status})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(got.CompletedDate).NotTo(gomega.BeNil())

			var event events.Event
			gomega.Eventually(received).Should(gomega.Receive(&event))
			payload := event.Payload().(map[string]interface{})
			gomega.Expect(payload["completed_by"]).To(gomega.Equal(developer.ID))
		})

		ginkgo.It("clears the completion date when reopened", func() {
			dm := seedTask(financeProjectID, &developer.ID)
			now := time.Now()
			dm.Status = StatusCompleted
			dm.CompletedDate = &now

			status := StatusInProgress
			got, err := service.Update(developer, dm.ID, UpdateTaskDTO{Status: &status})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(got.CompletedDate).To(gomega.BeNil())
		})

		ginkgo.It("blocks users unrelated to the task", func() {
			dm := seedTask(financeProjectID, &developer.ID)
			title := "Tentative"

			_, err := service.Update(regular, dm.ID, UpdateTaskDTO{Title: &title})

			gomega.Expect(err).To(gomega.MatchError(apperrors.ErrAccessDenied))
		})

		ginkgo.It("rejects an unknown status", func() {
			dm := seedTask(financeProjectID, &developer.ID)
			status := "paused"

			_, err := service.Update(developer, dm.ID, UpdateTaskDTO{Status: &status})

			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("Assign", func() {
		ginkgo.It("lets the project manager hand the task over", func() {
			dm := seedTask(financeProjectID, nil)

			received := make(chan events.Event, 1)
			bus.Subscribe(events.EventTypeTaskAssigned, func(ctx context.Context, e events.Event) error {
				received <- e
				return nil
			})

			got, err := service.Assign(manager, dm.ID, &developer.ID)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(*got.AssigneeID).To(gomega.Equal(developer.ID))
			gomega.Eventually(received).Should(gomega.Receive())
		})

		ginkgo.It("parks the task without an event when unassigned", func() {
			dm := seedTask(financeProjectID, &developer.ID)

			received := make(chan events.Event, 1)
			bus.Subscribe(events.EventTypeTaskAssigned, func(ctx context.Context, e events.Event) error {
				received <- e
				return nil
			})

			got, err := service.Assign(manager, dm.ID, nil)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(got.AssigneeID).To(gomega.BeNil())
			gomega.Consistently(received).ShouldNot(gomega.Receive())
		})

		ginkgo.It("blocks users unrelated to the task", func() {
			dm := seedTask(financeProjectID, nil)

			_, err := service.Assign(regular, dm.ID, &regular.ID)

			gomega.Expect(err).To(gomega.MatchError(apperrors.ErrAccessDenied))
		})
	})

	ginkgo.Describe("TrackTime", func() {
		ginkgo.It("updates the hour counters", func() {
			dm := seedTask(financeProjectID, &developer.ID)
			estimated := 8.0
			actual := 10.5

			got, err := service.TrackTime(developer, dm.ID, TrackTimeDTO{EstimatedTime: &estimated, ActualTime: &actual})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(got.EstimatedTime).To(gomega.Equal(8.0))
			gomega.Expect(got.ActualTime).To(gomega.Equal(10.5))
			gomega.Expect(got.TimeVariance()).To(gomega.BeNumerically("~", 2.5))
		})

		ginkgo.It("rejects negative hours", func() {
			dm := seedTask(financeProjectID, &developer.ID)
			actual := -1.0

			_, err := service.TrackTime(developer, dm.ID, TrackTimeDTO{ActualTime: &actual})

			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("Delete", func() {
		ginkgo.It("lets the project manager delete", func() {
			dm := seedTask(financeProjectID, &developer.ID)

			gomega.Expect(service.Delete(manager, dm.ID)).To(gomega.Succeed())
			gomega.Expect(repo.tasks).NotTo(gomega.HaveKey(dm.ID))
		})

		ginkgo.It("blocks the assignee from deleting", func() {
			dm := seedTask(financeProjectID, &developer.ID)

			err := service.Delete(developer, dm.ID)

			gomega.Expect(err).To(gomega.MatchError(apperrors.ErrAccessDenied))
		})

		ginkgo.It("lets admin-class actors delete anywhere", func() {
			dm := seedTask(juridiqueProjectID, nil)

			gomega.Expect(service.Delete(admin, dm.ID)).To(gomega.Succeed())
		})
	})

	ginkgo.Describe("PublishDueSoon", func() {
		ginkgo.It("announces assigned open tasks due within the window", func() {
			soon := seedTask(financeProjectID, &developer.ID)
			soon.DueDate = newDate(6 * time.Hour)

			unassigned := seedTask(financeProjectID, nil)
			unassigned.DueDate = newDate(6 * time.Hour)

			finished := seedTask(financeProjectID, &developer.ID)
			finished.DueDate = newDate(6 * time.Hour)
			finished.Status = StatusCompleted

			far := seedTask(financeProjectID, &developer.ID)
			far.DueDate = newDate(72 * time.Hour)

			received := make(chan events.Event, 4)
			bus.Subscribe(events.EventTypeDeadlineApproaching, func(ctx context.Context, e events.Event) error {
				received <- e
				return nil
			})

			count, err := service.PublishDueSoon(24 * time.Hour)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(count).To(gomega.Equal(1))

			var event events.Event
			gomega.Eventually(received).Should(gomega.Receive(&event))
			payload := event.Payload().(map[string]interface{})
			gomega.Expect(payload["task_id"]).To(gomega.Equal(soon.ID))
		})
	})
})
