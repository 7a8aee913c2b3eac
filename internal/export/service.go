package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/portal-labs/project-portal/internal/project"
	"github.com/portal-labs/project-portal/internal/rbac"
	"github.com/portal-labs/project-portal/internal/task"
)

// exportPageSize is the page size used when walking the listing. Exports
// fetch every visible row, one page at a time.
const exportPageSize = 100

// ProjectLister and TaskLister are satisfied by the project and task
// services. They already scope results to the actor's departments.
type ProjectLister interface {
	List(actor *rbac.Actor, filter project.ListProjectsFilter) (*project.ProjectsResponse, error)
}

type TaskLister interface {
	List(actor *rbac.Actor, filter task.ListTasksFilter) (*task.TasksResponse, error)
}

type Service struct {
	projects ProjectLister
	tasks    TaskLister
	logger   *slog.Logger
}

func NewService(projects ProjectLister, tasks TaskLister, logger *slog.Logger) *Service {
	return &Service{
		projects: projects,
		tasks:    tasks,
		logger:   logger,
	}
}

var projectHeaders = []string{
	"Numero", "Nom", "Statut", "Priorite", "Categorie", "Departement",
	"Date de debut", "Date de fin", "Date terminee",
	"Budget", "Depense", "Progression", "Tags", "Notes",
}

var taskHeaders = []string{
	"Numero", "Titre", "Statut", "Priorite", "Type",
	"Echeance", "Temps estime", "Temps reel", "Tags", "Notes",
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func projectRow(p *project.Project) []string {
	return []string{
		p.ProjectNumber,
		p.Name,
		p.Status,
		p.Priority,
		p.Category,
		p.Department,
		formatDate(p.StartDate),
		formatDate(p.EndDate),
		formatDate(p.CompletedDate),
		strconv.FormatInt(p.Budget, 10),
		strconv.FormatInt(p.Spent, 10),
		strconv.Itoa(p.Progress),
		strings.Join(p.Tags, ", "),
		p.Notes,
	}
}

func taskRow(t *task.Task) []string {
	return []string{
		t.TaskNumber,
		t.Title,
		t.Status,
		t.Priority,
		t.TaskType,
		formatDate(t.DueDate),
		strconv.FormatFloat(t.EstimatedTime, 'f', 1, 64),
		strconv.FormatFloat(t.ActualTime, 'f', 1, 64),
		strings.Join(t.Tags, ", "),
		t.Notes,
	}
}

func (s *Service) listProjects(actor *rbac.Actor, filter project.ListProjectsFilter) ([]*project.Project, error) {
	filter.Limit = exportPageSize
	filter.Offset = 0

	var out []*project.Project
	for {
		resp, err := s.projects.List(actor, filter)
		if err != nil {
			return nil, err
		}
		out = append(out, resp.Projects...)
		if len(resp.Projects) == 0 || int64(len(out)) >= resp.Total {
			return out, nil
		}
		filter.Offset += len(resp.Projects)
	}
}

func (s *Service) listTasks(actor *rbac.Actor, filter task.ListTasksFilter) ([]*task.Task, error) {
	filter.Limit = exportPageSize
	filter.Offset = 0

	var out []*task.Task
	for {
		resp, err := s.tasks.List(actor, filter)
		if err != nil {
			return nil, err
		}
		out = append(out, resp.Tasks...)
		if len(resp.Tasks) == 0 || int64(len(out)) >= resp.Total {
			return out, nil
		}
		filter.Offset += len(resp.Tasks)
	}
}

// ProjectsCSV renders the actor's visible projects as CSV.
func (s *Service) ProjectsCSV(actor *rbac.Actor, filter project.ListProjectsFilter) ([]byte, error) {
	rows, err := s.listProjects(actor, filter)
	if err != nil {
		return nil, err
	}

	records := make([][]string, 0, len(rows)+1)
	records = append(records, projectHeaders)
	for _, p := range rows {
		records = append(records, projectRow(p))
	}
	return writeCSV(records)
}

// TasksCSV renders the actor's visible tasks as CSV.
func (s *Service) TasksCSV(actor *rbac.Actor, filter task.ListTasksFilter) ([]byte, error) {
	rows, err := s.listTasks(actor, filter)
	if err != nil {
		return nil, err
	}

	records := make([][]string, 0, len(rows)+1)
	records = append(records, taskHeaders)
	for _, t := range rows {
		records = append(records, taskRow(t))
	}
	return writeCSV(records)
}

func writeCSV(records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ProjectsXLSX renders the actor's visible projects as a workbook.
func (s *Service) ProjectsXLSX(actor *rbac.Actor, filter project.ListProjectsFilter) ([]byte, error) {
	rows, err := s.listProjects(actor, filter)
	if err != nil {
		return nil, err
	}

	records := make([][]string, 0, len(rows))
	for _, p := range rows {
		records = append(records, projectRow(p))
	}
	return writeXLSX("Projets", projectHeaders, records)
}

// TasksXLSX renders the actor's visible tasks as a workbook.
func (s *Service) TasksXLSX(actor *rbac.Actor, filter task.ListTasksFilter) ([]byte, error) {
	rows, err := s.listTasks(actor, filter)
	if err != nil {
		return nil, err
	}

	records := make([][]string, 0, len(rows))
	for _, t := range rows {
		records = append(records, taskRow(t))
	}
	return writeXLSX("Taches", taskHeaders, records)
}

func writeXLSX(sheet string, headers []string, records [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for rowIdx, record := range records {
		for col, value := range record {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
