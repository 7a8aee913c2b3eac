package project

import (
	"fmt"
	"time"

	projectDatamodel "github.com/portal-labs/project-portal/internal/core/datamodel/project"
)

const (
	StatusPlanification = "planification"
	StatusEnCours       = "en_cours"
	StatusEnAttente     = "en_attente"
	StatusEnRetard      = "en_retard"
	StatusTermine       = "termine"
	StatusAnnule        = "annule"

	PriorityFaible   = "faible"
	PriorityMoyen    = "moyen"
	PriorityEleve    = "eleve"
	PriorityCritique = "critique"

	CategoryAppWeb         = "app_web"
	CategoryAppMobile      = "app_mobile"
	CategoryReporting      = "reporting"
	CategoryDigitalisation = "digitalisation"
	CategoryERP            = "erp"
	CategoryAI             = "ai"
	CategoryWebMobile      = "web_mobile"
	CategoryOther          = "other"
)

func Statuses() []string {
	return []string{StatusPlanification, StatusEnCours, StatusEnAttente, StatusEnRetard, StatusTermine, StatusAnnule}
}

func Priorities() []string {
	return []string{PriorityFaible, PriorityMoyen, PriorityEleve, PriorityCritique}
}

func Categories() []string {
	return []string{
		CategoryAppWeb, CategoryAppMobile, CategoryReporting, CategoryDigitalisation,
		CategoryERP, CategoryAI, CategoryWebMobile, CategoryOther,
	}
}

type Project struct {
	ID            int64      `json:"id"`
	ProjectNumber string     `json:"project_number"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Status        string     `json:"status"`
	Priority      string     `json:"priority"`
	Category      string     `json:"category"`
	Department    string     `json:"department"`
	ManagerID     int64      `json:"manager_id"`
	TeamIDs       []int64    `json:"team_ids,omitempty"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	CompletedDate *time.Time `json:"completed_date,omitempty"`
	Budget        int64      `json:"budget"`
	Spent         int64      `json:"spent"`
	Progress      int        `json:"progress"`
	Tags          []string   `json:"tags,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// IsOverdue reports whether the project passed its end date without being
// closed out.
func (p *Project) IsOverdue(now time.Time) bool {
	if p.EndDate == nil {
		return false
	}
	if p.Status == StatusTermine || p.Status == StatusAnnule {
		return false
	}
	return p.EndDate.Before(now)
}

func (p *Project) IsClosed() bool {
	return p.Status == StatusTermine || p.Status == StatusAnnule
}

// BudgetRemaining never reports less than zero.
func (p *Project) BudgetRemaining() int64 {
	if p.Spent >= p.Budget {
		return 0
	}
	return p.Budget - p.Spent
}

// FormatProjectNumber renders the sequential project reference with a
// zero-padded index, e.g. prj-26-01 for the first project of 2026.
// Existing data is padded this way, so the format must not change.
func FormatProjectNumber(year int, index int) string {
	return fmt.Sprintf("prj-%02d-%02d", year%100, index)
}

// ProjectNumberPrefix is the shared prefix of every project number of a
// given year, used to scan for the highest allocated index.
func ProjectNumberPrefix(year int) string {
	return fmt.Sprintf("prj-%02d-", year%100)
}

type Comment struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	AuthorID  int64     `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Attachment struct {
	ID         int64     `json:"id"`
	ProjectID  int64     `json:"project_id"`
	UploaderID int64     `json:"uploader_id"`
	FileName   string    `json:"filename"`
	FileURL    string    `json:"file_url"`
	FileSize   int64     `json:"file_size"`
	CreatedAt  time.Time `json:"created_at"`
}

func ToDataModel(p *Project) *projectDatamodel.Project {
	return &projectDatamodel.Project{
		ID:            p.ID,
		ProjectNumber: p.ProjectNumber,
		Name:          p.Name,
		Description:   p.Description,
		Status:        p.Status,
		Priority:      p.Priority,
		Category:      p.Category,
		Department:    p.Department,
		ManagerID:     p.ManagerID,
		StartDate:     p.StartDate,
		EndDate:       p.EndDate,
		CompletedDate: p.CompletedDate,
		Budget:        p.Budget,
		Spent:         p.Spent,
		Progress:      p.Progress,
		Tags:          p.Tags,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func FromDataModel(p *projectDatamodel.Project) *Project {
	return &Project{
		ID:            p.ID,
		ProjectNumber: p.ProjectNumber,
		Name:          p.Name,
		Description:   p.Description,
		Status:        p.Status,
		Priority:      p.Priority,
		Category:      p.Category,
		Department:    p.Department,
		ManagerID:     p.ManagerID,
		StartDate:     p.StartDate,
		EndDate:       p.EndDate,
		CompletedDate: p.CompletedDate,
		Budget:        p.Budget,
		Spent:         p.Spent,
		Progress:      p.Progress,
		Tags:          p.Tags,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func FromDataModelSlice(projects []*projectDatamodel.Project) []*Project {
	result := make([]*Project, len(projects))
	for i, p := range projects {
		result[i] = FromDataModel(p)
	}
	return result
}

func CommentFromDataModel(c *projectDatamodel.ProjectComment) *Comment {
	return &Comment{
		ID:        c.ID,
		ProjectID: c.ProjectID,
		AuthorID:  c.AuthorID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func CommentsFromDataModelSlice(comments []*projectDatamodel.ProjectComment) []*Comment {
	result := make([]*Comment, len(comments))
	for i, c := range comments {
		result[i] = CommentFromDataModel(c)
	}
	return result
}

func AttachmentFromDataModel(a *projectDatamodel.ProjectAttachment) *Attachment {
	return &Attachment{
		ID:         a.ID,
		ProjectID:  a.ProjectID,
		UploaderID: a.UploaderID,
		FileName:   a.FileName,
		FileURL:    a.FileURL,
		FileSize:   a.FileSize,
		CreatedAt:  a.CreatedAt,
	}
}

func AttachmentsFromDataModelSlice(attachments []*projectDatamodel.ProjectAttachment) []*Attachment {
	result := make([]*Attachment, len(attachments))
	for i, a := range attachments {
		result[i] = AttachmentFromDataModel(a)
	}
	return result
}
