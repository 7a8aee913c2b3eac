package project

import (
	"time"

	apperrors "github.com/portal-labs/project-portal/internal"
	"github.com/portal-labs/project-portal/internal/core/common/validation"
	"github.com/portal-labs/project-portal/internal/rbac"
)

type CreateProjectDTO struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Category    string     `json:"category"`
	Department  string     `json:"department"`
	ManagerID   int64      `json:"manager_id"`
	TeamIDs     []int64    `json:"team_ids"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Budget      int64      `json:"budget"`
	Tags        []string   `json:"tags"`
	Notes       string     `json:"notes"`
}

func (d *CreateProjectDTO) Validate() *apperrors.AppError {
	if err := validation.ValidateProjectName(d.Name); err != nil {
		return err
	}
	v := validation.NewValidator()
	v.Field("priority", d.Priority).OneOf(Priorities(), apperrors.ErrCodeInvalidPriority)
	v.Field("category", d.Category).OneOf(Categories(), apperrors.ErrCodeValidationFailed)
	v.Field("department", d.Department).Required().OneOf(rbac.Departments(), apperrors.ErrCodeInvalidDepartment)
	v.Field("manager_id", d.ManagerID).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return validation.ValidateDateRange(d.StartDate, d.EndDate)
}

type UpdateProjectDTO struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	Category    *string    `json:"category"`
	ManagerID   *int64     `json:"manager_id"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Budget      *int64     `json:"budget"`
	Spent       *int64     `json:"spent"`
	Progress    *int       `json:"progress"`
	Tags        []string   `json:"tags"`
	Notes       *string    `json:"notes"`
}

func (d *UpdateProjectDTO) Validate() *apperrors.AppError {
	v := validation.NewValidator()
	if d.Name != nil {
		if err := validation.ValidateProjectName(*d.Name); err != nil {
			return err
		}
	}
	if d.Status != nil {
		v.Field("status", *d.Status).OneOf(Statuses(), apperrors.ErrCodeInvalidStatus)
	}
	if d.Priority != nil {
		v.Field("priority", *d.Priority).OneOf(Priorities(), apperrors.ErrCodeInvalidPriority)
	}
	if d.Category != nil {
		v.Field("category", *d.Category).OneOf(Categories(), apperrors.ErrCodeValidationFailed)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	if d.Progress != nil {
		if err := validation.ValidateProgress(int64(*d.Progress)); err != nil {
			return err
		}
	}
	return validation.ValidateDateRange(d.StartDate, d.EndDate)
}

type CreateCommentDTO struct {
	Content string `json:"content"`
}

func (d *CreateCommentDTO) Validate() *apperrors.AppError {
	v := validation.NewValidator()
	v.Field("content", d.Content).Required().MaxLength(2000)
	return v.Validate()
}

type AddAttachmentDTO struct {
	FileName string `json:"filename"`
	FileURL  string `json:"file_url"`
	FileSize int64  `json:"file_size"`
}

func (d *AddAttachmentDTO) Validate() *apperrors.AppError {
	v := validation.NewValidator()
	v.Field("filename", d.FileName).Required().MaxLength(255)
	v.Field("file_url", d.FileURL).Required()
	return v.Validate()
}

type TeamMemberDTO struct {
	UserID int64 `json:"user_id"`
}

type ListProjectsFilter struct {
	Departments []string
	Status      string
	Priority    string
	ManagerID   int64
	Search      string
	Limit       int
	Offset      int
}

type ProjectsResponse struct {
	Projects []*Project `json:"projects"`
	Total    int64      `json:"total"`
}

type CommentsResponse struct {
	Comments []*Comment `json:"comments"`
}

type AttachmentsResponse struct {
	Attachments []*Attachment `json:"attachments"`
}
