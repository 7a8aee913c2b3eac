package postgres

import (
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	projectDatamodel "github.com/portal-labs/project-portal/internal/core/datamodel/project"
	"github.com/portal-labs/project-portal/internal/project"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) project.Repository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(p *projectDatamodel.Project) error {
	return r.db.Create(p).Error
}

func (r *ProjectRepository) GetByID(id int64) (*projectDatamodel.Project, error) {
	var dm projectDatamodel.Project
	err := r.db.Where("id = ?", id).First(&dm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &dm, nil
}

func (r *ProjectRepository) GetByNumber(number string) (*projectDatamodel.Project, error) {
	var dm projectDatamodel.Project
	err := r.db.Where("project_number = ?", number).First(&dm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &dm, nil
}

func (r *ProjectRepository) List(filter project.ListProjectsFilter) ([]*projectDatamodel.Project, int64, error) {
	query := r.db.Model(&projectDatamodel.Project{})

	if len(filter.Departments) > 0 {
		query = query.Where("department IN ?", filter.Departments)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.ManagerID != 0 {
		query = query.Where("manager_id = ?", filter.ManagerID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR project_number LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*projectDatamodel.Project
	err := query.Order("created_at DESC").Limit(filter.Limit).Offset(filter.Offset).Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *ProjectRepository) Update(p *projectDatamodel.Project) error {
	return r.db.Save(p).Error
}

func (r *ProjectRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&projectDatamodel.ProjectMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&projectDatamodel.ProjectComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&projectDatamodel.ProjectAttachment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&projectDatamodel.Project{}, id).Error
	})
}

// MaxNumberIndex scans the stored references with this prefix and returns
// the highest sequence index. The parse happens in Go so the query stays
// portable across postgres and sqlite.
func (r *ProjectRepository) MaxNumberIndex(prefix string) (int, error) {
	var numbers []string
	err := r.db.Model(&projectDatamodel.Project{}).
		Where("project_number LIKE ?", prefix+"%").
		Pluck("project_number", &numbers).Error
	if err != nil {
		return 0, err
	}

	max := 0
	for _, n := range numbers {
		suffix := strings.TrimPrefix(n, prefix)
		idx, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		if idx > max {
			max = idx
		}
	}
	return max, nil
}

func (r *ProjectRepository) GetTeamIDs(projectID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&projectDatamodel.ProjectMember{}).
		Where("project_id = ?", projectID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *ProjectRepository) AddTeamMember(projectID, userID int64) error {
	existing := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&projectDatamodel.ProjectMember{})
	if existing.Error == nil {
		return nil
	}
	if existing.Error != gorm.ErrRecordNotFound {
		return existing.Error
	}
	return r.db.Create(&projectDatamodel.ProjectMember{ProjectID: projectID, UserID: userID}).Error
}

func (r *ProjectRepository) RemoveTeamMember(projectID, userID int64) error {
	return r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&projectDatamodel.ProjectMember{}).Error
}

func (r *ProjectRepository) ListOverdue(now time.Time) ([]*projectDatamodel.Project, error) {
	var rows []*projectDatamodel.Project
	err := r.db.Where("end_date IS NOT NULL AND end_date < ? AND status NOT IN ?",
		now, []string{project.StatusTermine, project.StatusAnnule, project.StatusEnRetard}).
		Find(&rows).Error
	return rows, err
}

func (r *ProjectRepository) CreateComment(c *projectDatamodel.ProjectComment) error {
	return r.db.Create(c).Error
}

func (r *ProjectRepository) GetCommentByID(id int64) (*projectDatamodel.ProjectComment, error) {
	var dm projectDatamodel.ProjectComment
	err := r.db.Where("id = ?", id).First(&dm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &dm, nil
}

func (r *ProjectRepository) ListComments(projectID int64) ([]*projectDatamodel.ProjectComment, error) {
	var rows []*projectDatamodel.ProjectComment
	err := r.db.Where("project_id = ?", projectID).Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (r *ProjectRepository) DeleteComment(id int64) error {
	return r.db.Delete(&projectDatamodel.ProjectComment{}, id).Error
}

func (r *ProjectRepository) CreateAttachment(a *projectDatamodel.ProjectAttachment) error {
	return r.db.Create(a).Error
}

func (r *ProjectRepository) ListAttachments(projectID int64) ([]*projectDatamodel.ProjectAttachment, error) {
	var rows []*projectDatamodel.ProjectAttachment
	err := r.db.Where("project_id = ?", projectID).Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *ProjectRepository) DeleteAttachment(id int64) error {
	return r.db.Delete(&projectDatamodel.ProjectAttachment{}, id).Error
}
