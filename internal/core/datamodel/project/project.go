package project

import "time"

type Project struct {
	ID            int64      `gorm:"primaryKey"`
	ProjectNumber string     `gorm:"column:project_number;uniqueIndex;not null"`
	Name          string     `gorm:"column:name;not null"`
	Description   string     `gorm:"column:description"`
	Status        string     `gorm:"column:status;default:planification"`
	Priority      string     `gorm:"column:priority;default:moyen"`
	Category      string     `gorm:"column:category;default:other"`
	Department    string     `gorm:"column:department;not null"`
	ManagerID     int64      `gorm:"column:manager_id;not null"`
	StartDate     *time.Time `gorm:"column:start_date;type:date"`
	EndDate       *time.Time `gorm:"column:end_date;type:date"`
	CompletedDate *time.Time `gorm:"column:completed_date;type:date"`
	Budget        int64      `gorm:"column:budget;default:0"`
	Spent         int64      `gorm:"column:spent;default:0"`
	Progress      int        `gorm:"column:progress;default:0"`
	Tags          []string   `gorm:"column:tags;serializer:json"`
	Notes         string     `gorm:"column:notes"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Project) TableName() string { return "projects" }

// ProjectMember links a user to a project team. Membership rows are
// unique per (project, user).
type ProjectMember struct {
	ID        int64     `gorm:"primaryKey"`
	ProjectID int64     `gorm:"column:project_id;not null;uniqueIndex:idx_project_members_project_user"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_project_members_project_user"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ProjectMember) TableName() string { return "project_members" }

type ProjectComment struct {
	ID        int64     `gorm:"primaryKey"`
	ProjectID int64     `gorm:"column:project_id;not null;index"`
	AuthorID  int64     `gorm:"column:author_id;not null"`
	Content   string    `gorm:"column:content;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ProjectComment) TableName() string { return "project_comments" }

type ProjectAttachment struct {
	ID         int64     `gorm:"primaryKey"`
	ProjectID  int64     `gorm:"column:project_id;not null;index"`
	UploaderID int64     `gorm:"column:uploader_id;not null"`
	FileName   string    `gorm:"column:filename;not null"`
	FileURL    string    `gorm:"column:file_url;not null"`
	FileSize   int64     `gorm:"column:file_size;default:0"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ProjectAttachment) TableName() string { return "project_attachments" }
