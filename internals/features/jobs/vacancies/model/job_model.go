package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Job struct {
	JobID          uuid.UUID `gorm:"column:job_id;type:uuid;default:gen_random_uuid();primaryKey" json:"job_id"`
	JobCompanyID   uuid.UUID `gorm:"column:job_company_id;type:uuid;not null;index" json:"job_company_id"`
	JobTitle       string    `gorm:"column:job_title;type:varchar(200);not null" json:"job_title"`
	JobDescription *string   `gorm:"column:job_description;type:text" json:"job_description,omitempty"`
	JobIsPublished bool      `gorm:"column:job_is_published;not null;default:false" json:"job_is_published"`

	Vacancies []Vacancy `gorm:"foreignKey:VacancyJobID;references:JobID;constraint:OnDelete:CASCADE" json:"vacancies,omitempty"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Job) TableName() string { return "jobs" }

// JobRole lookup statis: nama posisi + upah per jam (cents).
type JobRole struct {
	JobRoleID         uuid.UUID `gorm:"column:job_role_id;type:uuid;default:gen_random_uuid();primaryKey" json:"job_role_id"`
	JobRoleName       string    `gorm:"column:job_role_name;type:varchar(120);not null;uniqueIndex" json:"job_role_name"`
	JobRoleStaffPrice int64     `gorm:"column:job_role_staff_price;not null;check:job_role_staff_price >= 0" json:"job_role_staff_price"`
}

func (JobRole) TableName() string { return "job_roles" }
