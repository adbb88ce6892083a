package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"letme_backend/internals/helpers/dbtime"
)

/* ===================== Constants ===================== */

const (
	VacancyStatusActive    = "active"
	VacancyStatusProgress  = "progress"
	VacancyStatusDraft     = "draft"
	VacancyStatusCancelled = "cancelled"
	VacancyStatusFinished  = "finished"
)

var VacancyStatuses = []string{
	VacancyStatusActive, VacancyStatusProgress, VacancyStatusDraft, VacancyStatusCancelled, VacancyStatusFinished,
}

/* ===================== Model ===================== */

type Vacancy struct {
	VacancyID uuid.UUID `gorm:"column:vacancy_id;type:uuid;default:gen_random_uuid();primaryKey" json:"vacancy_id"`

	VacancyJobID     uuid.UUID `gorm:"column:vacancy_job_id;type:uuid;not null;index" json:"vacancy_job_id"`
	VacancyCompanyID uuid.UUID `gorm:"column:vacancy_company_id;type:uuid;not null;index" json:"vacancy_company_id"` // denormalisasi dari job
	VacancyJobRoleID uuid.UUID `gorm:"column:vacancy_job_role_id;type:uuid;not null" json:"vacancy_job_role_id"`

	VacancyNumberOfStaff int        `gorm:"column:vacancy_number_of_staff;not null;check:vacancy_number_of_staff > 0" json:"vacancy_number_of_staff"`
	VacancyOpenDate      time.Time  `gorm:"column:vacancy_open_date;type:date;not null" json:"vacancy_open_date"`
	VacancyCloseDate     time.Time  `gorm:"column:vacancy_close_date;type:date;not null" json:"vacancy_close_date"`
	VacancyStartTime     dbtime.Tod `gorm:"column:vacancy_start_time;type:time;not null" json:"vacancy_start_time"`
	VacancyEndTime       dbtime.Tod `gorm:"column:vacancy_end_time;type:time;not null" json:"vacancy_end_time"`

	VacancyLocation string         `gorm:"column:vacancy_location;type:varchar(255)" json:"vacancy_location"`
	VacancySkills   pq.StringArray `gorm:"column:vacancy_skills;type:text[]" json:"vacancy_skills"`

	// Derived via ComputeSalary; tidak pernah diisi client
	VacancySalary int64  `gorm:"column:vacancy_salary;not null;default:0" json:"vacancy_salary"`
	VacancyStatus string `gorm:"column:vacancy_status;type:varchar(20);not null;default:'draft';index" json:"vacancy_status"`

	Job     *Job     `gorm:"foreignKey:VacancyJobID;references:JobID" json:"job,omitempty"`
	JobRole *JobRole `gorm:"foreignKey:VacancyJobRoleID;references:JobRoleID" json:"job_role,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Vacancy) TableName() string { return "vacancies" }

// VacancyParticipant: staff yang sudah di-approve (join table).
type VacancyParticipant struct {
	VacancyParticipantVacancyID uuid.UUID `gorm:"column:vacancy_participant_vacancy_id;type:uuid;primaryKey" json:"vacancy_id"`
	VacancyParticipantStaffID   uuid.UUID `gorm:"column:vacancy_participant_staff_id;type:uuid;primaryKey" json:"staff_id"`
	CreatedAt                   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (VacancyParticipant) TableName() string { return "vacancy_participants" }
