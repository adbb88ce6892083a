package model

import (
	"time"

	"github.com/google/uuid"
)

/* ===================== Constants ===================== */

const (
	JobStatusPending   = "pending"
	JobStatusAccepted  = "accepted"
	JobStatusRejected  = "rejected"
	JobStatusExpired   = "expired"
	JobStatusLate      = "late"
	JobStatusCompleted = "completed"
)

/* ===================== Model ===================== */

type JobApplication struct {
	JobApplicationID        uuid.UUID `gorm:"column:job_application_id;type:uuid;default:gen_random_uuid();primaryKey" json:"job_application_id"`
	JobApplicationVacancyID uuid.UUID `gorm:"column:job_application_vacancy_id;type:uuid;not null;uniqueIndex:uq_job_application_vacancy_staff;index" json:"job_application_vacancy_id"`
	JobApplicationStaffID   uuid.UUID `gorm:"column:job_application_staff_id;type:uuid;not null;uniqueIndex:uq_job_application_vacancy_staff;index" json:"job_application_staff_id"`

	JobApplicationStatus          string `gorm:"column:job_application_status;type:varchar(20);not null;default:'pending';index" json:"job_status"`
	JobApplicationIsApprove       bool   `gorm:"column:job_application_is_approve;not null;default:false" json:"is_approve"`
	JobApplicationCheckinApprove  bool   `gorm:"column:job_application_checkin_approve;not null;default:false" json:"checkin_approve"`
	JobApplicationCheckoutApprove bool   `gorm:"column:job_application_checkout_approve;not null;default:false" json:"checkout_approve"`

	JobApplicationInTime           *time.Time `gorm:"column:job_application_in_time" json:"in_time,omitempty"`
	JobApplicationOutTime          *time.Time `gorm:"column:job_application_out_time" json:"out_time,omitempty"`
	JobApplicationCheckinLocation  *string    `gorm:"column:job_application_checkin_location;type:varchar(255)" json:"checkin_location,omitempty"`
	JobApplicationCheckoutLocation *string    `gorm:"column:job_application_checkout_location;type:varchar(255)" json:"checkout_location,omitempty"`

	// Diisi saat checkin & checkout sama-sama approved (detik)
	JobApplicationTotalWorkingSeconds *int64 `gorm:"column:job_application_total_working_seconds" json:"total_working_seconds,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (JobApplication) TableName() string { return "job_applications" }

// IsTerminal: rejected/expired tidak bisa pindah status lagi.
func (a *JobApplication) IsTerminal() bool {
	return a.JobApplicationStatus == JobStatusRejected || a.JobApplicationStatus == JobStatusExpired
}

// RecomputeWorkingTime set total_working_seconds kalau kedua flag approve sudah true.
func (a *JobApplication) RecomputeWorkingTime() {
	if !a.JobApplicationCheckinApprove || !a.JobApplicationCheckoutApprove {
		return
	}
	if a.JobApplicationInTime == nil || a.JobApplicationOutTime == nil {
		return
	}
	secs := int64(a.JobApplicationOutTime.Sub(*a.JobApplicationInTime) / time.Second)
	a.JobApplicationTotalWorkingSeconds = &secs
}
