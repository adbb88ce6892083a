package model

import (
	"time"

	"github.com/google/uuid"
)

// JobReport hasil hitung payroll, satu per application (unique).
// Semua nominal dalam cents.
type JobReport struct {
	JobReportID            uuid.UUID `gorm:"column:job_report_id;type:uuid;default:gen_random_uuid();primaryKey" json:"job_report_id"`
	JobReportApplicationID uuid.UUID `gorm:"column:job_report_application_id;type:uuid;not null;uniqueIndex:uq_job_report_application" json:"job_application_id"`
	JobReportCompanyID     uuid.UUID `gorm:"column:job_report_company_id;type:uuid;not null;index" json:"company_id"`
	JobReportStaffID       uuid.UUID `gorm:"column:job_report_staff_id;type:uuid;not null;index" json:"staff_id"`

	JobReportWorkingHour int   `gorm:"column:job_report_working_hour;not null" json:"working_hour"`
	JobReportExtraHour   int   `gorm:"column:job_report_extra_hour;not null" json:"extra_hour"`
	JobReportRegularPay  int64 `gorm:"column:job_report_regular_pay;not null" json:"regular_pay"`
	JobReportOvertimePay int64 `gorm:"column:job_report_overtime_pay;not null" json:"overtime_pay"`
	JobReportTips        int64 `gorm:"column:job_report_tips;not null;default:0" json:"tips"`
	JobReportTotalPay    int64 `gorm:"column:job_report_total_pay;not null" json:"total_pay"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (JobReport) TableName() string { return "job_reports" }
