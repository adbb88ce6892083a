package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"letme_backend/internals/features/jobs/reports/model"
	"letme_backend/internals/features/jobs/reports/service"
	"letme_backend/internals/helpers/dberr"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

var _ service.Repository = (*ReportRepository)(nil)

func (r *ReportRepository) Get(ctx context.Context, id uuid.UUID) (*model.JobReport, error) {
	var rep model.JobReport
	if err := r.db.WithContext(ctx).First(&rep, "job_report_id = ?", id).Error; err != nil {
		return nil, dberr.NotFound(err, "Report tidak ditemukan")
	}
	return &rep, nil
}

func (r *ReportRepository) GetByApplication(ctx context.Context, applicationID uuid.UUID) (*model.JobReport, error) {
	var rep model.JobReport
	if err := r.db.WithContext(ctx).First(&rep, "job_report_application_id = ?", applicationID).Error; err != nil {
		return nil, dberr.NotFound(err, "Report tidak ditemukan")
	}
	return &rep, nil
}

func (r *ReportRepository) IncrementTips(ctx context.Context, id uuid.UUID, amount int64) (*model.JobReport, error) {
	var rep model.JobReport
	res := r.db.WithContext(ctx).Model(&rep).
		Clauses(clause.Returning{}).
		Where("job_report_id = ?", id).
		Update("job_report_tips", gorm.Expr("job_report_tips + ?", amount))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, dberr.NotFound(gorm.ErrRecordNotFound, "Report tidak ditemukan")
	}
	return &rep, nil
}

func (r *ReportRepository) List(ctx context.Context, f service.ListFilter) ([]model.JobReport, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.JobReport{})
	if f.CompanyID != nil {
		q = q.Where("job_report_company_id = ?", *f.CompanyID)
	}
	if f.StaffID != nil {
		q = q.Where("job_report_staff_id = ?", *f.StaffID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.JobReport
	err := q.Order("created_at DESC").Offset(f.Offset).Limit(f.Limit).Find(&rows).Error
	return rows, total, err
}
