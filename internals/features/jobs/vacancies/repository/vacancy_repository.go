package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"letme_backend/internals/features/jobs/vacancies/model"
	"letme_backend/internals/features/jobs/vacancies/service"
	"letme_backend/internals/helpers/dberr"
)

type VacancyRepository struct {
	db *gorm.DB
}

func NewVacancyRepository(db *gorm.DB) *VacancyRepository {
	return &VacancyRepository{db: db}
}

var _ service.Repository = (*VacancyRepository)(nil)

func (r *VacancyRepository) Transaction(ctx context.Context, fn func(tx service.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&VacancyRepository{db: tx})
	})
}

/* ====================== JOB ====================== */

func (r *VacancyRepository) CreateJob(ctx context.Context, j *model.Job) error {
	return r.db.WithContext(ctx).Create(j).Error
}

func (r *VacancyRepository) GetJob(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	var j model.Job
	if err := r.db.WithContext(ctx).First(&j, "job_id = ?", id).Error; err != nil {
		return nil, dberr.NotFound(err, "Job tidak ditemukan")
	}
	return &j, nil
}

func (r *VacancyRepository) ListJobs(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]model.Job, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Job{}).Where("job_company_id = ?", companyID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.Job
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&rows).Error
	return rows, total, err
}

/* ====================== ROLE ====================== */

func (r *VacancyRepository) GetJobRole(ctx context.Context, id uuid.UUID) (*model.JobRole, error) {
	var role model.JobRole
	if err := r.db.WithContext(ctx).First(&role, "job_role_id = ?", id).Error; err != nil {
		return nil, dberr.NotFound(err, "Job role tidak ditemukan")
	}
	return &role, nil
}

func (r *VacancyRepository) ListJobRoles(ctx context.Context) ([]model.JobRole, error) {
	var rows []model.JobRole
	err := r.db.WithContext(ctx).Order("job_role_name ASC").Find(&rows).Error
	return rows, err
}

/* ====================== VACANCY ====================== */

func (r *VacancyRepository) CreateVacancy(ctx context.Context, v *model.Vacancy) error {
	return r.db.WithContext(ctx).Omit("Job", "JobRole").Create(v).Error
}

func (r *VacancyRepository) SaveVacancy(ctx context.Context, v *model.Vacancy) error {
	return r.db.WithContext(ctx).Omit("Job", "JobRole").Save(v).Error
}

func (r *VacancyRepository) GetVacancy(ctx context.Context, id uuid.UUID) (*model.Vacancy, error) {
	var v model.Vacancy
	if err := r.db.WithContext(ctx).First(&v, "vacancy_id = ?", id).Error; err != nil {
		return nil, dberr.NotFound(err, "Vacancy tidak ditemukan")
	}
	return &v, nil
}

func (r *VacancyRepository) LockVacancy(ctx context.Context, id uuid.UUID) (*model.Vacancy, error) {
	var v model.Vacancy
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&v, "vacancy_id = ?", id).Error
	if err != nil {
		return nil, dberr.NotFound(err, "Vacancy tidak ditemukan")
	}
	return &v, nil
}

// DeleteVacancy cascade ke applications (FK) + participants.
func (r *VacancyRepository) DeleteVacancy(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("vacancy_participant_vacancy_id = ?", id).Delete(&model.VacancyParticipant{}).Error; err != nil {
			return err
		}
		res := tx.Where("vacancy_id = ?", id).Delete(&model.Vacancy{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return dberr.NotFound(gorm.ErrRecordNotFound, "Vacancy tidak ditemukan")
		}
		return nil
	})
}

func (r *VacancyRepository) ListVacancies(ctx context.Context, f service.ListFilter) ([]model.Vacancy, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Vacancy{})
	if f.CompanyID != nil {
		q = q.Where("vacancy_company_id = ?", *f.CompanyID)
	}
	if f.JobID != nil {
		q = q.Where("vacancy_job_id = ?", *f.JobID)
	}
	if f.Status != "" {
		q = q.Where("vacancy_status = ?", f.Status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.Vacancy
	err := q.Order("vacancy_open_date DESC, vacancy_start_time ASC").
		Offset(f.Offset).Limit(f.Limit).Find(&rows).Error
	return rows, total, err
}

func (r *VacancyRepository) CountParticipants(ctx context.Context, vacancyID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.VacancyParticipant{}).
		Where("vacancy_participant_vacancy_id = ?", vacancyID).Count(&n).Error
	return n, err
}

func (r *VacancyRepository) CountByStatus(ctx context.Context, companyID uuid.UUID) (map[string]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	err := r.db.WithContext(ctx).Model(&model.Vacancy{}).
		Select("vacancy_status AS status, COUNT(*) AS total").
		Where("vacancy_company_id = ?", companyID).
		Group("vacancy_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.Total
	}
	return out, nil
}

func (r *VacancyRepository) FinishElapsed(ctx context.Context, today string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Vacancy{}).
		Where("vacancy_status IN ? AND vacancy_close_date < ?",
			[]string{model.VacancyStatusActive, model.VacancyStatusProgress}, today).
		Update("vacancy_status", model.VacancyStatusFinished)
	return res.RowsAffected, res.Error
}
