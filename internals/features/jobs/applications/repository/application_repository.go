package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"letme_backend/internals/features/jobs/applications/model"
	"letme_backend/internals/features/jobs/applications/service"
	reportModel "letme_backend/internals/features/jobs/reports/model"
	vacancyModel "letme_backend/internals/features/jobs/vacancies/model"
	userModel "letme_backend/internals/features/users/model"
	"letme_backend/internals/helpers/apperror"
	"letme_backend/internals/helpers/dberr"
)

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

var _ service.Store = (*ApplicationRepository)(nil)

func (r *ApplicationRepository) Transaction(ctx context.Context, fn func(tx service.Store) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ApplicationRepository{db: tx})
	})
}

/* ====================== VACANCY ====================== */

func (r *ApplicationRepository) GetVacancy(ctx context.Context, id uuid.UUID) (*vacancyModel.Vacancy, error) {
	var v vacancyModel.Vacancy
	if err := r.db.WithContext(ctx).First(&v, "vacancy_id = ?", id).Error; err != nil {
		return nil, dberr.NotFound(err, "Vacancy tidak ditemukan")
	}
	return &v, nil
}

func (r *ApplicationRepository) LockVacancy(ctx context.Context, id uuid.UUID) (*vacancyModel.Vacancy, error) {
	var v vacancyModel.Vacancy
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&v, "vacancy_id = ?", id).Error
	if err != nil {
		return nil, dberr.NotFound(err, "Vacancy tidak ditemukan")
	}
	return &v, nil
}

func (r *ApplicationRepository) GetJob(ctx context.Context, id uuid.UUID) (*vacancyModel.Job, error) {
	var j vacancyModel.Job
	if err := r.db.WithContext(ctx).First(&j, "job_id = ?", id).Error; err != nil {
		return nil, dberr.NotFound(err, "Job tidak ditemukan")
	}
	return &j, nil
}

func (r *ApplicationRepository) GetJobRole(ctx context.Context, id uuid.UUID) (*vacancyModel.JobRole, error) {
	var role vacancyModel.JobRole
	if err := r.db.WithContext(ctx).First(&role, "job_role_id = ?", id).Error; err != nil {
		return nil, dberr.NotFound(err, "Job role tidak ditemukan")
	}
	return &role, nil
}

func (r *ApplicationRepository) CountParticipants(ctx context.Context, vacancyID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&vacancyModel.VacancyParticipant{}).
		Where("vacancy_participant_vacancy_id = ?", vacancyID).Count(&n).Error
	return n, err
}

func (r *ApplicationRepository) AddParticipant(ctx context.Context, vacancyID, staffID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&vacancyModel.VacancyParticipant{
			VacancyParticipantVacancyID: vacancyID,
			VacancyParticipantStaffID:   staffID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.AlreadyProcessed("Staff sudah terdaftar di vacancy ini")
	}
	return nil
}

func (r *ApplicationRepository) RemoveParticipant(ctx context.Context, vacancyID, staffID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("vacancy_participant_vacancy_id = ? AND vacancy_participant_staff_id = ?", vacancyID, staffID).
		Delete(&vacancyModel.VacancyParticipant{}).Error
}

func (r *ApplicationRepository) ListOpenVacancies(ctx context.Context, today string, offset, limit int) ([]vacancyModel.Vacancy, int64, error) {
	q := r.db.WithContext(ctx).Model(&vacancyModel.Vacancy{}).
		Where("vacancy_status = ? AND vacancy_close_date >= ?", vacancyModel.VacancyStatusActive, today)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []vacancyModel.Vacancy
	err := q.Order("vacancy_open_date ASC, vacancy_start_time ASC").
		Offset(offset).Limit(limit).Find(&rows).Error
	return rows, total, err
}

/* ====================== APPLICATION ====================== */

func (r *ApplicationRepository) GetApplication(ctx context.Context, id uuid.UUID) (*model.JobApplication, error) {
	var a model.JobApplication
	if err := r.db.WithContext(ctx).First(&a, "job_application_id = ?", id).Error; err != nil {
		return nil, dberr.NotFound(err, "Application tidak ditemukan")
	}
	return &a, nil
}

func (r *ApplicationRepository) LockApplication(ctx context.Context, id uuid.UUID) (*model.JobApplication, error) {
	var a model.JobApplication
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&a, "job_application_id = ?", id).Error
	if err != nil {
		return nil, dberr.NotFound(err, "Application tidak ditemukan")
	}
	return &a, nil
}

func (r *ApplicationRepository) FindApplication(ctx context.Context, vacancyID, staffID uuid.UUID) (*model.JobApplication, error) {
	var a model.JobApplication
	err := r.db.WithContext(ctx).
		Where("job_application_vacancy_id = ? AND job_application_staff_id = ?", vacancyID, staffID).
		Take(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ApplicationRepository) ApplicationsOfStaff(ctx context.Context, staffID uuid.UUID, vacancyIDs []uuid.UUID) ([]model.JobApplication, error) {
	var rows []model.JobApplication
	err := r.db.WithContext(ctx).
		Where("job_application_staff_id = ? AND job_application_vacancy_id IN ?", staffID, vacancyIDs).
		Find(&rows).Error
	return rows, err
}

func (r *ApplicationRepository) CreateApplication(ctx context.Context, a *model.JobApplication) error {
	err := r.db.WithContext(ctx).Create(a).Error
	if dberr.IsUniqueViolation(err) {
		return apperror.AlreadyProcessed("Anda sudah melamar vacancy ini")
	}
	return err
}

func (r *ApplicationRepository) SaveApplication(ctx context.Context, a *model.JobApplication) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *ApplicationRepository) HasScheduleConflict(ctx context.Context, staffID, excludeVacancyID uuid.UUID, openDate time.Time, start string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Table("job_applications AS ja").
		Joins("JOIN vacancies v ON v.vacancy_id = ja.job_application_vacancy_id").
		Where("ja.job_application_staff_id = ?", staffID).
		Where("ja.job_application_vacancy_id <> ?", excludeVacancyID).
		Where("ja.job_application_status IN ?", []string{model.JobStatusPending, model.JobStatusAccepted}).
		Where("v.vacancy_open_date = ?", openDate.Format("2006-01-02")).
		Where("v.vacancy_start_time = ?", start).
		Count(&n).Error
	return n > 0, err
}

// scoped: filter umum; join vacancies kalau perlu company/stage.
func (r *ApplicationRepository) scoped(ctx context.Context, f service.ApplicationFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.JobApplication{}).
		Joins("JOIN vacancies v ON v.vacancy_id = job_applications.job_application_vacancy_id")
	if f.CompanyID != nil {
		q = q.Where("v.vacancy_company_id = ?", *f.CompanyID)
	}
	if f.VacancyID != nil {
		q = q.Where("job_applications.job_application_vacancy_id = ?", *f.VacancyID)
	}
	if f.StaffID != nil {
		q = q.Where("job_applications.job_application_staff_id = ?", *f.StaffID)
	}
	if f.Status != "" {
		q = q.Where("job_applications.job_application_status = ?", f.Status)
	}
	switch f.Stage {
	case service.StageAwaitingCheckin:
		q = q.Where("job_applications.job_application_is_approve = TRUE").
			Where("job_applications.job_application_checkin_approve = FALSE").
			Where("v.vacancy_status IN ?", []string{
				vacancyModel.VacancyStatusActive, vacancyModel.VacancyStatusProgress, vacancyModel.VacancyStatusFinished,
			})
	case service.StageAwaitingCheckout:
		q = q.Where("job_applications.job_application_checkin_approve = TRUE").
			Where("job_applications.job_application_checkout_approve = FALSE").
			Where("job_applications.job_application_status = ?", model.JobStatusAccepted)
	}
	return q
}

func (r *ApplicationRepository) ListApplications(ctx context.Context, f service.ApplicationFilter) ([]model.JobApplication, int64, error) {
	q := r.scoped(ctx, f)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.JobApplication
	err := q.Select("job_applications.*").
		Order("job_applications.created_at DESC").
		Offset(f.Offset).Limit(f.Limit).
		Find(&rows).Error
	return rows, total, err
}

func (r *ApplicationRepository) CountApplicationsByStatus(ctx context.Context, f service.ApplicationFilter) (map[string]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	err := r.scoped(ctx, f).
		Select("job_applications.job_application_status AS status, COUNT(*) AS total").
		Group("job_applications.job_application_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Total
	}
	return out, nil
}

/* ====================== CHECKIN / CHECKOUT ====================== */

func (r *ApplicationRepository) GetCheckin(ctx context.Context, id uuid.UUID) (*model.Checkin, error) {
	var c model.Checkin
	if err := r.db.WithContext(ctx).First(&c, "checkin_id = ?", id).Error; err != nil {
		return nil, dberr.NotFound(err, "Check-in tidak ditemukan")
	}
	return &c, nil
}

func (r *ApplicationRepository) FindPendingCheckin(ctx context.Context, applicationID uuid.UUID) (*model.Checkin, error) {
	var c model.Checkin
	err := r.db.WithContext(ctx).
		Where("checkin_application_id = ? AND checkin_status = ?", applicationID, model.AttendancePending).
		Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ApplicationRepository) CreateCheckin(ctx context.Context, c *model.Checkin) error {
	err := r.db.WithContext(ctx).Create(c).Error
	if dberr.IsUniqueViolation(err) {
		return apperror.AlreadyProcessed("Check-in masih menunggu persetujuan")
	}
	return err
}

func (r *ApplicationRepository) SaveCheckin(ctx context.Context, c *model.Checkin) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *ApplicationRepository) ListPendingCheckins(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]model.Checkin, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Checkin{}).
		Joins("JOIN job_applications ja ON ja.job_application_id = checkins.checkin_application_id").
		Joins("JOIN vacancies v ON v.vacancy_id = ja.job_application_vacancy_id").
		Where("v.vacancy_company_id = ?", companyID).
		Where("checkins.checkin_status = ?", model.AttendancePending)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.Checkin
	err := q.Select("checkins.*").Order("checkins.checkin_time ASC").
		Offset(offset).Limit(limit).Find(&rows).Error
	return rows, total, err
}

func (r *ApplicationRepository) GetCheckout(ctx context.Context, id uuid.UUID) (*model.Checkout, error) {
	var c model.Checkout
	if err := r.db.WithContext(ctx).First(&c, "checkout_id = ?", id).Error; err != nil {
		return nil, dberr.NotFound(err, "Check-out tidak ditemukan")
	}
	return &c, nil
}

func (r *ApplicationRepository) FindPendingCheckout(ctx context.Context, applicationID uuid.UUID) (*model.Checkout, error) {
	var c model.Checkout
	err := r.db.WithContext(ctx).
		Where("checkout_application_id = ? AND checkout_status = ?", applicationID, model.AttendancePending).
		Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ApplicationRepository) CreateCheckout(ctx context.Context, c *model.Checkout) error {
	err := r.db.WithContext(ctx).Create(c).Error
	if dberr.IsUniqueViolation(err) {
		return apperror.AlreadyProcessed("Check-out masih menunggu persetujuan")
	}
	return err
}

func (r *ApplicationRepository) SaveCheckout(ctx context.Context, c *model.Checkout) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *ApplicationRepository) ListPendingCheckouts(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]model.Checkout, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Checkout{}).
		Joins("JOIN job_applications ja ON ja.job_application_id = checkouts.checkout_application_id").
		Joins("JOIN vacancies v ON v.vacancy_id = ja.job_application_vacancy_id").
		Where("v.vacancy_company_id = ?", companyID).
		Where("checkouts.checkout_status = ?", model.AttendancePending)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.Checkout
	err := q.Select("checkouts.*").Order("checkouts.checkout_time ASC").
		Offset(offset).Limit(limit).Find(&rows).Error
	return rows, total, err
}

/* ====================== REPORT ====================== */

func (r *ApplicationRepository) CreateReport(ctx context.Context, rep *reportModel.JobReport) error {
	err := r.db.WithContext(ctx).Create(rep).Error
	if dberr.IsUniqueViolation(err) {
		return apperror.AlreadyProcessed("Report untuk application ini sudah ada")
	}
	return err
}

func (r *ApplicationRepository) ReportExists(ctx context.Context, applicationID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&reportModel.JobReport{}).
		Where("job_report_application_id = ?", applicationID).Count(&n).Error
	return n > 0, err
}

/* ====================== USERS ====================== */

func (r *ApplicationRepository) ExpirePendingApplications(ctx context.Context, today string) (int64, error) {
	sub := r.db.Model(&vacancyModel.Vacancy{}).Select("vacancy_id").Where("vacancy_close_date < ?", today)
	res := r.db.WithContext(ctx).Model(&model.JobApplication{}).
		Where("job_application_status = ? AND job_application_vacancy_id IN (?)", model.JobStatusPending, sub).
		Update("job_application_status", model.JobStatusExpired)
	return res.RowsAffected, res.Error
}

func (r *ApplicationRepository) GetStaff(ctx context.Context, id uuid.UUID) (*userModel.Staff, error) {
	var s userModel.Staff
	if err := r.db.WithContext(ctx).First(&s, "staff_id = ?", id).Error; err != nil {
		return nil, dberr.NotFound(err, "Staff tidak ditemukan")
	}
	return &s, nil
}

func (r *ApplicationRepository) GetCompany(ctx context.Context, id uuid.UUID) (*userModel.CompanyProfile, error) {
	var c userModel.CompanyProfile
	if err := r.db.WithContext(ctx).First(&c, "company_id = ?", id).Error; err != nil {
		return nil, dberr.NotFound(err, "Perusahaan tidak ditemukan")
	}
	return &c, nil
}
