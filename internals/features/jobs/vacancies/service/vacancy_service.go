package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"letme_backend/internals/features/jobs/vacancies/dto"
	"letme_backend/internals/features/jobs/vacancies/model"
	"letme_backend/internals/helpers/apperror"
	"letme_backend/internals/helpers/dbtime"
)

type ListFilter struct {
	CompanyID *uuid.UUID
	JobID     *uuid.UUID
	Status    string
	Offset    int
	Limit     int
}

// Repository persistence vacancy; NotFound dikembalikan sebagai apperror.
type Repository interface {
	// Transaction menjalankan fn dalam satu transaksi; error dari fn me-rollback.
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	CreateJob(ctx context.Context, j *model.Job) error
	GetJob(ctx context.Context, id uuid.UUID) (*model.Job, error)
	ListJobs(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]model.Job, int64, error)

	GetJobRole(ctx context.Context, id uuid.UUID) (*model.JobRole, error)
	ListJobRoles(ctx context.Context) ([]model.JobRole, error)

	CreateVacancy(ctx context.Context, v *model.Vacancy) error
	SaveVacancy(ctx context.Context, v *model.Vacancy) error
	GetVacancy(ctx context.Context, id uuid.UUID) (*model.Vacancy, error)
	// LockVacancy SELECT ... FOR UPDATE; sama dengan lock yang dipakai approval application.
	LockVacancy(ctx context.Context, id uuid.UUID) (*model.Vacancy, error)
	DeleteVacancy(ctx context.Context, id uuid.UUID) error
	ListVacancies(ctx context.Context, f ListFilter) ([]model.Vacancy, int64, error)
	CountParticipants(ctx context.Context, vacancyID uuid.UUID) (int64, error)
	CountByStatus(ctx context.Context, companyID uuid.UUID) (map[string]int64, error)
	// FinishElapsed tandai active/progress dengan close_date < today sebagai finished.
	FinishElapsed(ctx context.Context, today string) (int64, error)
}

type VacancyService struct {
	repo Repository
	log  *logrus.Entry
}

func NewVacancyService(repo Repository, log *logrus.Logger) *VacancyService {
	return &VacancyService{repo: repo, log: log.WithField("module", "vacancies")}
}

func (s *VacancyService) CreateJob(ctx context.Context, companyID uuid.UUID, req dto.CreateJobRequest) (*model.Job, error) {
	j := &model.Job{
		JobID:          uuid.New(),
		JobCompanyID:   companyID,
		JobTitle:       req.Title,
		JobDescription: req.Description,
		JobIsPublished: req.IsPublished,
	}
	if err := s.repo.CreateJob(ctx, j); err != nil {
		return nil, err
	}
	return j, nil
}

func (s *VacancyService) ListJobs(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]model.Job, int64, error) {
	return s.repo.ListJobs(ctx, companyID, offset, limit)
}

func (s *VacancyService) ListJobRoles(ctx context.Context) ([]model.JobRole, error) {
	return s.repo.ListJobRoles(ctx)
}

func (s *VacancyService) Create(ctx context.Context, companyID uuid.UUID, req dto.CreateVacancyRequest) (*model.Vacancy, error) {
	v, err := req.ToModel()
	if err != nil {
		return nil, err
	}
	job, err := s.repo.GetJob(ctx, v.VacancyJobID)
	if err != nil {
		return nil, err
	}
	if job.JobCompanyID != companyID {
		return nil, apperror.Forbidden("Job bukan milik perusahaan Anda")
	}
	v.VacancyID = uuid.New()
	v.VacancyCompanyID = companyID
	if err := s.price(ctx, s.repo, v); err != nil {
		return nil, err
	}
	if err := s.repo.CreateVacancy(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Update di bawah row lock vacancy: hitung peserta dan simpan headcount baru tidak bisa
// diselingi approval yang menambah peserta.
func (s *VacancyService) Update(ctx context.Context, companyID, vacancyID uuid.UUID, req dto.UpdateVacancyRequest) (*model.Vacancy, error) {
	var v *model.Vacancy
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		var err error
		if v, err = s.lockOwned(ctx, tx, companyID, vacancyID); err != nil {
			return err
		}
		if err := req.ApplyTo(v); err != nil {
			return err
		}
		if req.NumberOfStaff != nil {
			n, err := tx.CountParticipants(ctx, vacancyID)
			if err != nil {
				return err
			}
			if int64(v.VacancyNumberOfStaff) < n {
				return apperror.Capacity("number_of_staff lebih kecil dari peserta yang sudah diterima")
			}
		}
		if err := s.price(ctx, tx, v); err != nil {
			return err
		}
		return tx.SaveVacancy(ctx, v)
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *VacancyService) UpdateStatus(ctx context.Context, companyID, vacancyID uuid.UUID, status string) (*model.Vacancy, error) {
	var v *model.Vacancy
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		var err error
		if v, err = s.lockOwned(ctx, tx, companyID, vacancyID); err != nil {
			return err
		}
		v.VacancyStatus = status
		if err := s.price(ctx, tx, v); err != nil {
			return err
		}
		return tx.SaveVacancy(ctx, v)
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *VacancyService) Delete(ctx context.Context, companyID, vacancyID uuid.UUID) error {
	if _, err := s.owned(ctx, companyID, vacancyID); err != nil {
		return err
	}
	return s.repo.DeleteVacancy(ctx, vacancyID)
}

func (s *VacancyService) Get(ctx context.Context, vacancyID uuid.UUID) (*model.Vacancy, int64, error) {
	v, err := s.repo.GetVacancy(ctx, vacancyID)
	if err != nil {
		return nil, 0, err
	}
	n, err := s.repo.CountParticipants(ctx, vacancyID)
	if err != nil {
		return nil, 0, err
	}
	return v, n, nil
}

func (s *VacancyService) List(ctx context.Context, f ListFilter) ([]model.Vacancy, int64, error) {
	return s.repo.ListVacancies(ctx, f)
}

// JobCounts jumlah vacancy per status milik perusahaan; semua status selalu ada di map.
func (s *VacancyService) JobCounts(ctx context.Context, companyID uuid.UUID) (map[string]int64, error) {
	raw, err := s.repo.CountByStatus(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(model.VacancyStatuses)+1)
	var total int64
	for _, st := range model.VacancyStatuses {
		out[st] = raw[st]
		total += raw[st]
	}
	out["total"] = total
	return out, nil
}

// price: salary selalu dihitung ulang sebelum persist.
func (s *VacancyService) price(ctx context.Context, repo Repository, v *model.Vacancy) error {
	if v.VacancyCloseDate.Before(v.VacancyOpenDate) {
		return apperror.Validation("close_date tidak boleh sebelum open_date")
	}
	role, err := repo.GetJobRole(ctx, v.VacancyJobRoleID)
	if err != nil {
		return err
	}
	v.VacancySalary = ComputeSalary(role.JobRoleStaffPrice, v.VacancyStartTime, v.VacancyEndTime, v.VacancyNumberOfStaff)
	if v.VacancySalary < 0 {
		s.log.WithFields(logrus.Fields{
			"vacancy_id": v.VacancyID,
			"start":      v.VacancyStartTime.String(),
			"end":        v.VacancyEndTime.String(),
		}).Warn("negative salary: shift crosses midnight")
	}
	return nil
}

func (s *VacancyService) owned(ctx context.Context, companyID, vacancyID uuid.UUID) (*model.Vacancy, error) {
	v, err := s.repo.GetVacancy(ctx, vacancyID)
	if err != nil {
		return nil, err
	}
	if v.VacancyCompanyID != companyID {
		return nil, apperror.Forbidden("Vacancy bukan milik perusahaan Anda")
	}
	return v, nil
}

func (s *VacancyService) lockOwned(ctx context.Context, tx Repository, companyID, vacancyID uuid.UUID) (*model.Vacancy, error) {
	v, err := tx.LockVacancy(ctx, vacancyID)
	if err != nil {
		return nil, err
	}
	if v.VacancyCompanyID != companyID {
		return nil, apperror.Forbidden("Vacancy bukan milik perusahaan Anda")
	}
	return v, nil
}

// FinishElapsed dipanggil scheduler; tanggal dihitung di zona operasional.
func (s *VacancyService) FinishElapsed(ctx context.Context, now time.Time) (int64, error) {
	today := dbtime.DateOnly(now.In(dbtime.Location())).Format("2006-01-02")
	n, err := s.repo.FinishElapsed(ctx, today)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.WithField("count", n).Info("vacancies finished")
	}
	return n, nil
}
