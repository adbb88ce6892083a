package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"letme_backend/internals/features/jobs/vacancies/dto"
	"letme_backend/internals/features/jobs/vacancies/model"
	"letme_backend/internals/helpers/apperror"
	"letme_backend/internals/helpers/dbtime"
)

// fakeRepo: rowLock memodelkan SELECT ... FOR UPDATE atas vacancy, dipegang sampai transaksi selesai.
type fakeRepo struct {
	mu           sync.Mutex
	rowLock      sync.Mutex
	lockedInTx   int
	jobs         map[uuid.UUID]model.Job
	roles        map[uuid.UUID]model.JobRole
	vacancies    map[uuid.UUID]model.Vacancy
	participants map[uuid.UUID]int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		jobs:         map[uuid.UUID]model.Job{},
		roles:        map[uuid.UUID]model.JobRole{},
		vacancies:    map[uuid.UUID]model.Vacancy{},
		participants: map[uuid.UUID]int64{},
	}
}

type fakeTx struct {
	*fakeRepo
	locked bool
}

func (f *fakeRepo) Transaction(_ context.Context, fn func(tx Repository) error) error {
	tx := &fakeTx{fakeRepo: f}
	defer func() {
		if tx.locked {
			f.rowLock.Unlock()
		}
	}()
	return fn(tx)
}

func (f *fakeRepo) LockVacancy(context.Context, uuid.UUID) (*model.Vacancy, error) {
	return nil, apperror.Validation("LockVacancy di luar transaksi")
}

func (t *fakeTx) LockVacancy(ctx context.Context, id uuid.UUID) (*model.Vacancy, error) {
	if !t.locked {
		t.rowLock.Lock()
		t.locked = true
	}
	t.mu.Lock()
	t.lockedInTx++
	t.mu.Unlock()
	return t.GetVacancy(ctx, id)
}

// approve meniru approval application: cek kapasitas + tambah peserta di bawah lock yang sama.
func (f *fakeRepo) approve(id uuid.UUID) bool {
	f.rowLock.Lock()
	defer f.rowLock.Unlock()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.participants[id] >= int64(f.vacancies[id].VacancyNumberOfStaff) {
		return false
	}
	f.participants[id]++
	return true
}

func (f *fakeRepo) CreateJob(_ context.Context, j *model.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs[j.JobID] = *j
	return nil
}

func (f *fakeRepo) GetJob(_ context.Context, id uuid.UUID) (*model.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	if !ok {
		return nil, apperror.NotFound("job")
	}
	return &j, nil
}

func (f *fakeRepo) ListJobs(_ context.Context, companyID uuid.UUID, _, _ int) ([]model.Job, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Job
	for _, j := range f.jobs {
		if j.JobCompanyID == companyID {
			out = append(out, j)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) GetJobRole(_ context.Context, id uuid.UUID) (*model.JobRole, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.roles[id]
	if !ok {
		return nil, apperror.NotFound("role")
	}
	return &r, nil
}

func (f *fakeRepo) ListJobRoles(context.Context) ([]model.JobRole, error) { return nil, nil }

func (f *fakeRepo) CreateVacancy(_ context.Context, v *model.Vacancy) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.vacancies[v.VacancyID] = *v
	return nil
}

func (f *fakeRepo) SaveVacancy(ctx context.Context, v *model.Vacancy) error {
	return f.CreateVacancy(ctx, v)
}

func (f *fakeRepo) GetVacancy(_ context.Context, id uuid.UUID) (*model.Vacancy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.vacancies[id]
	if !ok {
		return nil, apperror.NotFound("vacancy")
	}
	return &v, nil
}

func (f *fakeRepo) DeleteVacancy(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.vacancies, id)
	return nil
}

func (f *fakeRepo) ListVacancies(_ context.Context, lf ListFilter) ([]model.Vacancy, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Vacancy
	for _, v := range f.vacancies {
		if lf.CompanyID != nil && v.VacancyCompanyID != *lf.CompanyID {
			continue
		}
		out = append(out, v)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) CountParticipants(_ context.Context, id uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.participants[id], nil
}

func (f *fakeRepo) CountByStatus(_ context.Context, companyID uuid.UUID) (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]int64{}
	for _, v := range f.vacancies {
		if v.VacancyCompanyID == companyID {
			out[v.VacancyStatus]++
		}
	}
	return out, nil
}

func (f *fakeRepo) FinishElapsed(_ context.Context, today string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, v := range f.vacancies {
		if (v.VacancyStatus == model.VacancyStatusActive || v.VacancyStatus == model.VacancyStatusProgress) &&
			v.VacancyCloseDate.Format("2006-01-02") < today {
			v.VacancyStatus = model.VacancyStatusFinished
			f.vacancies[id] = v
			n++
		}
	}
	return n, nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type fixture struct {
	repo    *fakeRepo
	svc     *VacancyService
	company uuid.UUID
	job     uuid.UUID
	role    uuid.UUID
}

func newFixture(rate int64) fixture {
	repo := newFakeRepo()
	company := uuid.New()
	job := model.Job{JobID: uuid.New(), JobCompanyID: company, JobTitle: "Event crew"}
	role := model.JobRole{JobRoleID: uuid.New(), JobRoleName: "Waiter", JobRoleStaffPrice: rate}
	repo.jobs[job.JobID] = job
	repo.roles[role.JobRoleID] = role
	return fixture{repo: repo, svc: NewVacancyService(repo, quietLogger()), company: company, job: job.JobID, role: role.JobRoleID}
}

func (fx fixture) createReq() dto.CreateVacancyRequest {
	return dto.CreateVacancyRequest{
		JobID:         fx.job,
		JobRoleID:     fx.role,
		NumberOfStaff: 3,
		OpenDate:      "2024-06-01",
		CloseDate:     "2024-06-03",
		StartTime:     "09:00",
		EndTime:       "17:00",
		Skills:        []string{"serving", " Serving ", ""},
	}
}

func TestCreateDerivesSalary(t *testing.T) {
	fx := newFixture(2500)

	v, err := fx.svc.Create(context.Background(), fx.company, fx.createReq())
	require.NoError(t, err)

	assert.Equal(t, int64(60000), v.VacancySalary) // 25 * 8 * 3
	assert.Equal(t, model.VacancyStatusDraft, v.VacancyStatus)
	assert.Equal(t, fx.company, v.VacancyCompanyID)
	assert.Equal(t, []string{"serving"}, []string(v.VacancySkills))
}

func TestCreateRejectsForeignJob(t *testing.T) {
	fx := newFixture(2500)
	_, err := fx.svc.Create(context.Background(), uuid.New(), fx.createReq())
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestCreateRejectsCloseBeforeOpen(t *testing.T) {
	fx := newFixture(2500)
	req := fx.createReq()
	req.CloseDate = "2024-05-30"
	_, err := fx.svc.Create(context.Background(), fx.company, req)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestUpdateRecomputesSalary(t *testing.T) {
	fx := newFixture(2500)
	ctx := context.Background()
	v, err := fx.svc.Create(ctx, fx.company, fx.createReq())
	require.NoError(t, err)

	headcount := 2
	end := "13:30"
	v, err = fx.svc.Update(ctx, fx.company, v.VacancyID, dto.UpdateVacancyRequest{NumberOfStaff: &headcount, EndTime: &end})
	require.NoError(t, err)
	assert.Equal(t, int64(22500), v.VacancySalary) // 25 * 4.5 * 2
}

func TestUpdateCannotShrinkBelowParticipants(t *testing.T) {
	fx := newFixture(2500)
	ctx := context.Background()
	v, err := fx.svc.Create(ctx, fx.company, fx.createReq())
	require.NoError(t, err)
	fx.repo.participants[v.VacancyID] = 3

	one := 1
	_, err = fx.svc.Update(ctx, fx.company, v.VacancyID, dto.UpdateVacancyRequest{NumberOfStaff: &one})
	assert.ErrorIs(t, err, apperror.ErrCapacity)
}

func TestUpdateShrinkRacingApprovalKeepsCapacity(t *testing.T) {
	for i := 0; i < 50; i++ {
		fx := newFixture(2500)
		ctx := context.Background()
		req := fx.createReq()
		req.NumberOfStaff = 5
		v, err := fx.svc.Create(ctx, fx.company, req)
		require.NoError(t, err)
		fx.repo.participants[v.VacancyID] = 2

		var (
			wg       sync.WaitGroup
			approved bool
			updErr   error
		)
		two := 2
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, updErr = fx.svc.Update(ctx, fx.company, v.VacancyID, dto.UpdateVacancyRequest{NumberOfStaff: &two})
		}()
		go func() {
			defer wg.Done()
			approved = fx.repo.approve(v.VacancyID)
		}()
		wg.Wait()

		got := fx.repo.vacancies[v.VacancyID]
		assert.LessOrEqual(t, fx.repo.participants[v.VacancyID], int64(got.VacancyNumberOfStaff))
		if approved {
			assert.ErrorIs(t, updErr, apperror.ErrCapacity)
		} else {
			assert.NoError(t, updErr)
		}
	}
}

func TestUpdateLocksVacancy(t *testing.T) {
	fx := newFixture(2500)
	ctx := context.Background()
	v, err := fx.svc.Create(ctx, fx.company, fx.createReq())
	require.NoError(t, err)

	one := 1
	_, err = fx.svc.Update(ctx, fx.company, v.VacancyID, dto.UpdateVacancyRequest{NumberOfStaff: &one})
	require.NoError(t, err)
	_, err = fx.svc.UpdateStatus(ctx, fx.company, v.VacancyID, model.VacancyStatusActive)
	require.NoError(t, err)
	assert.Equal(t, 2, fx.repo.lockedInTx)
}

func TestJobCountsFillsEveryStatus(t *testing.T) {
	fx := newFixture(1000)
	ctx := context.Background()
	_, err := fx.svc.Create(ctx, fx.company, fx.createReq())
	require.NoError(t, err)
	req := fx.createReq()
	req.Status = model.VacancyStatusActive
	_, err = fx.svc.Create(ctx, fx.company, req)
	require.NoError(t, err)

	counts, err := fx.svc.JobCounts(ctx, fx.company)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[model.VacancyStatusDraft])
	assert.Equal(t, int64(1), counts[model.VacancyStatusActive])
	assert.Equal(t, int64(0), counts[model.VacancyStatusFinished])
	assert.Equal(t, int64(2), counts["total"])
}

func TestFinishElapsedClosesPastVacancies(t *testing.T) {
	fx := newFixture(1000)
	ctx := context.Background()
	past, err := fx.svc.Create(ctx, fx.company, fx.createReq())
	require.NoError(t, err)
	_, err = fx.svc.UpdateStatus(ctx, fx.company, past.VacancyID, model.VacancyStatusActive)
	require.NoError(t, err)
	draft, err := fx.svc.Create(ctx, fx.company, fx.createReq())
	require.NoError(t, err)

	// close date hari ini belum lewat
	n, err := fx.svc.FinishElapsed(ctx, time.Date(2024, 6, 3, 20, 0, 0, 0, dbtime.Location()))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = fx.svc.FinishElapsed(ctx, time.Date(2024, 6, 4, 8, 0, 0, 0, dbtime.Location()))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, model.VacancyStatusFinished, fx.repo.vacancies[past.VacancyID].VacancyStatus)
	assert.Equal(t, model.VacancyStatusDraft, fx.repo.vacancies[draft.VacancyID].VacancyStatus)
}
