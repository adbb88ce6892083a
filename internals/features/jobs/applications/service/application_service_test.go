package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"letme_backend/internals/features/jobs/applications/model"
	vacancyModel "letme_backend/internals/features/jobs/vacancies/model"
	userModel "letme_backend/internals/features/users/model"
	"letme_backend/internals/helpers/apperror"
	"letme_backend/internals/helpers/dbtime"
)

type fixture struct {
	store     *fakeStore
	notifier  *fakeNotifier
	contracts *fakeContracts
	svc       *ApplicationService

	companyID uuid.UUID
	company   userModel.CompanyProfile
	vacancy   vacancyModel.Vacancy
	now       time.Time
}

func newFixture(t *testing.T, capacity int) *fixture {
	t.Helper()
	loc := dbtime.Location()
	f := &fixture{
		store:     newFakeStore(),
		notifier:  &fakeNotifier{},
		contracts: &fakeContracts{},
		companyID: uuid.New(),
		now:       time.Date(2024, 6, 10, 10, 0, 0, 0, loc),
	}
	f.company = userModel.CompanyProfile{CompanyID: f.companyID, CompanyUserID: uuid.New(), CompanyName: "PT Letme"}
	f.store.d.companies[f.companyID] = f.company

	role := vacancyModel.JobRole{JobRoleID: uuid.New(), JobRoleName: "Barista", JobRoleStaffPrice: 2000}
	f.store.d.roles[role.JobRoleID] = role
	job := vacancyModel.Job{JobID: uuid.New(), JobCompanyID: f.companyID, JobTitle: "Event Kopi"}
	f.store.d.jobs[job.JobID] = job

	f.vacancy = f.addVacancy(job.JobID, role.JobRoleID, capacity, "09:00")
	f.svc = NewApplicationService(f.store, f.notifier, f.contracts, quietLogger()).
		WithClock(func() time.Time { return f.now })
	return f
}

func (f *fixture) addVacancy(jobID, roleID uuid.UUID, capacity int, start string) vacancyModel.Vacancy {
	loc := dbtime.Location()
	v := vacancyModel.Vacancy{
		VacancyID:            uuid.New(),
		VacancyJobID:         jobID,
		VacancyCompanyID:     f.companyID,
		VacancyJobRoleID:     roleID,
		VacancyNumberOfStaff: capacity,
		VacancyOpenDate:      time.Date(2024, 6, 12, 0, 0, 0, 0, loc),
		VacancyCloseDate:     time.Date(2024, 6, 12, 0, 0, 0, 0, loc),
		VacancyStartTime:     dbtime.MustParse(start),
		VacancyEndTime:       dbtime.MustParse("17:00"),
		VacancyLocation:      "Jakarta",
		VacancyStatus:        vacancyModel.VacancyStatusActive,
	}
	f.store.d.vacancies[v.VacancyID] = v
	return v
}

func (f *fixture) addStaff() uuid.UUID {
	s := userModel.Staff{StaffID: uuid.New(), StaffUserID: uuid.New(), StaffName: "Sari", StaffEmail: "sari@example.com"}
	f.store.d.staff[s.StaffID] = s
	return s.StaffID
}

func (f *fixture) apply(t *testing.T, vacancyID uuid.UUID) *model.JobApplication {
	t.Helper()
	app, err := f.svc.Apply(context.Background(), f.addStaff(), vacancyID)
	require.NoError(t, err)
	return app
}

func (f *fixture) participants(vacancyID uuid.UUID) int {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return len(f.store.d.participants[vacancyID])
}

/* ===================== Feed ===================== */

func TestFeedMarksOwnApplication(t *testing.T) {
	f := newFixture(t, 2)
	other := f.addVacancy(f.vacancy.VacancyJobID, f.vacancy.VacancyJobRoleID, 1, "07:00")
	draft := f.addVacancy(f.vacancy.VacancyJobID, f.vacancy.VacancyJobRoleID, 1, "06:00")
	draft.VacancyStatus = vacancyModel.VacancyStatusDraft
	f.store.d.vacancies[draft.VacancyID] = draft

	staffID := f.addStaff()
	app, err := f.svc.Apply(context.Background(), staffID, f.vacancy.VacancyID)
	require.NoError(t, err)

	items, total, err := f.svc.Feed(context.Background(), staffID, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)

	assert.Equal(t, other.VacancyID, items[0].Vacancy.VacancyID)
	assert.Nil(t, items[0].Application)
	assert.Equal(t, f.vacancy.VacancyID, items[1].Vacancy.VacancyID)
	require.NotNil(t, items[1].Application)
	assert.Equal(t, app.JobApplicationID, items[1].Application.JobApplicationID)
	assert.Equal(t, model.JobStatusPending, items[1].Application.JobApplicationStatus)
}

func TestFeedSkipsClosedVacancies(t *testing.T) {
	f := newFixture(t, 2)
	f.now = f.now.AddDate(0, 0, 3)

	items, total, err := f.svc.Feed(context.Background(), f.addStaff(), 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
}

/* ===================== Apply ===================== */

func TestApplyCreatesPendingApplication(t *testing.T) {
	f := newFixture(t, 2)
	app := f.apply(t, f.vacancy.VacancyID)

	assert.Equal(t, model.JobStatusPending, app.JobApplicationStatus)
	assert.False(t, app.JobApplicationIsApprove)
	assert.Equal(t, 1, f.notifier.count(), "company gets notified of a new applicant")
}

func TestApplyTwiceIsAlreadyProcessed(t *testing.T) {
	f := newFixture(t, 2)
	staffID := f.addStaff()
	_, err := f.svc.Apply(context.Background(), staffID, f.vacancy.VacancyID)
	require.NoError(t, err)

	_, err = f.svc.Apply(context.Background(), staffID, f.vacancy.VacancyID)
	assert.ErrorIs(t, err, apperror.ErrAlreadyProcessed)
}

func TestApplyRejectsFullVacancy(t *testing.T) {
	f := newFixture(t, 1)
	app := f.apply(t, f.vacancy.VacancyID)
	_, err := f.svc.Approve(context.Background(), f.companyID, app.JobApplicationID)
	require.NoError(t, err)

	_, err = f.svc.Apply(context.Background(), f.addStaff(), f.vacancy.VacancyID)
	assert.ErrorIs(t, err, apperror.ErrCapacity)
}

func TestApplyDetectsScheduleConflict(t *testing.T) {
	f := newFixture(t, 2)
	other := f.addVacancy(f.vacancy.VacancyJobID, f.vacancy.VacancyJobRoleID, 2, "09:00")
	later := f.addVacancy(f.vacancy.VacancyJobID, f.vacancy.VacancyJobRoleID, 2, "13:00")

	staffID := f.addStaff()
	_, err := f.svc.Apply(context.Background(), staffID, f.vacancy.VacancyID)
	require.NoError(t, err)

	_, err = f.svc.Apply(context.Background(), staffID, other.VacancyID)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = f.svc.Apply(context.Background(), staffID, later.VacancyID)
	assert.NoError(t, err, "different start time does not clash")
}

func TestApplyAfterCloseDateIsExpired(t *testing.T) {
	f := newFixture(t, 2)
	f.now = time.Date(2024, 6, 13, 8, 0, 0, 0, dbtime.Location())

	_, err := f.svc.Apply(context.Background(), f.addStaff(), f.vacancy.VacancyID)
	assert.ErrorIs(t, err, apperror.ErrExpired)
}

func TestApplyToDraftVacancyIsRejected(t *testing.T) {
	f := newFixture(t, 2)
	v := f.store.d.vacancies[f.vacancy.VacancyID]
	v.VacancyStatus = vacancyModel.VacancyStatusDraft
	f.store.d.vacancies[v.VacancyID] = v

	_, err := f.svc.Apply(context.Background(), f.addStaff(), f.vacancy.VacancyID)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

/* ===================== Approve ===================== */

func TestApproveAcceptsAndSendsContract(t *testing.T) {
	f := newFixture(t, 2)
	app := f.apply(t, f.vacancy.VacancyID)

	got, err := f.svc.Approve(context.Background(), f.companyID, app.JobApplicationID)
	require.NoError(t, err)

	assert.Equal(t, model.JobStatusAccepted, got.JobApplicationStatus)
	assert.True(t, got.JobApplicationIsApprove)
	assert.Equal(t, 1, f.participants(f.vacancy.VacancyID))
	require.Len(t, f.contracts.jobs, 1)
	assert.Equal(t, "Barista", f.contracts.jobs[0].RoleName)
	assert.Equal(t, "sari@example.com", f.contracts.jobs[0].StaffEmail)
	assert.Equal(t, 2, f.notifier.count())
}

func TestApproveTwiceIsAlreadyProcessed(t *testing.T) {
	f := newFixture(t, 2)
	app := f.apply(t, f.vacancy.VacancyID)
	_, err := f.svc.Approve(context.Background(), f.companyID, app.JobApplicationID)
	require.NoError(t, err)
	before := f.notifier.count()

	_, err = f.svc.Approve(context.Background(), f.companyID, app.JobApplicationID)
	assert.ErrorIs(t, err, apperror.ErrAlreadyProcessed)
	assert.Equal(t, before, f.notifier.count(), "replay has no side effects")
	assert.Len(t, f.contracts.jobs, 1)
}

func TestApproveByOtherCompanyIsForbidden(t *testing.T) {
	f := newFixture(t, 2)
	app := f.apply(t, f.vacancy.VacancyID)

	_, err := f.svc.Approve(context.Background(), uuid.New(), app.JobApplicationID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Equal(t, 0, f.participants(f.vacancy.VacancyID))
}

func TestApproveAfterCloseDateIsExpired(t *testing.T) {
	f := newFixture(t, 2)
	app := f.apply(t, f.vacancy.VacancyID)
	f.now = time.Date(2024, 6, 13, 0, 30, 0, 0, dbtime.Location())

	_, err := f.svc.Approve(context.Background(), f.companyID, app.JobApplicationID)
	assert.ErrorIs(t, err, apperror.ErrExpired)
}

func TestConcurrentApprovalsForLastSlot(t *testing.T) {
	f := newFixture(t, 1)
	a1 := f.apply(t, f.vacancy.VacancyID)
	a2 := f.apply(t, f.vacancy.VacancyID)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []uuid.UUID{a1.JobApplicationID, a2.JobApplicationID} {
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			_, errs[i] = f.svc.Approve(context.Background(), f.companyID, id)
		}(i, id)
	}
	wg.Wait()

	var ok, full int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case apperror.KindOf(err) == apperror.KindCapacity:
			full++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, full)
	assert.Equal(t, 1, f.participants(f.vacancy.VacancyID))
}

func TestParticipantsNeverExceedCapacity(t *testing.T) {
	f := newFixture(t, 3)
	ids := make([]uuid.UUID, 0, 8)
	for i := 0; i < 8; i++ {
		ids = append(ids, f.apply(t, f.vacancy.VacancyID).JobApplicationID)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, _ = f.svc.Approve(context.Background(), f.companyID, id)
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 3, f.participants(f.vacancy.VacancyID))
}

/* ===================== Reject ===================== */

func TestRejectIsSilentAndTerminal(t *testing.T) {
	f := newFixture(t, 2)
	app := f.apply(t, f.vacancy.VacancyID)
	before := f.notifier.count()

	got, err := f.svc.Reject(context.Background(), f.companyID, app.JobApplicationID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusRejected, got.JobApplicationStatus)
	assert.Equal(t, before, f.notifier.count())

	_, err = f.svc.Reject(context.Background(), f.companyID, app.JobApplicationID)
	assert.ErrorIs(t, err, apperror.ErrAlreadyProcessed)

	_, err = f.svc.Approve(context.Background(), f.companyID, app.JobApplicationID)
	assert.ErrorIs(t, err, apperror.ErrAlreadyProcessed)
}

func TestRejectAcceptedReleasesSlot(t *testing.T) {
	f := newFixture(t, 1)
	app := f.apply(t, f.vacancy.VacancyID)
	_, err := f.svc.Approve(context.Background(), f.companyID, app.JobApplicationID)
	require.NoError(t, err)

	got, err := f.svc.Reject(context.Background(), f.companyID, app.JobApplicationID)
	require.NoError(t, err)
	assert.False(t, got.JobApplicationIsApprove)
	assert.Equal(t, 0, f.participants(f.vacancy.VacancyID))
}

/* ===================== Queries ===================== */

func TestSummaryCountsEveryStatus(t *testing.T) {
	f := newFixture(t, 3)
	a := f.apply(t, f.vacancy.VacancyID)
	b := f.apply(t, f.vacancy.VacancyID)
	f.apply(t, f.vacancy.VacancyID)
	_, err := f.svc.Approve(context.Background(), f.companyID, a.JobApplicationID)
	require.NoError(t, err)
	_, err = f.svc.Reject(context.Background(), f.companyID, b.JobApplicationID)
	require.NoError(t, err)

	sum, err := f.svc.Summary(context.Background(), f.companyID, f.vacancy.VacancyID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), sum[model.JobStatusPending])
	assert.Equal(t, int64(1), sum[model.JobStatusAccepted])
	assert.Equal(t, int64(1), sum[model.JobStatusRejected])
	assert.Equal(t, int64(0), sum[model.JobStatusExpired])
	assert.Equal(t, int64(3), sum["total"])

	_, err = f.svc.Summary(context.Background(), uuid.New(), f.vacancy.VacancyID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestGetForActor(t *testing.T) {
	f := newFixture(t, 2)
	app := f.apply(t, f.vacancy.VacancyID)
	staffID := app.JobApplicationStaffID

	_, err := f.svc.GetForActor(context.Background(), app.JobApplicationID, nil, &staffID)
	assert.NoError(t, err)
	_, err = f.svc.GetForActor(context.Background(), app.JobApplicationID, &f.companyID, nil)
	assert.NoError(t, err)

	stranger := uuid.New()
	_, err = f.svc.GetForActor(context.Background(), app.JobApplicationID, nil, &stranger)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

/* ===================== Expire ===================== */

func TestExpireStaleOnlyTouchesPendingPastClose(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()
	pending := f.apply(t, f.vacancy.VacancyID)
	accepted := f.apply(t, f.vacancy.VacancyID)
	_, err := f.svc.Approve(ctx, f.companyID, accepted.JobApplicationID)
	require.NoError(t, err)

	f.now = time.Date(2024, 6, 12, 23, 0, 0, 0, dbtime.Location())
	n, err := f.svc.ExpireStale(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	f.now = time.Date(2024, 6, 13, 0, 30, 0, 0, dbtime.Location())
	n, err = f.svc.ExpireStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, model.JobStatusExpired, f.store.d.apps[pending.JobApplicationID].JobApplicationStatus)
	assert.Equal(t, model.JobStatusAccepted, f.store.d.apps[accepted.JobApplicationID].JobApplicationStatus)

	// terminal: approve setelah expired ditolak
	_, err = f.svc.Approve(ctx, f.companyID, pending.JobApplicationID)
	assert.Error(t, err)
}
