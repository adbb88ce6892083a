package service

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"letme_backend/internals/features/jobs/applications/model"
	reportModel "letme_backend/internals/features/jobs/reports/model"
	vacancyModel "letme_backend/internals/features/jobs/vacancies/model"
	userModel "letme_backend/internals/features/users/model"
	"letme_backend/internals/helpers/apperror"
)

type fakeData struct {
	vacancies    map[uuid.UUID]vacancyModel.Vacancy
	jobs         map[uuid.UUID]vacancyModel.Job
	roles        map[uuid.UUID]vacancyModel.JobRole
	participants map[uuid.UUID]map[uuid.UUID]bool
	apps         map[uuid.UUID]model.JobApplication
	checkins     map[uuid.UUID]model.Checkin
	checkouts    map[uuid.UUID]model.Checkout
	reports      map[uuid.UUID]reportModel.JobReport // by application id
	staff        map[uuid.UUID]userModel.Staff
	companies    map[uuid.UUID]userModel.CompanyProfile
}

func (d fakeData) clone() fakeData {
	c := fakeData{
		vacancies:    make(map[uuid.UUID]vacancyModel.Vacancy, len(d.vacancies)),
		jobs:         d.jobs,
		roles:        d.roles,
		participants: make(map[uuid.UUID]map[uuid.UUID]bool, len(d.participants)),
		apps:         make(map[uuid.UUID]model.JobApplication, len(d.apps)),
		checkins:     make(map[uuid.UUID]model.Checkin, len(d.checkins)),
		checkouts:    make(map[uuid.UUID]model.Checkout, len(d.checkouts)),
		reports:      make(map[uuid.UUID]reportModel.JobReport, len(d.reports)),
		staff:        d.staff,
		companies:    d.companies,
	}
	for k, v := range d.vacancies {
		c.vacancies[k] = v
	}
	for k, set := range d.participants {
		cp := make(map[uuid.UUID]bool, len(set))
		for s := range set {
			cp[s] = true
		}
		c.participants[k] = cp
	}
	for k, v := range d.apps {
		c.apps[k] = v
	}
	for k, v := range d.checkins {
		c.checkins[k] = v
	}
	for k, v := range d.checkouts {
		c.checkouts[k] = v
	}
	for k, v := range d.reports {
		c.reports[k] = v
	}
	return c
}

// fakeStore in-memory; Transaction serial (mirip row lock) dan rollback via snapshot.
type fakeStore struct {
	txMu sync.Mutex
	mu   sync.Mutex
	d    fakeData

	appLocks int
}

func newFakeStore() *fakeStore {
	return &fakeStore{d: fakeData{
		vacancies:    map[uuid.UUID]vacancyModel.Vacancy{},
		jobs:         map[uuid.UUID]vacancyModel.Job{},
		roles:        map[uuid.UUID]vacancyModel.JobRole{},
		participants: map[uuid.UUID]map[uuid.UUID]bool{},
		apps:         map[uuid.UUID]model.JobApplication{},
		checkins:     map[uuid.UUID]model.Checkin{},
		checkouts:    map[uuid.UUID]model.Checkout{},
		reports:      map[uuid.UUID]reportModel.JobReport{},
		staff:        map[uuid.UUID]userModel.Staff{},
		companies:    map[uuid.UUID]userModel.CompanyProfile{},
	}}
}

func (f *fakeStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	f.txMu.Lock()
	defer f.txMu.Unlock()

	f.mu.Lock()
	snap := f.d.clone()
	f.mu.Unlock()

	if err := fn(f); err != nil {
		f.mu.Lock()
		f.d = snap
		f.mu.Unlock()
		return err
	}
	return nil
}

func (f *fakeStore) GetVacancy(_ context.Context, id uuid.UUID) (*vacancyModel.Vacancy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.d.vacancies[id]
	if !ok {
		return nil, apperror.NotFound("Vacancy tidak ditemukan")
	}
	return &v, nil
}

func (f *fakeStore) LockVacancy(ctx context.Context, id uuid.UUID) (*vacancyModel.Vacancy, error) {
	return f.GetVacancy(ctx, id)
}

func (f *fakeStore) GetJob(_ context.Context, id uuid.UUID) (*vacancyModel.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.d.jobs[id]
	if !ok {
		return nil, apperror.NotFound("Job tidak ditemukan")
	}
	return &j, nil
}

func (f *fakeStore) GetJobRole(_ context.Context, id uuid.UUID) (*vacancyModel.JobRole, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.d.roles[id]
	if !ok {
		return nil, apperror.NotFound("Job role tidak ditemukan")
	}
	return &r, nil
}

func (f *fakeStore) CountParticipants(_ context.Context, vacancyID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.d.participants[vacancyID])), nil
}

func (f *fakeStore) AddParticipant(_ context.Context, vacancyID, staffID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	set := f.d.participants[vacancyID]
	if set == nil {
		set = map[uuid.UUID]bool{}
		f.d.participants[vacancyID] = set
	}
	if set[staffID] {
		return apperror.AlreadyProcessed("Staff sudah terdaftar di vacancy ini")
	}
	set[staffID] = true
	return nil
}

func (f *fakeStore) RemoveParticipant(_ context.Context, vacancyID, staffID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.d.participants[vacancyID], staffID)
	return nil
}

func (f *fakeStore) ListOpenVacancies(_ context.Context, today string, offset, limit int) ([]vacancyModel.Vacancy, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []vacancyModel.Vacancy
	for _, v := range f.d.vacancies {
		if v.VacancyStatus == vacancyModel.VacancyStatusActive && v.VacancyCloseDate.Format("2006-01-02") >= today {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].VacancyOpenDate.Equal(out[j].VacancyOpenDate) {
			return out[i].VacancyOpenDate.Before(out[j].VacancyOpenDate)
		}
		return out[i].VacancyStartTime.String() < out[j].VacancyStartTime.String()
	})
	total := int64(len(out))
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func (f *fakeStore) ApplicationsOfStaff(_ context.Context, staffID uuid.UUID, vacancyIDs []uuid.UUID) ([]model.JobApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := make(map[uuid.UUID]bool, len(vacancyIDs))
	for _, id := range vacancyIDs {
		want[id] = true
	}
	var out []model.JobApplication
	for _, a := range f.d.apps {
		if a.JobApplicationStaffID == staffID && want[a.JobApplicationVacancyID] {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) GetApplication(_ context.Context, id uuid.UUID) (*model.JobApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.d.apps[id]
	if !ok {
		return nil, apperror.NotFound("Application tidak ditemukan")
	}
	return &a, nil
}

func (f *fakeStore) LockApplication(ctx context.Context, id uuid.UUID) (*model.JobApplication, error) {
	f.mu.Lock()
	f.appLocks++
	f.mu.Unlock()
	return f.GetApplication(ctx, id)
}

func (f *fakeStore) FindApplication(_ context.Context, vacancyID, staffID uuid.UUID) (*model.JobApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.d.apps {
		if a.JobApplicationVacancyID == vacancyID && a.JobApplicationStaffID == staffID {
			return &a, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateApplication(_ context.Context, a *model.JobApplication) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, x := range f.d.apps {
		if x.JobApplicationVacancyID == a.JobApplicationVacancyID && x.JobApplicationStaffID == a.JobApplicationStaffID {
			return apperror.AlreadyProcessed("Anda sudah melamar vacancy ini")
		}
	}
	f.d.apps[a.JobApplicationID] = *a
	return nil
}

func (f *fakeStore) SaveApplication(_ context.Context, a *model.JobApplication) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.d.apps[a.JobApplicationID] = *a
	return nil
}

func (f *fakeStore) HasScheduleConflict(_ context.Context, staffID, excludeVacancyID uuid.UUID, openDate time.Time, start string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.d.apps {
		if a.JobApplicationStaffID != staffID || a.JobApplicationVacancyID == excludeVacancyID {
			continue
		}
		if a.JobApplicationStatus != model.JobStatusPending && a.JobApplicationStatus != model.JobStatusAccepted {
			continue
		}
		v := f.d.vacancies[a.JobApplicationVacancyID]
		if v.VacancyOpenDate.Format("2006-01-02") == openDate.Format("2006-01-02") && v.VacancyStartTime.String() == start {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ListApplications(_ context.Context, flt ApplicationFilter) ([]model.JobApplication, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.JobApplication
	for _, a := range f.d.apps {
		if flt.VacancyID != nil && a.JobApplicationVacancyID != *flt.VacancyID {
			continue
		}
		if flt.StaffID != nil && a.JobApplicationStaffID != *flt.StaffID {
			continue
		}
		if flt.CompanyID != nil && f.d.vacancies[a.JobApplicationVacancyID].VacancyCompanyID != *flt.CompanyID {
			continue
		}
		if flt.Status != "" && a.JobApplicationStatus != flt.Status {
			continue
		}
		switch flt.Stage {
		case StageAwaitingCheckin:
			if !a.JobApplicationIsApprove || a.JobApplicationCheckinApprove {
				continue
			}
		case StageAwaitingCheckout:
			if !a.JobApplicationCheckinApprove || a.JobApplicationCheckoutApprove {
				continue
			}
		}
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (f *fakeStore) CountApplicationsByStatus(_ context.Context, flt ApplicationFilter) (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]int64{}
	for _, a := range f.d.apps {
		if flt.VacancyID != nil && a.JobApplicationVacancyID != *flt.VacancyID {
			continue
		}
		out[a.JobApplicationStatus]++
	}
	return out, nil
}

func (f *fakeStore) GetCheckin(_ context.Context, id uuid.UUID) (*model.Checkin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.d.checkins[id]
	if !ok {
		return nil, apperror.NotFound("Check-in tidak ditemukan")
	}
	return &c, nil
}

func (f *fakeStore) FindPendingCheckin(_ context.Context, applicationID uuid.UUID) (*model.Checkin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.d.checkins {
		if c.CheckinApplicationID == applicationID && c.CheckinStatus == model.AttendancePending {
			return &c, nil
		}
	}
	return nil, nil
}

// CreateCheckin meniru partial unique index pending per application.
func (f *fakeStore) CreateCheckin(ctx context.Context, c *model.Checkin) error {
	if p, _ := f.FindPendingCheckin(ctx, c.CheckinApplicationID); p != nil {
		return apperror.AlreadyProcessed("Check-in masih menunggu persetujuan")
	}
	return f.SaveCheckin(ctx, c)
}

func (f *fakeStore) SaveCheckin(_ context.Context, c *model.Checkin) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.d.checkins[c.CheckinID] = *c
	return nil
}

func (f *fakeStore) ListPendingCheckins(_ context.Context, companyID uuid.UUID, _, _ int) ([]model.Checkin, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Checkin
	for _, c := range f.d.checkins {
		a := f.d.apps[c.CheckinApplicationID]
		if c.CheckinStatus == model.AttendancePending && f.d.vacancies[a.JobApplicationVacancyID].VacancyCompanyID == companyID {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeStore) GetCheckout(_ context.Context, id uuid.UUID) (*model.Checkout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.d.checkouts[id]
	if !ok {
		return nil, apperror.NotFound("Check-out tidak ditemukan")
	}
	return &c, nil
}

func (f *fakeStore) FindPendingCheckout(_ context.Context, applicationID uuid.UUID) (*model.Checkout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.d.checkouts {
		if c.CheckoutApplicationID == applicationID && c.CheckoutStatus == model.AttendancePending {
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateCheckout(ctx context.Context, c *model.Checkout) error {
	if p, _ := f.FindPendingCheckout(ctx, c.CheckoutApplicationID); p != nil {
		return apperror.AlreadyProcessed("Check-out masih menunggu persetujuan")
	}
	return f.SaveCheckout(ctx, c)
}

func (f *fakeStore) SaveCheckout(_ context.Context, c *model.Checkout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.d.checkouts[c.CheckoutID] = *c
	return nil
}

func (f *fakeStore) ListPendingCheckouts(_ context.Context, companyID uuid.UUID, _, _ int) ([]model.Checkout, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Checkout
	for _, c := range f.d.checkouts {
		a := f.d.apps[c.CheckoutApplicationID]
		if c.CheckoutStatus == model.AttendancePending && f.d.vacancies[a.JobApplicationVacancyID].VacancyCompanyID == companyID {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeStore) CreateReport(_ context.Context, r *reportModel.JobReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.d.reports[r.JobReportApplicationID]; ok {
		return apperror.AlreadyProcessed("Report untuk application ini sudah ada")
	}
	f.d.reports[r.JobReportApplicationID] = *r
	return nil
}

func (f *fakeStore) ReportExists(_ context.Context, applicationID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.d.reports[applicationID]
	return ok, nil
}

func (f *fakeStore) ExpirePendingApplications(_ context.Context, today string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, a := range f.d.apps {
		v, ok := f.d.vacancies[a.JobApplicationVacancyID]
		if !ok || a.JobApplicationStatus != model.JobStatusPending || v.VacancyCloseDate.Format("2006-01-02") >= today {
			continue
		}
		a.JobApplicationStatus = model.JobStatusExpired
		f.d.apps[id] = a
		n++
	}
	return n, nil
}

func (f *fakeStore) GetStaff(_ context.Context, id uuid.UUID) (*userModel.Staff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.d.staff[id]
	if !ok {
		return nil, apperror.NotFound("Staff tidak ditemukan")
	}
	return &s, nil
}

func (f *fakeStore) GetCompany(_ context.Context, id uuid.UUID) (*userModel.CompanyProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.d.companies[id]
	if !ok {
		return nil, apperror.NotFound("Perusahaan tidak ditemukan")
	}
	return &c, nil
}

/* ===================== side channels ===================== */

type sentNote struct {
	UserID  uuid.UUID
	Message string
}

type fakeNotifier struct {
	mu    sync.Mutex
	notes []sentNote
}

func (n *fakeNotifier) Notify(_ context.Context, userID uuid.UUID, message, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, sentNote{UserID: userID, Message: message})
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.notes)
}

type fakeContracts struct {
	mu   sync.Mutex
	jobs []ContractJob
}

func (c *fakeContracts) Send(job ContractJob) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.jobs = append(c.jobs, job)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
