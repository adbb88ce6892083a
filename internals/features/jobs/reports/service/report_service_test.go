package service

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"letme_backend/internals/features/jobs/reports/model"
	"letme_backend/internals/helpers/apperror"
)

type fakeRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]model.JobReport
}

func newFakeRepo(rows ...model.JobReport) *fakeRepo {
	f := &fakeRepo{rows: map[uuid.UUID]model.JobReport{}}
	for _, r := range rows {
		f.rows[r.JobReportID] = r
	}
	return f
}

func (f *fakeRepo) Get(_ context.Context, id uuid.UUID) (*model.JobReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return nil, apperror.NotFound("Report tidak ditemukan")
	}
	return &r, nil
}

func (f *fakeRepo) GetByApplication(_ context.Context, applicationID uuid.UUID) (*model.JobReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.JobReportApplicationID == applicationID {
			return &r, nil
		}
	}
	return nil, apperror.NotFound("Report tidak ditemukan")
}

func (f *fakeRepo) IncrementTips(_ context.Context, id uuid.UUID, amount int64) (*model.JobReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.rows[id]
	r.JobReportTips += amount
	f.rows[id] = r
	return &r, nil
}

func (f *fakeRepo) List(_ context.Context, flt ListFilter) ([]model.JobReport, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.JobReport
	for _, r := range f.rows {
		if flt.CompanyID != nil && r.JobReportCompanyID != *flt.CompanyID {
			continue
		}
		if flt.StaffID != nil && r.JobReportStaffID != *flt.StaffID {
			continue
		}
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

func quiet() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func sampleReport() model.JobReport {
	r := model.JobReport{
		JobReportID:            uuid.New(),
		JobReportApplicationID: uuid.New(),
		JobReportCompanyID:     uuid.New(),
		JobReportStaffID:       uuid.New(),
	}
	GenerateReport(at(9, 0), at(17, 0), 1500).Apply(&r)
	return r
}

func TestAddTipsIncrementsWithoutTouchingTotal(t *testing.T) {
	rep := sampleReport()
	svc := NewReportService(newFakeRepo(rep), quiet())

	got, err := svc.AddTips(context.Background(), rep.JobReportCompanyID, rep.JobReportID, 500)
	require.NoError(t, err)
	got, err = svc.AddTips(context.Background(), rep.JobReportCompanyID, rep.JobReportID, 250)
	require.NoError(t, err)

	assert.Equal(t, int64(750), got.JobReportTips)
	assert.Equal(t, int64(12000), got.JobReportTotalPay)
}

func TestAddTipsRejectsNonPositive(t *testing.T) {
	rep := sampleReport()
	svc := NewReportService(newFakeRepo(rep), quiet())

	for _, amt := range []int64{0, -100} {
		_, err := svc.AddTips(context.Background(), rep.JobReportCompanyID, rep.JobReportID, amt)
		assert.ErrorIs(t, err, apperror.ErrValidation)
	}
}

func TestAddTipsByOtherCompanyIsForbidden(t *testing.T) {
	rep := sampleReport()
	svc := NewReportService(newFakeRepo(rep), quiet())

	_, err := svc.AddTips(context.Background(), uuid.New(), rep.JobReportID, 100)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestReportVisibility(t *testing.T) {
	rep := sampleReport()
	svc := NewReportService(newFakeRepo(rep), quiet())

	_, err := svc.GetForActor(context.Background(), rep.JobReportID, nil, &rep.JobReportStaffID)
	assert.NoError(t, err)
	_, err = svc.GetByApplication(context.Background(), rep.JobReportApplicationID, &rep.JobReportCompanyID, nil)
	assert.NoError(t, err)

	other := uuid.New()
	_, err = svc.GetForActor(context.Background(), rep.JobReportID, &other, &other)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, _, err = svc.List(context.Background(), ListFilter{})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}
