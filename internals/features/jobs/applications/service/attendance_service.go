package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"letme_backend/internals/features/jobs/applications/model"
	reportModel "letme_backend/internals/features/jobs/reports/model"
	reportService "letme_backend/internals/features/jobs/reports/service"
	vacancyModel "letme_backend/internals/features/jobs/vacancies/model"
	"letme_backend/internals/helpers/apperror"
)

/* ===================== Staff side ===================== */

// RequestCheckin staff mengajukan check-in; at nol berarti sekarang.
func (s *ApplicationService) RequestCheckin(ctx context.Context, staffID, applicationID uuid.UUID, location string, at time.Time) (*model.Checkin, error) {
	var (
		ci  *model.Checkin
		box outbox
	)
	err := s.store.Transaction(ctx, func(tx Store) error {
		app, v, err := s.staffApplication(ctx, tx, staffID, applicationID)
		if err != nil {
			return err
		}
		if !app.JobApplicationIsApprove || app.JobApplicationStatus != model.JobStatusAccepted {
			return apperror.Validation("Application belum diterima")
		}
		if app.JobApplicationCheckinApprove {
			return apperror.AlreadyProcessed("Check-in sudah disetujui")
		}
		pending, err := tx.FindPendingCheckin(ctx, applicationID)
		if err != nil {
			return err
		}
		if pending != nil {
			return apperror.AlreadyProcessed("Check-in masih menunggu persetujuan")
		}

		ci = &model.Checkin{
			CheckinID:            uuid.New(),
			CheckinApplicationID: applicationID,
			CheckinTime:          s.at(at),
			CheckinLocation:      strings.TrimSpace(location),
			CheckinStatus:        model.AttendancePending,
		}
		if err := tx.CreateCheckin(ctx, ci); err != nil {
			return err
		}
		return s.notifyCompany(ctx, tx, &box, v, "Staff mengajukan check-in", applicationID)
	})
	if err != nil {
		return nil, err
	}
	s.flush(ctx, &box)
	return ci, nil
}

func (s *ApplicationService) RequestCheckout(ctx context.Context, staffID, applicationID uuid.UUID, location string, at time.Time) (*model.Checkout, error) {
	var (
		co  *model.Checkout
		box outbox
	)
	err := s.store.Transaction(ctx, func(tx Store) error {
		app, v, err := s.staffApplication(ctx, tx, staffID, applicationID)
		if err != nil {
			return err
		}
		if !app.JobApplicationCheckinApprove {
			return apperror.Validation("Check-in belum disetujui")
		}
		if app.JobApplicationCheckoutApprove {
			return apperror.AlreadyProcessed("Check-out sudah disetujui")
		}
		pending, err := tx.FindPendingCheckout(ctx, applicationID)
		if err != nil {
			return err
		}
		if pending != nil {
			return apperror.AlreadyProcessed("Check-out masih menunggu persetujuan")
		}

		co = &model.Checkout{
			CheckoutID:            uuid.New(),
			CheckoutApplicationID: applicationID,
			CheckoutTime:          s.at(at),
			CheckoutLocation:      strings.TrimSpace(location),
			CheckoutStatus:        model.AttendancePending,
		}
		if err := tx.CreateCheckout(ctx, co); err != nil {
			return err
		}
		return s.notifyCompany(ctx, tx, &box, v, "Staff mengajukan check-out", applicationID)
	})
	if err != nil {
		return nil, err
	}
	s.flush(ctx, &box)
	return co, nil
}

/* ===================== Company side ===================== */

// ApproveCheckin; at nol berarti pakai waktu yang diajukan staff.
func (s *ApplicationService) ApproveCheckin(ctx context.Context, companyID, checkinID uuid.UUID, at time.Time, approved bool) (*model.JobApplication, error) {
	var (
		app *model.JobApplication
		box outbox
	)
	err := s.store.Transaction(ctx, func(tx Store) error {
		ci, err := tx.GetCheckin(ctx, checkinID)
		if err != nil {
			return err
		}
		app, err = s.companyApplication(ctx, tx, companyID, ci.CheckinApplicationID)
		if err != nil {
			return err
		}
		// baca ulang setelah lock application; approval paralel mungkin sudah commit
		if ci, err = tx.GetCheckin(ctx, checkinID); err != nil {
			return err
		}
		if !app.JobApplicationIsApprove {
			return apperror.Validation("Application belum diterima")
		}
		if app.JobApplicationCheckinApprove || ci.CheckinStatus != model.AttendancePending {
			return apperror.AlreadyProcessed("Check-in sudah diproses")
		}

		now := s.now()
		ci.CheckinReviewedAt = &now
		if !approved {
			ci.CheckinStatus = model.AttendanceDeclined
			if err := tx.SaveCheckin(ctx, ci); err != nil {
				return err
			}
			return s.notifyStaff(ctx, tx, &box, app, "Check-in Anda ditolak")
		}

		in := ci.CheckinTime
		if !at.IsZero() {
			in = at
		}
		loc := ci.CheckinLocation
		app.JobApplicationInTime = &in
		app.JobApplicationCheckinLocation = &loc
		app.JobApplicationCheckinApprove = true
		app.RecomputeWorkingTime()
		ci.CheckinStatus = model.AttendanceApproved

		if err := tx.SaveCheckin(ctx, ci); err != nil {
			return err
		}
		if err := tx.SaveApplication(ctx, app); err != nil {
			return err
		}
		return s.notifyStaff(ctx, tx, &box, app, "Check-in Anda disetujui")
	})
	if err != nil {
		return nil, err
	}
	s.flush(ctx, &box)
	return app, nil
}

// ApproveCheckout menyelesaikan application dan membuat tepat satu JobReport dalam transaksi yang sama.
func (s *ApplicationService) ApproveCheckout(ctx context.Context, companyID, checkoutID uuid.UUID, at time.Time, approved bool) (*model.JobApplication, *reportModel.JobReport, error) {
	var (
		app    *model.JobApplication
		report *reportModel.JobReport
		box    outbox
	)
	err := s.store.Transaction(ctx, func(tx Store) error {
		co, err := tx.GetCheckout(ctx, checkoutID)
		if err != nil {
			return err
		}
		app, err = s.companyApplication(ctx, tx, companyID, co.CheckoutApplicationID)
		if err != nil {
			return err
		}
		if co, err = tx.GetCheckout(ctx, checkoutID); err != nil {
			return err
		}
		if !app.JobApplicationCheckinApprove {
			return apperror.Validation("Check-in belum disetujui")
		}
		if app.JobApplicationCheckoutApprove || co.CheckoutStatus != model.AttendancePending {
			return apperror.AlreadyProcessed("Check-out sudah diproses")
		}

		now := s.now()
		co.CheckoutReviewedAt = &now
		if !approved {
			co.CheckoutStatus = model.AttendanceDeclined
			if err := tx.SaveCheckout(ctx, co); err != nil {
				return err
			}
			return s.notifyStaff(ctx, tx, &box, app, "Check-out Anda ditolak")
		}

		out := co.CheckoutTime
		if !at.IsZero() {
			out = at
		}
		if app.JobApplicationInTime == nil {
			return apperror.Validation("in_time belum tercatat")
		}
		if out.Before(*app.JobApplicationInTime) {
			return apperror.Validation("Waktu check-out sebelum waktu check-in")
		}

		exists, err := tx.ReportExists(ctx, app.JobApplicationID)
		if err != nil {
			return err
		}
		if exists {
			return apperror.AlreadyProcessed("Report untuk application ini sudah ada")
		}

		loc := co.CheckoutLocation
		app.JobApplicationOutTime = &out
		app.JobApplicationCheckoutLocation = &loc
		app.JobApplicationCheckoutApprove = true
		app.JobApplicationStatus = model.JobStatusCompleted
		app.RecomputeWorkingTime()
		co.CheckoutStatus = model.AttendanceApproved

		if err := tx.SaveCheckout(ctx, co); err != nil {
			return err
		}
		if err := tx.SaveApplication(ctx, app); err != nil {
			return err
		}

		v, err := tx.GetVacancy(ctx, app.JobApplicationVacancyID)
		if err != nil {
			return err
		}
		role, err := tx.GetJobRole(ctx, v.VacancyJobRoleID)
		if err != nil {
			return err
		}
		report = &reportModel.JobReport{
			JobReportID:            uuid.New(),
			JobReportApplicationID: app.JobApplicationID,
			JobReportCompanyID:     v.VacancyCompanyID,
			JobReportStaffID:       app.JobApplicationStaffID,
		}
		reportService.GenerateReport(*app.JobApplicationInTime, out, role.JobRoleStaffPrice).Apply(report)
		if err := tx.CreateReport(ctx, report); err != nil {
			return err
		}
		return s.notifyStaff(ctx, tx, &box, app, "Check-out Anda disetujui, laporan kerja sudah dibuat")
	})
	if err != nil {
		return nil, nil, err
	}
	s.flush(ctx, &box)
	return app, report, nil
}

func (s *ApplicationService) ListPendingCheckins(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]model.Checkin, int64, error) {
	return s.store.ListPendingCheckins(ctx, companyID, offset, limit)
}

func (s *ApplicationService) ListPendingCheckouts(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]model.Checkout, int64, error) {
	return s.store.ListPendingCheckouts(ctx, companyID, offset, limit)
}

/* ===================== helpers ===================== */

func (s *ApplicationService) at(t time.Time) time.Time {
	if t.IsZero() {
		return s.now()
	}
	return t
}

// staffApplication & companyApplication mengunci row application sampai transaksi selesai.
func (s *ApplicationService) staffApplication(ctx context.Context, tx Store, staffID, applicationID uuid.UUID) (*model.JobApplication, *vacancyModel.Vacancy, error) {
	app, err := tx.LockApplication(ctx, applicationID)
	if err != nil {
		return nil, nil, err
	}
	if app.JobApplicationStaffID != staffID {
		return nil, nil, apperror.Forbidden("Application bukan milik Anda")
	}
	v, err := tx.GetVacancy(ctx, app.JobApplicationVacancyID)
	if err != nil {
		return nil, nil, err
	}
	return app, v, nil
}

func (s *ApplicationService) companyApplication(ctx context.Context, tx Store, companyID, applicationID uuid.UUID) (*model.JobApplication, error) {
	app, err := tx.LockApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	v, err := tx.GetVacancy(ctx, app.JobApplicationVacancyID)
	if err != nil {
		return nil, err
	}
	if v.VacancyCompanyID != companyID {
		return nil, apperror.Forbidden("Vacancy bukan milik perusahaan Anda")
	}
	return app, nil
}

func (s *ApplicationService) notifyStaff(ctx context.Context, tx Store, box *outbox, app *model.JobApplication, msg string) error {
	staff, err := tx.GetStaff(ctx, app.JobApplicationStaffID)
	if err != nil {
		return err
	}
	box.notify(staff.StaffUserID, msg, applicationLink(app.JobApplicationID))
	return nil
}

func (s *ApplicationService) notifyCompany(ctx context.Context, tx Store, box *outbox, v *vacancyModel.Vacancy, msg string, applicationID uuid.UUID) error {
	company, err := tx.GetCompany(ctx, v.VacancyCompanyID)
	if err != nil {
		return err
	}
	box.notify(company.CompanyUserID, msg, applicationLink(applicationID))
	return nil
}
