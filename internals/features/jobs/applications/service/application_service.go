package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"letme_backend/internals/features/jobs/applications/model"
	vacancyModel "letme_backend/internals/features/jobs/vacancies/model"
	"letme_backend/internals/helpers/apperror"
	"letme_backend/internals/helpers/dbtime"
)

type ApplicationService struct {
	store     Store
	notifier  Notifier
	contracts ContractSender
	now       func() time.Time
	log       *logrus.Entry
}

func NewApplicationService(store Store, notifier Notifier, contracts ContractSender, log *logrus.Logger) *ApplicationService {
	return &ApplicationService{
		store:     store,
		notifier:  notifier,
		contracts: contracts,
		now:       time.Now,
		log:       log.WithField("module", "applications"),
	}
}

// WithClock ganti sumber waktu (tests).
func (s *ApplicationService) WithClock(now func() time.Time) *ApplicationService {
	s.now = now
	return s
}

// outbox menampung notifikasi yang baru dikirim setelah commit.
type outbox struct {
	notes    []note
	contract *ContractJob
}

type note struct {
	userID  uuid.UUID
	message string
	link    string
}

func (o *outbox) notify(userID uuid.UUID, message, link string) {
	o.notes = append(o.notes, note{userID: userID, message: message, link: link})
}

func (s *ApplicationService) flush(ctx context.Context, o *outbox) {
	for _, n := range o.notes {
		s.notifier.Notify(ctx, n.userID, n.message, n.link)
	}
	if o.contract != nil {
		s.contracts.Send(*o.contract)
	}
}

func applicationLink(id uuid.UUID) string {
	return "/applications/" + id.String()
}

/* ===================== Apply ===================== */

func (s *ApplicationService) Apply(ctx context.Context, staffID, vacancyID uuid.UUID) (*model.JobApplication, error) {
	var (
		app *model.JobApplication
		box outbox
	)
	err := s.store.Transaction(ctx, func(tx Store) error {
		v, err := tx.GetVacancy(ctx, vacancyID)
		if err != nil {
			return err
		}
		if v.VacancyStatus != vacancyModel.VacancyStatusActive {
			return apperror.Validation("Vacancy tidak sedang menerima lamaran")
		}
		if dbtime.IsPastDate(v.VacancyCloseDate, s.now()) {
			return apperror.Expired("Vacancy sudah ditutup")
		}

		existing, err := tx.FindApplication(ctx, vacancyID, staffID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperror.AlreadyProcessed("Anda sudah melamar vacancy ini")
		}

		n, err := tx.CountParticipants(ctx, vacancyID)
		if err != nil {
			return err
		}
		if n >= int64(v.VacancyNumberOfStaff) {
			return apperror.Capacity("Kuota staff vacancy sudah penuh")
		}

		clash, err := tx.HasScheduleConflict(ctx, staffID, vacancyID, v.VacancyOpenDate, v.VacancyStartTime.String())
		if err != nil {
			return err
		}
		if clash {
			return apperror.Conflict("Jadwal bentrok dengan lamaran lain di tanggal & jam yang sama")
		}

		app = &model.JobApplication{
			JobApplicationID:        uuid.New(),
			JobApplicationVacancyID: vacancyID,
			JobApplicationStaffID:   staffID,
			JobApplicationStatus:    model.JobStatusPending,
		}
		if err := tx.CreateApplication(ctx, app); err != nil {
			return err
		}

		return s.notifyCompany(ctx, tx, &box, v, "Ada pelamar baru untuk vacancy Anda", app.JobApplicationID)
	})
	if err != nil {
		return nil, err
	}
	s.flush(ctx, &box)
	return app, nil
}

/* ===================== Approve / Reject ===================== */

func (s *ApplicationService) Approve(ctx context.Context, companyID, applicationID uuid.UUID) (*model.JobApplication, error) {
	var (
		app *model.JobApplication
		box outbox
	)
	err := s.store.Transaction(ctx, func(tx Store) error {
		first, err := tx.GetApplication(ctx, applicationID)
		if err != nil {
			return err
		}
		v, err := tx.LockVacancy(ctx, first.JobApplicationVacancyID)
		if err != nil {
			return err
		}
		if v.VacancyCompanyID != companyID {
			return apperror.Forbidden("Vacancy bukan milik perusahaan Anda")
		}
		// baca ulang setelah lock; approval paralel atas application yang sama sudah commit
		app, err = tx.GetApplication(ctx, applicationID)
		if err != nil {
			return err
		}
		if app.JobApplicationIsApprove || app.IsTerminal() || app.JobApplicationStatus != model.JobStatusPending {
			return apperror.AlreadyProcessed(fmt.Sprintf("Application sudah diproses (%s)", app.JobApplicationStatus))
		}
		if dbtime.IsPastDate(v.VacancyCloseDate, s.now()) {
			return apperror.Expired("Vacancy sudah ditutup")
		}

		n, err := tx.CountParticipants(ctx, v.VacancyID)
		if err != nil {
			return err
		}
		if n >= int64(v.VacancyNumberOfStaff) {
			return apperror.Capacity("Kuota staff vacancy sudah penuh")
		}
		if err := tx.AddParticipant(ctx, v.VacancyID, app.JobApplicationStaffID); err != nil {
			return err
		}

		app.JobApplicationStatus = model.JobStatusAccepted
		app.JobApplicationIsApprove = true
		if err := tx.SaveApplication(ctx, app); err != nil {
			return err
		}

		staff, err := tx.GetStaff(ctx, app.JobApplicationStaffID)
		if err != nil {
			return err
		}
		box.notify(staff.StaffUserID, "Lamaran Anda diterima", applicationLink(app.JobApplicationID))

		job, err := s.contractJob(ctx, tx, v, app)
		if err != nil {
			// kontrak side channel; approval tetap jalan
			s.log.WithError(err).WithField("application_id", app.JobApplicationID).Warn("contract data incomplete")
			return nil
		}
		job.StaffName, job.StaffEmail = staff.StaffName, staff.StaffEmail
		box.contract = job
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.flush(ctx, &box)
	return app, nil
}

func (s *ApplicationService) contractJob(ctx context.Context, tx Store, v *vacancyModel.Vacancy, app *model.JobApplication) (*ContractJob, error) {
	company, err := tx.GetCompany(ctx, v.VacancyCompanyID)
	if err != nil {
		return nil, err
	}
	job, err := tx.GetJob(ctx, v.VacancyJobID)
	if err != nil {
		return nil, err
	}
	role, err := tx.GetJobRole(ctx, v.VacancyJobRoleID)
	if err != nil {
		return nil, err
	}
	return &ContractJob{
		ApplicationID: app.JobApplicationID,
		CompanyName:   company.CompanyName,
		JobTitle:      job.JobTitle,
		RoleName:      role.JobRoleName,
		Location:      v.VacancyLocation,
		OpenDate:      v.VacancyOpenDate,
		StartTime:     v.VacancyStartTime.String(),
		EndTime:       v.VacancyEndTime.String(),
		HourlyRate:    role.JobRoleStaffPrice,
	}, nil
}

// Reject tidak mengirim notifikasi ke pelamar.
func (s *ApplicationService) Reject(ctx context.Context, companyID, applicationID uuid.UUID) (*model.JobApplication, error) {
	var app *model.JobApplication
	err := s.store.Transaction(ctx, func(tx Store) error {
		first, err := tx.GetApplication(ctx, applicationID)
		if err != nil {
			return err
		}
		v, err := tx.LockVacancy(ctx, first.JobApplicationVacancyID)
		if err != nil {
			return err
		}
		if v.VacancyCompanyID != companyID {
			return apperror.Forbidden("Vacancy bukan milik perusahaan Anda")
		}
		app, err = tx.GetApplication(ctx, applicationID)
		if err != nil {
			return err
		}
		switch {
		case app.IsTerminal(), app.JobApplicationStatus == model.JobStatusCompleted:
			return apperror.AlreadyProcessed(fmt.Sprintf("Application sudah diproses (%s)", app.JobApplicationStatus))
		case app.JobApplicationCheckinApprove:
			return apperror.AlreadyProcessed("Staff sudah check-in, application tidak bisa ditolak")
		}

		if app.JobApplicationIsApprove {
			// lepas slot yang sudah terpakai
			if err := tx.RemoveParticipant(ctx, v.VacancyID, app.JobApplicationStaffID); err != nil {
				return err
			}
		}
		app.JobApplicationStatus = model.JobStatusRejected
		app.JobApplicationIsApprove = false
		return tx.SaveApplication(ctx, app)
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

/* ===================== Queries ===================== */

func (s *ApplicationService) Get(ctx context.Context, applicationID uuid.UUID) (*model.JobApplication, error) {
	return s.store.GetApplication(ctx, applicationID)
}

// GetForActor: staff pemilik atau company pemilik vacancy.
func (s *ApplicationService) GetForActor(ctx context.Context, applicationID uuid.UUID, companyID, staffID *uuid.UUID) (*model.JobApplication, error) {
	app, err := s.store.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if staffID != nil && app.JobApplicationStaffID == *staffID {
		return app, nil
	}
	if companyID != nil {
		v, err := s.store.GetVacancy(ctx, app.JobApplicationVacancyID)
		if err != nil {
			return nil, err
		}
		if v.VacancyCompanyID == *companyID {
			return app, nil
		}
	}
	return nil, apperror.Forbidden("Tidak punya akses ke application ini")
}

func (s *ApplicationService) List(ctx context.Context, f ApplicationFilter) ([]model.JobApplication, int64, error) {
	if f.VacancyID != nil && f.CompanyID != nil {
		v, err := s.store.GetVacancy(ctx, *f.VacancyID)
		if err != nil {
			return nil, 0, err
		}
		if v.VacancyCompanyID != *f.CompanyID {
			return nil, 0, apperror.Forbidden("Vacancy bukan milik perusahaan Anda")
		}
	}
	return s.store.ListApplications(ctx, f)
}

// FeedItem vacancy terbuka beserta lamaran staff itu sendiri (nil kalau belum melamar).
type FeedItem struct {
	Vacancy     vacancyModel.Vacancy
	Application *model.JobApplication
}

// Feed daftar vacancy yang masih menerima lamaran untuk staff.
func (s *ApplicationService) Feed(ctx context.Context, staffID uuid.UUID, offset, limit int) ([]FeedItem, int64, error) {
	today := dbtime.DateOnly(s.now().In(dbtime.Location())).Format("2006-01-02")
	vacancies, total, err := s.store.ListOpenVacancies(ctx, today, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	if len(vacancies) == 0 {
		return []FeedItem{}, total, nil
	}
	ids := make([]uuid.UUID, len(vacancies))
	for i := range vacancies {
		ids[i] = vacancies[i].VacancyID
	}
	mine, err := s.store.ApplicationsOfStaff(ctx, staffID, ids)
	if err != nil {
		return nil, 0, err
	}
	byVacancy := make(map[uuid.UUID]*model.JobApplication, len(mine))
	for i := range mine {
		byVacancy[mine[i].JobApplicationVacancyID] = &mine[i]
	}

	out := make([]FeedItem, len(vacancies))
	for i, v := range vacancies {
		out[i] = FeedItem{Vacancy: v, Application: byVacancy[v.VacancyID]}
	}
	return out, total, nil
}

// SummaryStatuses urutan status di ringkasan per vacancy.
var SummaryStatuses = []string{
	model.JobStatusPending, model.JobStatusAccepted, model.JobStatusRejected,
	model.JobStatusExpired, model.JobStatusLate, model.JobStatusCompleted,
}

// ExpireStale dipanggil scheduler: lamaran yang tidak diproses sampai close_date lewat jadi expired.
func (s *ApplicationService) ExpireStale(ctx context.Context) (int64, error) {
	today := dbtime.DateOnly(s.now().In(dbtime.Location())).Format("2006-01-02")
	n, err := s.store.ExpirePendingApplications(ctx, today)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.WithField("count", n).Info("pending applications expired")
	}
	return n, nil
}

// Summary jumlah application per status untuk satu vacancy; status kosong bernilai 0.
func (s *ApplicationService) Summary(ctx context.Context, companyID, vacancyID uuid.UUID) (map[string]int64, error) {
	v, err := s.store.GetVacancy(ctx, vacancyID)
	if err != nil {
		return nil, err
	}
	if v.VacancyCompanyID != companyID {
		return nil, apperror.Forbidden("Vacancy bukan milik perusahaan Anda")
	}
	raw, err := s.store.CountApplicationsByStatus(ctx, ApplicationFilter{VacancyID: &vacancyID})
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(SummaryStatuses)+1)
	var total int64
	for _, st := range SummaryStatuses {
		out[st] = raw[st]
		total += raw[st]
	}
	out["total"] = total
	return out, nil
}
