package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"letme_backend/internals/features/jobs/applications/model"
	reportModel "letme_backend/internals/features/jobs/reports/model"
	vacancyModel "letme_backend/internals/features/jobs/vacancies/model"
	userModel "letme_backend/internals/features/users/model"
)

// Stage filter tambahan untuk listing application.
const (
	StageAll              = ""
	StageAwaitingCheckin  = "awaiting_checkin"
	StageAwaitingCheckout = "awaiting_checkout"
)

type ApplicationFilter struct {
	CompanyID *uuid.UUID
	VacancyID *uuid.UUID
	StaffID   *uuid.UUID
	Status    string
	Stage     string
	Offset    int
	Limit     int
}

// Store persistence state machine. Method Get* mengembalikan apperror NotFound,
// Find* mengembalikan nil,nil kalau tidak ada.
type Store interface {
	// Transaction menjalankan fn dalam satu transaksi; error dari fn me-rollback.
	Transaction(ctx context.Context, fn func(tx Store) error) error

	GetVacancy(ctx context.Context, id uuid.UUID) (*vacancyModel.Vacancy, error)
	// LockVacancy SELECT ... FOR UPDATE; serialisasi approval per vacancy.
	LockVacancy(ctx context.Context, id uuid.UUID) (*vacancyModel.Vacancy, error)
	GetJob(ctx context.Context, id uuid.UUID) (*vacancyModel.Job, error)
	GetJobRole(ctx context.Context, id uuid.UUID) (*vacancyModel.JobRole, error)
	CountParticipants(ctx context.Context, vacancyID uuid.UUID) (int64, error)
	// ListOpenVacancies vacancy active dengan close_date >= today.
	ListOpenVacancies(ctx context.Context, today string, offset, limit int) ([]vacancyModel.Vacancy, int64, error)
	AddParticipant(ctx context.Context, vacancyID, staffID uuid.UUID) error
	RemoveParticipant(ctx context.Context, vacancyID, staffID uuid.UUID) error

	GetApplication(ctx context.Context, id uuid.UUID) (*model.JobApplication, error)
	// LockApplication SELECT ... FOR UPDATE; serialisasi check-in/check-out per application.
	LockApplication(ctx context.Context, id uuid.UUID) (*model.JobApplication, error)
	FindApplication(ctx context.Context, vacancyID, staffID uuid.UUID) (*model.JobApplication, error)
	CreateApplication(ctx context.Context, a *model.JobApplication) error
	SaveApplication(ctx context.Context, a *model.JobApplication) error
	// HasScheduleConflict: staff punya application pending/accepted di vacancy lain
	// dengan open_date & start_time sama.
	HasScheduleConflict(ctx context.Context, staffID, excludeVacancyID uuid.UUID, openDate time.Time, start string) (bool, error)
	ListApplications(ctx context.Context, f ApplicationFilter) ([]model.JobApplication, int64, error)
	ApplicationsOfStaff(ctx context.Context, staffID uuid.UUID, vacancyIDs []uuid.UUID) ([]model.JobApplication, error)
	CountApplicationsByStatus(ctx context.Context, f ApplicationFilter) (map[string]int64, error)

	GetCheckin(ctx context.Context, id uuid.UUID) (*model.Checkin, error)
	FindPendingCheckin(ctx context.Context, applicationID uuid.UUID) (*model.Checkin, error)
	// CreateCheckin/CreateCheckout: pending kedua untuk application yang sama jadi AlreadyProcessed.
	CreateCheckin(ctx context.Context, c *model.Checkin) error
	SaveCheckin(ctx context.Context, c *model.Checkin) error
	ListPendingCheckins(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]model.Checkin, int64, error)

	GetCheckout(ctx context.Context, id uuid.UUID) (*model.Checkout, error)
	FindPendingCheckout(ctx context.Context, applicationID uuid.UUID) (*model.Checkout, error)
	CreateCheckout(ctx context.Context, c *model.Checkout) error
	SaveCheckout(ctx context.Context, c *model.Checkout) error
	ListPendingCheckouts(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]model.Checkout, int64, error)

	// CreateReport: unique violation dikembalikan sebagai apperror AlreadyProcessed.
	CreateReport(ctx context.Context, r *reportModel.JobReport) error
	ReportExists(ctx context.Context, applicationID uuid.UUID) (bool, error)

	// ExpirePendingApplications: pending di vacancy yang close_date < today jadi expired.
	ExpirePendingApplications(ctx context.Context, today string) (int64, error)

	GetStaff(ctx context.Context, id uuid.UUID) (*userModel.Staff, error)
	GetCompany(ctx context.Context, id uuid.UUID) (*userModel.CompanyProfile, error)
}

// Notifier kirim notifikasi in-app. Implementasi tidak boleh memblokir caller.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, message, link string)
}

// ContractJob data yang dibutuhkan untuk membuat & mengirim kontrak kerja.
type ContractJob struct {
	ApplicationID uuid.UUID
	CompanyName   string
	StaffName     string
	StaffEmail    string
	JobTitle      string
	RoleName      string
	Location      string
	OpenDate      time.Time
	StartTime     string
	EndTime       string
	HourlyRate    int64
}

// ContractSender fire-and-forget; kegagalan hanya di-log.
type ContractSender interface {
	Send(job ContractJob)
}
