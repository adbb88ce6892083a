package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"letme_backend/internals/features/jobs/reports/model"
	"letme_backend/internals/helpers/apperror"
)

type ListFilter struct {
	CompanyID *uuid.UUID
	StaffID   *uuid.UUID
	Offset    int
	Limit     int
}

type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.JobReport, error)
	GetByApplication(ctx context.Context, applicationID uuid.UUID) (*model.JobReport, error)
	// IncrementTips tips = tips + amount secara atomik.
	IncrementTips(ctx context.Context, id uuid.UUID, amount int64) (*model.JobReport, error)
	List(ctx context.Context, f ListFilter) ([]model.JobReport, int64, error)
}

type ReportService struct {
	repo Repository
	log  *logrus.Entry
}

func NewReportService(repo Repository, log *logrus.Logger) *ReportService {
	return &ReportService{repo: repo, log: log.WithField("module", "reports")}
}

// AddTips hanya oleh company pemilik report; amount dalam cents dan harus positif.
// Total pay tidak ikut berubah.
func (s *ReportService) AddTips(ctx context.Context, companyID, reportID uuid.UUID, amount int64) (*model.JobReport, error) {
	if amount <= 0 {
		return nil, apperror.Validation("Jumlah tips harus lebih dari 0")
	}
	r, err := s.repo.Get(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if r.JobReportCompanyID != companyID {
		return nil, apperror.Forbidden("Report bukan milik perusahaan Anda")
	}
	out, err := s.repo.IncrementTips(ctx, reportID, amount)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"report_id": reportID, "amount": amount}).Info("tips added")
	return out, nil
}

// GetForActor: company atau staff pada report.
func (s *ReportService) GetForActor(ctx context.Context, reportID uuid.UUID, companyID, staffID *uuid.UUID) (*model.JobReport, error) {
	r, err := s.repo.Get(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if !canSee(r, companyID, staffID) {
		return nil, apperror.Forbidden("Tidak punya akses ke report ini")
	}
	return r, nil
}

func (s *ReportService) GetByApplication(ctx context.Context, applicationID uuid.UUID, companyID, staffID *uuid.UUID) (*model.JobReport, error) {
	r, err := s.repo.GetByApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if !canSee(r, companyID, staffID) {
		return nil, apperror.Forbidden("Tidak punya akses ke report ini")
	}
	return r, nil
}

func (s *ReportService) List(ctx context.Context, f ListFilter) ([]model.JobReport, int64, error) {
	if f.CompanyID == nil && f.StaffID == nil {
		return nil, 0, apperror.Forbidden("Filter company atau staff wajib")
	}
	return s.repo.List(ctx, f)
}

func canSee(r *model.JobReport, companyID, staffID *uuid.UUID) bool {
	if companyID != nil && r.JobReportCompanyID == *companyID {
		return true
	}
	return staffID != nil && r.JobReportStaffID == *staffID
}
