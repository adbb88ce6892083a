package service

import (
	"context"

	"github.com/google/uuid"

	"letme_backend/internals/features/users/model"
	"letme_backend/internals/features/users/profiles/dto"
)

// Repository Find* mengembalikan nil,nil kalau belum ada profil.
type Repository interface {
	FindCompanyByUser(ctx context.Context, userID uuid.UUID) (*model.CompanyProfile, error)
	FindStaffByUser(ctx context.Context, userID uuid.UUID) (*model.Staff, error)
	SaveCompany(ctx context.Context, m *model.CompanyProfile) error
	SaveStaff(ctx context.Context, m *model.Staff) error
}

// ProfileService profil company/staff milik satu user (akun dikelola layanan auth terpisah).
type ProfileService struct {
	repo Repository
}

func NewProfileService(repo Repository) *ProfileService {
	return &ProfileService{repo: repo}
}

func (s *ProfileService) Me(ctx context.Context, userID uuid.UUID) (*dto.MeResponse, error) {
	c, err := s.repo.FindCompanyByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	st, err := s.repo.FindStaffByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.MeResponse{Company: c, Staff: st}, nil
}

func (s *ProfileService) UpsertCompany(ctx context.Context, userID uuid.UUID, req dto.UpsertProfileRequest) (*model.CompanyProfile, error) {
	m, err := s.repo.FindCompanyByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = &model.CompanyProfile{CompanyID: uuid.New(), CompanyUserID: userID}
	}
	req.ApplyCompany(m)
	if err := s.repo.SaveCompany(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *ProfileService) UpsertStaff(ctx context.Context, userID uuid.UUID, req dto.UpsertProfileRequest) (*model.Staff, error) {
	m, err := s.repo.FindStaffByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = &model.Staff{StaffID: uuid.New(), StaffUserID: userID}
	}
	req.ApplyStaff(m)
	if err := s.repo.SaveStaff(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}
