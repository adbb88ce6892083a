package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"letme_backend/internals/features/users/model"
	"letme_backend/internals/features/users/profiles/service"
	"letme_backend/internals/helpers/apperror"
	"letme_backend/internals/helpers/dberr"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

var _ service.Repository = (*ProfileRepository)(nil)

func (r *ProfileRepository) FindCompanyByUser(ctx context.Context, userID uuid.UUID) (*model.CompanyProfile, error) {
	var m model.CompanyProfile
	err := r.db.WithContext(ctx).Where("company_user_id = ?", userID).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &m, err
}

func (r *ProfileRepository) FindStaffByUser(ctx context.Context, userID uuid.UUID) (*model.Staff, error) {
	var m model.Staff
	err := r.db.WithContext(ctx).Where("staff_user_id = ?", userID).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &m, err
}

func (r *ProfileRepository) SaveCompany(ctx context.Context, m *model.CompanyProfile) error {
	return conflict(r.db.WithContext(ctx).Save(m).Error)
}

func (r *ProfileRepository) SaveStaff(ctx context.Context, m *model.Staff) error {
	return conflict(r.db.WithContext(ctx).Save(m).Error)
}

// dua request bersamaan untuk user yang sama: yang kalah dapat AlreadyProcessed
func conflict(err error) error {
	if dberr.IsUniqueViolation(err) {
		return apperror.AlreadyProcessed("Profil sudah dibuat")
	}
	return err
}
