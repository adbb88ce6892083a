package auth

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "letme_backend/internals/features/users/model"
)

// GormProfiles ProfileResolver dari tabel company_profiles / staffs.
type GormProfiles struct {
	DB *gorm.DB
}

func (p GormProfiles) CompanyID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	var row userModel.CompanyProfile
	err := p.DB.WithContext(ctx).Select("company_id").
		Where("company_user_id = ?", userID).Take(&row).Error
	return row.CompanyID, err
}

func (p GormProfiles) StaffID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	var row userModel.Staff
	err := p.DB.WithContext(ctx).Select("staff_id").
		Where("staff_user_id = ?", userID).Take(&row).Error
	return row.StaffID, err
}
