package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"letme_backend/internals/features/payment/subscriptions/model"
	"letme_backend/internals/features/payment/subscriptions/service"
	userModel "letme_backend/internals/features/users/model"
	"letme_backend/internals/helpers/dberr"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

var _ service.Store = (*SubscriptionRepository)(nil)

func (r *SubscriptionRepository) Transaction(ctx context.Context, fn func(tx service.Store) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&SubscriptionRepository{db: tx})
	})
}

func takeOrNil[T any](q *gorm.DB) (*T, error) {
	var row T
	err := q.Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

/* ====================== PACKAGE ====================== */

func (r *SubscriptionRepository) GetPackage(ctx context.Context, id uuid.UUID) (*model.Package, error) {
	var p model.Package
	if err := r.db.WithContext(ctx).First(&p, "package_id = ?", id).Error; err != nil {
		return nil, dberr.NotFound(err, "Paket tidak ditemukan")
	}
	return &p, nil
}

func (r *SubscriptionRepository) ListPackages(ctx context.Context) ([]model.Package, error) {
	var rows []model.Package
	err := r.db.WithContext(ctx).
		Where("package_is_active = ?", true).
		Order("package_price ASC").
		Find(&rows).Error
	return rows, err
}

/* ====================== SUBSCRIPTION ====================== */

// FindActiveSubscription row di-lock supaya cek kuota join berjalan serial per company.
func (r *SubscriptionRepository) FindActiveSubscription(ctx context.Context, companyID uuid.UUID) (*model.Subscription, error) {
	return takeOrNil[model.Subscription](r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("subscription_company_id = ? AND subscription_status = ?", companyID, model.SubscriptionActive).
		Order("created_at DESC"))
}

func (r *SubscriptionRepository) FindSubscriptionByOrderID(ctx context.Context, orderID string) (*model.Subscription, error) {
	return takeOrNil[model.Subscription](r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("subscription_order_id = ?", orderID))
}

func (r *SubscriptionRepository) CreateSubscription(ctx context.Context, s *model.Subscription) error {
	return r.db.WithContext(ctx).Omit("Package").Create(s).Error
}

func (r *SubscriptionRepository) SaveSubscription(ctx context.Context, s *model.Subscription) error {
	return r.db.WithContext(ctx).Omit("Package").Save(s).Error
}

func (r *SubscriptionRepository) CancelOtherActive(ctx context.Context, companyID, keepID uuid.UUID, at time.Time) ([]string, error) {
	q := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("subscription_company_id = ? AND subscription_id <> ? AND subscription_status = ?",
			companyID, keepID, model.SubscriptionActive).
		Session(&gorm.Session{})

	var providerIDs []string
	if err := q.
		Where("subscription_provider_id IS NOT NULL AND subscription_provider_id <> ''").
		Pluck("subscription_provider_id", &providerIDs).Error; err != nil {
		return nil, err
	}
	err := q.Updates(map[string]any{
		"subscription_status":      model.SubscriptionCanceled,
		"subscription_canceled_at": at,
	}).Error
	return providerIDs, err
}

/* ====================== MY STAFF ====================== */

func (r *SubscriptionRepository) CountActiveMyStaff(ctx context.Context, companyID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.MyStaff{}).
		Where("my_staff_company_id = ? AND my_staff_status = ?", companyID, model.MyStaffActive).
		Count(&n).Error
	return n, err
}

func (r *SubscriptionRepository) CreateMyStaff(ctx context.Context, m *model.MyStaff) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *SubscriptionRepository) ListMyStaff(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]model.MyStaff, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.MyStaff{}).Where("my_staff_company_id = ?", companyID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.MyStaff
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&rows).Error
	return rows, total, err
}

/* ====================== INVITE ====================== */

// UpsertInvites: undangan ulang ke email yang sama menerbitkan kode baru (mailed/hash direset).
func (r *SubscriptionRepository) UpsertInvites(ctx context.Context, invites []model.InviteMyStaff) error {
	if len(invites) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "invite_staff_email"}, {Name: "invite_company_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"invite_subscription_id": gorm.Expr("EXCLUDED.invite_subscription_id"),
				"invite_staff_name":      gorm.Expr("EXCLUDED.invite_staff_name"),
				"invite_phone":           gorm.Expr("EXCLUDED.invite_phone"),
				"invite_job_role":        gorm.Expr("EXCLUDED.invite_job_role"),
				"invite_employee_type":   gorm.Expr("EXCLUDED.invite_employee_type"),
				"invite_code_hash":       nil,
				"invite_code_expiry":     nil,
				"invite_mailed_at":       nil,
				"updated_at":             gorm.Expr("NOW()"),
			}),
		}).
		Create(&invites).Error
}

func (r *SubscriptionRepository) ListUnmailedInvites(ctx context.Context, subscriptionID uuid.UUID) ([]model.InviteMyStaff, error) {
	var rows []model.InviteMyStaff
	err := r.db.WithContext(ctx).
		Where("invite_subscription_id = ? AND invite_mailed_at IS NULL AND invite_is_joined = ?", subscriptionID, false).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *SubscriptionRepository) ListInvites(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]model.InviteMyStaff, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.InviteMyStaff{}).Where("invite_company_id = ?", companyID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.InviteMyStaff
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&rows).Error
	return rows, total, err
}

func (r *SubscriptionRepository) ListOpenInvitesByEmail(ctx context.Context, email string) ([]model.InviteMyStaff, error) {
	var rows []model.InviteMyStaff
	err := r.db.WithContext(ctx).
		Where("LOWER(invite_staff_email) = LOWER(?) AND invite_is_joined = ? AND invite_code_hash IS NOT NULL", email, false).
		Find(&rows).Error
	return rows, err
}

func (r *SubscriptionRepository) SaveInvite(ctx context.Context, inv *model.InviteMyStaff) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

func (r *SubscriptionRepository) PurgeExpiredCodes(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.InviteMyStaff{}).
		Where("invite_code_hash IS NOT NULL AND invite_code_expiry <= ?", now).
		Update("invite_code_hash", nil)
	return res.RowsAffected, res.Error
}

/* ====================== GATEWAY EVENT ====================== */

func (r *SubscriptionRepository) CreateGatewayEvent(ctx context.Context, e *model.PaymentGatewayEvent) error {
	if e.GatewayEventID == uuid.Nil {
		e.GatewayEventID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *SubscriptionRepository) SaveGatewayEvent(ctx context.Context, e *model.PaymentGatewayEvent) error {
	return r.db.WithContext(ctx).Save(e).Error
}

/* ====================== USERS ====================== */

func (r *SubscriptionRepository) GetCompany(ctx context.Context, id uuid.UUID) (*userModel.CompanyProfile, error) {
	var c userModel.CompanyProfile
	if err := r.db.WithContext(ctx).First(&c, "company_id = ?", id).Error; err != nil {
		return nil, dberr.NotFound(err, "Company tidak ditemukan")
	}
	return &c, nil
}

func (r *SubscriptionRepository) GetStaff(ctx context.Context, id uuid.UUID) (*userModel.Staff, error) {
	var s userModel.Staff
	if err := r.db.WithContext(ctx).First(&s, "staff_id = ?", id).Error; err != nil {
		return nil, dberr.NotFound(err, "Staff tidak ditemukan")
	}
	return &s, nil
}
