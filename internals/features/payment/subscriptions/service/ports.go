package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"letme_backend/internals/features/payment/subscriptions/model"
	userModel "letme_backend/internals/features/users/model"
)

// Store persistence subscription & invite. Find* mengembalikan nil,nil kalau tidak ada.
type Store interface {
	Transaction(ctx context.Context, fn func(tx Store) error) error

	GetPackage(ctx context.Context, id uuid.UUID) (*model.Package, error)
	ListPackages(ctx context.Context) ([]model.Package, error)

	FindActiveSubscription(ctx context.Context, companyID uuid.UUID) (*model.Subscription, error)
	FindSubscriptionByOrderID(ctx context.Context, orderID string) (*model.Subscription, error)
	CreateSubscription(ctx context.Context, s *model.Subscription) error
	SaveSubscription(ctx context.Context, s *model.Subscription) error
	// CancelOtherActive menutup subscription active lain milik company;
	// mengembalikan provider id langganan berulang yang ikut tertutup.
	CancelOtherActive(ctx context.Context, companyID, keepID uuid.UUID, at time.Time) ([]string, error)

	CountActiveMyStaff(ctx context.Context, companyID uuid.UUID) (int64, error)
	CreateMyStaff(ctx context.Context, m *model.MyStaff) error
	ListMyStaff(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]model.MyStaff, int64, error)

	// UpsertInvites insert atau update berdasarkan (email, company).
	UpsertInvites(ctx context.Context, invites []model.InviteMyStaff) error
	ListUnmailedInvites(ctx context.Context, subscriptionID uuid.UUID) ([]model.InviteMyStaff, error)
	ListInvites(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]model.InviteMyStaff, int64, error)
	ListOpenInvitesByEmail(ctx context.Context, email string) ([]model.InviteMyStaff, error)
	SaveInvite(ctx context.Context, inv *model.InviteMyStaff) error
	PurgeExpiredCodes(ctx context.Context, now time.Time) (int64, error)

	CreateGatewayEvent(ctx context.Context, e *model.PaymentGatewayEvent) error
	SaveGatewayEvent(ctx context.Context, e *model.PaymentGatewayEvent) error

	GetCompany(ctx context.Context, id uuid.UUID) (*userModel.CompanyProfile, error)
	GetStaff(ctx context.Context, id uuid.UUID) (*userModel.Staff, error)
}

// CheckoutRequest satu sesi pembayaran (Snap). Amount dalam cents.
type CheckoutRequest struct {
	OrderID       string
	Amount        int64
	ItemID        string
	ItemName      string
	CustomerName  string
	CustomerEmail string
}

type Checkout struct {
	Token       string
	RedirectURL string
}

// RecurringRequest langganan berulang di provider. Amount dalam cents per periode.
type RecurringRequest struct {
	Name          string
	Amount        int64
	Interval      string // month | year
	Token         string // saved card token; kosong saat update
	Start         time.Time
	CustomerName  string
	CustomerEmail string
}

// PaymentProvider semua call sinkron, tidak di-retry; error = ExternalService.
type PaymentProvider interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error)
	CreateSubscription(ctx context.Context, req RecurringRequest) (providerID string, err error)
	GetSubscription(ctx context.Context, providerID string) (status string, err error)
	UpdateSubscription(ctx context.Context, providerID string, req RecurringRequest) error
	DisableSubscription(ctx context.Context, providerID string) error
	VerifySignature(orderID, statusCode, grossAmount, signature string) bool
}
