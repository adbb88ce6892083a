package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	SubscriptionPending  = "pending"
	SubscriptionActive   = "active"
	SubscriptionCanceled = "canceled"
)

type Subscription struct {
	SubscriptionID        uuid.UUID `gorm:"column:subscription_id;type:uuid;default:gen_random_uuid();primaryKey" json:"subscription_id"`
	SubscriptionCompanyID uuid.UUID `gorm:"column:subscription_company_id;type:uuid;not null;index" json:"subscription_company_id"`
	SubscriptionPackageID uuid.UUID `gorm:"column:subscription_package_id;type:uuid;not null" json:"subscription_package_id"`

	// ID langganan recurring di payment provider (kosong sampai pembayaran pertama settle)
	SubscriptionProviderID *string `gorm:"column:subscription_provider_id;type:varchar(120)" json:"subscription_provider_id,omitempty"`
	SubscriptionOrderID    string  `gorm:"column:subscription_order_id;type:varchar(100);not null;uniqueIndex" json:"subscription_order_id"`
	SubscriptionAmount     int64   `gorm:"column:subscription_amount;not null;default:0" json:"subscription_amount"`

	SubscriptionPaymentToken *string `gorm:"column:subscription_payment_token;type:text" json:"subscription_payment_token,omitempty"`
	SubscriptionRedirectURL  *string `gorm:"column:subscription_redirect_url;type:text" json:"subscription_redirect_url,omitempty"`

	SubscriptionStatus      string     `gorm:"column:subscription_status;type:varchar(20);not null;default:'pending';index" json:"subscription_status"`
	SubscriptionPeriodStart *time.Time `gorm:"column:subscription_period_start" json:"subscription_period_start,omitempty"`
	SubscriptionPeriodEnd   *time.Time `gorm:"column:subscription_period_end" json:"subscription_period_end,omitempty"`
	SubscriptionCanceledAt  *time.Time `gorm:"column:subscription_canceled_at" json:"subscription_canceled_at,omitempty"`

	Package *Package `gorm:"foreignKey:SubscriptionPackageID;references:PackageID" json:"package,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Subscription) TableName() string { return "subscriptions" }
