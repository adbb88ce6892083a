package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	AttendancePending  = "pending"
	AttendanceApproved = "approved"
	AttendanceDeclined = "declined"
)

type Checkin struct {
	CheckinID            uuid.UUID  `gorm:"column:checkin_id;type:uuid;default:gen_random_uuid();primaryKey" json:"checkin_id"`
	CheckinApplicationID uuid.UUID  `gorm:"column:checkin_application_id;type:uuid;not null;index;uniqueIndex:uq_checkin_pending_application,where:checkin_status = 'pending'" json:"checkin_application_id"`
	CheckinTime          time.Time  `gorm:"column:checkin_time;not null" json:"checkin_time"`
	CheckinLocation      string     `gorm:"column:checkin_location;type:varchar(255);not null" json:"checkin_location"`
	CheckinStatus        string     `gorm:"column:checkin_status;type:varchar(20);not null;default:'pending'" json:"checkin_status"`
	CheckinReviewedAt    *time.Time `gorm:"column:checkin_reviewed_at" json:"checkin_reviewed_at,omitempty"`

	Application *JobApplication `gorm:"foreignKey:CheckinApplicationID;references:JobApplicationID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Checkin) TableName() string { return "checkins" }

type Checkout struct {
	CheckoutID            uuid.UUID  `gorm:"column:checkout_id;type:uuid;default:gen_random_uuid();primaryKey" json:"checkout_id"`
	CheckoutApplicationID uuid.UUID  `gorm:"column:checkout_application_id;type:uuid;not null;index;uniqueIndex:uq_checkout_pending_application,where:checkout_status = 'pending'" json:"checkout_application_id"`
	CheckoutTime          time.Time  `gorm:"column:checkout_time;not null" json:"checkout_time"`
	CheckoutLocation      string     `gorm:"column:checkout_location;type:varchar(255);not null" json:"checkout_location"`
	CheckoutStatus        string     `gorm:"column:checkout_status;type:varchar(20);not null;default:'pending'" json:"checkout_status"`
	CheckoutReviewedAt    *time.Time `gorm:"column:checkout_reviewed_at" json:"checkout_reviewed_at,omitempty"`

	Application *JobApplication `gorm:"foreignKey:CheckoutApplicationID;references:JobApplicationID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Checkout) TableName() string { return "checkouts" }
