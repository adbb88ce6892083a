package model

import (
	"time"

	"github.com/google/uuid"
)

// CompanyProfile akun perusahaan (pemilik job & vacancy).
type CompanyProfile struct {
	CompanyID     uuid.UUID `gorm:"column:company_id;type:uuid;default:gen_random_uuid();primaryKey" json:"company_id"`
	CompanyUserID uuid.UUID `gorm:"column:company_user_id;type:uuid;not null;uniqueIndex" json:"company_user_id"`
	CompanyName   string    `gorm:"column:company_name;type:varchar(200);not null" json:"company_name"`
	CompanyEmail  string    `gorm:"column:company_email;type:varchar(200);not null" json:"company_email"`
	CompanyPhone  *string   `gorm:"column:company_phone;type:varchar(30)" json:"company_phone,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (CompanyProfile) TableName() string { return "company_profiles" }
