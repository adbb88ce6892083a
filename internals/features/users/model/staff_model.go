package model

import (
	"time"

	"github.com/google/uuid"
)

type Staff struct {
	StaffID     uuid.UUID `gorm:"column:staff_id;type:uuid;default:gen_random_uuid();primaryKey" json:"staff_id"`
	StaffUserID uuid.UUID `gorm:"column:staff_user_id;type:uuid;not null;uniqueIndex" json:"staff_user_id"`
	StaffName   string    `gorm:"column:staff_name;type:varchar(200);not null" json:"staff_name"`
	StaffEmail  string    `gorm:"column:staff_email;type:varchar(200);not null;index" json:"staff_email"`
	StaffPhone  *string   `gorm:"column:staff_phone;type:varchar(30)" json:"staff_phone,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Staff) TableName() string { return "staffs" }
