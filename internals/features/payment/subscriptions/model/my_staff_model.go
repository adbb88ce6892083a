package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	MyStaffActive   = "active"
	MyStaffInactive = "inactive"
)

type MyStaff struct {
	MyStaffID        uuid.UUID `gorm:"column:my_staff_id;type:uuid;default:gen_random_uuid();primaryKey" json:"my_staff_id"`
	MyStaffCompanyID uuid.UUID `gorm:"column:my_staff_company_id;type:uuid;not null;uniqueIndex:uq_my_staff_company_staff" json:"company_id"`
	MyStaffStaffID   uuid.UUID `gorm:"column:my_staff_staff_id;type:uuid;not null;uniqueIndex:uq_my_staff_company_staff" json:"staff_id"`
	MyStaffJobRole   string    `gorm:"column:my_staff_job_role;type:varchar(200)" json:"job_role"`
	MyStaffStatus    string    `gorm:"column:my_staff_status;type:varchar(20);not null;default:'active';index" json:"status"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (MyStaff) TableName() string { return "my_staffs" }

// InviteMyStaff undangan bergabung ke perusahaan. Kode join 8 karakter disimpan bcrypt.
type InviteMyStaff struct {
	InviteID             uuid.UUID  `gorm:"column:invite_id;type:uuid;default:gen_random_uuid();primaryKey" json:"invite_id"`
	InviteCompanyID      uuid.UUID  `gorm:"column:invite_company_id;type:uuid;not null;uniqueIndex:uq_invite_email_company" json:"company_id"`
	InviteSubscriptionID *uuid.UUID `gorm:"column:invite_subscription_id;type:uuid;index" json:"subscription_id,omitempty"`

	InviteStaffName    string `gorm:"column:invite_staff_name;type:varchar(200);not null" json:"staff_name"`
	InviteStaffEmail   string `gorm:"column:invite_staff_email;type:varchar(200);not null;uniqueIndex:uq_invite_email_company" json:"staff_email"`
	InvitePhone        string `gorm:"column:invite_phone;type:varchar(20)" json:"phone"`
	InviteJobRole      string `gorm:"column:invite_job_role;type:varchar(200)" json:"job_role"`
	InviteEmployeeType string `gorm:"column:invite_employee_type;type:varchar(200)" json:"employee_type"`

	InviteCodeHash   *string    `gorm:"column:invite_code_hash;type:varchar(100)" json:"-"`
	InviteCodeExpiry *time.Time `gorm:"column:invite_code_expiry" json:"code_expiry,omitempty"`
	InviteMailedAt   *time.Time `gorm:"column:invite_mailed_at" json:"mailed_at,omitempty"`
	InviteIsJoined   bool       `gorm:"column:invite_is_joined;not null;default:false" json:"is_joined"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (InviteMyStaff) TableName() string { return "invite_my_staffs" }
