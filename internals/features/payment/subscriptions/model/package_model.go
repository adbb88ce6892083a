package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	IntervalMonth = "month"
	IntervalYear  = "year"
)

// Package paket langganan: kuota staff + harga per periode (cents).
type Package struct {
	PackageID            uuid.UUID `gorm:"column:package_id;type:uuid;default:gen_random_uuid();primaryKey" json:"package_id"`
	PackageName          string    `gorm:"column:package_name;type:varchar(120);not null;uniqueIndex" json:"package_name"`
	PackageNumberOfStaff int       `gorm:"column:package_number_of_staff;not null;check:package_number_of_staff > 0" json:"package_number_of_staff"`
	PackagePrice         int64     `gorm:"column:package_price;not null;check:package_price >= 0" json:"package_price"`
	PackageInterval      string    `gorm:"column:package_interval;type:varchar(10);not null;default:'month'" json:"package_interval"`
	PackageIsActive      bool      `gorm:"column:package_is_active;not null;default:true" json:"package_is_active"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Package) TableName() string { return "packages" }

// PeriodEnd akhir periode billing yang dimulai di start.
func (p Package) PeriodEnd(start time.Time) time.Time {
	if p.PackageInterval == IntervalYear {
		return start.AddDate(1, 0, 0)
	}
	return start.AddDate(0, 1, 0)
}
