// Package catalog seed data lookup: job role (upah per jam) dan paket langganan.
package catalog

import (
	_ "embed"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	vacancyModel "letme_backend/internals/features/jobs/vacancies/model"
	subscriptionModel "letme_backend/internals/features/payment/subscriptions/model"
)

//go:embed data_job_roles.json
var jobRolesJSON []byte

//go:embed data_packages.json
var packagesJSON []byte

func JobRoles() ([]vacancyModel.JobRole, error) {
	var rows []vacancyModel.JobRole
	if err := sonic.Unmarshal(jobRolesJSON, &rows); err != nil {
		return nil, fmt.Errorf("decode job roles: %w", err)
	}
	return rows, nil
}

func Packages() ([]subscriptionModel.Package, error) {
	var rows []subscriptionModel.Package
	if err := sonic.Unmarshal(packagesJSON, &rows); err != nil {
		return nil, fmt.Errorf("decode packages: %w", err)
	}
	for i := range rows {
		rows[i].PackageIsActive = true
	}
	return rows, nil
}

// Seed insert yang belum ada (berdasarkan nama); data yang sudah diubah admin tidak ditimpa.
func Seed(db *gorm.DB, log *logrus.Logger) error {
	roles, err := JobRoles()
	if err != nil {
		return err
	}
	res := db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "job_role_name"}}, DoNothing: true}).Create(&roles)
	if res.Error != nil {
		return fmt.Errorf("seed job roles: %w", res.Error)
	}
	log.WithField("inserted", res.RowsAffected).Info("📥 job roles seeded")

	pkgs, err := Packages()
	if err != nil {
		return err
	}
	res = db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "package_name"}}, DoNothing: true}).Create(&pkgs)
	if res.Error != nil {
		return fmt.Errorf("seed packages: %w", res.Error)
	}
	log.WithField("inserted", res.RowsAffected).Info("📥 packages seeded")
	return nil
}
