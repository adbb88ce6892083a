package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	applicationModel "letme_backend/internals/features/jobs/applications/model"
	reportModel "letme_backend/internals/features/jobs/reports/model"
	vacancyModel "letme_backend/internals/features/jobs/vacancies/model"
	notificationModel "letme_backend/internals/features/notifications/model"
	subscriptionModel "letme_backend/internals/features/payment/subscriptions/model"
	userModel "letme_backend/internals/features/users/model"
)

// Migrate urutan mengikuti foreign key: profil -> job -> vacancy -> application -> turunan.
func Migrate(db *gorm.DB, log *logrus.Logger) error {
	models := []any{
		&userModel.CompanyProfile{},
		&userModel.Staff{},

		&vacancyModel.Job{},
		&vacancyModel.JobRole{},
		&vacancyModel.Vacancy{},
		&vacancyModel.VacancyParticipant{},

		&applicationModel.JobApplication{},
		&applicationModel.Checkin{},
		&applicationModel.Checkout{},
		&reportModel.JobReport{},

		&notificationModel.Notification{},

		&subscriptionModel.Package{},
		&subscriptionModel.Subscription{},
		&subscriptionModel.MyStaff{},
		&subscriptionModel.InviteMyStaff{},
		&subscriptionModel.PaymentGatewayEvent{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.WithField("tables", len(models)).Info("✅ Migrasi selesai")
	return nil
}
