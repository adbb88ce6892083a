package seeds

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"letme_backend/internals/seeds/catalog"
)

func RunAllSeeds(db *gorm.DB, log *logrus.Logger) error {
	//* Lookup
	return catalog.Seed(db, log)
}
