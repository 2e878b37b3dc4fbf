package db

import (
	"fmt"

	"github.com/meinhoongagan/petcare/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migrate runs AutoMigrate for every model; only called explicitly.
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	migrations := []struct {
		name  string
		model interface{}
	}{
		{"User", &models.User{}},
		{"Provider", &models.Provider{}},
		{"Service", &models.Service{}},
		{"Pet", &models.Pet{}},
		{"Booking", &models.Booking{}},
	}

	for _, m := range migrations {
		logger.Info("migrating table", zap.String("model", m.name))
		if err := db.AutoMigrate(m.model); err != nil {
			return fmt.Errorf("error migrating %s table: %w", m.name, err)
		}
	}
	logger.Info("migrations applied successfully")
	return nil
}
