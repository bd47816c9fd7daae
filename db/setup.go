package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/cosmo-sorter/cosmo/internal/models"
)

// Connect opens the single shared database handle. The caller owns its
// lifecycle and passes it to the services that need it.
func Connect(dsn string) (*gorm.DB, error) {
	database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	return database, nil
}

func Migrate(database *gorm.DB) error {
	tables := []interface{}{
		&models.User{},
		&models.Universe{},
		&models.UniverseCollaborator{},
		&models.Material{},
	}

	migrator := database.Migrator()

	for _, table := range tables {
		if !migrator.HasTable(table) {
			if err := database.AutoMigrate(table); err != nil {
				return err
			}
		}
	}

	return nil
}
