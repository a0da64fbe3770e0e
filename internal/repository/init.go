package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/billingstack/namesilo/internal/models"
)

type Repositories struct {
	DomainRepository DomainRepository
	ClientRepository ClientRepository
}

func InitRepositories(billingDB *gorm.DB) *Repositories {
	return &Repositories{
		DomainRepository: NewDomainRepository(billingDB),
		ClientRepository: NewClientRepository(billingDB),
	}
}

// MigrateDB creates the module's own table. The clients table belongs to the
// billing framework and is never migrated from here.
func MigrateDB(dbMaxConn, dbMaxIdleConn, dbConnMaxLifetime int, billingDB *gorm.DB) error {
	db, err := billingDB.DB()
	if err != nil {
		return err
	}

	db.SetMaxOpenConns(5)

	err = billingDB.AutoMigrate(
		&models.DomainRecord{},
	)
	if err != nil {
		return err
	}

	db.SetMaxIdleConns(dbMaxIdleConn)
	db.SetMaxOpenConns(dbMaxConn)
	db.SetConnMaxLifetime(time.Duration(dbConnMaxLifetime) * time.Minute)

	return nil
}
