package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
	"gorm.io/gorm"

	"github.com/billingstack/namesilo/config"
	"github.com/billingstack/namesilo/internal/database"
	"github.com/billingstack/namesilo/internal/repository"
	"github.com/billingstack/namesilo/server"
)

func main() {
	app := &cli.App{
		Name:  "namesilo",
		Usage: "NameSilo domain registrar module for the billing platform",
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(c *cli.Context) error {
					cfg, billingDB, err := setup()
					if err != nil {
						return err
					}

					err = repository.MigrateDB(
						cfg.BillingDatabaseConfig.MaxConn,
						cfg.BillingDatabaseConfig.MaxIdleConn,
						cfg.BillingDatabaseConfig.ConnMaxLifetime,
						billingDB,
					)
					if err != nil {
						return err
					}
					log.Println("Database migration completed successfully")
					return nil
				},
			},
			{
				Name:  "server",
				Usage: "Start the application server",
				Action: func(c *cli.Context) error {
					cfg, billingDB, err := setup()
					if err != nil {
						return err
					}

					log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
					log.Println("NameSilo module starting up...")

					srv, err := server.NewServer(cfg, billingDB)
					if err != nil {
						return err
					}

					if err = srv.Run(); err != nil {
						return err
					}

					log.Println("Shutdown complete")
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setup() (*config.Config, *gorm.DB, error) {
	cfg, err := config.InitConfig()
	if err != nil {
		return nil, nil, err
	}

	billingDB, err := database.InitBillingDatabase(&database.DatabaseConfig{
		DBName:          cfg.BillingDatabaseConfig.DBName,
		Host:            cfg.BillingDatabaseConfig.Host,
		Port:            cfg.BillingDatabaseConfig.Port,
		User:            cfg.BillingDatabaseConfig.User,
		Password:        cfg.BillingDatabaseConfig.Password,
		MaxConn:         cfg.BillingDatabaseConfig.MaxConn,
		MaxIdleConn:     cfg.BillingDatabaseConfig.MaxIdleConn,
		ConnMaxLifetime: cfg.BillingDatabaseConfig.ConnMaxLifetime,
		LogLevel:        cfg.BillingDatabaseConfig.LogLevel,
		SSLMode:         cfg.BillingDatabaseConfig.SSLMode,
	})
	if err != nil {
		return nil, nil, err
	}

	return cfg, billingDB, nil
}
