package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ikkim/smartmart-backend/config"
	"github.com/ikkim/smartmart-backend/internal/app/repository"
	"github.com/ikkim/smartmart-backend/internal/app/service"
	"github.com/ikkim/smartmart-backend/internal/db"
	"github.com/ikkim/smartmart-backend/pkg/logger"
)

func main() {
	staffUsername := flag.String("staff-username", "", "create or promote this user to staff")
	staffEmail := flag.String("staff-email", "", "email for a newly created staff user")
	staffPassword := flag.String("staff-password", "", "password for a newly created staff user")
	products := flag.String("products", "", "path to an .xlsx sheet of products (name, description, price, stock)")
	flag.Parse()

	if *staffUsername == "" && *products == "" {
		fmt.Fprintln(os.Stderr, "Usage: seed [-staff-username NAME -staff-email EMAIL -staff-password PW] [-products FILE.xlsx]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.Config{
		Level:       "info",
		Format:      "console",
		EnableColor: true,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	if *staffUsername != "" {
		users := repository.NewUserRepository(db.GetDB())
		user, created, err := ensureStaff(users, *staffUsername, *staffEmail, *staffPassword)
		if err != nil {
			logger.Fatal("Failed to seed staff user", err, map[string]interface{}{
				"username": *staffUsername,
			})
		}
		logger.Info("Staff user ready", map[string]interface{}{
			"user_id": user.ID,
			"created": created,
		})
	}

	if *products != "" {
		catalog := service.NewCatalogService(repository.NewProductRepository(db.GetDB()))
		result, err := importProducts(catalog, *products)
		if err != nil {
			logger.Fatal("Failed to import products", err, map[string]interface{}{
				"file": *products,
			})
		}
		logger.Info("Import completed", map[string]interface{}{
			"imported": result.Imported,
			"skipped":  len(result.Skipped),
		})
		for _, skip := range result.Skipped {
			logger.Warn("Row skipped", map[string]interface{}{
				"row":    skip.Row,
				"reason": skip.Reason,
			})
		}
	}
}
