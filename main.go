package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"safeblues-backend/handlers"
	"safeblues-backend/models"
	"safeblues-backend/services"
	"safeblues-backend/utils"
	"safeblues-backend/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatal("invalid configuration: ", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Participant{},
		&models.ExperimentData{},
		&models.AdminAccount{},
		&models.AdminSession{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var storage services.Uploader
	if cfg.Storage.Enabled() {
		r2, err := utils.NewR2Storage(ctx, cfg.Storage)
		if err != nil {
			log.Fatal("failed to initialize R2 client:", err)
		}
		storage = r2
	} else {
		log.Println("⚠️  R2 storage not configured, exports are disabled")
	}

	participantService := services.NewParticipantService(db, cfg)
	ingestionService := services.NewIngestionService(db, cfg)
	statsService := services.NewStatsService(db, cfg)
	adminService := services.NewAdminService(db, cfg)
	exportService := services.NewExportService(db, storage, cfg)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := adminService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatal("failed to bootstrap admin account:", err)
		}
	}

	sched, err := adminService.StartSessionPurge(ctx)
	if err != nil {
		log.Fatal("failed to start scheduler:", err)
	}
	defer sched.Shutdown()

	if cfg.ExportInterval > 0 && storage != nil {
		go workers.RunExports(ctx, exportService, cfg.ExportInterval)
	}

	app := fiber.New()
	app.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	handlers.SetupParticipantRoutes(app, handlers.ParticipantAPI{
		Participants: participantService,
		Ingestion:    ingestionService,
		Stats:        statsService,
	})
	handlers.SetupAdminRoutes(app, handlers.AdminAPI{
		Admin:  adminService,
		Export: exportService,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", cfg.Port)
	log.Printf("✅ Hours accounting: %s, density: %s, formula %s", cfg.Phase, cfg.DensityMethod, services.FormulaVersion)
	log.Printf("✅ CORS configured for origins: %s", strings.Join(cfg.AllowedOrigins, ","))

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}

// corsConfig lists request headers explicitly; browsers do not treat "*"
// as covering Authorization on credentialed requests.
func corsConfig(origins []string) cors.Config {
	return cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     "GET,POST,PUT",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}
}
