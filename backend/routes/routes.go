package routes

import (
	"project/backend/config"
	"project/backend/controllers"
	"project/backend/ledger"
	"project/backend/middleware"
	"project/backend/store"
	"project/backend/wizard"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Shared collaborators
	wizardStore := wizard.NewStore(store.NewGormKV(db))
	manager := ledger.NewManager(store.NewGormProgressStore(db), cfg.SyncTimeout)

	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)

	// User routes
	userController := controllers.NewUserController(db, cfg)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)
	app.Put("/api/user/profile", authMiddleware, userController.UpdateProfile)

	// Wizard routes
	wizardController := controllers.NewWizardController(db, cfg, wizardStore)
	wizardGroup := app.Group("/api/wizard", authMiddleware)
	wizardGroup.Get("/", wizardController.GetState)
	wizardGroup.Put("/step", wizardController.SetStep)
	wizardGroup.Post("/goal", wizardController.SubmitGoal)
	wizardGroup.Post("/protocol", wizardController.GenerateProtocol)
	wizardGroup.Post("/commitments", wizardController.SubmitCommitments)

	// Tracker routes
	trackerController := controllers.NewTrackerController(cfg, manager, wizardStore)
	trackerGroup := app.Group("/api/tracker", authMiddleware)
	trackerGroup.Post("/start", trackerController.Start)
	trackerGroup.Get("/", trackerController.GetBoard)
	trackerGroup.Post("/toggle", trackerController.Toggle)
}
