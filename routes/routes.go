package routes

import (
	authController "election-management/controllers/auth"
	electionController "election-management/controllers/election"
	"election-management/logger"
	"election-management/middleware"
	"election-management/services/mail"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	asyncLogger := logger.NewAsyncLogger(db)
	mailer := mail.NewSMTPDispatcher()
	auth := authController.NewAuthController(db, mailer, asyncLogger)
	elections := electionController.NewElectionController(db, asyncLogger)

	// Start the async audit logger goroutine
	go asyncLogger.ProcessLog()

	api := app.Group("/api")

	/*=============================================================================
	| Auth Routes
	===============================================================================*/
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", auth.Signup)
	authGroup.Post("/verify-otp", auth.VerifyOTP)
	authGroup.Post("/login", auth.Login)
	authGroup.Post("/logout", auth.Logout)

	/*=============================================================================
	| Election Routes
	===============================================================================*/
	electionGroup := api.Group("/elections")

	// Public reads. /results must register before /:id.
	electionGroup.Get("/", elections.Index)
	electionGroup.Get("/results", elections.Results)
	electionGroup.Get("/:id", elections.Show)
	electionGroup.Get("/:id/image", elections.Image)
	electionGroup.Post("/:id/verify", elections.VerifyPincode)

	// Official-only mutations
	electionGroup.Post("/", middleware.Authenticate(db), middleware.RequireOfficial(), elections.Store)
	electionGroup.Put("/:id", middleware.Authenticate(db), middleware.RequireOfficial(), elections.Update)
	electionGroup.Delete("/:id/candidates/:candidateId", middleware.Authenticate(db), middleware.RequireOfficial(), elections.RemoveCandidate)
	electionGroup.Delete("/:id", middleware.Authenticate(db), middleware.RequireOfficial(), elections.Destroy)

	// Voting requires a session but no particular role
	electionGroup.Post("/:id/vote", middleware.Authenticate(db), elections.Vote)
}
