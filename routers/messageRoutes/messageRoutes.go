package messageRoutes

import (
	"lms/config"
	messageController "lms/controllers/message"
	"lms/middleware"
	"lms/policy"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupMessageRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	ctrl := messageController.New(db, cfg)
	messageGroup := app.Group("/messages", middleware.Protected(cfg))

	messageGroup.Get("/inbox", ctrl.Inbox)
	messageGroup.Get("/sent", ctrl.Sent)
	messageGroup.Get("/thread/:userId", ctrl.Thread)
	messageGroup.Post("", ctrl.Send)
	messageGroup.Patch("/:id/read", ctrl.MarkRead)
	messageGroup.Post("/broadcast", policy.Require(policy.ActionBroadcast), ctrl.Broadcast)

	app.Get("/admin/thread", middleware.Protected(cfg), policy.Require(policy.ActionAdminView), ctrl.AdminThread)
}
