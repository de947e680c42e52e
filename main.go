package main

import (
	"log"

	"lms/config"
	"lms/database"
	achievementRoutes "lms/routers/achievementRoutes"
	assignmentRoutes "lms/routers/assignmentRoutes"
	authRoutes "lms/routers/authRoutes"
	cartRoutes "lms/routers/cartRoutes"
	couponRoutes "lms/routers/couponRoutes"
	courseRoutes "lms/routers/courseRoutes"
	dashboardRoutes "lms/routers/dashboardRoutes"
	enrollmentRoutes "lms/routers/enrollmentRoutes"
	messageRoutes "lms/routers/messageRoutes"
	payoutRoutes "lms/routers/payoutRoutes"
	quizRoutes "lms/routers/quizRoutes"
	userRoutes "lms/routers/userRoutes"
	wishlistRoutes "lms/routers/wishlistRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	dashboardRoutes.SetupDashboardRoutes(app, db, cfg)
	authRoutes.SetupAuthRoutes(app, db, cfg)
	userRoutes.SetupUserRoutes(app, db, cfg)
	courseRoutes.SetupCourseRoutes(app, db, cfg)
	enrollmentRoutes.SetupEnrollmentRoutes(app, db, cfg)
	wishlistRoutes.SetupWishlistRoutes(app, db, cfg)
	cartRoutes.SetupCartRoutes(app, db, cfg)
	couponRoutes.SetupCouponRoutes(app, db, cfg)
	payoutRoutes.SetupPayoutRoutes(app, db, cfg)
	assignmentRoutes.SetupAssignmentRoutes(app, db, cfg)
	quizRoutes.SetupQuizRoutes(app, db, cfg)
	achievementRoutes.SetupAchievementRoutes(app, db, cfg)
	messageRoutes.SetupMessageRoutes(app, db, cfg)

	log.Printf("Server is running on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
