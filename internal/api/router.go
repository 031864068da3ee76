package api

import (
	"clubhub/docs"
	"clubhub/internal/api/handlers"
	"clubhub/internal/models"
	"clubhub/pkg/auth"
	"clubhub/pkg/config"
	"clubhub/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth           *handlers.AuthHandler
	Department     *handlers.DepartmentHandler
	Club           *handlers.ClubHandler
	Event          *handlers.EventHandler
	Notification   *handlers.NotificationHandler
	Recommendation *handlers.RecommendationHandler
}

func SetupRouter(
	h *Handlers,
	jwtManager *auth.JWTManager,
	serverCfg *config.ServerConfig,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  serverCfg.ReadTimeout,
		WriteTimeout: serverCfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			} else {
				appLogger.Error("Unhandled error", zap.String("path", c.Path()), zap.Error(err))
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: serverCfg.AllowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Auth routes (public)
	authGroup := app.Group("/user/auth")
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/refresh", h.Auth.RefreshToken)

	// Protected routes
	protected := app.Group("/api/v1", middleware.AuthMiddleware(jwtManager, appLogger))

	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	managers := middleware.RequireRoles(models.RoleAdmin, models.RoleClubManager)
	members := middleware.RequireRoles(models.RoleStudent, models.RoleClubManager)

	protected.Get("/me", h.Auth.Me)

	departments := protected.Group("/departments")
	departments.Get("", h.Department.ListDepartments)
	departments.Post("", adminOnly, h.Department.CreateDepartment)

	clubs := protected.Group("/clubs")
	clubs.Get("", h.Club.ListClubs)
	clubs.Get("/mine", h.Club.MyClubs)
	clubs.Post("", adminOnly, h.Club.CreateClub)
	clubs.Get("/:id", h.Club.GetClub)
	clubs.Put("/:id", adminOnly, h.Club.UpdateClub)
	clubs.Delete("/:id", adminOnly, h.Club.DeleteClub)
	clubs.Post("/:id/membership", members, h.Club.JoinClub)
	clubs.Delete("/:id/membership", members, h.Club.LeaveClub)
	clubs.Get("/:id/members", managers, h.Club.ListMembers)
	clubs.Get("/:id/events", h.Event.ListClubEvents)
	clubs.Post("/:id/events", managers, h.Event.CreateEvent)
	clubs.Get("/:id/announcements", h.Event.ListAnnouncements)
	clubs.Post("/:id/announcements", managers, h.Event.CreateAnnouncement)

	events := protected.Group("/events")
	events.Get("/upcoming", h.Event.UpcomingEvents)
	events.Delete("/:id", managers, h.Event.DeleteEvent)

	protected.Delete("/announcements/:id", managers, h.Event.DeleteAnnouncement)

	notifications := protected.Group("/notifications")
	notifications.Get("", h.Notification.ListNotifications)
	notifications.Post("/:id/read", h.Notification.MarkRead)

	protected.Get("/recommendations", members, h.Recommendation.GetRecommendations)

	return app
}
