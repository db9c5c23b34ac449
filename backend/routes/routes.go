package routes

import (
	"log"
	"time"

	"courseplatform/backend/access"
	"courseplatform/backend/config"
	"courseplatform/backend/controllers"
	"courseplatform/backend/importer"
	"courseplatform/backend/middleware"
	"courseplatform/backend/models"
	"courseplatform/backend/services"
	"courseplatform/backend/storage"
	"courseplatform/backend/utils"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

const rateWindow = 15 * time.Minute

// NewApp builds the fiber application with global middleware and every route.
func NewApp(db *gorm.DB, cfg *config.Config, logger *log.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Course Platform",
		BodyLimit:    int(cfg.UploadMaxBytes()),
		ErrorHandler: controllers.ErrorHandler(logger, cfg),
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(helmet.New(helmet.Config{
		// uploaded PDFs are embedded by the public frontend
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(utils.LoggingMiddleware(logger, !cfg.IsProduction()))

	app.Static("/uploads", cfg.UploadDir)

	SetupRoutes(app, db, cfg, logger)
	return app
}

func rateLimit(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: rateWindow,
		LimitReached: func(c *fiber.Ctx) error {
			return utils.Error(c, fiber.StatusTooManyRequests, "Too many requests, try again later")
		},
	})
}

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, logger *log.Logger) {
	checker := access.NewChecker(db)
	content := services.NewContentService(db, checker)
	users := services.NewUserService(db, cfg.BcryptCost)
	render := services.NewLessonRenderer()
	public := services.NewPublicService(db, render)
	store := storage.New(cfg.UploadDir, cfg.UploadMaxBytes())
	if err := store.Init(); err != nil {
		logger.Printf("upload directory: %v", err)
	}

	api := app.Group("/api", rateLimit(cfg.RateLimitAPI))

	healthController := controllers.NewHealthController(db)
	api.Get("/health", healthController.Check)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(users, cfg)
	superAdmin := middleware.RoleMiddleware(models.RoleSuperAdmin)
	admins := middleware.RoleMiddleware(models.RoleSuperAdmin, models.RoleAdmin)

	// Auth routes
	authController := controllers.NewAuthController(users, cfg, logger)
	auth := api.Group("/auth")
	auth.Post("/login", rateLimit(cfg.RateLimitAuth), authController.Login)
	auth.Get("/me", authMiddleware, authController.Me)
	auth.Post("/refresh", authMiddleware, authController.Refresh)
	auth.Post("/change-password", authMiddleware, authController.ChangePassword)

	// User routes
	userController := controllers.NewUserController(users, cfg, logger)
	userRoutes := api.Group("/users", authMiddleware)
	userRoutes.Get("/", admins, userController.List)
	userRoutes.Post("/", superAdmin, userController.Create)
	userRoutes.Put("/:id", superAdmin, userController.Update)
	userRoutes.Post("/:id/reset-password", superAdmin, userController.ResetPassword)
	userRoutes.Get("/:id/logins", superAdmin, userController.Logins)
	userRoutes.Delete("/:id", superAdmin, userController.Delete)

	publicController := controllers.NewPublicController(public, render, cfg, logger)
	api.Get("/groups", authMiddleware, publicController.Groups)

	// Courses routes
	coursesController := controllers.NewCoursesController(content, importer.New(db, checker), cfg, logger)
	courses := api.Group("/courses", authMiddleware)
	courses.Get("/", coursesController.List)
	courses.Get("/stats", coursesController.Stats)
	courses.Put("/reorder", coursesController.Reorder)
	courses.Post("/", coursesController.Create)
	courses.Get("/:courseId", coursesController.Get)
	courses.Put("/:courseId", coursesController.Update)
	courses.Delete("/:courseId", coursesController.Delete)
	courses.Post("/:courseId/staff", coursesController.AddStaff)
	courses.Delete("/:courseId/staff/:userId", coursesController.RemoveStaff)
	courses.Post("/:courseId/import", coursesController.Import)

	modulesController := controllers.NewModulesController(content, cfg, logger)
	modules := api.Group("/modules", authMiddleware)
	modules.Get("/course/:courseId", modulesController.ListByCourse)
	modules.Put("/reorder/batch", modulesController.Reorder)
	modules.Get("/:id", modulesController.Get)
	modules.Post("/", modulesController.Create)
	modules.Put("/:id", modulesController.Update)
	modules.Delete("/:id", modulesController.Delete)

	topicsController := controllers.NewTopicsController(content, cfg, logger)
	topics := api.Group("/topics", authMiddleware)
	topics.Get("/module/:moduleId", topicsController.ListByModule)
	topics.Put("/reorder/batch", topicsController.Reorder)
	topics.Get("/:id", topicsController.Get)
	topics.Post("/", topicsController.Create)
	topics.Put("/:id", topicsController.Update)
	topics.Delete("/:id", topicsController.Delete)

	lessonsController := controllers.NewLessonsController(content, render, cfg, logger)
	lessons := api.Group("/lessons", authMiddleware)
	lessons.Get("/topic/:topicId", lessonsController.ListByTopic)
	lessons.Put("/reorder/batch", lessonsController.Reorder)
	lessons.Post("/preview", lessonsController.Preview)
	lessons.Get("/:id", lessonsController.Get)
	lessons.Post("/", lessonsController.Create)
	lessons.Put("/:id", lessonsController.Update)
	lessons.Delete("/:id", lessonsController.Delete)

	resourcesController := controllers.NewResourcesController(content, store, cfg, logger)
	resources := api.Group("/resources", authMiddleware)
	resources.Get("/lesson/:lessonId", resourcesController.ListByLesson)
	resources.Put("/reorder/batch", resourcesController.Reorder)
	resources.Post("/", resourcesController.Create)
	resources.Put("/:id", resourcesController.Update)
	resources.Delete("/:id", resourcesController.Delete)

	// Public routes
	pub := api.Group("/public")
	pub.Get("/courses", publicController.Courses)
	pub.Get("/courses/:slug", publicController.Course)
	pub.Get("/courses/:slug/modules/:moduleSlug", publicController.Module)
	pub.Get("/courses/:slug/modules/:moduleSlug/topics/:topicSlug", publicController.Topic)
	pub.Get("/courses/:slug/modules/:moduleSlug/topics/:topicSlug/lessons/:lessonSlug", publicController.Lesson)
	pub.Get("/groups", publicController.Groups)
	pub.Get("/years", publicController.Years)
	pub.Get("/search", publicController.Search)
	pub.Get("/highlight.css", publicController.HighlightCSS)
}
