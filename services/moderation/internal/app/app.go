package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"simple-forum/pkg/config"
	"simple-forum/pkg/jwt"
	"simple-forum/pkg/logger"
	"simple-forum/pkg/middleware"
	"simple-forum/pkg/queue"
	moderationHTTP "simple-forum/services/moderation/internal/controller/http"
	"simple-forum/services/moderation/internal/entity"
	"simple-forum/services/moderation/internal/events"
	"simple-forum/services/moderation/internal/jobs"
	"simple-forum/services/moderation/internal/repo/persistent"
	"simple-forum/services/moderation/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "simple-forum/services/moderation/docs" // Swagger docs
)

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client, queueClient *queue.Client) {
	jwtService := jwt.NewService(cfg.JWTSecret)

	// Initialize repositories
	moderationRepo := persistent.NewModerationRepository(db)
	userDirectory := persistent.NewUserDirectory(db)

	publisher := events.NewRedisPublisher(redisClient)
	scheduler := jobs.NewPurgeScheduler(queueClient)

	// Initialize use cases
	permissionUseCase := usecase.NewPermissionUseCase(moderationRepo, userDirectory, log)
	contentUseCase := usecase.NewContentUseCase(moderationRepo, userDirectory, scheduler, log, cfg.PurgeDelay)
	postModerationUseCase := usecase.NewPostModerationUseCase(moderationRepo, userDirectory, scheduler, publisher, log, cfg.PurgeDelay)
	userModerationUseCase := usecase.NewUserModerationUseCase(moderationRepo, userDirectory, publisher, log)

	// Initialize HTTP handlers
	contentHandler := moderationHTTP.NewContentHandler(contentUseCase, permissionUseCase, log)
	moderationHandler := moderationHTTP.NewModerationHandler(postModerationUseCase, userModerationUseCase, log)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	mountDocs(r)

	api := r.Group("/api/v1")

	// Reads are public; a valid token only changes what the caller may see
	public := api.Group("")
	public.Use(middleware.OptionalAuthMiddleware(jwtService))
	{
		public.GET("/blogs", contentHandler.ListBlogs)
		public.GET("/blogs/:id", contentHandler.GetBlog)
		public.GET("/blogs/:id/comments", contentHandler.ListComments)
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(jwtService))
	protected.Use(middleware.RateLimitMiddleware(redisClient, cfg.RateLimit, cfg.RateLimitWindow))
	{
		protected.POST("/blogs", contentHandler.CreateBlog)
		protected.PUT("/blogs/:id", contentHandler.UpdateBlog)
		protected.DELETE("/blogs/:id", contentHandler.DeleteBlog)
		protected.POST("/blogs/:id/comments", contentHandler.CreateComment)
		protected.PUT("/comments/:id", contentHandler.UpdateComment)
		protected.DELETE("/comments/:id", contentHandler.DeleteComment)

		protected.GET("/permissions/create", contentHandler.CanCreate)
		protected.POST("/permissions/posts", contentHandler.CheckPermissions)
	}

	moderation := protected.Group("/moderation")
	for path, kind := range map[string]entity.PostKind{"blogs": entity.KindBlog, "comments": entity.KindComment} {
		protected.POST("/"+path+"/:id/report", moderationHandler.Report(kind))

		post := moderation.Group("/" + path + "/:id")
		post.POST("/hide", moderationHandler.Hide(kind))
		post.POST("/unhide", moderationHandler.Unhide(kind))
		post.POST("/dismiss-report", moderationHandler.DismissReport(kind))
		post.POST("/delete", moderationHandler.ForciblyDelete(kind))
		post.POST("/restore", moderationHandler.Restore(kind))
	}
	{
		moderation.GET("/reports", moderationHandler.ListReports)

		moderation.POST("/bans", moderationHandler.BanUser)
		moderation.GET("/bans/:user_name", moderationHandler.GetBan)
		moderation.DELETE("/bans/:user_name", moderationHandler.LiftBan)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Info("Moderation service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down moderation service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Drain requests before the stores they use go away
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	closeResources(log, db, redisClient, queueClient)

	log.Info("Moderation service exited")
}

func closeResources(log *logger.Logger, db *gorm.DB, redisClient *redis.Client, queueClient *queue.Client) {
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("Error closing database: %v", err)
		}
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis: %v", err)
		}
	}

	if queueClient != nil {
		if err := queueClient.Close(); err != nil {
			log.Error("Error closing RabbitMQ: %v", err)
		}
	}
}

func mountDocs(r gin.IRoutes) {
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
