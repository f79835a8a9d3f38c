package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "blogpress/internal/app"
	"blogpress/internal/bootstrap"
	"blogpress/internal/cache"
	"blogpress/internal/platform/rabbitmq"
	"blogpress/internal/repository"
	"blogpress/internal/transport/http/handler"
	"blogpress/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	postRepo := repository.NewPostRepository(app.MySQL)
	commentRepo := repository.NewCommentRepository(app.MySQL)

	var postCache appsvc.PostCache
	if app.Redis != nil {
		postCache = cache.NewPostCache(app.Redis, time.Duration(app.Config.Redis.PostTTLSeconds)*time.Second)
	}
	var publisher appsvc.ActivityPublisher
	if app.MQConn != nil {
		publisher = rabbitmq.NewActivityPublisher(app.MQConn, app.Config.RabbitMQ.ActivityQueue)
	}

	authService := appsvc.NewAuthService(
		userRepo,
		publisher,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
		app.Config.Upload.DefaultAvatar,
	)
	postService := appsvc.NewPostService(
		postRepo,
		commentRepo,
		userRepo,
		postCache,
		publisher,
		app.Config.Upload.DefaultThumbnail,
	)

	userHandler := handler.NewUserHandler(authService, app.Config.Upload.MaxBytes)
	postHandler := handler.NewPostHandler(postService, app.Config.Upload.MaxBytes)

	authRequired := middleware.AuthJWT(app.Config.Auth.JWTSecret, userRepo)

	users := router.Group("/users")
	users.POST("/register", userHandler.Register)
	users.POST("/login", userHandler.Login)
	users.GET("/profile", authRequired, userHandler.Profile)
	users.PATCH("/update", authRequired, userHandler.Update)
	users.DELETE("/delete", authRequired, userHandler.Delete)
	users.POST("/upload-profile-picture", authRequired, userHandler.UploadProfilePicture)

	posts := router.Group("/posts")
	posts.GET("", postHandler.List)
	posts.GET("/category", postHandler.ByCategory)
	posts.GET("/author", postHandler.ByAuthor)
	posts.POST("/create", authRequired, postHandler.Create)
	posts.PATCH("/update", authRequired, postHandler.Update)
	posts.DELETE("/delete", authRequired, postHandler.Delete)
	posts.POST("/:postId/comments", authRequired, postHandler.AddComment)
	posts.DELETE("/:postId/comments/:commentId", authRequired, postHandler.DeleteComment)

	return router
}
