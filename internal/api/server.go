package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/mpetrenko/secret-santa-api/docs"
	v1 "github.com/mpetrenko/secret-santa-api/internal/api/handler/v1"
	"github.com/mpetrenko/secret-santa-api/internal/api/middleware"
	"github.com/mpetrenko/secret-santa-api/internal/config"
	"github.com/mpetrenko/secret-santa-api/internal/draw"
	"github.com/mpetrenko/secret-santa-api/internal/repository"
	"github.com/mpetrenko/secret-santa-api/internal/repository/dao"
	"github.com/mpetrenko/secret-santa-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	authHandler := s.initAuthHandler(db)
	userHandler := s.initUserHandler(db)
	groupHandler := s.initGroupHandler(db)
	drawHandler := s.initDrawHandler(db)
	s.MountHandlers(authHandler, userHandler, groupHandler, drawHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initUserHandler(db *gorm.DB) *v1.UserHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewUserService(repo)
	handler := v1.NewUserHandler(svc)

	return handler
}

func (s *Server) initGroupHandler(db *gorm.DB) *v1.GroupHandler {
	groupDAO := dao.NewGroupDAO(db)
	repo := repository.NewGroupRepository(groupDAO)
	svc := service.NewGroupService(repo, service.GroupConfig{
		DefaultMinParticipants: s.Config.Draw.DefaultMin,
		DefaultMaxParticipants: s.Config.Draw.DefaultMax,
		InviteCodeLength:       s.Config.Draw.InviteLength,
	})
	handler := v1.NewGroupHandler(svc)

	return handler
}

func (s *Server) initDrawHandler(db *gorm.DB) *v1.DrawHandler {
	groupRepo := repository.NewGroupRepository(dao.NewGroupDAO(db))
	drawRepo := repository.NewDrawRepository(dao.NewDrawDAO(db))
	svc := service.NewDrawService(groupRepo, drawRepo, draw.Config{
		MaxAttempts: s.Config.Draw.MaxAttempts,
	})
	handler := v1.NewDrawHandler(svc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(authHandler *v1.AuthHandler, userHandler *v1.UserHandler, groupHandler *v1.GroupHandler, drawHandler *v1.DrawHandler) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	users := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		users.GET("/users/:userID", userHandler.HandleGetUser)
		users.PUT("/users/wishlist", userHandler.HandleUpdateWishlist)
	}

	groups := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		groups.POST("/groups", groupHandler.HandleCreateGroup)
		groups.GET("/groups", groupHandler.HandleGetGroups)
		groups.POST("/groups/join", groupHandler.HandleJoinGroup)
		groups.GET("/groups/:groupID", groupHandler.HandleGetGroup)
		groups.POST("/groups/:groupID/registration/close", groupHandler.HandleCloseRegistration)
		groups.POST("/groups/:groupID/close", groupHandler.HandleCloseGroup)
		groups.POST("/groups/:groupID/exclusions", groupHandler.HandleAddExclusion)
		groups.GET("/groups/:groupID/exclusions", groupHandler.HandleGetExclusions)
		// Draw
		groups.POST("/groups/:groupID/draw", drawHandler.HandleRunDraw)
		groups.GET("/groups/:groupID/assignment", drawHandler.HandleGetMyAssignment)
		groups.GET("/groups/:groupID/assignments", drawHandler.HandleGetAssignment)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Secret Santa API"
	docs.SwaggerInfo.Description = "Gift-exchange coordination API with a seedable draw engine."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
