package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/deptportal/internal/app/controllers"
	"github.com/yigit/deptportal/internal/app/models"
	"github.com/yigit/deptportal/internal/app/pages"
	appRepos "github.com/yigit/deptportal/internal/app/repositories"
	appRoutes "github.com/yigit/deptportal/internal/app/routes"
	appServices "github.com/yigit/deptportal/internal/app/services"
	"github.com/yigit/deptportal/internal/config"
	"github.com/yigit/deptportal/internal/db"
	"github.com/yigit/deptportal/internal/docstore"
	appMiddleware "github.com/yigit/deptportal/internal/middleware"
	pkgAuth "github.com/yigit/deptportal/internal/pkg/auth"
	"github.com/yigit/deptportal/internal/pkg/dberrors"
	"github.com/yigit/deptportal/internal/pkg/email"
	"github.com/yigit/deptportal/internal/pkg/filestorage"
	"github.com/yigit/deptportal/internal/pkg/logger"
	"github.com/yigit/deptportal/internal/pkg/websocket"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store          docstore.Store         // Backend chosen by store.driver
	Repos          *appRepos.Repositories // Include the main repo container
	Services       *appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	JWTService     *pkgAuth.JWTService
	FileStorage    *filestorage.LocalStorage
	Hub            *websocket.Hub
	Feed           *websocket.Handler
	Pages          *pages.Pages // Server-rendered site and admin panel
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads .env and configs/config.yaml and
// configures the global logger from the result.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	if err := config.LoadDotEnv(); err != nil {
		logger.Error().Err(err).Msg("Failed to load .env file")
		return nil, zerolog.Logger{}, err // Return zero logger and the error
	}

	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStore opens the configured document store and checks it answers.
func SetupStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (docstore.Store, error) {
	lgr.Info().Str("driver", cfg.Store.Driver).Msg("Opening document store...")
	store, err := db.OpenStore(ctx, cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to open document store")
		return nil, err
	}
	// Test connection
	if err := store.Ping(ctx); err != nil {
		if dberrors.IsConnectionError(err) {
			lgr.Error().Err(err).Str("driver", cfg.Store.Driver).Msg("Document store is not reachable")
		} else {
			lgr.Error().Err(err).Msg("Failed to ping document store")
		}
		_ = store.Close(ctx)
		return nil, err
	}
	lgr.Info().Msg("Document store ready.")
	return store, nil
}

// NewMailer picks the password reset mail provider from config.
func NewMailer(cfg *config.Config, lgr zerolog.Logger) email.EmailService {
	mailCfg := email.Config{
		FromName:  cfg.Email.FromName,
		FromEmail: cfg.Email.From,
		ResetURL:  cfg.Email.ResetURL,
	}
	if mailCfg.ResetURL == "" {
		mailCfg.ResetURL = strings.TrimRight(cfg.Server.BaseURL, "/") + "/admin/reset-password"
	}

	// Pick the transport; without a provider mails are only logged
	var sender email.Sender
	switch cfg.Email.Provider {
	case config.EmailProviderSMTP:
		sender = email.NewSMTPSender(email.SMTPConfig{
			Host:      cfg.Email.SMTP.Host,
			Port:      cfg.Email.SMTP.Port,
			Username:  cfg.Email.SMTP.Username,
			Password:  cfg.Email.SMTP.Password,
			FromName:  cfg.Email.FromName,
			FromEmail: cfg.Email.From,
			UseTLS:    cfg.Email.SMTP.Port == 465,
		}, lgr)
	case config.EmailProviderSendGrid:
		sender = email.NewSendGridSender(cfg.Email.SendGridAPIKey, cfg.Email.FromName, cfg.Email.From, lgr)
	default:
		sender = email.LogSender{Logger: lgr}
	}
	lgr.Info().Str("provider", cfg.Email.Provider).Msg("Mailer configured")
	return email.NewEmailService(sender, mailCfg, lgr)
}

// BuildDependencies initializes repositories, services, controllers, the
// notification feed and the page handlers over an open store.
func BuildDependencies(cfg *config.Config, store docstore.Store, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Store: store, Logger: lgr}
	deps.Repos = appRepos.NewRepositories(store)

	// Initialize File Storage
	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, "/uploads")
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	// Initialize services
	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenTTL(),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	authService := appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.SessionRepository,
		deps.JWTService,
		NewMailer(cfg, lgr),
		appServices.AuthOptions{AllowSignup: cfg.Auth.AllowSignup},
		lgr.With().Str("service", "auth").Logger(),
	)

	deps.Services = &appServices.Services{
		Auth: authService,
		Faculty: appServices.NewFacultyService(
			deps.Repos.FacultyRepository,
			deps.Repos.ResearchRepository,
			deps.Repos.AchievementRepository,
			deps.FileStorage,
			appServices.ImageLimits{
				MaxWidth:       cfg.Images.MaxWidth,
				MaxHeight:      cfg.Images.MaxHeight,
				MaxUploadBytes: cfg.Images.MaxUploadBytes,
			},
			lgr.With().Str("service", "faculty").Logger(),
		),
		Student:       appServices.NewStudentService(deps.Repos.StudentRepository, lgr),
		Notification:  appServices.NewNotificationService(deps.Repos.NotificationRepository, cfg.RotationInterval(), lgr),
		Research:      appServices.NewResearchService(deps.Repos.ResearchRepository, lgr),
		Achievement:   appServices.NewAchievementService(deps.Repos.AchievementRepository, lgr),
		Event:         appServices.NewEventService(deps.Repos.EventRepository, lgr),
		Certification: appServices.NewCertificationService(deps.Repos.CertificationRepository, lgr),
	}

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(authService, cfg.Auth.CookieName)
	deps.Controllers = buildControllers(cfg, deps)

	// Live notification feed
	deps.Hub = websocket.NewHub(lgr.With().Str("component", "notification-feed").Logger())
	deps.Feed = websocket.NewHandler(deps.Hub, deps.Controllers.Notification.Snapshot, lgr)

	deps.Pages, err = pages.New(deps.Services, deps.AuthMiddleware, pages.Options{
		CookieSecure: cfg.Auth.CookieSecure,
		Logger:       lgr.With().Str("component", "pages").Logger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}
	return deps, nil
}

func buildControllers(cfg *config.Config, deps *Dependencies) appRoutes.Controllers {
	svc := deps.Services
	return appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(svc.Auth, deps.Logger),
		Faculty:      appControllers.NewFacultyController(svc.Faculty, deps.Logger),
		Student:      appControllers.NewStudentController(svc.Student),
		Notification: appControllers.NewNotificationController(svc.Notification),
		Research: appControllers.NewContentController[models.Research](svc.Research, func(r *models.Research, id string) { r.ID = id }).
			WithList(func(c *gin.Context) ([]*models.Research, error) {
				if facultyID := c.Query("facultyId"); facultyID != "" {
					return svc.Research.ListByFaculty(c.Request.Context(), facultyID)
				}
				return svc.Research.List(c.Request.Context())
			}),
		Achievement: appControllers.NewContentController[models.Achievement](svc.Achievement, func(a *models.Achievement, id string) { a.ID = id }).
			WithList(func(c *gin.Context) ([]*models.Achievement, error) {
				if facultyID := c.Query("facultyId"); facultyID != "" {
					return svc.Achievement.ListByFaculty(c.Request.Context(), facultyID)
				}
				return svc.Achievement.List(c.Request.Context())
			}),
		Event: appControllers.NewContentController[models.Event](svc.Event, func(e *models.Event, id string) { e.ID = id }).
			WithList(func(c *gin.Context) ([]*models.Event, error) {
				if eventType := c.Query("type"); eventType != "" {
					return svc.Event.ListByType(c.Request.Context(), strings.ToLower(eventType))
				}
				return svc.Event.ListRecent(c.Request.Context())
			}),
		Certification: appControllers.NewContentController[models.Certification](svc.Certification, func(r *models.Certification, id string) { r.ID = id }).
			WithList(func(c *gin.Context) ([]*models.Certification, error) {
				if certType := c.Query("type"); certType != "" {
					return svc.Certification.ListByType(c.Request.Context(), certType)
				}
				return svc.Certification.List(c.Request.Context())
			}),
		Health: appControllers.NewHealthController(deps.Store, cfg.Store.Driver),
	}
}

// SetupRouter configures the Gin engine with middleware, the JSON API, the
// notification feed, uploads and the HTML pages.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(lgr), appMiddleware.Recovery(lgr))

	// Setup API routes using the dependencies
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)
	// Setup Swagger
	appRoutes.SetupSwagger(router)

	// Uploaded and downloaded images are plain files on disk
	router.Static("/uploads", cfg.Server.StoragePath)
	router.Static("/faculty/images", cfg.Images.DownloadDir)
	router.GET("/ws/notifications", deps.Feed.HandleConnection)

	deps.Pages.Register(router) // Registers NoRoute, keep last
	return router
}
