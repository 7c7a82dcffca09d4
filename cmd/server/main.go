package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/hieuleminh03/vgov/internal/config"
	"github.com/hieuleminh03/vgov/internal/handler"
	"github.com/hieuleminh03/vgov/internal/model"
	"github.com/hieuleminh03/vgov/internal/notify"
	"github.com/hieuleminh03/vgov/internal/policy"
	"github.com/hieuleminh03/vgov/internal/router"
	"github.com/hieuleminh03/vgov/internal/service"
	"github.com/hieuleminh03/vgov/internal/storage"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	// Load config
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Decimals serialize as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true

	// Database
	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}

	// Auto migrate
	if err := db.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.ProjectMember{},
		&model.WorkLog{},
		&model.Notification{},
	); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	// Seed the initial admin account
	if err := seedAdmin(db, cfg.Admin); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Photo storage
	photos, err := storage.NewPhotoStore(cfg.Storage.UploadDir, cfg.Storage.MaxSizeMB)
	if err != nil {
		log.Fatalf("init photo store: %v", err)
	}

	// Notifier
	notifier := notify.NewDBNotifier(db)

	// Services
	tokenStore := service.NewRedisTokenStore(rdb)
	authService := service.NewAuthService(db, tokenStore, cfg.JWT.Secret, cfg.JWT.ExpireHours)
	membershipService := service.NewMembershipService(db)
	accessPolicy := policy.New(membershipService)
	userService := service.NewUserService(db, membershipService)
	projectService := service.NewProjectService(db, accessPolicy, membershipService)
	workLogService := service.NewWorkLogService(db, accessPolicy)
	analyticsService := service.NewAnalyticsService(db, accessPolicy, membershipService, workLogService)
	notificationService := service.NewNotificationService(db)
	profileService := service.NewProfileService(db)

	// Inject notifiers
	membershipService.SetNotifier(notifier)
	projectService.SetNotifier(notifier)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	projectHandler := handler.NewProjectHandler(projectService)
	memberHandler := handler.NewMemberHandler(membershipService)
	workLogHandler := handler.NewWorkLogHandler(workLogService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	dashboardHandler := handler.NewDashboardHandler(db, membershipService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	profileHandler := handler.NewProfileHandler(profileService)
	fileHandler := handler.NewFileHandler(photos, cfg.Storage.PublicPath)
	systemHandler := handler.NewSystemHandler(db)

	// Gin engine
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// Setup routes
	router.Setup(r, router.Deps{
		DB:        db,
		JWTSecret: cfg.JWT.Secret,
		IsTokenRevoked: func(c *gin.Context, jti string) (bool, error) {
			return authService.IsTokenRevoked(c.Request.Context(), jti)
		},
		AuthHandler:         authHandler,
		UserHandler:         userHandler,
		ProjectHandler:      projectHandler,
		MemberHandler:       memberHandler,
		WorkLogHandler:      workLogHandler,
		AnalyticsHandler:    analyticsHandler,
		DashboardHandler:    dashboardHandler,
		NotificationHandler: notificationHandler,
		ProfileHandler:      profileHandler,
		FileHandler:         fileHandler,
		SystemHandler:       systemHandler,
	})

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server run: %v", err)
	}
}

// seedAdmin creates the bootstrap administrator when the users table is empty.
func seedAdmin(db *gorm.DB, admin config.AdminConfig) error {
	var count int64
	if err := db.Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := model.User{
		EmployeeCode: admin.EmployeeCode,
		FullName:     admin.FullName,
		Email:        admin.Email,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		return err
	}
	log.Printf("Seeded admin account %s", user.Email)
	return nil
}
