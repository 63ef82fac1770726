package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"anoa.com/eduelevate/internal/config"
	"anoa.com/eduelevate/internal/middleware"
	"anoa.com/eduelevate/pkg/authtoken"
	"anoa.com/eduelevate/pkg/razorpay"
	"anoa.com/eduelevate/pkg/storage"

	aiHttp "anoa.com/eduelevate/internal/modules/ai/delivery/http"
	aiService "anoa.com/eduelevate/internal/modules/ai/service"

	categoryHttp "anoa.com/eduelevate/internal/modules/category/delivery/http"
	categoryRepo "anoa.com/eduelevate/internal/modules/category/repository"
	categoryService "anoa.com/eduelevate/internal/modules/category/service"

	courseHttp "anoa.com/eduelevate/internal/modules/course/delivery/http"
	courseRepo "anoa.com/eduelevate/internal/modules/course/repository"
	courseService "anoa.com/eduelevate/internal/modules/course/service"

	enrollmentHttp "anoa.com/eduelevate/internal/modules/enrollment/delivery/http"
	enrollmentRepo "anoa.com/eduelevate/internal/modules/enrollment/repository"
	enrollmentService "anoa.com/eduelevate/internal/modules/enrollment/service"

	notifService "anoa.com/eduelevate/internal/modules/notification/service"

	paymentHttp "anoa.com/eduelevate/internal/modules/payment/delivery/http"
	paymentRepo "anoa.com/eduelevate/internal/modules/payment/repository"
	paymentService "anoa.com/eduelevate/internal/modules/payment/service"

	profileHttp "anoa.com/eduelevate/internal/modules/profile/delivery/http"
	profileRepo "anoa.com/eduelevate/internal/modules/profile/repository"
	profileService "anoa.com/eduelevate/internal/modules/profile/service"

	ratingHttp "anoa.com/eduelevate/internal/modules/rating/delivery/http"
	ratingRepo "anoa.com/eduelevate/internal/modules/rating/repository"
	ratingService "anoa.com/eduelevate/internal/modules/rating/service"

	searchHttp "anoa.com/eduelevate/internal/modules/search/delivery/http"
	searchService "anoa.com/eduelevate/internal/modules/search/service"

	userHttp "anoa.com/eduelevate/internal/modules/user/delivery/http"
	userRepo "anoa.com/eduelevate/internal/modules/user/repository"
	userService "anoa.com/eduelevate/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies are the process-wide clients shared by every module.
// Redis, Search and ChatModel may be nil.
type Dependencies struct {
	DB        *gorm.DB
	Redis     *redis.Client
	Media     storage.MediaStorage
	Search    meilisearch.ServiceManager
	Payments  *razorpay.Client
	ChatModel aiService.ChatModel
	Notifier  notifService.NotificationService
}

type Server struct {
	engine *gin.Engine
	http   *http.Server
	logger *zap.Logger
}

func NewServer(cfg *config.Config, deps Dependencies, logger *zap.Logger) *Server {
	db := deps.DB
	tokens := authtoken.NewManager(cfg.JWTSecret, cfg.JWTTTL)

	userRepository := userRepo.NewUserRepository(db)
	otpRepository := userRepo.NewOTPRepository(db)
	authSvc := userService.NewAuthService(userRepository, otpRepository, tokens, deps.Notifier, userService.Options{
		FrontendURL:   cfg.FrontendURL,
		OTPTTL:        cfg.OTPTTL,
		ResetTokenTTL: cfg.ResetTokenTTL,
	}, logger)
	authHandler := userHttp.NewAuthHandler(authSvc, cfg.IsProduction())

	var searchSvc searchService.SearchService
	if deps.Search != nil {
		searchSvc = searchService.NewMeiliSearchService(deps.Search, logger)
	}

	enrollmentRepository := enrollmentRepo.NewEnrollmentRepository(db)
	enrollmentSvc := enrollmentService.NewEnrollmentService(enrollmentRepository, userRepository, deps.Notifier, logger)
	enrollmentHandler := enrollmentHttp.NewEnrollmentHandler(enrollmentSvc)

	categoryRepository := categoryRepo.NewCategoryRepository(db)
	categorySvc := categoryService.NewCategoryService(categoryRepository)
	categoryHandler := categoryHttp.NewCategoryHandler(categorySvc)

	courseRepository := courseRepo.NewCourseRepository(db)
	ratingSvc := ratingService.NewRatingService(ratingRepo.NewRatingRepository(db), courseRepository, enrollmentSvc, deps.Redis, logger)
	ratingHandler := ratingHttp.NewRatingHandler(ratingSvc)

	var indexer courseService.CourseIndexer
	if searchSvc != nil {
		indexer = searchSvc
	}
	courseSvc := courseService.NewCourseService(courseRepository, categoryRepository, enrollmentSvc, enrollmentRepository, deps.Media, indexer, ratingSvc, cfg.MediaFolder, logger)
	sectionSvc := courseService.NewSectionService(
		courseRepository,
		courseRepo.NewSectionRepository(db),
		courseRepo.NewSubSectionRepository(db),
		deps.Media,
		cfg.MediaFolder,
		logger,
	)
	courseHandler := courseHttp.NewCourseHandler(courseSvc, sectionSvc)

	profileSvc := profileService.NewProfileService(profileRepo.NewProfileRepository(db), enrollmentSvc, enrollmentRepository, ratingSvc, deps.Media, cfg.MediaFolder, logger)
	profileHandler := profileHttp.NewProfileHandler(profileSvc)

	paymentSvc := paymentService.NewPaymentService(
		paymentRepo.NewPaymentRepository(db),
		deps.Payments,
		courseRepository,
		enrollmentSvc,
		userRepository,
		deps.Notifier,
		cfg.RazorpayKey,
		logger,
	)
	paymentHandler := paymentHttp.NewPaymentHandler(paymentSvc)

	chatSvc := aiService.NewChatService(deps.ChatModel, deps.Redis, cfg.AIRateLimit, logger)
	chatHandler := aiHttp.NewChatHandler(chatSvc)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	authMiddleware := middleware.NewAuthMiddleware(tokens)
	requireAuth := authMiddleware.RequireAuth()

	api := router.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/sendotp", authHandler.SendOTP)
		auth.POST("/signup", authHandler.SignUp)
		auth.POST("/login", authHandler.Login)
		auth.POST("/changepassword", requireAuth, authHandler.ChangePassword)
		auth.POST("/reset-password-token", authHandler.ResetPasswordToken)
		auth.POST("/reset-password", authHandler.ResetPassword)
	}

	profile := api.Group("/profile")
	profile.Use(requireAuth)
	{
		profile.PUT("/updateProfile", profileHandler.UpdateProfile)
		profile.DELETE("/deleteProfile", profileHandler.DeleteAccount)
		profile.GET("/getUserDetails", profileHandler.GetUserDetails)
		profile.PUT("/updateDisplayPicture", profileHandler.UpdateDisplayPicture)
		profile.GET("/getEnrolledCourses", authMiddleware.RequireStudent(), profileHandler.GetEnrolledCourses)
		profile.GET("/instructorDashboard", authMiddleware.RequireInstructor(), profileHandler.InstructorDashboard)
	}

	course := api.Group("/course")
	{
		course.GET("/getAllCourses", courseHandler.GetAllCourses)
		course.POST("/getCourseDetails", courseHandler.GetCourseDetails)
		course.GET("/showAllCategories", categoryHandler.ShowAllCategories)
		course.POST("/getCategoryPageDetails", categoryHandler.CategoryPageDetails)
		course.GET("/getAverageRating", ratingHandler.GetAverageRating)
		course.GET("/getReviews", ratingHandler.GetReviews)

		course.POST("/getFullCourseDetails", requireAuth, courseHandler.GetFullCourseDetails)

		instructor := course.Group("")
		instructor.Use(requireAuth, authMiddleware.RequireInstructor())
		{
			instructor.POST("/createCourse", courseHandler.CreateCourse)
			instructor.POST("/editCourse", courseHandler.EditCourse)
			instructor.POST("/deleteCourse", courseHandler.DeleteCourse)
			instructor.GET("/getInstructorCourses", courseHandler.GetInstructorCourses)
			instructor.POST("/addSection", courseHandler.CreateSection)
			instructor.POST("/updateSection", courseHandler.UpdateSection)
			instructor.POST("/deleteSection", courseHandler.DeleteSection)
			instructor.POST("/addSubSection", courseHandler.CreateSubSection)
			instructor.POST("/updateSubSection", courseHandler.UpdateSubSection)
			instructor.POST("/deleteSubSection", courseHandler.DeleteSubSection)
		}

		student := course.Group("")
		student.Use(requireAuth, authMiddleware.RequireStudent())
		{
			student.POST("/updateCourseProgress", enrollmentHandler.UpdateCourseProgress)
			student.POST("/createRating", ratingHandler.CreateRating)
		}

		course.POST("/createCategory", requireAuth, authMiddleware.RequireAdmin(), categoryHandler.CreateCategory)

		if searchSvc != nil {
			searchHandler := searchHttp.NewSearchHandler(searchSvc)
			course.GET("/search", searchHandler.SearchCourses)
			course.GET("/search/token", searchHandler.SearchToken)
		}
	}

	payment := api.Group("/payment")
	payment.Use(requireAuth, authMiddleware.RequireStudent())
	{
		payment.POST("/capturePayment", paymentHandler.CapturePayment)
		payment.POST("/verifyPayment", paymentHandler.VerifyPayment)
		payment.POST("/sendPaymentSuccessEmail", paymentHandler.SendPaymentSuccessEmail)
	}

	api.POST("/ai/chat", requireAuth, chatHandler.Chat)

	return &Server{
		engine: router,
		logger: logger,
	}
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until Shutdown is called.
func (s *Server) Run(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.Info("server starting", zap.String("addr", addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func setupCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
