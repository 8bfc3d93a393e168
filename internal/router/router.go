package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/farisarabic/faris-backend/internal/access"
	"github.com/farisarabic/faris-backend/internal/config"
	"github.com/farisarabic/faris-backend/internal/handler"
	"github.com/farisarabic/faris-backend/internal/middleware"
	"github.com/farisarabic/faris-backend/internal/model"
	"github.com/farisarabic/faris-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth          *handler.AuthHandler
	Public        *handler.PublicHandler
	StudentPortal *handler.StudentPortalHandler
	Attempt       *handler.AttemptHandler
	WS            *handler.WSHandler
	Exam          *handler.ExamHandler
	Question      *handler.QuestionHandler
	Practice      *handler.PracticeHandler
	Media         *handler.MediaHandler
	Result        *handler.ResultHandler
	StudentMgmt   *handler.StudentManagementHandler
	Dashboard     *handler.DashboardHandler
	Setting       *handler.SettingHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	auth middleware.Authenticator,
	rdb *redis.Client,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally, except for static uploads.
	brotliCfg := middleware.DefaultBrotliConfig
	brotliCfg.Skipper = middleware.SkipPrefixes("/uploads")
	router.Use(middleware.BrotliWithConfig(brotliCfg))

	// Local blobs are served straight from disk with a one-year cache.
	if cfg.StorageDriver == config.StorageDriverLocal || cfg.StorageDriver == "" {
		uploadsGroup := router.Group("/uploads")
		uploadsGroup.Use(middleware.CacheControl(middleware.CacheImmutable))
		{
			uploadsGroup.Static("/", cfg.UploadDir)
		}
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	authLimiter := middleware.NewRateLimiter(rdb, "auth", 30, time.Minute, log)
	contactLimiter := middleware.NewRateLimiter(rdb, "contact", 5, time.Minute, log)
	tutorLimiter := middleware.NewRateLimiter(rdb, "tutor", 20, time.Minute, log)

	requireStudent := middleware.RequireRole(auth, model.RoleStudent, log)
	requireAdmin := middleware.RequireRole(auth, model.RoleAdmin, log)
	requireSignedIn := middleware.RequireRole(auth, access.AnyRole, log)
	noStore := middleware.CacheControl(middleware.CacheNoStore)

	// ─── 0. Public Group (No Auth) ─────────────────────────────────────
	publicAPI := router.Group("/api/v1/public")
	{
		publicAPI.GET("/grades", handlers.Public.ListGrades)
		publicAPI.GET("/doctor", handlers.Setting.GetDoctorInfo)
		publicAPI.POST("/contact", contactLimiter.Middleware(), handlers.Public.SubmitContact)
	}

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	authAPI := router.Group("/api/v1/auth")
	authAPI.Use(noStore)
	{
		authAPI.POST("/register", authLimiter.Middleware(), handlers.Auth.Register)
		authAPI.POST("/login", authLimiter.Middleware(), handlers.Auth.Login)
		authAPI.POST("/forgot-password", authLimiter.Middleware(), handlers.Auth.ForgotPassword)
		authAPI.POST("/reset-password", authLimiter.Middleware(), handlers.Auth.ResetPassword)

		// Authenticated own-account routes, either role.
		authAPI.POST("/logout", requireSignedIn, handlers.Auth.Logout)
		authAPI.GET("/me", requireSignedIn, handlers.Auth.Me)
		authAPI.PUT("/profile", requireSignedIn, handlers.Auth.UpdateProfile)
		authAPI.PUT("/password", requireSignedIn, handlers.Auth.ChangePassword)
	}

	// ─── 2. Student Group (JWT + active student) ───────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(requireStudent, noStore)
	{
		studentAPI.GET("/dashboard", handlers.StudentPortal.GetDashboard)

		studentAPI.GET("/exams", handlers.StudentPortal.ListExams)
		studentAPI.GET("/exams/:exam_id", handlers.Attempt.StartExam)
		studentAPI.POST("/exams/:exam_id/submit", handlers.Attempt.SubmitExam)
		studentAPI.POST("/exams/:exam_id/upload", handlers.Attempt.UploadAnswer)

		studentAPI.GET("/practice", handlers.StudentPortal.ListPractice)
		studentAPI.GET("/practice/:practice_id", handlers.Attempt.StartPractice)
		studentAPI.POST("/practice/:practice_id/submit", handlers.Attempt.SubmitPractice)

		studentAPI.GET("/library", handlers.StudentPortal.ListLibrary)
		studentAPI.GET("/explanations", handlers.StudentPortal.ListExplanations)

		studentAPI.GET("/results/:result_id", handlers.StudentPortal.GetResult)
		studentAPI.GET("/practice-results", handlers.StudentPortal.ListPracticeResults)

		studentAPI.POST("/tutor", tutorLimiter.Middleware(), handlers.StudentPortal.AskTutor)
	}

	// ─── 3. WebSocket Group (token in query) ───────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(requireStudent)
	{
		ws.GET("/student/exams/:exam_id/stream", handlers.WS.ExamStream)
		ws.GET("/student/practice/:practice_id/stream", handlers.WS.PracticeStream)
	}

	// ─── 4. Admin Group (JWT + admin role) ─────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(requireAdmin, noStore)
	{
		// Dashboard
		adminAPI.GET("/dashboard", handlers.Dashboard.GetDashboardData)

		// Exam management
		adminAPI.GET("/exams", handlers.Exam.ListExams)
		adminAPI.POST("/exams", handlers.Exam.CreateExam)
		adminAPI.GET("/exams/:id", handlers.Exam.GetExam)
		adminAPI.PUT("/exams/:id", handlers.Exam.UpdateExam)
		adminAPI.DELETE("/exams/:id", handlers.Exam.DeleteExam)
		adminAPI.POST("/exams/:id/publish-results", handlers.Exam.PublishResults)
		adminAPI.GET("/exams/:id/questions", handlers.Question.ListQuestions(model.ParentExam))
		adminAPI.POST("/exams/:id/questions", handlers.Question.AddQuestion(model.ParentExam))

		// Practice management
		practiceGroup := adminAPI.Group("/practice")
		{
			practiceGroup.GET("", handlers.Practice.GetAll)
			practiceGroup.POST("", handlers.Practice.Create)
			practiceGroup.GET("/:id", handlers.Practice.Get)
			practiceGroup.PUT("/:id", handlers.Practice.Update)
			practiceGroup.DELETE("/:id", handlers.Practice.Delete)
			practiceGroup.GET("/:id/questions", handlers.Question.ListQuestions(model.ParentPractice))
			practiceGroup.POST("/:id/questions", handlers.Question.AddQuestion(model.ParentPractice))
		}

		// Questions of either parent
		adminAPI.PUT("/questions/:id", handlers.Question.UpdateQuestion)
		adminAPI.DELETE("/questions/:id", handlers.Question.DeleteQuestion)

		// Library and explanations
		adminAPI.GET("/library", handlers.Media.ListLibrary)
		adminAPI.POST("/library", handlers.Media.UploadLibraryFile)
		adminAPI.DELETE("/library/:id", handlers.Media.DeleteLibraryFile)
		adminAPI.GET("/explanations", handlers.Media.ListExplanations)
		adminAPI.POST("/explanations", handlers.Media.CreateExplanation)
		adminAPI.DELETE("/explanations/:id", handlers.Media.DeleteExplanation)

		// Results and grading
		adminAPI.GET("/results", handlers.Result.ListResults)
		adminAPI.GET("/results/:id", handlers.Result.GetResult)
		adminAPI.PUT("/results/:id/grade", handlers.Result.GradeResult)
		adminAPI.GET("/practice-results", handlers.Result.ListPracticeResults)

		// Student management
		adminAPI.GET("/students", handlers.StudentMgmt.ListStudents)
		adminAPI.GET("/students/:id", handlers.StudentMgmt.GetStudent)
		adminAPI.PUT("/students/:id/status", handlers.StudentMgmt.UpdateStatus)
		adminAPI.POST("/students/:id/toggle-status", handlers.StudentMgmt.ToggleStatus)
		adminAPI.DELETE("/students/:id", handlers.StudentMgmt.DeleteStudent)

		// Contact inbox
		adminAPI.GET("/messages", handlers.Dashboard.ListMessages)
		adminAPI.POST("/messages/:id/toggle-read", handlers.Dashboard.ToggleMessageRead)
		adminAPI.DELETE("/messages/:id", handlers.Dashboard.DeleteMessage)

		// App Settings Routes
		settingsGroup := adminAPI.Group("/settings")
		{
			settingsGroup.PUT("/doctor/cv", handlers.Setting.UpdateDoctorCV)
			settingsGroup.PUT("/doctor/image", handlers.Setting.UpdateDoctorImage)
		}
	}

	return router
}
