package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	// Init swagger doc
	_ "placement-portal-backend/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"placement-portal-backend/internal/auth"
	"placement-portal-backend/internal/controller/admin"
	"placement-portal-backend/internal/controller/application"
	"placement-portal-backend/internal/controller/community"
	"placement-portal-backend/internal/controller/feedback"
	"placement-portal-backend/internal/controller/job"
	"placement-portal-backend/internal/controller/user"
	"placement-portal-backend/internal/database"
	"placement-portal-backend/internal/events"
	"placement-portal-backend/internal/middleware"
	"placement-portal-backend/internal/model"
	"placement-portal-backend/internal/placement"
	"placement-portal-backend/internal/storage"
	"placement-portal-backend/internal/utilities"
)

// RegisterRoutes will register each http endpoint routes to bound Server instance
func (s *MyServer) RegisterRoutes() http.Handler {
	r := gin.New()

	r.Use(
		gin.Recovery(),
		middleware.SafeHeader(),
		middleware.RequestLogger(s.Logger),
		middleware.Metrics(s.Metrics),
		cors.New(cors.Config{
			AllowOrigins:     s.Config.AllowOrigin,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
			AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
		}),
	)
	limiter := middleware.RateLimiterMiddleware(uint(max(s.Config.RateLimitRequestsPerSecond, 0)), s.Redis)

	pages := utilities.PageLimits{Default: s.Config.PageSizeDefault, Max: s.Config.PageSizeMax}
	emitter := events.NewEmitter(s.Publisher, s.Metrics)
	store := database.NewStore(s.DB)
	mutator := placement.NewProfileMutator(store, utilities.HashPassword,
		placement.WithStrictFields(s.Config.StrictProfileFields))

	var files storage.StorageClient
	if s.Storage != nil {
		files = s.Storage
	}

	lAuth := auth.NewLocalAuthHandler(s.DB, s.Tokens, s.Config.AdminSecretKey, auth.NewAuthLogger(s.Config.Logging, "logs"))
	logout := auth.NewLogoutController(s.Blacklist)
	userController := user.NewUserController(s.DB, mutator, s.Tokens, files, emitter, s.Metrics, s.Config.MaxUploadBytes)
	jobController := job.NewJobController(s.DB, pages)
	applicationController := application.NewApplicationController(s.DB, emitter, s.Metrics, pages)
	communityController := community.NewCommunityController(s.DB)
	feedbackController := feedback.NewFeedbackController(s.DB, pages)
	adminController := admin.NewAdminController(s.DB, pages)

	// the limiter runs after RequireAuth so signed-in requests are counted per user
	requireAuth := []gin.HandlerFunc{
		middleware.RequireAuth(store, s.Tokens),
		middleware.JwtBlacklistCheck(s.Blacklist),
		limiter,
	}

	r.GET("/health", s.healthHandler)
	r.GET("/metrics", gin.WrapH(s.Metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		authRoute := api.Group("/auth")
		{
			authRoute.POST("register", limiter, lAuth.RegisterHandler)
			authRoute.POST("login", limiter, lAuth.LoginHandler)
			authRoute.POST("logout", append(requireAuth, logout.LogoutHandler)...)
		}

		needAuth := api.Group("", requireAuth...)

		userRoute := needAuth.Group("/users")
		{
			userRoute.GET("profile", userController.GetMyProfile)
			userRoute.PUT("profile", userController.UpdateMyProfile)
			userRoute.POST("profile/resume",
				middleware.CheckRole(model.RoleStudent),
				middleware.SizeLimit(s.Config.MaxUploadBytes),
				userController.UploadResume)
			userRoute.GET(":id", userController.GetUser)
			userRoute.PUT(":id", userController.UpdateUser)
			userRoute.GET(":id/resume", userController.DownloadResume)
		}

		jobRoute := needAuth.Group("/jobs")
		{
			jobRoute.GET("", jobController.ListJobs)
			jobRoute.GET("myjobs", middleware.CheckRole(model.RoleRecruiter), jobController.MyJobs)
			jobRoute.GET(":id", jobController.GetJob)
			jobRoute.POST("", middleware.CheckRole(model.RoleRecruiter), jobController.CreateJob)

			ownerRoute := jobRoute.Group("", middleware.CheckRole(model.RoleRecruiter, model.RoleAdmin))
			ownerRoute.PUT(":id", jobController.UpdateJob)
			ownerRoute.DELETE(":id", jobController.DeleteJob)
		}

		applicationRoute := needAuth.Group("/applications")
		{
			studentOnly := middleware.CheckRole(model.RoleStudent)
			recruiterOrAdmin := middleware.CheckRole(model.RoleRecruiter, model.RoleAdmin)

			applicationRoute.POST(":jobId", studentOnly, applicationController.CreateApplication)
			applicationRoute.GET("my", studentOnly, applicationController.MyApplications)
			applicationRoute.GET("recruiter", middleware.CheckRole(model.RoleRecruiter), applicationController.RecruiterApplications)
			applicationRoute.GET("job/:jobId", recruiterOrAdmin, applicationController.JobApplications)
			applicationRoute.PUT(":id", recruiterOrAdmin, applicationController.UpdateStatus)
			applicationRoute.GET("admin", middleware.CheckRole(model.RoleAdmin), applicationController.AllApplications)
		}

		communityRoute := needAuth.Group("/community")
		{
			communityRoute.POST("", communityController.CreatePost)
			communityRoute.GET("", communityController.ListPosts)
			communityRoute.GET(":id", communityController.GetPost)
			communityRoute.PUT(":id", communityController.UpdatePost)
			communityRoute.DELETE(":id", communityController.DeletePost)
			communityRoute.POST(":id/comments", communityController.CreateComment)
			communityRoute.GET(":id/comments", communityController.ListComments)
			communityRoute.DELETE(":id/comments/:commentId", communityController.DeleteComment)
		}

		feedbackRoute := needAuth.Group("/feedback")
		{
			feedbackRoute.POST("", middleware.CheckRole(model.RoleStudent), feedbackController.SubmitFeedback)
			feedbackRoute.GET("my", middleware.CheckRole(model.RoleStudent), feedbackController.MyFeedback)
			feedbackRoute.GET("all", middleware.CheckRole(model.RoleAdmin), feedbackController.AllFeedback)
		}

		adminRoute := needAuth.Group("/admin", middleware.CheckRole(model.RoleAdmin))
		{
			adminRoute.GET("users", adminController.ListUsers)
			adminRoute.GET("users/:id", userController.GetUser)
			adminRoute.PUT("users/:id", userController.UpdateUser)
			adminRoute.DELETE("users/:id", adminController.DeleteUser)
			adminRoute.GET("jobs", jobController.ListJobs)
			adminRoute.DELETE("jobs/:id", jobController.DeleteJob)
			adminRoute.GET("feedback", feedbackController.AllFeedback)
			adminRoute.DELETE("feedback/:id", feedbackController.DeleteFeedback)
			adminRoute.GET("applications", applicationController.AllApplications)
			adminRoute.GET("audits", adminController.ListAudits)
		}
	}

	return r
}

func (s *MyServer) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}
