package routes

import (
	"time"

	"mayhouse/config"
	"mayhouse/handlers"
	"mayhouse/metrics"
	"mayhouse/middleware"
	"mayhouse/models"
	"mayhouse/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers sign-in endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/auth")
	{
		api.POST("/register", hb.Auth.Register)
		api.POST("/login", hb.Auth.Login)
		api.POST("/wallet/nonce", hb.Auth.WalletNonce)
		api.POST("/wallet/verify", hb.Auth.WalletVerify)
		api.GET("/oauth/google/login", hb.Auth.GoogleLogin)
		api.GET("/oauth/google/callback", hb.Auth.GoogleCallback)

		// Protected routes (Require Authentication)
		protected := api.Group("")
		protected.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		protected.POST("/logout", hb.Auth.Logout)
		protected.GET("/me", hb.Auth.Me)
	}
}

// RegisterUserRoutes registers profile and host onboarding endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/users")
	{
		api.GET("/:id/profile", hb.Profile.GetPublicProfile)
		api.GET("/:id/experiences", hb.Profile.GetHostExperiences)
		api.GET("/:id/stats", hb.Profile.GetHostStats)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		protected.GET("/profile", hb.Profile.GetMyProfile)
		protected.PUT("/profile", hb.Profile.UpdateMyProfile)
		protected.POST("/host-application", hb.HostApplication.Apply)
		protected.GET("/host-application", hb.HostApplication.GetMine)
		protected.GET("/host-application/eligibility", hb.HostApplication.Eligibility)
	}
}

// RegisterExperienceRoutes registers host listing and photo endpoints.
func RegisterExperienceRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/experiences")
	{
		api.GET("/:id/photos", hb.Experience.ListPhotos)

		// Any signed-in user may list; the first listing upgrades them to host.
		protected := api.Group("")
		protected.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		protected.POST("", hb.Experience.Create)
		protected.GET("/my", hb.Experience.ListMine)
		protected.GET("/:id", hb.Experience.GetMine)
		protected.PUT("/:id", hb.Experience.Update)
		protected.POST("/:id/submit", hb.Experience.Submit)
		protected.DELETE("/:id", hb.Experience.Delete)
		protected.POST("/:id/photos", hb.Experience.UploadPhoto)
		protected.PATCH("/:id/photos/:photoId", hb.Experience.UpdatePhoto)
		protected.DELETE("/:id/photos/:photoId", hb.Experience.DeletePhoto)
	}
}

// RegisterEventRunRoutes registers the public and host event run endpoints.
func RegisterEventRunRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	public := r.Group("/event-runs")
	{
		public.GET("", hb.EventRun.PublicList)
		public.GET("/:id", hb.EventRun.PublicGet)
	}

	host := r.Group("/hosts/event-runs")
	{
		host.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo), middleware.RequireRole(models.RoleHost))
		host.POST("", hb.EventRun.HostCreate)
		host.GET("", hb.EventRun.HostList)
		host.GET("/:id", hb.EventRun.HostGet)
		host.PUT("/:id", hb.EventRun.HostUpdate)
		host.DELETE("/:id", hb.EventRun.HostDelete)
	}
}

// RegisterBookingRoutes sets up the endpoints for traveler bookings.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookingGroup := r.Group("/bookings")
	{
		bookingGroup.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		bookingGroup.POST("/calculate-cost", hb.Booking.CalculateCost)
		bookingGroup.POST("", hb.Booking.Create)
		bookingGroup.GET("/my", hb.Booking.ListMine)
		bookingGroup.GET("/:id", hb.Booking.Get)
	}
}

// RegisterBlockchainRoutes registers pricing, conversion and settlement endpoints.
func RegisterBlockchainRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/blockchain")
	{
		api.GET("/conversion/inr-to-wei", hb.Blockchain.INRToWei)
		api.GET("/conversion/wei-to-inr", hb.Blockchain.WeiToINR)
		api.GET("/eth-price", hb.Blockchain.EthPrice)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		protected.POST("/calculate-booking-cost", hb.Blockchain.CalculateBookingCost)
		protected.POST("/complete-event", middleware.RequireRole(models.RoleHost), hb.Blockchain.CompleteEvent)
		protected.GET("/status/:event_run_id", hb.Blockchain.Status)
		protected.GET("/host-events/:address", hb.Blockchain.HostEvents)
		protected.GET("/user-bookings/:address", hb.Blockchain.UserBookings)
	}
}

// RegisterLegalRoutes registers policy documents and EIP-712 signing.
func RegisterLegalRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/legal")
	{
		api.GET("/policies/:type", hb.Legal.GetPolicy)
		api.GET("/host-application/documents", hb.Legal.HostApplicationDocuments)
		api.GET("/terms-conditions", hb.Legal.Policy(models.PolicyTermsConditions))
		api.GET("/background-verification", hb.Legal.Policy(models.PolicyBackgroundVerification))
		api.GET("/privacy-policy", hb.Legal.Policy(models.PolicyPrivacyPolicy))
		api.GET("/health", hb.Legal.Health)

		api.GET("/my-status", middleware.JWTAuthUserMiddleware(hb.UserRepo), hb.Legal.MyStatus)
		api.POST("/admin/initialize-policies",
			middleware.JWTAuthUserMiddleware(hb.UserRepo),
			middleware.RequireRole(models.RoleAdmin),
			hb.Legal.InitializePolicies)
	}

	eip := r.Group("/legal/eip712")
	{
		eip.POST("/prepare-signature", hb.Legal.PrepareSignature)
		eip.POST("/prepare-bulk-signature", hb.Legal.PrepareBulkSignature)
		eip.POST("/verify-signature", hb.Legal.VerifySignature)
		eip.POST("/policy-status/:user_address", hb.Legal.PolicyStatus)
		eip.GET("/required-policies/:context", hb.Legal.RequiredPolicies)
		eip.GET("/health", hb.Legal.SigningHealth)
	}
}

// RegisterDesignRoutes registers the experience design wizard.
func RegisterDesignRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/design-experience")
	{
		api.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo), middleware.RequireRole(models.RoleHost))
		api.POST("/session", hb.Design.StartSession)
		api.PATCH("/session/:id/basics", hb.Design.SaveBasics)
		api.POST("/session/:id/media", hb.Design.UploadMedia)
		api.PATCH("/session/:id/media", hb.Design.ReorderMedia)
		api.PATCH("/session/:id/logistics", hb.Design.SaveLogistics)
		api.GET("/session/:id/review", hb.Design.Review)
		api.POST("/session/:id/submit", hb.Design.Submit)
		api.POST("/generate", hb.Design.Generate)
		api.POST("/transcribe", hb.Design.Transcribe)
		api.POST("/chat", hb.Design.Chat)
	}
}

// RegisterExploreRoutes registers the public catalogue and walking directions.
func RegisterExploreRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/explore")
	{
		api.GET("", hb.Explore.List)
		api.GET("/categories", hb.Explore.Categories)
		api.GET("/featured", hb.Explore.Featured)
		api.GET("/:experience_id", hb.Explore.Detail)
	}
	r.GET("/routes/walking", hb.Routes.Walking)
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/admin")
	{
		adminGroup.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo), middleware.RequireRole(models.RoleAdmin))

		adminGroup.GET("/experiences", hb.Experience.AdminList)
		adminGroup.GET("/experiences/pending", hb.Experience.AdminPending)
		adminGroup.GET("/experiences/stats", hb.Experience.AdminStats)
		adminGroup.GET("/experiences/:id", hb.Experience.AdminGet)
		adminGroup.POST("/experiences/:id/review", hb.Experience.AdminReview)

		adminGroup.GET("/event-runs", hb.EventRun.AdminList)
		adminGroup.GET("/event-runs/stats", hb.EventRun.AdminStats)
		adminGroup.GET("/event-runs/:id", hb.EventRun.AdminGet)
		adminGroup.GET("/event-runs/:id/bookings", hb.EventRun.AdminBookings)
		adminGroup.PUT("/event-runs/:id/status", hb.EventRun.AdminSetStatus)

		adminGroup.GET("/host-applications", hb.HostApplication.AdminList)
		adminGroup.GET("/host-applications/stats", hb.HostApplication.AdminStats)
		adminGroup.GET("/host-applications/:id", hb.HostApplication.AdminGet)
		adminGroup.POST("/host-applications/:id/review", hb.HostApplication.AdminReview)
	}
}

// RegisterHealthRoute registers the welcome, health-check and metrics endpoints.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/", handlers.Welcome)
	r.GET("/health", handlers.Health)
	r.GET("/health/database", handlers.DatabaseHealth)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(utils.ErrorHandler())
	r.Use(metrics.GinMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	RegisterHealthRoute(r)
	RegisterAuthRoutes(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterExperienceRoutes(r, hb)
	RegisterEventRunRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterBlockchainRoutes(r, hb)
	RegisterLegalRoutes(r, hb)
	RegisterDesignRoutes(r, hb)
	RegisterExploreRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
