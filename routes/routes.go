package routes

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"enorae-backend/booking"
	"enorae-backend/config"
	"enorae-backend/controllers"
	"enorae-backend/models"
	"enorae-backend/services"
	"enorae-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps carries what the handlers need beyond config.DB.
type Deps struct {
	Settings   *config.Settings
	Logger     *slog.Logger
	Booker     *booking.Booker
	Events     *services.EventPublisher
	Commission *services.CommissionService
	// Counter backs the rate limiter. Without one no limit is enforced.
	Counter utils.WindowCounter
}

// recordViolation stores the first over-limit request of each window.
func recordViolation(db *gorm.DB, logger *slog.Logger) func(context.Context, utils.Violation) {
	return func(ctx context.Context, v utils.Violation) {
		row := models.RateLimitViolation{
			ClientKey:   v.ClientKey,
			Route:       v.Route,
			Count:       v.Count,
			Limit:       v.Limit,
			WindowStart: v.WindowStart,
		}
		if err := db.WithContext(ctx).Create(&row).Error; err != nil {
			logger.Error("failed to record rate limit violation", "error", err, "route", v.Route)
		}
	}
}

func noLimit(c *gin.Context) { c.Next() }

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.Settings.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length", "Location", "Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(config.PerformanceLogger(d.Logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	var limit gin.HandlerFunc = noLimit
	if d.Counter != nil {
		rl := utils.NewRateLimiter(d.Counter, d.Settings.RateLimitPerMinute, time.Minute)
		rl.Logger = d.Logger
		rl.OnViolation = recordViolation(config.DB, d.Logger)
		limit = rl.Middleware()
	}

	auth := r.Group("/auth")
	{
		auth.POST("/register", limit, controllers.Register)
		auth.POST("/login", limit, controllers.Login)
		auth.POST("/logout", controllers.Logout)

		auth.GET("/me", utils.AuthMiddleware(), controllers.Me)
	}

	bookingController := &controllers.BookingController{Booker: d.Booker}
	r.POST("/book", utils.AuthMiddleware(), utils.RequireCapability(utils.CapBook), limit, bookingController.Book)

	// Public catalog for the booking form.
	r.GET("/salons/:id/catalog", controllers.GetSalonCatalog)

	appointments := &controllers.AppointmentController{Events: d.Events, Loc: d.Settings.BookingLocation}
	staff := &controllers.StaffController{Commission: d.Commission}
	reports := &controllers.ReportController{Loc: d.Settings.BookingLocation}
	dashboard := &controllers.DashboardController{Loc: d.Settings.BookingLocation}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		customer := api.Group("/customer", utils.RequireCapability(utils.CapCustomerPortal))
		{
			customer.GET("/appointments", appointments.GetCustomerAppointments)
			customer.POST("/appointments/:id/cancel", appointments.CancelCustomerAppointment)
		}

		manage := api.Group("", utils.RequireCapability(utils.CapManageSalon))
		{
			svc := manage.Group("/services")
			{
				svc.POST("", controllers.CreateService)
				svc.GET("", controllers.GetServices)
				svc.GET("/:id", controllers.GetService)
				svc.PUT("/:id", controllers.UpdateService)
				svc.DELETE("/:id", controllers.DeleteService)
			}

			manage.GET("/appointments", appointments.GetAppointments)
			manage.PUT("/appointments/:id/status", appointments.UpdateAppointmentStatus)

			profile := manage.Group("/profile")
			{
				profile.GET("", controllers.GetProfile)
				profile.PUT("", controllers.UpdateProfile)
				profile.PUT("/hours", controllers.UpdateWorkingHours)
				profile.PUT("/bookings", controllers.UpdateBookingAvailability)
			}

			team := manage.Group("/team")
			{
				team.GET("", staff.ListStaff)
				team.POST("", staff.CreateStaff)
				team.PUT("/:id", staff.UpdateStaff)
				team.DELETE("/:id", staff.DeactivateStaff)
			}
			manage.PUT("/time-off/:id/review", staff.ReviewTimeOff)

			blocks := manage.Group("/blocked-times")
			{
				blocks.GET("", controllers.ListBlockedTimes)
				blocks.POST("", controllers.CreateBlockedTime)
				blocks.PUT("/:id", controllers.UpdateBlockedTime)
				blocks.DELETE("/:id", controllers.DeleteBlockedTime)
			}

			inventory := manage.Group("/inventory")
			{
				inventory.GET("/products", controllers.ListProducts)
				inventory.POST("/products", controllers.CreateProduct)
				inventory.PUT("/products/:id", controllers.UpdateProduct)
				inventory.DELETE("/products/:id", controllers.DeleteProduct)
				inventory.POST("/products/:id/movements", controllers.RecordStockMovement)
				inventory.GET("/movements", controllers.ListStockMovements)

				inventory.GET("/usage", controllers.ListProductUsage)
				inventory.POST("/usage", controllers.CreateProductUsage)
				inventory.PUT("/usage/:id", controllers.UpdateProductUsage)
				inventory.DELETE("/usage/:id", controllers.DeleteProductUsage)
			}

			manage.GET("/dashboard", dashboard.GetDashboardOverview)
		}

		portal := api.Group("/staff", utils.RequireCapability(utils.CapStaffPortal))
		{
			portal.GET("/commission", staff.GetCommission)
			portal.GET("/schedule", staff.GetMySchedule)
			portal.GET("/blocked-times", controllers.GetMyBlockedTimes)
			portal.GET("/time-off", staff.ListTimeOff)
			portal.POST("/time-off", staff.CreateTimeOff)
		}

		analytics := api.Group("/reports", utils.RequireCapability(utils.CapViewAnalytics))
		{
			analytics.GET("", reports.GetReportAnalytics)
			analytics.GET("/daily", reports.GetDailyMetrics)
		}

		admin := api.Group("/admin", utils.RequireCapability(utils.CapPlatformAdmin))
		{
			admin.GET("/salons", controllers.ListSalons)
			admin.PUT("/salons/:id/moderation", controllers.ModerateSalon)
			admin.GET("/rate-limits", controllers.ListRateLimitViolations)
		}
	}

	return r
}
