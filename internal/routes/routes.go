package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/navalhaclub/barber-saas/internal/audit"
	"github.com/navalhaclub/barber-saas/internal/config"
	"github.com/navalhaclub/barber-saas/internal/handlers"
	infraRepo "github.com/navalhaclub/barber-saas/internal/infra/repository"
	"github.com/navalhaclub/barber-saas/internal/joblock"
	"github.com/navalhaclub/barber-saas/internal/middleware"
	"github.com/navalhaclub/barber-saas/internal/notification"
	ucAppointment "github.com/navalhaclub/barber-saas/internal/usecase/appointment"
	ucRetention "github.com/navalhaclub/barber-saas/internal/usecase/retention"
	"github.com/navalhaclub/barber-saas/internal/whatsapp"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestLogger())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	retentionRepo := infraRepo.NewRetentionGormRepository(db)
	notificationRepo := infraRepo.NewNotificationGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	waSender := whatsapp.New(
		cfg.WhatsAppToken,
		cfg.WhatsAppPhoneNumberID,
		log.With().Str("component", "whatsapp").Logger(),
	)

	notifier := notification.NewDispatcher(
		notificationRepo,
		waSender,
		log.With().Str("component", "notification").Logger(),
		cfg.AdminPhone,
		cfg.BookingURL,
	)

	locker := joblock.New(cfg.RedisURL)

	// ======================================================
	// USE CASES — APPOINTMENTS
	// ======================================================
	createBookingUC := ucAppointment.NewCreateBooking(
		appointmentRepo,
		notifier,
		auditDispatcher,
	)

	confirmAppointmentUC := ucAppointment.NewConfirmAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	completeAppointmentUC := ucAppointment.NewCompleteAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(
		appointmentRepo,
	)

	listAppointmentsByMonthUC := ucAppointment.NewListAppointmentsByMonth(
		appointmentRepo,
	)

	availabilityUC := ucAppointment.NewGetAvailability(appointmentRepo)

	// ======================================================
	// USE CASES — RETENTION
	// ======================================================
	identifyOverdueUC := ucRetention.NewIdentifyOverdueClients(retentionRepo)

	processRemindersUC := ucRetention.NewProcessRetentionReminders(
		retentionRepo,
		identifyOverdueUC,
		notifier,
		log.With().Str("component", "retention").Logger(),
	)

	thankYouUC := ucRetention.NewSendThankYouMessages(
		retentionRepo,
		notifier,
		log.With().Str("component", "thank_you").Logger(),
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	barbershopHandler := handlers.NewBarbershopHandler(db)

	branchHandler := handlers.NewBranchHandler(db)
	serviceHandler := handlers.NewServiceHandler(db)
	clientHandler := handlers.NewClientHandler(db)
	noteHandler := handlers.NewNoteHandler(db)
	workingHoursHandler := handlers.NewWorkingHoursHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		createBookingUC,
		confirmAppointmentUC,
		completeAppointmentUC,
		cancelAppointmentUC,
		listAppointmentsByDateUC,
		listAppointmentsByMonthUC,
	)

	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	retentionHandler := handlers.NewRetentionHandler(identifyOverdueUC)
	jobsHandler := handlers.NewJobsHandler(processRemindersUC, thankYouUC, locker)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	publicHandler := handlers.NewPublicHandler(db, createBookingUC, availabilityUC)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// API PÚBLICA (slug da barbearia)
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug/branches", publicHandler.ListBranches)
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/:slug/barbers", publicHandler.ListBarbers)
			publicAPI.GET("/:slug/availability", publicHandler.AvailabilityForClient)
			publicAPI.POST("/:slug/appointments", publicHandler.CreateAppointment)
		}

		// ------------------------------
		// JOBS (cron externo)
		// ------------------------------
		api.POST("/jobs/retention", jobsHandler.RunRetention)
		api.GET("/cron/thank-you", jobsHandler.RunThankYou)

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/barbershop", barbershopHandler.GetMeBarbershop)
			secured.PATCH("/me/barbershop", barbershopHandler.UpdateMeBarbershop)

			secured.GET("/me/branches", branchHandler.List)
			secured.POST("/me/branches", branchHandler.Create)
			secured.PATCH("/me/branches/:id", branchHandler.Update)
			secured.DELETE("/me/branches/:id", branchHandler.Delete)

			secured.GET("/me/services", serviceHandler.List)
			secured.POST("/me/services", serviceHandler.Create)
			secured.PATCH("/me/services/:id", serviceHandler.Update)

			secured.GET("/me/clients", clientHandler.List)
			secured.POST("/me/clients", clientHandler.Create)
			secured.PATCH("/me/clients/:id", clientHandler.Update)
			secured.PATCH("/me/clients/:id/link", clientHandler.Link)
			secured.DELETE("/me/clients/:id", clientHandler.Delete)

			secured.GET("/me/clients/:id/notes", noteHandler.ListForClient)
			secured.POST("/me/clients/:id/notes", noteHandler.Create)

			secured.GET("/me/working-hours", workingHoursHandler.Get)
			secured.PUT("/me/working-hours", workingHoursHandler.Update)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/me/appointments", appointmentHandler.Create)
			secured.GET("/me/appointments", appointmentHandler.ListByDate)
			secured.GET("/me/appointments/month", appointmentHandler.ListByMonth)
			secured.PATCH("/me/appointments/:id/confirm", appointmentHandler.Confirm)
			secured.PATCH("/me/appointments/:id/complete", appointmentHandler.Complete)
			secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)

			// ------------------------------
			// RETENTION / NOTIFICATIONS
			// ------------------------------
			secured.GET("/me/retention/overdue", retentionHandler.ListOverdue)

			secured.GET("/me/notifications", notificationHandler.List)
			secured.PATCH("/me/notifications/:id/read", notificationHandler.MarkRead)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
