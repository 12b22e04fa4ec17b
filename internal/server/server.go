package server

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/yichenzhao/buddyup/config"
	"github.com/yichenzhao/buddyup/internal/handlers"
	"github.com/yichenzhao/buddyup/internal/middleware"
	"github.com/yichenzhao/buddyup/internal/mq"
	"github.com/yichenzhao/buddyup/internal/repository"
	"github.com/yichenzhao/buddyup/internal/scheduler"
	"github.com/yichenzhao/buddyup/internal/service"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	amqpCfg, err := config.LoadAMQPConfig()
	if err != nil {
		return fmt.Errorf("failed to load amqp config: %v", err)
	}

	var publisher service.Publisher
	if amqpCfg.URL != "" {
		p, err := mq.NewPublisher(amqpCfg.URL)
		if err != nil {
			log.Printf("notification publisher disabled: %v", err)
		} else {
			defer p.Close()
			publisher = p
		}
	}

	eventRepo := repository.NewEventRepository(db)
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	treeHoleRepo := repository.NewTreeHoleRepository(db)
	externalEventRepo := repository.NewExternalEventRepository(db)

	notifications := service.NewNotificationService(notificationRepo, publisher)
	scoring := service.NewScoringEngine(userRepo)
	events := service.NewEventService(eventRepo, userRepo, notifications)
	participation := service.NewParticipationService(eventRepo, scoring, notifications)
	treeHole := service.NewTreeHoleService(treeHoleRepo, userRepo)
	externalEvents := service.NewExternalEventService(externalEventRepo, userRepo)

	sched := scheduler.New(events, externalEvents)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	r := gin.Default()

	setupRoutes(r, &routeDeps{
		auth:          handlers.NewAuthHandler(userRepo),
		profile:       handlers.NewProfileHandler(userRepo),
		events:        handlers.NewEventHandler(events),
		participation: handlers.NewParticipationHandler(participation),
		notifications: handlers.NewNotificationHandler(notifications),
		treeHole:      handlers.NewTreeHoleHandler(treeHole),
		external:      handlers.NewExternalEventHandler(externalEvents),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

type routeDeps struct {
	auth          *handlers.AuthHandler
	profile       *handlers.ProfileHandler
	events        *handlers.EventHandler
	participation *handlers.ParticipationHandler
	notifications *handlers.NotificationHandler
	treeHole      *handlers.TreeHoleHandler
	external      *handlers.ExternalEventHandler
}

func setupRoutes(r *gin.Engine, deps *routeDeps) {
	public := r.Group("/v1")
	{
		public.POST("/register", deps.auth.Register)
		public.POST("/login", deps.auth.Login)

		public.GET("/external-events", deps.external.ListUpcoming)
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		protected.GET("/profile", deps.profile.GetProfile)
		protected.PUT("/profile", deps.profile.UpdateProfile)

		events := protected.Group("/events")
		{
			events.GET("", deps.events.ListEvents)
			events.GET("/manage", deps.events.ManageableEvents)
			events.GET("/my-created", deps.events.MyCreatedEvents)
			events.GET("/my-participated", deps.events.MyParticipatedEvents)
			events.GET("/:id", deps.events.GetEvent)
			events.POST("", deps.events.CreateEvent)
			events.PATCH("/:id", deps.events.UpdateEvent)
			events.DELETE("/:id", deps.events.DeleteEvent)

			events.POST("/:id/join", deps.participation.JoinEvent)
			events.POST("/:id/leave", deps.participation.LeaveEvent)
			events.POST("/:id/review", deps.participation.ReviewParticipant)
			events.POST("/:id/attendance", deps.participation.MarkAttendance)
			events.POST("/:id/request-cancel", deps.participation.RequestCancellation)
			events.POST("/:id/review-cancel", deps.participation.ReviewCancellation)
			events.DELETE("/:id/participants/:userId", deps.events.RemoveParticipant)
		}

		notifications := protected.Group("/notifications")
		{
			notifications.GET("", deps.notifications.ListNotifications)
			notifications.GET("/unread-count", deps.notifications.UnreadCount)
			notifications.POST("/read", deps.notifications.MarkRead)
			notifications.POST("/read-all", deps.notifications.MarkAllRead)
			notifications.DELETE("/:id", deps.notifications.DeleteNotification)
		}

		treeHole := protected.Group("/tree-hole")
		{
			treeHole.GET("", deps.treeHole.ListPosts)
			treeHole.POST("", deps.treeHole.CreatePost)
			treeHole.POST("/:id/like", deps.treeHole.ToggleLike)
			treeHole.DELETE("/:id", deps.treeHole.DeletePost)
		}

		protected.POST("/external-events", deps.external.CreateExternalEvent)
	}
}
