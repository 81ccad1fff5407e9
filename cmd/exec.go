package cmd

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	pubnub "github.com/pubnub/go"

	"dinner-planner/config"
	"dinner-planner/internal/handlers"
	"dinner-planner/internal/services"
	_ "dinner-planner/migrations"
	"dinner-planner/monitoring"
	"dinner-planner/security"
	"dinner-planner/utils"
)

func Start() error {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize Redis
	redisClient := utils.NewRedisClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()

	// Initialize PubNub (host RSVP notifications)
	var pn *pubnub.PubNub
	if cfg.PubNubPublishKey != "" {
		pnConfig := pubnub.NewConfig()
		pnConfig.PublishKey = cfg.PubNubPublishKey
		pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
		pnConfig.SecretKey = cfg.PubNubSecretKey

		pn = pubnub.NewPubNub(pnConfig)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize services
	eventService := services.NewEventService(app, redisClient, cfg)
	communityService := services.NewCommunityService(app)
	rsvpService := services.NewRSVPService(app, redisClient, pn, eventService, communityService, cfg)

	// Initialize handlers
	eventHandler := handlers.NewEventHandler(app, eventService, communityService)
	rsvpHandler := handlers.NewRSVPHandler(app, rsvpService)
	communityHandler := handlers.NewCommunityHandler(app, communityService, eventService)

	rateLimiter := security.NewRateLimiter(redisClient, cfg.RSVPRateLimitPerMinute)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	// Metrics endpoint and collector
	if cfg.EnableMetrics {
		monitoring.NewMonitor(redisClient, cfg.MetricsInterval)

		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(":"+cfg.MetricsPort, mux); err != nil {
				slog.Error("Metrics server stopped", "error", err)
			}
		}()
	}

	// Setup graceful shutdown
	go handleShutdown(cancel)

	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		go warmAvailabilityCache(ctx, app, eventService)

		// Event endpoints
		e.Router.POST("/api/v1/events", eventHandler.CreateEvent)
		e.Router.GET("/api/v1/events", eventHandler.ListEvents)
		e.Router.GET("/api/v1/events/{eventId}", eventHandler.GetEvent)
		e.Router.GET("/api/v1/events/{eventId}/attendees", eventHandler.GetAttendees)

		// RSVP endpoint
		e.Router.POST("/api/v1/events/{eventId}/rsvp", rsvpHandler.Submit).
			BindFunc(rateLimiter.RSVPRateLimit())

		// Community endpoints
		e.Router.GET("/api/v1/communities", communityHandler.ListCommunities)
		e.Router.POST("/api/v1/communities", communityHandler.CreateCommunity)
		e.Router.GET("/api/v1/communities/{communityId}", communityHandler.GetCommunity)
		e.Router.POST("/api/v1/communities/{communityId}/join", communityHandler.JoinCommunity)
		e.Router.GET("/api/v1/communities/{communityId}/events", communityHandler.GetCommunityEvents)

		// Health check
		e.Router.GET("/health", func(e *core.RequestEvent) error {
			if err := utils.RedisHealthCheck(redisClient); err != nil {
				return e.JSON(503, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
			return e.JSON(200, map[string]string{"status": "healthy"})
		})

		log.Println("Server routes registered")

		setupEventHooks(app, eventService)

		return e.Next()
	})

	// Start server
	if err := app.Start(); err != nil {
		return err
	}
	return nil
}

// setupEventHooks keeps the Redis availability cache in step with event
// records mutated outside the RSVP path (dashboard edits, deletions).
func setupEventHooks(app *pocketbase.PocketBase, eventService *services.EventService) {
	app.OnRecordCreateRequest("events").BindFunc(func(e *core.RecordRequestEvent) error {
		eventService.RefreshAvailability(e.Request.Context(), eventService.EventFromRecord(e.Record))
		return e.Next()
	})

	app.OnRecordUpdateRequest("events").BindFunc(func(e *core.RecordRequestEvent) error {
		eventService.RefreshAvailability(e.Request.Context(), eventService.EventFromRecord(e.Record))
		return e.Next()
	})

	app.OnRecordDeleteRequest("events").BindFunc(func(e *core.RecordRequestEvent) error {
		eventService.DropAvailability(e.Request.Context(), e.Record.Id)
		return e.Next()
	})
}

// warmAvailabilityCache seeds occupancy snapshots for upcoming events on
// startup so listings and metrics do not begin with a cold cache.
func warmAvailabilityCache(ctx context.Context, app *pocketbase.PocketBase, eventService *services.EventService) {
	records, err := app.FindRecordsByFilter("events", "id != ''", "-date_time", 200, 0)
	if err != nil {
		slog.Error("Failed to warm availability cache", "error", err)
		return
	}

	for _, record := range records {
		eventService.RefreshAvailability(ctx, eventService.EventFromRecord(record))
	}

	slog.Info("Availability cache warmed", "events", len(records))
}

// handleShutdown handles graceful shutdown
func handleShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")
	cancel()
}
