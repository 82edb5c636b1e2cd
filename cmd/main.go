package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/eco-routes/internal/auth"
	"github.com/ukydev/eco-routes/internal/config"
	"github.com/ukydev/eco-routes/internal/db"
	"github.com/ukydev/eco-routes/internal/handlers"
	"github.com/ukydev/eco-routes/internal/live"
	"github.com/ukydev/eco-routes/internal/middleware"
	"github.com/ukydev/eco-routes/internal/notify"
	"github.com/ukydev/eco-routes/internal/rewards"
	"github.com/ukydev/eco-routes/internal/routes"
)

const shutdownTimeout = 10 * time.Second

func configureLogging(cfg *config.Config) {
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.WithField("log_level", cfg.LogLevel).Warn("Unknown log level, using info")
	}
	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}
}

// newRouter builds the API with authentication, rate limiting and request logging.
func newRouter(cfg *config.Config, store db.Store, ledger *rewards.Ledger, authService *auth.Service, generator routes.Generator) http.Handler {
	authHandler := handlers.NewAuthHandler(authService)
	routeHandler := handlers.NewRouteHandler(generator, routes.NewSearchCache(), ledger)
	rewardsHandler := handlers.NewRewardsHandler(ledger)
	liveHandler := handlers.NewLiveHandler(ledger)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler(store))

	mux.HandleFunc("/api/auth/anonymous", authHandler.Anonymous)
	mux.HandleFunc("/api/auth/token", authHandler.CustomToken)

	mux.HandleFunc("/api/routes", routeHandler.Search)
	mux.HandleFunc("/api/routes/{id}/start", routeHandler.Start)

	mux.HandleFunc("/api/profile", rewardsHandler.Profile)
	mux.HandleFunc("/api/profile/points", rewardsHandler.PointLogs)
	mux.HandleFunc("/api/leaderboard", rewardsHandler.Leaderboard)
	mux.HandleFunc("/api/garage", rewardsHandler.Garage)
	mux.HandleFunc("/api/garage/best", rewardsHandler.BestVehicle)
	mux.HandleFunc("/api/feedback", rewardsHandler.Feedback)
	mux.HandleFunc("/api/tips", rewardsHandler.Tip)

	mux.HandleFunc("/api/live/profile", liveHandler.Profile)
	mux.HandleFunc("/api/live/leaderboard", liveHandler.Leaderboard)
	mux.HandleFunc("/api/live/garage", liveHandler.Garage)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	rateLimiter := middleware.NewRateLimitMiddleware()

	var handler http.Handler = mux
	handler = authMiddleware.Authenticate(handler)
	handler = rateLimiter.RateLimit(cfg.RateLimit, cfg.RateWindowSeconds)(handler)
	handler = middleware.RequestLogger(log.StandardLogger())(handler)
	return handler
}

func healthHandler(store db.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			log.WithError(err).Warn("Health check failed")
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	configureLogging(cfg)

	client, err := db.ConnectMongo(cfg.MongoURI)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	log.WithField("database", cfg.DatabaseName()).Info("Connected to MongoDB")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := db.NewMongoStore(client, cfg.DatabaseName())
	hub := live.NewHub()
	ledger := rewards.NewLedger(store, hub, log.StandardLogger())

	if cfg.ChangeStreams {
		go func() {
			if err := db.WatchChanges(ctx, store.Database(), ledger.HandleRemoteChange); err != nil && ctx.Err() == nil {
				log.WithError(err).Error("Change stream stopped; live views only reflect local writes")
			}
		}()
	}

	if cfg.MQTTBrokerURL != "" {
		mqttClient, err := notify.Connect(cfg.MQTTBrokerURL, cfg.MQTTClientID)
		if err != nil {
			log.WithError(err).Warn("MQTT unavailable, snapshots will not be pushed")
		} else {
			defer mqttClient.Disconnect(250)
			bridge := notify.NewBridge(mqttClient, ledger, cfg.Namespace())
			go bridge.Run(ctx, hub)
			log.WithField("broker", cfg.MQTTBrokerURL).Info("Publishing snapshots over MQTT")
		}
	}

	authService := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry, cfg.CustomTokenSecret)
	generator := routes.NewMockGenerator(cfg.RouteSearchDelay)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(cfg, store, ledger, authService, generator),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP server shutdown")
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		log.WithError(err).Warn("MongoDB disconnect")
	}
}
