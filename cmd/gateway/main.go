package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/unitychat/gateway/internal/auth"
	"github.com/unitychat/gateway/internal/cache"
	"github.com/unitychat/gateway/internal/common/clock"
	"github.com/unitychat/gateway/internal/common/uuid"
	"github.com/unitychat/gateway/internal/config"
	"github.com/unitychat/gateway/internal/handlers/gateway"
	accessRepo "github.com/unitychat/gateway/internal/repositories/access"
	guildsRepo "github.com/unitychat/gateway/internal/repositories/guilds"
	membershipRepo "github.com/unitychat/gateway/internal/repositories/membership"
	presenceRepo "github.com/unitychat/gateway/internal/repositories/presence"
	typingRepo "github.com/unitychat/gateway/internal/repositories/typing"
	voiceRepo "github.com/unitychat/gateway/internal/repositories/voicesessions"
	presenceService "github.com/unitychat/gateway/internal/services/presence"
	roomsService "github.com/unitychat/gateway/internal/services/rooms"
	typingService "github.com/unitychat/gateway/internal/services/typing"
	voiceService "github.com/unitychat/gateway/internal/services/voice"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", slog.Any("error", err))
	}

	cfg, err := config.Load("gateway")
	if err != nil {
		logger.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	if cfg.Auth.JWTSecret == "" {
		logger.Error("GATEWAY_AUTH_JWTSECRET is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error("failed to connect to Redis", slog.Any("error", err))
		os.Exit(1)
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		logger.Error("failed to connect to MongoDB", slog.Any("error", err))
		os.Exit(1)
	}

	if err := mongoClient.Ping(ctx, nil); err != nil {
		logger.Error("failed to ping MongoDB", slog.Any("error", err))
		os.Exit(1)
	}

	db := mongoClient.Database(cfg.Mongo.Database)

	presenceStore, err := presenceRepo.NewRedis(&presenceRepo.Config{RedisClient: redisClient})
	if err != nil {
		logger.Error("failed to create presence repository", slog.Any("error", err))
		os.Exit(1)
	}

	accessStore, err := accessRepo.NewRedis(&accessRepo.Config{RedisClient: redisClient})
	if err != nil {
		logger.Error("failed to create access repository", slog.Any("error", err))
		os.Exit(1)
	}

	typingStore, err := typingRepo.NewRedis(&typingRepo.Config{RedisClient: redisClient})
	if err != nil {
		logger.Error("failed to create typing repository", slog.Any("error", err))
		os.Exit(1)
	}

	membershipStore, err := membershipRepo.NewRedis(&membershipRepo.Config{RedisClient: redisClient})
	if err != nil {
		logger.Error("failed to create membership repository", slog.Any("error", err))
		os.Exit(1)
	}

	guildsStore, err := guildsRepo.NewMongo(&guildsRepo.Config{Database: db})
	if err != nil {
		logger.Error("failed to create guilds repository", slog.Any("error", err))
		os.Exit(1)
	}

	voiceStore, err := voiceRepo.NewMongo(&voiceRepo.Config{Database: db})
	if err != nil {
		logger.Error("failed to create voice sessions repository", slog.Any("error", err))
		os.Exit(1)
	}

	membershipCache, err := cache.NewMembership(&cache.Config{
		Capacity:      cfg.Cache.MembershipCapacity,
		SweepInterval: cfg.Cache.SweepInterval,
		Logger:        logger,
	})
	if err != nil {
		logger.Error("failed to create membership cache", slog.Any("error", err))
		os.Exit(1)
	}
	defer membershipCache.Close()

	verifier, err := auth.NewHMACVerifier(&auth.Config{Secret: cfg.Auth.JWTSecret})
	if err != nil {
		logger.Error("failed to create token verifier", slog.Any("error", err))
		os.Exit(1)
	}

	hub := gateway.NewHub(logger)
	sysClock := &clock.DefaultClock{}
	uuider := uuid.New()

	presenceSvc, err := presenceService.New(&presenceService.Config{
		PresenceRepo: presenceStore,
		GuildsRepo:   guildsStore,
		Dispatcher:   hub,
		Clock:        sysClock,
		Logger:       logger,
		GracePeriod:  cfg.Presence.GracePeriod,
		RecordTTL:    cfg.Presence.RecordTTL,
	})
	if err != nil {
		logger.Error("failed to create presence service", slog.Any("error", err))
		os.Exit(1)
	}

	roomsSvc, err := roomsService.New(&roomsService.Config{
		AccessRepo:      accessStore,
		MembershipRepo:  membershipStore,
		MembershipCache: membershipCache,
		GuildsRepo:      guildsStore,
		Dispatcher:      hub,
		Logger:          logger,
		DecisionTTL:     cfg.Cache.DecisionTTL,
		MembershipTTL:   cfg.Cache.MembershipTTL,
	})
	if err != nil {
		logger.Error("failed to create rooms service", slog.Any("error", err))
		os.Exit(1)
	}

	typingSvc, err := typingService.New(&typingService.Config{
		TypingRepo:  typingStore,
		Dispatcher:  hub,
		Logger:      logger,
		ExpireAfter: cfg.Typing.ExpireAfter,
		StateTTL:    cfg.Typing.StateTTL,
	})
	if err != nil {
		logger.Error("failed to create typing service", slog.Any("error", err))
		os.Exit(1)
	}

	voiceSvc, err := voiceService.New(&voiceService.Config{
		VoiceRepo:     voiceStore,
		GuildsRepo:    guildsStore,
		Dispatcher:    hub,
		Clock:         sysClock,
		UUIDGenerator: uuider,
		Logger:        logger,
	})
	if err != nil {
		logger.Error("failed to create voice service", slog.Any("error", err))
		os.Exit(1)
	}

	gw, err := gateway.New(&gateway.Config{
		Hub:           hub,
		Verifier:      verifier,
		Rooms:         roomsSvc,
		Presence:      presenceSvc,
		Typing:        typingSvc,
		Voice:         voiceSvc,
		UUIDGenerator: uuider,
		Logger:        logger,
	})
	if err != nil {
		logger.Error("failed to create gateway handler", slog.Any("error", err))
		os.Exit(1)
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", gw)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: mux,
	}

	go func() {
		logger.Info("gateway listening", slog.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown error", slog.Any("error", err))
	}

	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		logger.Warn("mongo disconnect error", slog.Any("error", err))
	}

	if err := redisClient.Close(); err != nil {
		logger.Warn("redis close error", slog.Any("error", err))
	}
}
