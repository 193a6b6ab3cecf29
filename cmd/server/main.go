package main

import (
	"context"
	"log"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/intrale/platform-sub000/internal/api"
	"github.com/intrale/platform-sub000/internal/api/router"
	"github.com/intrale/platform-sub000/internal/auth"
	"github.com/intrale/platform-sub000/internal/database"
	"github.com/intrale/platform-sub000/internal/env"
	"github.com/intrale/platform-sub000/internal/identity"
	"github.com/intrale/platform-sub000/internal/queue"
	businessservice "github.com/intrale/platform-sub000/internal/service/business"
	profileservice "github.com/intrale/platform-sub000/internal/service/profile"
	twofactorservice "github.com/intrale/platform-sub000/internal/service/twofactor"
)

func main() {
	_ = godotenv.Load()

	if err := env.Validate(); err != nil {
		log.Fatalf("config check failed: %v", err)
	}

	logger, err := newLogger()
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync()

	db, err := database.NewDatabase()
	if err != nil {
		logger.Fatal("db init failed", zap.Error(err))
	}

	ctx := context.Background()
	platform := env.GetOrDefault(env.PlatformBusiness, "intrale")

	var provider identity.Provider
	if env.Get(env.CognitoUserPoolID) != "" {
		cognito, err := identity.NewCognitoProvider(ctx)
		if err != nil {
			logger.Fatal("cognito init failed", zap.Error(err))
		}
		provider = cognito
		logger.Info("identity provider enabled")
	}

	resolver := identity.NewResolver(identity.Config{
		ClientID: env.Get(env.CognitoClientID),
		Issuer:   env.Get(env.TokenIssuer),
		Secret:   env.Get(env.AccessSecretKey),
	}, provider)

	var replay twofactorservice.ReplayGuard
	if redisURL := env.Get(env.TwoFactorRedis); redisURL != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     redisURL,
			Password: env.Get(env.TwoFactorRedisPw),
		})
		replay = twofactorservice.NewRedisReplayGuard(client)
	}

	issuer := env.GetOrDefault(env.TwoFactorIssuer, "intrale")
	twoFactor := twofactorservice.New(db, replay, issuer)

	profileRepo := profileservice.NewDynamoRepository(db)
	businessRepo := businessservice.NewDynamoRepository(db)

	gate := auth.NewGate(resolver, profileRepo, twoFactor, platform)
	business := businessservice.NewWithRepository(businessRepo, profileRepo, gate, platform, nil)
	profile := profileservice.NewWithRepository(profileRepo, businessRepo, provider, gate, nil)

	queueManager := queue.NewRequestQueueManager(10, 10, logger)
	defer queueManager.Shutdown()

	server := api.NewAPIServer(
		env.GetOrDefault(env.ListenAddr, ":8080"),
		queueManager,
		logger,
		router.BusinessRoutes(business),
		router.ProfileRoutes(profile, business),
		router.TwoFactorRoutes(resolver, twoFactor, business),
	)

	server.Run()
}

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build(zap.Fields(zap.String("service", "platform")))
}
