package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"skillswap/internal/application/community/usecases"
	"skillswap/internal/infrastructure/config"
	"skillswap/internal/infrastructure/database"
	"skillswap/internal/infrastructure/pubsub"
	"skillswap/internal/infrastructure/repository"
	"skillswap/internal/infrastructure/scheduler"
	"skillswap/internal/shared/biztime"
	"skillswap/internal/shared/db"
	"skillswap/internal/shared/logger"
)

// The reconciliation worker runs the membership sweeps on a schedule. It is
// deployed as a single instance; the sweeps themselves tolerate concurrent
// lifecycle operations but not a second sweeping worker.
func main() {
	env := "development"
	if len(os.Args) > 1 {
		env = os.Args[1]
	}
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	log := logger.NewLogger()
	log.Infow("starting membership reconciliation worker", "environment", env)

	if err := biztime.Init(cfg.Community.Timezone); err != nil {
		log.Fatalw("failed to initialize business timezone", "error", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		log.Fatalw("failed to initialize database", "error", err)
	}
	defer database.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalw("failed to connect to redis", "error", err)
	}
	log.Infow("redis connection established", "address", cfg.Redis.GetAddr())

	communityRepo := repository.NewCommunityRepository(database.Get(), log)
	membershipRepo := repository.NewMembershipRepository(database.Get(), log)
	ledger := repository.NewCreditLedger(database.Get(), log)
	txManager := db.NewTransactionManager(database.Get())
	notifier := pubsub.NewRedisNotificationHub(redisClient, log)

	renewUC := usecases.NewRenewMembershipsUseCase(
		communityRepo, membershipRepo, ledger, txManager, notifier, log)
	expireUC := usecases.NewExpireMembershipsUseCase(
		communityRepo, membershipRepo, txManager, notifier, log)

	schedulerManager, err := scheduler.NewSchedulerManager(log)
	if err != nil {
		log.Fatalw("failed to create scheduler manager", "error", err)
	}

	interval := time.Duration(cfg.Community.SweepIntervalMinutes) * time.Minute
	if err := schedulerManager.RegisterMembershipJobs(renewUC, expireUC, interval); err != nil {
		log.Fatalw("failed to register membership jobs", "error", err)
	}

	schedulerManager.Start()
	log.Infow("membership reconciliation worker started", "sweep_interval", interval)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Infow("received signal, shutting down", "signal", sig)

	if err := schedulerManager.Stop(); err != nil {
		log.Errorw("scheduler shutdown failed", "error", err)
	}

	log.Infow("membership reconciliation worker stopped")
}
