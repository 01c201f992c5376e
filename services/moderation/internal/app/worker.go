package internal

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"simple-forum/pkg/config"
	"simple-forum/pkg/logger"
	"simple-forum/pkg/queue"
	"simple-forum/pkg/s3"
	"simple-forum/services/moderation/internal/events"
	"simple-forum/services/moderation/internal/jobs"
	"simple-forum/services/moderation/internal/repo/persistent"
	"simple-forum/services/moderation/internal/usecase"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// RunWorker purges posts whose deletion delay ran out. Delayed queue tasks
// do the bulk of the work; the sweep picks up tasks that were lost.
func RunWorker(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client, queueClient *queue.Client, s3Client *s3.Client) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	moderationRepo := persistent.NewModerationRepository(db)
	purgeUseCase := usecase.NewPurgeUseCase(moderationRepo, s3Client, events.NewRedisPublisher(redisClient), log)
	handler := jobs.NewPurgeHandler(purgeUseCase, log)

	if err := queueClient.ConsumePurgeTasks(ctx, handler.Handle); err != nil {
		log.Error("Failed to start purge consumer: %v", err)
		panic(err)
	}

	go sweepLoop(ctx, log, purgeUseCase, queueClient, cfg.SweepInterval, cfg.PurgeRetention)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down purge worker...")

	cancel()
	closeResources(log, db, redisClient, queueClient)

	log.Info("Purge worker exited")
}

func sweepLoop(ctx context.Context, log *logger.Logger, purges usecase.PurgeUseCase, queueClient *queue.Client, interval, retention time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if purged, err := purges.Sweep(ctx, retention); err != nil {
				log.Error("Sweep failed after purging %d posts: %v", purged, err)
			}

			if pending, err := queueClient.PendingPurges(); err == nil {
				log.Info("%d purge tasks waiting", pending)
			}
		}
	}
}
