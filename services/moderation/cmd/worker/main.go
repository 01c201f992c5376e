package main

import (
	"simple-forum/pkg/cache"
	"simple-forum/pkg/config"
	"simple-forum/pkg/database"
	"simple-forum/pkg/logger"
	"simple-forum/pkg/queue"
	"simple-forum/pkg/s3"
	moderationApp "simple-forum/services/moderation/internal/app"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg, log)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v", err)
		panic(err)
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v", err)
		panic(err)
	}

	s3Client, err := s3.NewClient(cfg)
	if err != nil {
		log.Error("Failed to create S3 client: %v", err)
		panic(err)
	}

	moderationApp.RunWorker(cfg, log, db, redisClient, queueClient, s3Client)
}
