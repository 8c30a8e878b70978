package config

import (
	"context"
	"log"

	"github.com/go-chi/chi/v5"
	"github.com/minio/minio-go/v7"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Bootstrap struct {
	Router         *chi.Mux
	MongoDB        *mongo.Database
	Redis          *redis.Client
	Minio          *minio.Client
	RabbitMQ       *amqp091.Connection
	Logger         *zap.Logger
	InternalConfig *InternalConfig
	DriverConfig   *DriverConfig
	// WorkerStop, when set, stops background workers before connections close.
	WorkerStop func(ctx context.Context) error
}

func (b *Bootstrap) Shutdown(ctx context.Context) error {
	if b.WorkerStop != nil {
		if err := b.WorkerStop(ctx); err != nil {
			return err
		}
		log.Println("Successfully stopped background workers")
	}

	if b.MongoDB != nil {
		if err := b.MongoDB.Client().Disconnect(ctx); err != nil {
			return err
		}
		log.Println("Successfully closing MongoDB")
	}

	if b.Redis != nil {
		if err := b.Redis.Close(); err != nil {
			return err
		}
		log.Println("Successfully closing Redis")
	}

	if b.RabbitMQ != nil {
		if err := b.RabbitMQ.Close(); err != nil {
			return err
		}
		log.Println("Successfully closing RabbitMQ")
	}

	if b.Logger != nil {
		// Sync on stdout/stderr reports EINVAL on some platforms; nothing to do about it.
		_ = b.Logger.Sync()
		log.Println("Successfully closing Logger")
	}

	return nil
}
