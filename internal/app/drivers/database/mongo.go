package database

import (
	"context"
	"fmt"
	"log"
	"medrecords-service/internal/app/config"
	"medrecords-service/internal/pkg/constvars"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoConnectTimeout = 10 * time.Second

func NewMongoDB(driverConfig *config.DriverConfig) (*mongo.Database, error) {
	connectionString := fmt.Sprintf("mongodb://%s:%s", driverConfig.MongoDB.Host, driverConfig.MongoDB.Port)
	if driverConfig.MongoDB.Username != "" {
		connectionString = fmt.Sprintf(
			"mongodb://%s:%s@%s:%s",
			driverConfig.MongoDB.Username,
			driverConfig.MongoDB.Password,
			driverConfig.MongoDB.Host,
			driverConfig.MongoDB.Port,
		)
	}

	ctx, cancel := context.WithTimeout(context.Background(), mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(connectionString))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo database: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo database: %w", err)
	}

	db := client.Database(driverConfig.MongoDB.DbName)
	if err := ensureIndexes(ctx, db); err != nil {
		return nil, err
	}

	log.Println("Successfully connected to mongo database")
	return db, nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(constvars.MongoCollectionAccounts).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}, {Key: "assignedPatients", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create account indexes: %w", err)
	}

	_, err = db.Collection(constvars.MongoCollectionDocuments).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "patientId", Value: 1}, {Key: "uploadDate", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create document indexes: %w", err)
	}
	return nil
}
