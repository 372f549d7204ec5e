package database

import (
	"context"
	"time"

	"meytle/config"
	"meytle/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoClient is shared by every repository; InitDB must run before any
// repository constructor.
var MongoClient *mongo.Client

// InitDB connects to MongoDB and verifies the connection with a ping.
func InitDB() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(config.AppConfig.DatabaseURL).
		SetMaxPoolSize(50)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		utils.GetLogger().Sugar().Fatalf("failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		utils.GetLogger().Sugar().Fatalf("MongoDB did not answer a ping: %v", err)
	}

	MongoClient = client
	utils.GetLogger().Info("connected to MongoDB")
}
