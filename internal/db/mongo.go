package db

import (
	"context"
	"fmt"
	"time"

	"github.com/yigit/deptportal/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// NewMongoClient connects and pings within the configured timeout.
func NewMongoClient(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	timeout, err := time.ParseDuration(cfg.Store.Mongo.ConnectTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid mongo connect timeout: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Store.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("mongodb connection failed: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb ping failed: %w", err)
	}
	return client, nil
}
