package database

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type MongoClient struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// MongoConnector isolates the driver calls so connection setup can be tested.
type MongoConnector interface {
	Connect(ctx context.Context, opts *options.ClientOptions) (*mongo.Client, error)
	Ping(ctx context.Context, client *mongo.Client) error
	Disconnect(ctx context.Context, client *mongo.Client) error
}

type DefaultMongoConnector struct{}

func (DefaultMongoConnector) Connect(ctx context.Context, opts *options.ClientOptions) (*mongo.Client, error) {
	return mongo.Connect(ctx, opts)
}

func (DefaultMongoConnector) Ping(ctx context.Context, client *mongo.Client) error {
	return client.Ping(ctx, readpref.Primary())
}

func (DefaultMongoConnector) Disconnect(ctx context.Context, client *mongo.Client) error {
	return client.Disconnect(ctx)
}

func ConnectMongo(ctx context.Context, uri, dbName string, timeout time.Duration) (*MongoClient, error) {
	return connectMongoWith(ctx, uri, dbName, timeout, DefaultMongoConnector{})
}

func connectMongoWith(ctx context.Context, uri, dbName string, timeout time.Duration, connector MongoConnector) (*MongoClient, error) {
	if uri == "" || dbName == "" {
		return nil, fmt.Errorf("mongo uri and database name are required")
	}

	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := connector.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo %s: %w", redactMongoURI(uri), err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := connector.Ping(pingCtx, client); err != nil {
		if derr := connector.Disconnect(ctx, client); derr != nil {
			log.Printf("⚠️ Error disconnecting unreachable MongoDB client: %v", derr)
		}
		return nil, fmt.Errorf("ping mongo %s: %w", redactMongoURI(uri), err)
	}

	log.Printf("✅ MongoDB connected successfully (%s/%s)", redactMongoURI(uri), dbName)
	return &MongoClient{
		Client:   client,
		Database: client.Database(dbName),
	}, nil
}

func (m *MongoClient) Disconnect(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// redactMongoURI hides the credentials part of a connection string.
func redactMongoURI(uri string) string {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return uri
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		return scheme + "://***:***@" + rest[at+1:]
	}
	return uri
}
