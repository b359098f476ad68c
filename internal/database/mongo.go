package database

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/coursegen/internal/config"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	CollectionCourses = "courses"
	CollectionResumes = "resumes"
	CollectionUsers   = "users"
)

// BSONOptions are the client's decoding options. Embedded documents decode
// as bson.M so opaque payloads (course content, resume data) round-trip as
// plain JSON objects instead of key/value lists.
var BSONOptions = &options.BSONOptions{DefaultDocumentM: true}

// Mongo holds the client and the application database handle.
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
	log    *zerolog.Logger
}

// NewMongo connects to MongoDB, pings the primary and makes sure the
// unique index on resumes.uid exists.
func NewMongo(ctx context.Context, cfg *config.DatabaseConfig, logger *zerolog.Logger) (*Mongo, error) {
	clientOpts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetBSONOptions(BSONOptions)

	if cfg.MaxOpenConns > 0 {
		clientOpts.SetMaxPoolSize(uint64(cfg.MaxOpenConns))
	}
	if cfg.ConnMaxIdleTime > 0 {
		clientOpts.SetMaxConnIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Second)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, DatabasePingTimeout*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	m := &Mongo{
		Client: client,
		DB:     client.Database(cfg.Name),
		log:    logger,
	}

	if err := m.ensureIndexes(pingCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info().Str("database", cfg.Name).Msg("connected to mongo")

	return m, nil
}

func (m *Mongo) ensureIndexes(ctx context.Context) error {
	_, err := m.DB.Collection(CollectionResumes).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "uid", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("resumes_uid_key"),
	})
	if err != nil {
		return fmt.Errorf("creating resumes uid index: %w", err)
	}

	_, err = m.DB.Collection(CollectionCourses).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("creating courses user index: %w", err)
	}

	return nil
}

// Ping checks the primary, used by the health endpoint.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	m.log.Info().Msg("closing mongo connection")
	return m.Client.Disconnect(ctx)
}
