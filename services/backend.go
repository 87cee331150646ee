package services

import (
	"context"
	"fmt"

	"rsvp_server/config"

	"github.com/rs/zerolog/log"
)

// OpenStore builds the store backend selected by cfg.StoreBackend
func OpenStore(ctx context.Context, cfg config.Config) (Store, error) {
	switch cfg.UpsertGuard {
	case config.GuardScan, config.GuardConditional:
	default:
		return nil, fmt.Errorf("unknown upsert guard %q", cfg.UpsertGuard)
	}

	switch cfg.StoreBackend {
	case config.BackendDynamo:
		client, err := InitializeDynamoDBClient(ctx, cfg.AWSRegion, cfg.DynamoEndpoint)
		if err != nil {
			return nil, err
		}
		log.Info().Str("guard", cfg.UpsertGuard).Msg("using dynamodb store")
		return NewDynamoStore(&DynamoService{Client: client}, TableNames{
			Parties:      cfg.PartiesTable,
			Responses:    cfg.ResponsesTable,
			ResponseKeys: cfg.ResponseKeysTable,
		}, cfg.UpsertGuard), nil
	case config.BackendSQLite:
		log.Info().Str("path", cfg.SQLitePath).Msg("using sqlite store")
		return OpenSQLiteStore(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// OpenPublisher connects to Redis when a URL is configured
func OpenPublisher(ctx context.Context, cfg config.Config) (Publisher, func() error, error) {
	if cfg.RedisURL == "" {
		return NopPublisher{}, func() error { return nil }, nil
	}
	pub, err := NewRedisPublisher(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return pub, pub.Close, nil
}
