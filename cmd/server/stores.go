package main

import (
	"context"
	"log/slog"

	"legacyvault/internal/audit"
	"legacyvault/internal/platform/config"
	"legacyvault/internal/platform/postgres"
	"legacyvault/internal/platform/ratelimit"
	"legacyvault/internal/platform/redis"
	"legacyvault/internal/will/ports"
	"legacyvault/internal/will/store"
)

// backends bundles the storage picked by configuration plus whatever must be
// closed on shutdown.
type backends struct {
	records  ports.RecordStore
	contents ports.ContentStore
	tx       ports.TxRunner
	audit    audit.Store
	limits   ratelimit.Store
	closers  []func() error
}

func (b *backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		_ = b.closers[i]()
	}
}

func buildBackends(ctx context.Context, cfg config.Server, log *slog.Logger) (*backends, error) {
	if cfg.ContentBackend == config.ContentBackendMemory {
		mem := store.NewMemoryStore()
		log.Info("using in-memory will storage")
		return &backends{
			records:  mem.Records(),
			contents: mem.Contents(),
			tx:       mem,
			audit:    audit.NewInMemoryStore(),
			limits:   ratelimit.NewMemoryStore(),
		}, nil
	}

	b := &backends{}
	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	b.closers = append(b.closers, db.Close)
	if err := postgres.Migrate(ctx, db, store.Schema, audit.Schema); err != nil {
		b.Close()
		return nil, err
	}

	records := store.NewPostgres(db)
	b.records = records
	b.audit = audit.NewPostgresStore(db)
	b.limits = ratelimit.NewMemoryStore()

	switch cfg.ContentBackend {
	case config.ContentBackendRedis:
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, client.Close)
		b.contents = store.NewRedisContentStore(client.Client)
		b.limits = ratelimit.NewRedisStore(client.Client)
		log.Info("using postgres records with redis content")
	default:
		b.contents = records.Contents()
		log.Info("using postgres will storage")
	}
	b.tx = store.NewTxRunner(db, b.records, b.contents)
	return b, nil
}
