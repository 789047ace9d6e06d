package internal

import (
	"context"
	"fmt"
	"net"

	"github.com/2beens/gymtracker/internal/config"
	"github.com/2beens/gymtracker/internal/db"
	"github.com/2beens/gymtracker/internal/storage"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// cacheExpireSeconds bounds how long a cached history stays fresh when
// another process writes the same key.
const cacheExpireSeconds = 300

// Backend is the opened host store plus the clients behind it.
type Backend struct {
	Store       storage.Store
	RedisClient *redis.Client
	DBPool      *pgxpool.Pool
	SQLite      *storage.SQLiteStore
}

// OpenBackend connects the store selected by storage_backend. Redis, postgres and
// sqlite stores get a freecache read cache when cache_size_mb is set.
func OpenBackend(ctx context.Context, cfg *config.Config) (*Backend, error) {
	b := &Backend{}

	switch cfg.StorageBackend {
	case config.StorageMemory:
		log.Warnln("using in-memory storage, history is lost on restart")
		b.Store = storage.NewMemoryStore()
		return b, nil

	case config.StorageRedis:
		b.RedisClient = redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: cfg.RedisPassword,
			DB:       0, // use default DB
		})
		rdbStatus := b.RedisClient.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}
		b.Store = storage.NewRedisStore(b.RedisClient, storage.DefaultRedisKeyPrefix)

	case config.StoragePostgres:
		dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBUser:         cfg.PostgresUser,
			DBPassword:     cfg.PostgresPassword,
			TracingEnabled: cfg.HoneycombEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		b.DBPool = dbPool

		pgStore := storage.NewPostgresStore(dbPool)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("ensure kv schema: %w", err)
		}
		b.Store = pgStore

	case config.StorageSQLite:
		sqliteStore, err := storage.OpenSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		b.SQLite = sqliteStore
		b.Store = sqliteStore

	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.StorageBackend)
	}

	if cfg.CacheSizeMB > 0 {
		log.Debugf("history cache enabled: %d MB", cfg.CacheSizeMB)
		b.Store = storage.NewCachedStore(b.Store, cfg.CacheSizeMB, cacheExpireSeconds)
	}

	return b, nil
}

func (b *Backend) Close() error {
	var err error
	if b.RedisClient != nil {
		err = multierr.Append(err, b.RedisClient.Close())
	}
	if b.DBPool != nil {
		log.Debugln("closing db pool ...")
		b.DBPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}
	if b.SQLite != nil {
		err = multierr.Append(err, b.SQLite.Close())
	}
	return err
}
