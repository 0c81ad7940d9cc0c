package store

import (
	"fmt"

	"lead-intake/internal/common/config"
	"lead-intake/internal/common/database"
)

// New builds the Store selected by cfg.Driver. A driver whose credential is
// empty yields a store that reports ErrNotConfigured on use, so the service
// still starts and answers with MISSING_STORAGE.
func New(cfg config.StorageConfig) (Store, error) {
	var (
		s   Store
		err error
	)

	switch cfg.Driver {
	case config.DriverAzureTable, "":
		s, err = newAzureTableFromConfig(cfg)
	case config.DriverPostgres:
		s, err = newPostgresFromConfig(cfg)
	case config.DriverRedis:
		s = newRedisFromConfig(cfg)
	case config.DriverElasticsearch:
		s, err = newElasticsearchFromConfig(cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return WithTableCache(s), nil
}

func newAzureTableFromConfig(cfg config.StorageConfig) (Store, error) {
	if cfg.ConnectionString == "" {
		return NewUnconfigured(config.DriverAzureTable, "INTAKE_STORAGE_CONNECTION_STRING"), nil
	}
	svc, err := database.NewTableService(cfg.ConnectionString)
	if err != nil {
		return nil, err
	}
	return NewAzureTableStore(svc, cfg.TableName), nil
}

func newPostgresFromConfig(cfg config.StorageConfig) (Store, error) {
	if !cfg.Postgres.IsConfigured() {
		return NewUnconfigured(config.DriverPostgres, "DATABASE_URL"), nil
	}
	client, err := database.NewPostgres(cfg.Postgres)
	if err != nil {
		return nil, err
	}
	return NewPostgresStore(client.DB, cfg.TableName), nil
}

func newRedisFromConfig(cfg config.StorageConfig) Store {
	if cfg.Redis.Address == "" {
		return NewUnconfigured(config.DriverRedis, "REDIS_ADDRESS")
	}
	return NewRedisStore(database.NewRedis(cfg.Redis), cfg.TableName)
}

func newElasticsearchFromConfig(cfg config.StorageConfig) (Store, error) {
	if len(cfg.Elasticsearch.GetAddresses()) == 0 {
		return NewUnconfigured(config.DriverElasticsearch, "ELASTICSEARCH_URL"), nil
	}
	es, err := database.NewElasticsearch(cfg.Elasticsearch)
	if err != nil {
		return nil, err
	}
	return NewElasticsearchStore(es, cfg.TableName), nil
}
