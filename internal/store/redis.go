package store

import (
	"context"
	"encoding/json"
	"fmt"

	"lead-intake/internal/common/database"
	"lead-intake/internal/models"

	"github.com/redis/go-redis/v9"
)

// putScript writes the record only if its key is free and indexes the row
// key under the partition set in the same step.
var putScript = redis.NewScript(`
if redis.call("SETNX", KEYS[1], ARGV[1]) == 0 then
  return 0
end
redis.call("SADD", KEYS[2], ARGV[2])
return 1
`)

// RedisStore keeps each record as a JSON string at <table>:<partition>:<rowKey>
// and the partition's row keys in the set <table>:<partition>.
type RedisStore struct {
	client    redis.UniversalClient
	tableName string
}

func NewRedisStore(client redis.UniversalClient, tableName string) *RedisStore {
	return &RedisStore{client: client, tableName: tableName}
}

func (s *RedisStore) Driver() string { return "redis" }

func (s *RedisStore) Close() error { return s.client.Close() }

// EnsureTable only checks connectivity; Redis keyspaces need no creation.
func (s *RedisStore) EnsureTable(ctx context.Context) (Table, error) {
	if err := database.PingRedis(ctx, s.client); err != nil {
		return nil, unavailable(s.Driver(), "ping", err)
	}
	return &redisTable{client: s.client, tableName: s.tableName}, nil
}

type redisTable struct {
	client    redis.UniversalClient
	tableName string
}

func RecordKey(tableName string, record *models.IntakeRecord) string {
	return fmt.Sprintf("%s:%s:%s", tableName, record.PartitionKey(), record.RowKey())
}

func PartitionIndexKey(tableName, partition string) string {
	return fmt.Sprintf("%s:%s", tableName, partition)
}

func (t *redisTable) Put(ctx context.Context, record *models.IntakeRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	keys := []string{
		RecordKey(t.tableName, record),
		PartitionIndexKey(t.tableName, record.PartitionKey()),
	}
	written, err := putScript.Run(ctx, t.client, keys, string(data), record.RowKey()).Int()
	if err != nil {
		return unavailable("redis", "put", err)
	}
	if written == 0 {
		return duplicate("redis", record.RowKey())
	}
	return nil
}
