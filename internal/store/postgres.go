package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lead-intake/internal/models"

	"github.com/lib/pq"
)

const pgUniqueViolation = "23505"

// PostgresStore writes records to a PostgreSQL table keyed by
// (partition_key, row_key).
type PostgresStore struct {
	db        *sql.DB
	tableName string
}

func NewPostgresStore(db *sql.DB, tableName string) *PostgresStore {
	return &PostgresStore{db: db, tableName: tableName}
}

func (s *PostgresStore) Driver() string { return "postgres" }

func (s *PostgresStore) Close() error { return s.db.Close() }

func (s *PostgresStore) EnsureTable(ctx context.Context) (Table, error) {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	partition_key TEXT NOT NULL,
	row_key TEXT NOT NULL,
	created_at TEXT NOT NULL,
	status TEXT NOT NULL,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	business_name TEXT NOT NULL,
	project_type TEXT NOT NULL,
	goals TEXT NOT NULL,
	PRIMARY KEY (partition_key, row_key)
)`, pq.QuoteIdentifier(s.tableName))

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return nil, unavailable(s.Driver(), "create table", err)
	}
	return &postgresTable{db: s.db, insert: insertQuery(s.tableName)}, nil
}

func insertQuery(tableName string) string {
	return fmt.Sprintf(`INSERT INTO %s (partition_key, row_key, created_at, status, name, email, business_name, project_type, goals)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`, pq.QuoteIdentifier(tableName))
}

type postgresTable struct {
	db     *sql.DB
	insert string
}

func (t *postgresTable) Put(ctx context.Context, record *models.IntakeRecord) error {
	_, err := t.db.ExecContext(ctx, t.insert,
		record.PartitionKey(),
		record.RowKey(),
		record.CreatedAt,
		record.Status,
		record.Name,
		record.Email,
		record.BusinessName,
		record.ProjectType,
		record.Goals,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return duplicate("postgres", record.RowKey())
		}
		return unavailable("postgres", "insert", err)
	}
	return nil
}
