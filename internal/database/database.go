package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

// Service represents a service that interacts with a database.
type Service interface {
	// Health returns a map of health status information.
	// The keys and values in the map are service-specific.
	Health(ctx context.Context) map[string]string

	// DB exposes the pool to repositories.
	DB() *sql.DB

	// Close terminates the database connection.
	// It returns an error if the connection cannot be closed.
	Close() error
}

const maxOpenConns = 50

type service struct {
	db  *sql.DB
	log *zap.Logger
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS submissions (
		id             UUID PRIMARY KEY,
		name           TEXT NOT NULL,
		email          TEXT NOT NULL,
		phone          TEXT NOT NULL,
		address        TEXT NOT NULL,
		category       TEXT NOT NULL CHECK (category IN ('Essay','Drawing','Photography','Singing')),
		file_name      TEXT NOT NULL,
		file_location  TEXT NOT NULL,
		file_key       TEXT NOT NULL,
		file_mime_type TEXT,
		submitted_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		payment_id     TEXT,
		order_id       TEXT,
		payment_status TEXT NOT NULL DEFAULT 'Pending' CHECK (payment_status IN ('Pending','Success','Failed'))
	)`,
	`CREATE INDEX IF NOT EXISTS submissions_submitted_at_idx ON submissions (submitted_at DESC)`,
	`CREATE INDEX IF NOT EXISTS submissions_file_key_idx ON submissions (file_key)`,
}

// NewPostgres opens dsn with the pgx driver, pings it and applies the schema.
func NewPostgres(ctx context.Context, dsn string, log *zap.Logger) (Service, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	for _, q := range schema {
		if _, err := db.ExecContext(ctx, q); err != nil {
			db.Close()
			return nil, fmt.Errorf("init schema: %w", err)
		}
	}
	db.SetMaxOpenConns(maxOpenConns)
	return &service{db: db, log: log}, nil
}

func (s *service) DB() *sql.DB { return s.db }

// Health checks the health of the database connection by pinging the database.
// It returns a map with keys indicating various health statistics.
func (s *service) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	if err := s.db.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		s.log.Error("database health check failed", zap.Error(err))
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"

	dbStats := s.db.Stats()
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	stats["wait_count"] = strconv.FormatInt(dbStats.WaitCount, 10)
	stats["wait_duration"] = dbStats.WaitDuration.String()
	stats["max_idle_closed"] = strconv.FormatInt(dbStats.MaxIdleClosed, 10)
	stats["max_lifetime_closed"] = strconv.FormatInt(dbStats.MaxLifetimeClosed, 10)

	if dbStats.OpenConnections > maxOpenConns*4/5 {
		stats["message"] = "The database is experiencing heavy load."
	}

	if dbStats.WaitCount > 1000 {
		stats["message"] = "The database has a high number of wait events, indicating potential bottlenecks."
	}

	return stats
}

// Close closes the database connection.
func (s *service) Close() error {
	s.log.Info("disconnected from database")
	return s.db.Close()
}
