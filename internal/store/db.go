package store

import (
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/jmoiron/sqlx"

	_ "github.com/lib/pq"

	"github.com/Ramsey-B/corpmatch/config"
)

// Connect opens a Postgres connection pool for the audit store and verifies
// it with a ping before returning.
func Connect(cfg config.Config) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DatabaseHost, cfg.DatabasePort, cfg.DatabaseUserName, cfg.DatabasePassword,
		cfg.DatabaseName, cfg.DatabaseSSLMode,
	)

	db, err := sqlx.Open(cfg.DatabaseDriver, dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.DatabaseMaxOpenConns)
	db.SetMaxIdleConns(cfg.DatabaseMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DatabaseConnMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// ConnectWithRetry retries Connect up to attempts times, waiting backoff
// between attempts.
func ConnectWithRetry(cfg config.Config, logger ectologger.Logger, attempts int, backoff time.Duration) (*sqlx.DB, error) {
	var lastErr error
	for i := 0; i < attempts; i++ {
		db, err := Connect(cfg)
		if err == nil {
			return db, nil
		}
		lastErr = err
		logger.WithError(err).Warnf("Failed to connect to audit database (attempt %d/%d)", i+1, attempts)
		time.Sleep(backoff)
	}
	return nil, lastErr
}
