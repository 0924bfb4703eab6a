// Package database centralises sqlx connection helpers.  The driver is
// go-sql-driver/mysql, which also works with MariaDB.
//
// Open pings the database before returning so bootstrap fails fast on a
// bad DSN.  Callers Close() the returned *sqlx.DB on shutdown.
package database

import (
	"context"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// ConnMaxLifetime recycles pooled connections.
const ConnMaxLifetime = 30 * time.Minute

// pingTimeout bounds the bootstrap ping.
const pingTimeout = 5 * time.Second

// Open returns a pinged *sqlx.DB.  Non-positive pool sizes fall back to
// 15 open and 5 idle.
func Open(ctx context.Context, dsn string, maxOpen, maxIdle int) (*sqlx.DB, error) {
	if maxOpen <= 0 {
		maxOpen = 15
	}
	if maxIdle <= 0 {
		maxIdle = 5
	}

	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database: ping: %w", err)
	}
	return db, nil
}
