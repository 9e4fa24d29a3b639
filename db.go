package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB holds the connection pool and the gorm handle built on top of it.
type DB struct {
	pool *pgxpool.Pool
	orm  *gorm.DB
}

// NewDB opens the pool, checks it and migrates the record table.
func NewDB(ctx context.Context, cfg DBConfig) (*DB, error) {
	config, err := pgxpool.ParseConfig(cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("unable to parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.HealthCheckPeriod = 5 * time.Minute
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 15 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	orm, err := gorm.Open(postgres.New(postgres.Config{Conn: stdlib.OpenDBFromPool(pool)}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to open gorm: %w", err)
	}

	if err := orm.WithContext(ctx).AutoMigrate(&SegmentRecord{}); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to migrate segment records: %w", err)
	}

	return &DB{pool: pool, orm: orm}, nil
}

// Close releases the database connection pool resources
func (db *DB) Close() {
	db.pool.Close()
}

// InsertSegmentRecord stores one record.
func (db *DB) InsertSegmentRecord(ctx context.Context, record *SegmentRecord) error {
	if err := db.orm.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("insert segment record failed: %w", err)
	}
	return nil
}
