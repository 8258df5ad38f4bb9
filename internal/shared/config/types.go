// Package config holds the configuration section types shared across the
// engine and its entrypoints.
package config

import "fmt"

// DatabaseConfig configures the persistence backend. Driver selects
// between "mysql", "sqlite" and "memory"; Path is the sqlite file.
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	Path            string `mapstructure:"path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// BillingConfig carries the engine's operating identities and limits.
type BillingConfig struct {
	AdminID         string `mapstructure:"admin_id"`
	SpenderID       string `mapstructure:"spender_id"`
	NativeAsset     string `mapstructure:"native_asset"`
	MaxBatchSize    int    `mapstructure:"max_batch_size"`
	EventBufferSize int    `mapstructure:"event_buffer_size"`
}

// WorkerConfig configures the renewal charge worker.
type WorkerConfig struct {
	// ScanIntervalSeconds is how often the worker scans for due charges.
	ScanIntervalSeconds int `mapstructure:"scan_interval_seconds"`
	// PageSize is how many pending charges are fetched per scan page.
	PageSize int `mapstructure:"page_size"`
}
