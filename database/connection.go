// database/connection.go
package database

import (
	"database/sql"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/gewnthar/faawaypoints/config"
	"github.com/go-sql-driver/mysql"
)

var DB *sql.DB

// DSN builds the driver connection string for cfg.
func DSN(cfg config.DatabaseConfig) string {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, cfg.Port)
	mc.DBName = cfg.DBName
	mc.ParseTime = true
	return mc.FormatDSN()
}

// InitDB opens the connection pool and makes sure the tables exist.
func InitDB(cfg config.DatabaseConfig) error {
	var err error
	DB, err = sql.Open("mysql", DSN(cfg))
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	// A batch run needs one connection; the HTTP API a handful.
	DB.SetMaxOpenConns(10)
	DB.SetMaxIdleConns(10)
	DB.SetConnMaxLifetime(5 * time.Minute)

	if err = DB.Ping(); err != nil {
		DB.Close()
		DB = nil
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err = EnsureSchema(); err != nil {
		DB.Close()
		DB = nil
		return err
	}

	log.Println("Database: Successfully connected to the database!")
	return nil
}

// CloseDB closes the database connection pool.
func CloseDB() {
	if DB != nil {
		DB.Close()
		DB = nil
		log.Println("Database: connection closed.")
	}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS faa_waypoints (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(32) NOT NULL,
		facility_type VARCHAR(32) NOT NULL,
		description VARCHAR(255) NOT NULL,
		latitude DOUBLE NOT NULL,
		longitude DOUBLE NOT NULL,
		source_edition VARCHAR(32) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_faa_waypoints_name (name),
		INDEX idx_faa_waypoints_source (source_edition)
	)`,
	`CREATE TABLE IF NOT EXISTS data_source_versions (
		id INT AUTO_INCREMENT PRIMARY KEY,
		source_name VARCHAR(64) NOT NULL UNIQUE,
		source_file_url VARCHAR(512) NOT NULL DEFAULT '',
		last_downloaded_filename VARCHAR(255) NULL,
		effective_from DATE NULL,
		effective_until DATE NULL,
		last_processed_at DATETIME NULL,
		waypoint_count INT NOT NULL DEFAULT 0,
		data_hash VARCHAR(64) NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
}

// EnsureSchema creates the tables if they are missing.
func EnsureSchema() error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}
	for _, stmt := range schema {
		if _, err := DB.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
