// models/meta.go
package models

import "time"

// DataSourceVersion records which NASR edition was last turned into
// waypoints, and when. One row per source name in data_source_versions.
type DataSourceVersion struct {
	ID                     int        `db:"id" json:"id"`
	SourceName             string     `db:"source_name" json:"source_name"` // e.g., "NASR"
	SourceFileURL          string     `db:"source_file_url" json:"source_file_url"`
	LastDownloadedFilename string     `db:"last_downloaded_filename" json:"last_downloaded_filename,omitempty"`
	EffectiveFrom          *time.Time `db:"effective_from" json:"effective_from,omitempty"`
	EffectiveUntil         *time.Time `db:"effective_until" json:"effective_until,omitempty"`
	LastProcessedAt        *time.Time `db:"last_processed_at" json:"last_processed_at,omitempty"`
	WaypointCount          int        `db:"waypoint_count" json:"waypoint_count"`
	DataHash               string     `db:"data_hash" json:"data_hash,omitempty"` // SHA-256 of the archive
	CreatedAt              time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time  `db:"updated_at" json:"updated_at"`
}
