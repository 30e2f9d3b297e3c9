// database/datasource_store.go
package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/gewnthar/faawaypoints/models"
)

// LogDataSourceVersionUpdate inserts or updates the data_source_versions
// row for v.SourceName, recording which edition was processed and when.
func LogDataSourceVersionUpdate(v models.DataSourceVersion) error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	nullTime := func(t *time.Time) sql.NullTime {
		if t == nil {
			return sql.NullTime{}
		}
		return sql.NullTime{Time: *t, Valid: true}
	}
	nullString := func(s string) sql.NullString {
		return sql.NullString{String: s, Valid: s != ""}
	}

	query := `
		INSERT INTO data_source_versions (
			source_name, source_file_url, last_downloaded_filename,
			effective_from, effective_until, last_processed_at,
			waypoint_count, data_hash, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW())
		ON DUPLICATE KEY UPDATE
			source_file_url = VALUES(source_file_url),
			last_downloaded_filename = VALUES(last_downloaded_filename),
			effective_from = VALUES(effective_from),
			effective_until = VALUES(effective_until),
			last_processed_at = VALUES(last_processed_at),
			waypoint_count = VALUES(waypoint_count),
			data_hash = VALUES(data_hash),
			updated_at = NOW()
	`

	_, err := DB.Exec(query,
		v.SourceName, v.SourceFileURL, nullString(v.LastDownloadedFilename),
		nullTime(v.EffectiveFrom), nullTime(v.EffectiveUntil), nullTime(v.LastProcessedAt),
		v.WaypointCount, nullString(v.DataHash),
	)
	if err != nil {
		log.Printf("ERROR Database: Failed to log/update data source version for '%s': %v", v.SourceName, err)
		return fmt.Errorf("failed to log data source version for %s: %w", v.SourceName, err)
	}

	log.Printf("Database: Logged data source version for '%s'. Effective until: %v, waypoints: %d\n",
		v.SourceName, v.EffectiveUntil, v.WaypointCount)
	return nil
}

// GetDataSourceVersions retrieves all records from the data_source_versions table.
func GetDataSourceVersions() ([]models.DataSourceVersion, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}

	rows, err := DB.Query(`
		SELECT id, source_name, source_file_url, last_downloaded_filename,
		       effective_from, effective_until, last_processed_at,
		       waypoint_count, data_hash, created_at, updated_at
		FROM data_source_versions
		ORDER BY source_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query data_source_versions: %w", err)
	}
	defer rows.Close()

	var versions []models.DataSourceVersion
	for rows.Next() {
		var v models.DataSourceVersion
		var effFrom, effUntil, processed sql.NullTime
		var filename, dataHash sql.NullString

		err := rows.Scan(
			&v.ID, &v.SourceName, &v.SourceFileURL, &filename,
			&effFrom, &effUntil, &processed,
			&v.WaypointCount, &dataHash, &v.CreatedAt, &v.UpdatedAt,
		)
		if err != nil {
			log.Printf("ERROR Database: Failed to scan data_source_version row: %v", err)
			continue
		}
		v.LastDownloadedFilename = filename.String
		v.DataHash = dataHash.String
		if effFrom.Valid {
			v.EffectiveFrom = &effFrom.Time
		}
		if effUntil.Valid {
			v.EffectiveUntil = &effUntil.Time
		}
		if processed.Valid {
			v.LastProcessedAt = &processed.Time
		}
		versions = append(versions, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating data_source_version rows: %w", err)
	}
	return versions, nil
}
