// database/waypoint_store.go
package database

import (
	"fmt"
	"log"

	"github.com/gewnthar/faawaypoints/models"
)

// SaveWaypoints replaces the stored waypoints with wps in one transaction,
// tagging each row with sourceEdition (e.g., "NASR 2024-10-03" or the
// input directory for local runs).
func SaveWaypoints(wps []models.Waypoint, sourceEdition string) error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	tx, err := DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for waypoints: %w", err)
	}
	defer tx.Rollback()

	// Step 1: clear the previous load; waypoints are always reloaded whole.
	res, err := tx.Exec("DELETE FROM faa_waypoints")
	if err != nil {
		return fmt.Errorf("failed to delete old waypoints: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		log.Printf("Database: Cleared %d existing waypoints\n", n)
	}

	// Step 2: insert the new ones
	stmt, err := tx.Prepare(`
		INSERT INTO faa_waypoints (
			name, facility_type, description, latitude, longitude, source_edition
		) VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare waypoint insert statement: %w", err)
	}
	defer stmt.Close()

	for _, wp := range wps {
		if _, err := stmt.Exec(wp.Name, wp.FacilityType, wp.Description, wp.Latitude, wp.Longitude, sourceEdition); err != nil {
			log.Printf("ERROR Database: saving waypoint %+v: %v", wp, err)
			return fmt.Errorf("failed to insert waypoint '%s': %w", wp.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction for waypoints: %w", err)
	}

	log.Printf("Database: Saved %d waypoints from %s\n", len(wps), sourceEdition)
	return nil
}

// GetWaypoints returns the stored waypoints ordered by name.
func GetWaypoints() ([]models.Waypoint, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}

	rows, err := DB.Query(`
		SELECT name, facility_type, description, latitude, longitude
		FROM faa_waypoints
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query waypoints: %w", err)
	}
	defer rows.Close()

	var wps []models.Waypoint
	for rows.Next() {
		var wp models.Waypoint
		if err := rows.Scan(&wp.Name, &wp.FacilityType, &wp.Description, &wp.Latitude, &wp.Longitude); err != nil {
			return nil, fmt.Errorf("failed to scan waypoint row: %w", err)
		}
		wps = append(wps, wp)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating waypoint rows: %w", err)
	}
	return wps, nil
}
