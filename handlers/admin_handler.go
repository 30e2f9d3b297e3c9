// handlers/admin_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gewnthar/faawaypoints/config"
	"github.com/gewnthar/faawaypoints/database"
	"github.com/gewnthar/faawaypoints/models"
	"github.com/gewnthar/faawaypoints/services"
)

// Helper to respond with JSON
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ERROR Handler: marshalling JSON response: %v", err)
		http.Error(w, `{"error":"Failed to marshal JSON response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper to respond with an error
func respondWithError(w http.ResponseWriter, code int, message string) {
	log.Printf("Handler: API Error %d: %s", code, message)
	respondWithJSON(w, code, models.ErrorResponse{Error: message})
}

// RefreshWaypointsHandler re-runs the extraction with the current
// configuration and republishes the waypoints.
// Expects POST requests to /api/admin/refresh, optionally with ?fetch=true
// to download the current NASR edition first.
func RefreshWaypointsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	var opts services.RunOptions
	if v := r.URL.Query().Get("fetch"); v != "" {
		fetch, err := strconv.ParseBool(v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid 'fetch' value '%s'. Use true or false.", v))
			return
		}
		opts.Fetch = fetch
	}

	result, err := services.RunWaypointExtractor(r.Context(), config.AppConfig, opts)
	if errors.Is(err, services.ErrRunInProgress) {
		respondWithError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to refresh waypoints: %v", err))
		return
	}

	respondWithJSON(w, http.StatusOK, models.RefreshResponse{
		Message:    fmt.Sprintf("Extracted %d waypoints from %s.", len(result.Waypoints), result.Source),
		Count:      len(result.Waypoints),
		Source:     result.Source,
		Edition:    result.Edition,
		FinishedAt: result.FinishedAt,
	})
}

// DataSourceVersionsHandler lists the NASR editions recorded in the
// database. Expects GET requests to /api/admin/versions.
func DataSourceVersionsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Only GET method is allowed")
		return
	}
	if database.DB == nil {
		respondWithError(w, http.StatusServiceUnavailable, "Database is not enabled")
		return
	}

	versions, err := database.GetDataSourceVersions()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to read data source versions: %v", err))
		return
	}
	respondWithJSON(w, http.StatusOK, versions)
}
