// handlers/waypoint_handler.go
package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gewnthar/faawaypoints/config"
	"github.com/gewnthar/faawaypoints/database"
	"github.com/gewnthar/faawaypoints/output"
	"github.com/gewnthar/faawaypoints/services"
)

// RegisterRoutes wires every API route into mux.
func RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/health", HealthHandler)
	mux.HandleFunc("/api/waypoints", ListWaypointsHandler)
	mux.HandleFunc("/api/waypoints/", GetWaypointHandler) // trailing slash catches /{name}
	mux.HandleFunc("/waypoints.js", ListingHandler)
	mux.HandleFunc("/api/admin/refresh", RefreshWaypointsHandler)
	mux.HandleFunc("/api/admin/versions", DataSourceVersionsHandler)
}

// HealthHandler reports what is currently being served.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	if database.DB != nil {
		if err := database.DB.PingContext(r.Context()); err != nil {
			log.Printf("ERROR Handler: Health check failed: DB ping error: %v", err)
			respondWithJSON(w, http.StatusInternalServerError, map[string]string{
				"status":  "error",
				"message": "database connection error",
			})
			return
		}
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"waypoints": services.Store.Info(),
	})
}

// ListWaypointsHandler handles GET /api/waypoints?type=VOR&q=SE, both
// filters optional.
func ListWaypointsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Only GET method is allowed")
		return
	}
	q := r.URL.Query()
	respondWithJSON(w, http.StatusOK, services.Store.Search(q.Get("type"), q.Get("q")))
}

// GetWaypointHandler handles GET /api/waypoints/{name}. Airports can also
// be looked up by their FAA identifier ("SEA" for KSEA) when nothing is
// named exactly that.
func GetWaypointHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Only GET method is allowed")
		return
	}

	// Expected path: /api/waypoints/{name}; r.URL.Path is already unescaped.
	name := strings.TrimPrefix(r.URL.Path, "/api/waypoints/")
	if name == "" || strings.Contains(name, "/") {
		respondWithError(w, http.StatusBadRequest, "Invalid path. Expected /api/waypoints/{name}")
		return
	}

	found := services.Store.Lookup(name)
	if len(found) == 0 {
		found = services.Store.LookupAirport(name)
	}
	if len(found) == 0 {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("No waypoint named '%s'", name))
		return
	}
	respondWithJSON(w, http.StatusOK, found)
}

// ListingHandler serves the current waypoints as the script listing the
// web page includes, rendered with the configured output options.
func ListingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Only GET method is allowed")
		return
	}

	out := config.AppConfig.Output
	opts := output.Options{VarName: out.VarName, Escape: out.Escape}

	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	if err := output.WriteListing(w, services.Store.All(), opts); err != nil {
		log.Printf("ERROR Handler: writing listing: %v", err)
	}
}
