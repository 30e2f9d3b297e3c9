// services/waypoint_store.go
package services

import (
	"strings"
	"sync"
	"time"

	"github.com/gewnthar/faawaypoints/models"
	"github.com/gewnthar/faawaypoints/nasr"
	"github.com/gewnthar/faawaypoints/utils"
)

// WaypointStore keeps the output of the last successful run for the HTTP
// API. It is safe for concurrent use.
type WaypointStore struct {
	mu        sync.RWMutex
	waypoints []models.Waypoint // sorted by name
	stats     []nasr.TableStats
	source    string
	edition   *models.NASREdition
	updatedAt time.Time
}

// StoreInfo summarizes what a WaypointStore currently holds.
type StoreInfo struct {
	Count     int                 `json:"count"`
	Source    string              `json:"source,omitempty"`
	Edition   *models.NASREdition `json:"edition,omitempty"`
	UpdatedAt *time.Time          `json:"updated_at,omitempty"`
	Tables    []nasr.TableStats   `json:"tables,omitempty"`
}

// Store is the store the extraction service publishes to.
var Store = NewWaypointStore()

func NewWaypointStore() *WaypointStore {
	return &WaypointStore{}
}

// Set replaces the stored waypoints with the result of a run.
func (s *WaypointStore) Set(r *RunResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waypoints = r.Waypoints
	s.stats = r.Stats
	s.source = r.Source
	s.edition = r.Edition
	s.updatedAt = r.FinishedAt
}

// All returns every stored waypoint, sorted by name.
func (s *WaypointStore) All() []models.Waypoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Waypoint(nil), s.waypoints...)
}

// Lookup returns the waypoints named name. Names are not unique across
// tables, so there may be more than one.
func (s *WaypointStore) Lookup(name string) []models.Waypoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found []models.Waypoint
	for _, wp := range s.waypoints {
		if strings.EqualFold(wp.Name, name) {
			found = append(found, wp)
		}
	}
	return found
}

// LookupAirport finds airports stored under their ICAO identifier by
// their FAA identifier, so "SEA" finds KSEA.
func (s *WaypointStore) LookupAirport(code string) []models.Waypoint {
	code = utils.NormalizeAirportCode(code)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found []models.Waypoint
	for _, wp := range s.waypoints {
		if wp.Name != code && utils.NormalizeAirportCode(wp.Name) == code {
			found = append(found, wp)
		}
	}
	return found
}

// Search filters by facility type and name prefix, both case-insensitive.
// Empty arguments match everything.
func (s *WaypointStore) Search(facilityType, namePrefix string) []models.Waypoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prefix := strings.ToUpper(namePrefix)
	found := []models.Waypoint{}
	for _, wp := range s.waypoints {
		if facilityType != "" && !strings.EqualFold(wp.FacilityType, facilityType) {
			continue
		}
		if !strings.HasPrefix(strings.ToUpper(wp.Name), prefix) {
			continue
		}
		found = append(found, wp)
	}
	return found
}

func (s *WaypointStore) Info() StoreInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info := StoreInfo{
		Count:   len(s.waypoints),
		Source:  s.source,
		Edition: s.edition,
		Tables:  append([]nasr.TableStats(nil), s.stats...),
	}
	if !s.updatedAt.IsZero() {
		t := s.updatedAt
		info.UpdatedAt = &t
	}
	return info
}
