// handlers/handlers_test.go
package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gewnthar/faawaypoints/config"
	"github.com/gewnthar/faawaypoints/models"
	"github.com/gewnthar/faawaypoints/services"
)

func seedStore(t *testing.T) {
	t.Helper()
	services.Store.Set(&services.RunResult{
		Waypoints: []models.Waypoint{
			{Name: "ALDER", FacilityType: "Intersection", Description: "ALDER Intersection", Latitude: 47.5, Longitude: -122.0},
			{Name: "KSEA", FacilityType: "Airport", Description: "Seattle-Tacoma Intl Airport, Seattle, WA", Latitude: 47.45, Longitude: -122.3},
			{Name: "SEA", FacilityType: "VOR/DME", Description: "Seattle VOR/DME", Latitude: 47.43, Longitude: -122.31},
		},
		Source:     "testdata",
		FinishedAt: time.Now(),
	})
}

func serve(method, target string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	RegisterRoutes(mux)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decodeWaypoints(t *testing.T, rec *httptest.ResponseRecorder) []models.Waypoint {
	t.Helper()
	var wps []models.Waypoint
	if err := json.Unmarshal(rec.Body.Bytes(), &wps); err != nil {
		t.Fatalf("decoding %q: %v", rec.Body.String(), err)
	}
	return wps
}

func TestListWaypoints(t *testing.T) {
	seedStore(t)

	tests := []struct {
		target string
		want   []string
	}{
		{"/api/waypoints", []string{"ALDER", "KSEA", "SEA"}},
		{"/api/waypoints?type=airport", []string{"KSEA"}},
		{"/api/waypoints?q=se", []string{"SEA"}},
		{"/api/waypoints?type=Intersection&q=K", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := serve(http.MethodGet, tt.target)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
			}
			wps := decodeWaypoints(t, rec)
			if len(wps) != len(tt.want) {
				t.Fatalf("got %+v, want %v", wps, tt.want)
			}
			for i, name := range tt.want {
				if wps[i].Name != name {
					t.Errorf("wps[%d] = %s, want %s", i, wps[i].Name, name)
				}
			}
		})
	}
}

func TestGetWaypoint(t *testing.T) {
	seedStore(t)

	rec := serve(http.MethodGet, "/api/waypoints/KSEA")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if wps := decodeWaypoints(t, rec); len(wps) != 1 || wps[0].FacilityType != "Airport" {
		t.Errorf("unexpected response %+v", wps)
	}

	// Airports are also found by their FAA identifier.
	services.Store.Set(&services.RunResult{Waypoints: []models.Waypoint{{Name: "KPDX", FacilityType: "Airport"}}})
	rec = serve(http.MethodGet, "/api/waypoints/pdx")
	if wps := decodeWaypoints(t, rec); rec.Code != http.StatusOK || len(wps) != 1 || wps[0].Name != "KPDX" {
		t.Errorf("lookup by FAA identifier: status %d, %+v", rec.Code, wps)
	}

	if rec := serve(http.MethodGet, "/api/waypoints/NOPE"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown name: status = %d, want 404", rec.Code)
	}
	if rec := serve(http.MethodDelete, "/api/waypoints/KSEA"); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("DELETE: status = %d, want 405", rec.Code)
	}
}

func TestListing(t *testing.T) {
	seedStore(t)
	config.AppConfig = config.Default()

	rec := serve(http.MethodGet, "/waypoints.js")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/javascript") {
		t.Errorf("Content-Type = %s", ct)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "var faaWaypoints = [\n") || !strings.HasSuffix(body, "\n];\n") {
		t.Errorf("unexpected listing:\n%s", body)
	}
	if !strings.Contains(body, `{ "name":"SEA", "type":"VOR/DME", "description":"Seattle VOR/DME", "latitude":47.43, "longitude":-122.31}`) {
		t.Errorf("listing is missing SEA:\n%s", body)
	}
}

func TestHealth(t *testing.T) {
	seedStore(t)
	rec := serve(http.MethodGet, "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var body struct {
		Status    string             `json:"status"`
		Waypoints services.StoreInfo `json:"waypoints"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" || body.Waypoints.Count != 3 {
		t.Errorf("unexpected health %+v", body)
	}
}

func TestRefreshWaypoints(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"APT.txt", "NAV.txt", "FIX.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("header line\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	config.AppConfig = config.Default()
	config.AppConfig.Input.Dir = dir
	config.AppConfig.Output.Path = filepath.Join(dir, "waypoints.json")

	if rec := serve(http.MethodGet, "/api/admin/refresh"); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET: status = %d, want 405", rec.Code)
	}
	if rec := serve(http.MethodPost, "/api/admin/refresh?fetch=maybe"); rec.Code != http.StatusBadRequest {
		t.Errorf("bad fetch: status = %d, want 400", rec.Code)
	}

	rec := serve(http.MethodPost, "/api/admin/refresh")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"message", "count", "source", "finished_at"} {
		if _, ok := resp[key]; !ok {
			t.Errorf("refresh response is missing %q: %s", key, rec.Body)
		}
	}
	if info := services.Store.Info(); info.Count != 0 || info.Source != dir {
		t.Errorf("store not refreshed: %+v", info)
	}
	if _, err := os.Stat(config.AppConfig.Output.Path); err != nil {
		t.Errorf("output not written: %v", err)
	}

	config.AppConfig.Input.Dir = filepath.Join(dir, "missing")
	if rec := serve(http.MethodPost, "/api/admin/refresh"); rec.Code != http.StatusInternalServerError {
		t.Errorf("missing input: status = %d, want 500", rec.Code)
	}
}

func TestGetWaypointEscapedName(t *testing.T) {
	services.Store.Set(&services.RunResult{Waypoints: []models.Waypoint{{Name: "A%B", FacilityType: "Intersection"}}})

	rec := serve(http.MethodGet, "/api/waypoints/A%25B")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if wps := decodeWaypoints(t, rec); len(wps) != 1 || wps[0].Name != "A%B" {
		t.Errorf("unexpected response %+v", wps)
	}
}

func TestHealthEditionKeys(t *testing.T) {
	effective := time.Date(2024, 10, 3, 0, 0, 0, 0, time.UTC)
	services.Store.Set(&services.RunResult{
		Edition: &models.NASREdition{
			EffectiveFrom:  effective,
			EffectiveUntil: effective.AddDate(0, 0, models.NASRCycleDays),
			ArchiveURL:     "https://example.com/nasr.zip",
		},
		FinishedAt: effective,
	})

	rec := serve(http.MethodGet, "/api/health")
	body := rec.Body.String()
	for _, key := range []string{`"effective_from":"2024-10-03T00:00:00Z"`, `"effective_until":"2024-11-28T00:00:00Z"`, `"archive_url"`, `"updated_at"`} {
		if !strings.Contains(body, key) {
			t.Errorf("health response is missing %s: %s", key, body)
		}
	}
	if strings.Contains(body, "EffectiveFrom") {
		t.Errorf("health response has untagged edition fields: %s", body)
	}
}

func TestDataSourceVersionsWithoutDatabase(t *testing.T) {
	if rec := serve(http.MethodGet, "/api/admin/versions"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
