// output/listing_test.go
package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gewnthar/faawaypoints/models"
	"github.com/klauspost/compress/zstd"
)

func names(wps []models.Waypoint) string {
	var n []string
	for _, wp := range wps {
		n = append(n, wp.Name)
	}
	return strings.Join(n, ",")
}

func TestSorted(t *testing.T) {
	wps := []models.Waypoint{{Name: "Zulu"}, {Name: "Alpha"}, {Name: "Mike"}}
	if got := names(Sorted(wps)); got != "Alpha,Mike,Zulu" {
		t.Errorf("Sorted order %s, want Alpha,Mike,Zulu", got)
	}
	if got := names(wps); got != "Zulu,Alpha,Mike" {
		t.Errorf("Sorted modified its input: %s", got)
	}
}

func TestSortedStableForEqualNames(t *testing.T) {
	wps := []models.Waypoint{
		{Name: "SEA", FacilityType: "VORTAC"},
		{Name: "KSEA", FacilityType: "Airport"},
		{Name: "SEA", FacilityType: "Intersection"},
	}
	s := Sorted(wps)
	if s[1].FacilityType != "VORTAC" || s[2].FacilityType != "Intersection" {
		t.Errorf("equal names reordered: %+v", s)
	}

	d := Prepare(wps, Options{Dedupe: true})
	if len(d) != 2 || d[1].FacilityType != "VORTAC" {
		t.Errorf("Dedupe kept %+v", d)
	}
}

func TestWriteListing(t *testing.T) {
	wps := Prepare([]models.Waypoint{
		{Name: "ZIGGY", FacilityType: "Intersection", Description: "ZIGGY Intersection", Latitude: 39, Longitude: -119.75},
		{Name: "KSEA", FacilityType: "Airport", Description: "Seattle-Tacoma Intl Airport, Seattle, WA",
			Latitude: 47.44997222222222, Longitude: -122.30925},
	}, Options{})

	var buf bytes.Buffer
	if err := WriteListing(&buf, wps, Options{}); err != nil {
		t.Fatal(err)
	}

	want := `var faaWaypoints = [
    { "name":"KSEA", "type":"Airport", "description":"Seattle-Tacoma Intl Airport, Seattle, WA", "latitude":47.44997222222222, "longitude":-122.30925},
    { "name":"ZIGGY", "type":"Intersection", "description":"ZIGGY Intersection", "latitude":39.0, "longitude":-119.75}
];
`
	if buf.String() != want {
		t.Errorf("listing mismatch\ngot:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteListingEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteListing(&buf, nil, Options{VarName: "wp"}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "var wp = [\n\n];\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestWriteListingEscape(t *testing.T) {
	wps := []models.Waypoint{{Name: "X", FacilityType: "Airport", Description: `Bob's "Field" C:\`}}

	var raw, escaped bytes.Buffer
	if err := WriteListing(&raw, wps, Options{}); err != nil {
		t.Fatal(err)
	}
	if err := WriteListing(&escaped, wps, Options{Escape: true}); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(raw.String(), `"description":"Bob's "Field" C:\"`) {
		t.Errorf("unescaped listing altered the text: %s", raw.String())
	}
	if !strings.Contains(escaped.String(), `"description":"Bob's \"Field\" C:\\"`) {
		t.Errorf("escaped listing: %s", escaped.String())
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{47.4376388888889, "47.4376388888889"},
		{-122.0, "-122.0"},
		{0, "0.0"},
		{0.5, "0.5"},
		{0.0001, "0.0001"},
		{0.00005, "5e-05"},
		{-0.000012, "-1.2e-05"},
		{1e16, "1e+16"},
		{123456789.0, "123456789.0"},
	}
	for _, tt := range tests {
		if got := FormatFloat(tt.v); got != tt.want {
			t.Errorf("FormatFloat(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	wps := []models.Waypoint{{Name: "SEA", FacilityType: "VORTAC", Description: `a "b"`, Latitude: 1, Longitude: -2}}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, wps); err != nil {
		t.Fatal(err)
	}

	var got []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %s: %v", buf.String(), err)
	}
	if len(got) != 1 || got[0]["type"] != "VORTAC" || got[0]["description"] != `a "b"` || got[0]["longitude"] != -2.0 {
		t.Errorf("unexpected JSON %s", buf.String())
	}

	buf.Reset()
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("empty JSON = %q", buf.String())
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	wps := []models.Waypoint{{Name: "OED", FacilityType: "VOR/DME", Description: "Rogue Valley, VOR/DME", Latitude: 42.5, Longitude: -122.9}}
	if err := WriteCSV(&buf, wps); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %q", buf.String())
	}
	if lines[0] != "name,type,description,latitude,longitude" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], `OED,VOR/DME,"Rogue Valley, VOR/DME",42.5,`) {
		t.Errorf("row = %q", lines[1])
	}

	buf.Reset()
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "name,type,description,latitude,longitude" {
		t.Errorf("empty CSV = %q", buf.String())
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "waypoints.json")
	wps := []models.Waypoint{{Name: "A", FacilityType: "Intersection", Description: "A Intersection"}}

	render := func(w io.Writer) error { return WriteListing(w, wps, Options{}) }
	if err := WriteFile(path, true, render); err != nil {
		t.Fatal(err)
	}

	plain, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(plain), "var faaWaypoints = [\n") {
		t.Errorf("unexpected contents %q", plain)
	}

	z, err := os.ReadFile(path + ".zst")
	if err != nil {
		t.Fatal(err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		t.Fatal(err)
	}
	defer dec.Close()
	unz, err := dec.DecodeAll(z, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(unz, plain) {
		t.Errorf("compressed copy differs from the listing")
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 2 {
		t.Errorf("expected only the two outputs, found %d entries", len(entries))
	}
}

func TestWriteFilesAllOrNothing(t *testing.T) {
	render := func(w io.Writer) error { return WriteListing(w, nil, Options{}) }

	tests := []struct {
		name   string
		second func(dir string) File
	}{
		{
			name: "render error",
			second: func(dir string) File {
				return File{
					Path:   filepath.Join(dir, "waypoints.csv"),
					Render: func(io.Writer) error { return errors.New("csv failed") },
				}
			},
		},
		{
			name: "unwritable directory",
			second: func(dir string) File {
				blocker := filepath.Join(dir, "blocker")
				if err := os.WriteFile(blocker, nil, 0o644); err != nil {
					t.Fatal(err)
				}
				return File{Path: filepath.Join(blocker, "waypoints.csv"), Render: render}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			listing := filepath.Join(dir, "waypoints.json")

			err := WriteFiles(File{Path: listing, Compress: true, Render: render}, tt.second(dir))
			if err == nil {
				t.Fatal("expected an error")
			}
			for _, p := range []string{listing, listing + ".zst"} {
				if _, err := os.Stat(p); !errors.Is(err, os.ErrNotExist) {
					t.Errorf("%s written despite the failed second output: %v", p, err)
				}
			}
			if entries, _ := filepath.Glob(filepath.Join(dir, "*.tmp*")); len(entries) != 0 {
				t.Errorf("temporary files left behind: %v", entries)
			}
		})
	}
}
