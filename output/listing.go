// output/listing.go
package output

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/gewnthar/faawaypoints/models"
)

// DefaultVarName is the variable the web page reads the waypoints from.
const DefaultVarName = "faaWaypoints"

// Options controls how waypoints are rendered.
type Options struct {
	VarName string // listing variable name; DefaultVarName if empty
	Escape  bool   // JSON-escape text; off by default, text is written as-is
	Dedupe  bool   // keep only the first waypoint for each name
}

// Sorted returns the waypoints ordered by name. Waypoints that share a name
// keep their extraction order.
func Sorted(wps []models.Waypoint) []models.Waypoint {
	s := slices.Clone(wps)
	slices.SortStableFunc(s, func(a, b models.Waypoint) int {
		return strings.Compare(a.Name, b.Name)
	})
	return s
}

// Dedupe drops every waypoint whose name matches the one before it, so it
// expects sorted input.
func Dedupe(wps []models.Waypoint) []models.Waypoint {
	return slices.CompactFunc(slices.Clone(wps), func(a, b models.Waypoint) bool {
		return a.Name == b.Name
	})
}

// Prepare sorts (and optionally de-duplicates) waypoints for output.
func Prepare(wps []models.Waypoint, opts Options) []models.Waypoint {
	wps = Sorted(wps)
	if opts.Dedupe {
		wps = Dedupe(wps)
	}
	return wps
}

// WriteListing writes the waypoints as a script variable assignment:
//
//	var faaWaypoints = [
//	    { "name":"ALDER", "type":"Intersection", ... },
//	    ...
//	];
//
// Waypoints are written in the order given; callers sort with Prepare.
func WriteListing(w io.Writer, wps []models.Waypoint, opts Options) error {
	varName := opts.VarName
	if varName == "" {
		varName = DefaultVarName
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "var %s = [\n", varName)
	for i, wp := range wps {
		if i > 0 {
			bw.WriteString(",\n")
		}
		fmt.Fprintf(bw, `    { "name":%s, "type":%s, "description":%s, "latitude":%s, "longitude":%s}`,
			quote(wp.Name, opts.Escape), quote(wp.FacilityType, opts.Escape),
			quote(wp.Description, opts.Escape),
			FormatFloat(wp.Latitude), FormatFloat(wp.Longitude))
	}
	bw.WriteString("\n];\n")
	return bw.Flush()
}

// WriteJSON writes the waypoints as a strict JSON array with the same keys
// as the listing.
func WriteJSON(w io.Writer, wps []models.Waypoint) error {
	if wps == nil {
		wps = []models.Waypoint{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	return enc.Encode(wps)
}

// quote wraps s in double quotes, escaping it only if asked to.
func quote(s string, escape bool) string {
	if !escape {
		return `"` + s + `"`
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		// Encoding a string can't fail.
		panic(err)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// FormatFloat renders v the way the listing has always shown coordinates:
// the shortest decimal that round-trips, always with a fractional part
// ("-122.0", "47.43763888888889"), switching to exponent form only for
// very small or very large magnitudes ("5e-05").
func FormatFloat(v float64) string {
	e := strconv.FormatFloat(v, 'e', -1, 64)
	_, expStr, ok := strings.Cut(e, "e")
	if !ok {
		return e // NaN, Inf
	}
	if exp, _ := strconv.Atoi(expStr); exp < -4 || exp >= 16 {
		return e
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
