// nasr/tables.go
package nasr

import (
	"github.com/gewnthar/faawaypoints/models"
)

// Table couples a layout with the rules that turn its records into
// waypoints.
type Table struct {
	Layout  Layout
	Include func(r Record, f *Filters) bool
	Build   func(r Record) (models.Waypoint, error)
}

// APT.txt, airport base records.
var AirportTable = Table{
	Layout: Layout{
		Table: "airport",
		Tag:   "APT",
		Fields: []Field{
			{Name: "facility_type", Start: 14, End: 27},
			{Name: "location_id", Start: 27, End: 31},
			{Name: "state", Start: 48, End: 50},
			{Name: "city", Start: 93, End: 133},
			{Name: "facility_name", Start: 133, End: 183},
			{Name: "latitude", Start: 523, End: 538},
			{Name: "longitude", Start: 550, End: 565},
			{Name: "icao_id", Start: 1210, End: 1217},
		},
	},
	Include: func(r Record, f *Filters) bool {
		return f.States[r.Raw("state")]
	},
	Build: buildAirport,
}

// NAV.txt, NAV1 base records.
var NavaidTable = Table{
	Layout: Layout{
		Table: "navaid",
		Tag:   "NAV1",
		Fields: []Field{
			{Name: "facility_id", Start: 4, End: 8},
			{Name: "type_code", Start: 8, End: 11},
			{Name: "facility_type", Start: 8, End: 28},
			{Name: "name", Start: 42, End: 72},
			{Name: "state", Start: 142, End: 144},
			{Name: "latitude", Start: 371, End: 385},
			{Name: "longitude", Start: 396, End: 410},
		},
	},
	Include: func(r Record, f *Filters) bool {
		return f.States[r.Raw("state")] && f.NavaidTypes[r.Raw("type_code")]
	},
	Build: buildNavaid,
}

// FIX.txt, FIX1 base records.
var FixTable = Table{
	Layout: Layout{
		Table: "fix",
		Tag:   "FIX1",
		Fields: []Field{
			{Name: "fix_id", Start: 4, End: 34},
			{Name: "state_name", Start: 34, End: 64},
			{Name: "latitude", Start: 66, End: 80},
			{Name: "longitude", Start: 80, End: 94},
		},
	},
	Include: func(r Record, f *Filters) bool {
		if !f.StateNames[r.Trimmed("state_name")] {
			return false
		}
		// Other FIX1 row shapes share the tag; real fix identifiers start
		// with an upper-case letter.
		c := r.Byte(4)
		return c >= 'A' && c <= 'Z'
	},
	Build: buildFix,
}

// Tables lists the tables in extraction order.
var Tables = []*Table{&AirportTable, &NavaidTable, &FixTable}

func latLong(r Record) (float64, float64, error) {
	return ParseLatLongDMS(r.Raw("latitude") + r.Raw("longitude"))
}

func buildAirport(r Record) (models.Waypoint, error) {
	lat, long, err := latLong(r)
	if err != nil {
		return models.Waypoint{}, err
	}

	facilityType := r.Title("facility_type")

	name := r.Trimmed("icao_id")
	if name == "" {
		name = r.Trimmed("location_id")
	}

	return models.Waypoint{
		Name:         name,
		FacilityType: facilityType,
		Description: r.Title("facility_name") + " " + facilityType + ", " +
			r.Title("city") + ", " + r.Raw("state"),
		Latitude:  lat,
		Longitude: long,
	}, nil
}

func buildNavaid(r Record) (models.Waypoint, error) {
	lat, long, err := latLong(r)
	if err != nil {
		return models.Waypoint{}, err
	}

	facilityType := r.Trimmed("facility_type")
	return models.Waypoint{
		Name:         r.Trimmed("facility_id"),
		FacilityType: facilityType,
		Description:  r.Title("name") + " " + facilityType,
		Latitude:     lat,
		Longitude:    long,
	}, nil
}

func buildFix(r Record) (models.Waypoint, error) {
	lat, long, err := latLong(r)
	if err != nil {
		return models.Waypoint{}, err
	}

	name := r.Trimmed("fix_id")
	return models.Waypoint{
		Name:         name,
		FacilityType: models.FacilityTypeIntersection,
		Description:  name + " " + models.FacilityTypeIntersection,
		Latitude:     lat,
		Longitude:    long,
	}, nil
}
