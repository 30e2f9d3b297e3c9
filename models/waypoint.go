// models/waypoint.go
package models

// Waypoint is a named point extracted from one of the NASR tables (an
// airport, a VOR, or an enroute fix). It is created once during extraction
// and not modified afterwards.
type Waypoint struct {
	Name         string  `csv:"name" json:"name" db:"name"`
	FacilityType string  `csv:"type" json:"type" db:"facility_type"`
	Description  string  `csv:"description" json:"description" db:"description"`
	Latitude     float64 `csv:"latitude" json:"latitude" db:"latitude"`
	Longitude    float64 `csv:"longitude" json:"longitude" db:"longitude"`
}

// Facility types synthesized by the extractor (airports and navaids carry
// theirs in the source record).
const (
	FacilityTypeIntersection = "Intersection"
)
