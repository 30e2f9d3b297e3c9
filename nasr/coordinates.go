// nasr/coordinates.go
package nasr

import (
	"regexp"
	"strconv"
)

// Latitude then longitude, each D-MM-SS.sss plus a hemisphere letter. The
// NASR tables pad the fields with spaces, so leading whitespace is allowed
// before either one. Anything after the longitude hemisphere is ignored.
var latLongRE = regexp.MustCompile(`^\s*(\d+)-(\d{2})-(\d{2}\.\d{3,8})([NS])\s*(\d+)-(\d{2})-(\d{2}\.\d{3,8})([EW])`)

// ParseLatLongDMS decodes the concatenated latitude and longitude text of a
// NASR record into signed decimal degrees. South latitudes and west
// longitudes are negative.
func ParseLatLongDMS(s string) (latitude, longitude float64, err error) {
	m := latLongRE.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, &ParseError{Input: s}
	}

	if latitude, err = dmsToDegrees(m[1], m[2], m[3]); err != nil {
		return 0, 0, &ParseError{Input: s}
	}
	if m[4] == "S" {
		latitude = -latitude
	}

	if longitude, err = dmsToDegrees(m[5], m[6], m[7]); err != nil {
		return 0, 0, &ParseError{Input: s}
	}
	if m[8] == "W" {
		longitude = -longitude
	}

	return latitude, longitude, nil
}

func dmsToDegrees(d, m, s string) (float64, error) {
	deg, err := strconv.ParseFloat(d, 64)
	if err != nil {
		return 0, err
	}
	min, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, err
	}
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return deg + (min*60+sec)/3600, nil
}
