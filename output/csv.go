// output/csv.go
package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/gewnthar/faawaypoints/models"
	"github.com/jszwec/csvutil"
)

// WriteCSV writes the waypoints with a header row taken from the csv tags
// on models.Waypoint.
func WriteCSV(w io.Writer, wps []models.Waypoint) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)

	if len(wps) == 0 {
		// Encode writes the header lazily with the first record.
		if err := enc.EncodeHeader(models.Waypoint{}); err != nil {
			return fmt.Errorf("failed to encode CSV header: %w", err)
		}
	} else if err := enc.Encode(wps); err != nil {
		return fmt.Errorf("failed to encode waypoints as CSV: %w", err)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}
