// nasr/extractor.go
package nasr

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/gewnthar/faawaypoints/models"
)

// NASR lines top out around 1.5KB; leave plenty of room.
const maxLineLength = 1 << 20

// TableStats counts what happened to the lines of one input.
type TableStats struct {
	Table     string `json:"table"`
	Lines     int    `json:"lines"`     // all lines read
	Tagged    int    `json:"tagged"`    // lines carrying the table's record type
	Excluded  int    `json:"excluded"`  // tagged lines rejected by the filters
	Extracted int    `json:"extracted"` // waypoints produced
}

// Extractor runs tables over their inputs and accumulates the resulting
// waypoints in extraction order.
type Extractor struct {
	Filters *Filters

	waypoints []models.Waypoint
	stats     []TableStats
}

func NewExtractor(f *Filters) *Extractor {
	if f == nil {
		f = DefaultFilters()
	}
	return &Extractor{Filters: f}
}

// Waypoints returns the waypoints extracted so far, in extraction order.
func (e *Extractor) Waypoints() []models.Waypoint {
	return append([]models.Waypoint(nil), e.waypoints...)
}

// Stats returns one entry per input processed.
func (e *Extractor) Stats() []TableStats {
	return append([]TableStats(nil), e.stats...)
}

// ExtractFile opens path, runs t over it and closes it again.
func (e *Extractor) ExtractFile(path string, t *Table) (TableStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return TableStats{}, fmt.Errorf("failed to open %s file: %w", t.Layout.Table, err)
	}
	defer f.Close()

	return e.Extract(f, path, t)
}

// Extract reads r line by line. Lines without t's record type are skipped;
// tagged lines that pass the filters become waypoints. The first malformed
// record stops extraction with a *RecordError and nothing from r is kept.
func (e *Extractor) Extract(r io.Reader, source string, t *Table) (TableStats, error) {
	stats := TableStats{Table: t.Layout.Table}
	minLen := t.Layout.Len()

	var found []models.Waypoint
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	for scanner.Scan() {
		stats.Lines++
		line := scanner.Text()

		if !t.Layout.Tagged(line) {
			continue
		}
		stats.Tagged++

		if len(line) < minLen {
			return stats, &RecordError{
				Source: source,
				Line:   stats.Lines,
				Table:  t.Layout.Table,
				Err:    fmt.Errorf("%w: %d bytes, need %d", ErrShortRecord, len(line), minLen),
			}
		}

		rec := Record{Layout: &t.Layout, Text: line, Line: stats.Lines}
		if !t.Include(rec, e.Filters) {
			stats.Excluded++
			continue
		}

		wp, err := t.Build(rec)
		if err != nil {
			return stats, &RecordError{Source: source, Line: rec.Line, Table: t.Layout.Table, Err: err}
		}
		found = append(found, wp)
		stats.Extracted++
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("failed reading %s: %w", source, err)
	}

	e.waypoints = append(e.waypoints, found...)
	e.stats = append(e.stats, stats)

	log.Printf("Extractor: %s: %d lines, %d %s records, %d filtered out, %d waypoints\n",
		source, stats.Lines, stats.Tagged, t.Layout.Tag, stats.Excluded, stats.Extracted)
	return stats, nil
}
