// services/extract_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/gewnthar/faawaypoints/config"
	"github.com/gewnthar/faawaypoints/database"
	"github.com/gewnthar/faawaypoints/models"
	"github.com/gewnthar/faawaypoints/nasr"
	"github.com/gewnthar/faawaypoints/output"
	"github.com/gewnthar/faawaypoints/scraper"
)

const sourceNASR = "NASR"

// ErrRunInProgress is returned when a run is requested while another one
// has not finished yet.
var ErrRunInProgress = errors.New("waypoint extraction already in progress")

// runMu serializes runs; the CLI and the refresh endpoint share it.
var runMu sync.Mutex

type RunOptions struct {
	Fetch bool // download and unpack the current NASR edition first
}

// RunResult describes a completed run.
type RunResult struct {
	Waypoints  []models.Waypoint // in output order
	Stats      []nasr.TableStats
	Source     string // input directory or archive the tables were read from
	Edition    *models.NASREdition
	FinishedAt time.Time
}

// RunWaypointExtractor performs one complete conversion: optionally fetch
// the current NASR edition, extract the airport, navaid and fix tables,
// then sort and write the configured outputs. Nothing is written unless
// every table was extracted successfully. On success the result is also
// saved to the database (when enabled) and published to Store.
func RunWaypointExtractor(ctx context.Context, cfg config.Config, opts RunOptions) (*RunResult, error) {
	if !runMu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer runMu.Unlock()

	start := time.Now()
	result := &RunResult{}

	var update *NASRUpdate
	if opts.Fetch {
		var err error
		if update, err = UpdateNASRData(ctx, cfg, start); err != nil {
			return nil, err
		}
		result.Edition = update.Edition
		// Read the edition just fetched, not a previously configured archive.
		cfg.Input.Archive = update.ArchivePath
	}

	e, source, err := ExtractWaypoints(cfg)
	if err != nil {
		return nil, err
	}
	result.Source = source
	result.Stats = e.Stats()
	result.Waypoints = output.Prepare(e.Waypoints(), outputOptions(cfg.Output))

	if err := WriteOutputs(cfg.Output, result.Waypoints); err != nil {
		return nil, err
	}

	if cfg.Database.Enabled && database.DB != nil {
		if err := saveToDatabase(result, update); err != nil {
			return nil, err
		}
	}

	result.FinishedAt = time.Now()
	Store.Set(result)

	log.Printf("Service: Wrote %d waypoints from %s in %v\n",
		len(result.Waypoints), source, result.FinishedAt.Sub(start).Round(time.Millisecond))
	return result, nil
}

// ExtractWaypoints runs the airport, navaid and fix tables over their
// inputs, in that order. The tables are read from input.archive when it is
// set and from files in input.dir otherwise. The returned source names
// where they were read from.
func ExtractWaypoints(cfg config.Config) (*nasr.Extractor, string, error) {
	e := nasr.NewExtractor(nasr.NewFilters(cfg.Filters.States, cfg.Filters.StateNames, cfg.Filters.NavaidTypes))

	if cfg.Input.Archive != "" {
		if err := extractFromArchive(e, cfg); err != nil {
			return nil, "", err
		}
		return e, cfg.Input.Archive, nil
	}

	for _, t := range nasr.Tables {
		if _, err := e.ExtractFile(cfg.InputPath(tableFile(cfg.Input, t)), t); err != nil {
			return nil, "", err
		}
	}
	return e, cfg.Input.Dir, nil
}

func extractFromArchive(e *nasr.Extractor, cfg config.Config) error {
	archive, err := scraper.OpenArchive(cfg.Input.Archive)
	if err != nil {
		return err
	}
	defer archive.Close()

	for _, t := range nasr.Tables {
		name := tableFile(cfg.Input, t)
		r, err := archive.Open(name)
		if err != nil {
			return fmt.Errorf("failed to open %s file: %w", t.Layout.Table, err)
		}
		_, err = e.Extract(r, cfg.Input.Archive+"!"+name, t)
		r.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// tableFile returns the configured file name for one of nasr.Tables.
func tableFile(in config.InputConfig, t *nasr.Table) string {
	switch t {
	case &nasr.AirportTable:
		return in.AirportFile
	case &nasr.NavaidTable:
		return in.NavaidFile
	case &nasr.FixTable:
		return in.FixFile
	}
	panic("services: no input file configured for table " + t.Layout.Table)
}

func outputOptions(out config.OutputConfig) output.Options {
	return output.Options{
		VarName: out.VarName,
		Escape:  out.Escape,
		Dedupe:  out.Dedupe,
	}
}

// WriteOutputs writes wps, already in output order, to output.path in the
// configured format and to output.csv_path when one is set. Either every
// output is replaced or none is.
func WriteOutputs(out config.OutputConfig, wps []models.Waypoint) error {
	opts := outputOptions(out)

	primary := output.File{Path: out.Path, Compress: out.Compress}
	switch out.Format {
	case config.FormatJSON:
		primary.Render = func(w io.Writer) error { return output.WriteJSON(w, wps) }
	case config.FormatListing, "":
		primary.Render = func(w io.Writer) error { return output.WriteListing(w, wps, opts) }
	default:
		return fmt.Errorf("unknown output format %q", out.Format)
	}

	files := []output.File{primary}
	if out.CSVPath != "" {
		files = append(files, output.File{
			Path:   out.CSVPath,
			Render: func(w io.Writer) error { return output.WriteCSV(w, wps) },
		})
	}
	return output.WriteFiles(files...)
}

func saveToDatabase(r *RunResult, update *NASRUpdate) error {
	sourceEdition := r.Source
	if r.Edition != nil {
		sourceEdition = sourceNASR + " " + r.Edition.EffectiveFrom.Format(time.DateOnly)
	}
	if err := database.SaveWaypoints(r.Waypoints, sourceEdition); err != nil {
		return fmt.Errorf("failed to save waypoints: %w", err)
	}

	// Edition metadata is only known when the archive was fetched here.
	if update == nil {
		return nil
	}
	processed := time.Now().UTC()
	v := models.DataSourceVersion{
		SourceName:             sourceNASR,
		SourceFileURL:          update.Edition.ArchiveURL,
		LastDownloadedFilename: update.ArchivePath,
		EffectiveFrom:          &update.Edition.EffectiveFrom,
		EffectiveUntil:         &update.Edition.EffectiveUntil,
		LastProcessedAt:        &processed,
		WaypointCount:          len(r.Waypoints),
		DataHash:               update.DataHash,
	}
	if err := database.LogDataSourceVersionUpdate(v); err != nil {
		// The waypoints are saved; a missing version row is not worth failing the run.
		log.Printf("WARN Service: %v", err)
	}
	return nil
}

// LoadStoreFromDatabase publishes the waypoints saved by an earlier run
// without extracting anything, for serving when the NASR tables are not
// at hand.
func LoadStoreFromDatabase() (*RunResult, error) {
	wps, err := database.GetWaypoints()
	if err != nil {
		return nil, fmt.Errorf("failed to load saved waypoints: %w", err)
	}
	result := &RunResult{
		// The database collation does not sort like the listing does.
		Waypoints:  output.Sorted(wps),
		Source:     "database",
		FinishedAt: time.Now(),
	}

	versions, err := database.GetDataSourceVersions()
	if err != nil {
		log.Printf("WARN Service: %v", err)
	}
	for _, v := range versions {
		if v.SourceName == sourceNASR && v.EffectiveFrom != nil && v.EffectiveUntil != nil {
			result.Edition = &models.NASREdition{
				EffectiveFrom:  *v.EffectiveFrom,
				EffectiveUntil: *v.EffectiveUntil,
				ArchiveURL:     v.SourceFileURL,
			}
		}
	}

	Store.Set(result)
	log.Printf("Service: Loaded %d saved waypoints from the database\n", len(result.Waypoints))
	return result, nil
}
