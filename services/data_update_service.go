// services/data_update_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/gewnthar/faawaypoints/config"
	"github.com/gewnthar/faawaypoints/models"
	"github.com/gewnthar/faawaypoints/scraper"
)

// NASRUpdate is the result of fetching an edition: where its archive is
// and which tables were unpacked from it.
type NASRUpdate struct {
	Edition     *models.NASREdition
	ArchivePath string
	DataHash    string // empty when an already downloaded archive was reused
	Reused      bool
}

// UpdateNASRData finds the NASR edition in effect at now, downloads its
// archive into nasr.download_dir (unless it is already there) and unpacks
// the three tables into input.dir.
func UpdateNASRData(ctx context.Context, cfg config.Config, now time.Time) (*NASRUpdate, error) {
	log.Println("Service: Checking for the current NASR edition...")

	client := &http.Client{Timeout: cfg.NASR.Timeout}
	edition, err := scraper.FindCurrentEdition(ctx, client, scraper.EditionQuery{
		PageURL:         cfg.NASR.SubscriptionPage,
		EditionSelector: cfg.NASR.EditionSelector,
		ArchiveSelector: cfg.NASR.ArchiveSelector,
		Now:             now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find current NASR edition: %w", err)
	}

	update := &NASRUpdate{
		Edition:     edition,
		ArchivePath: filepath.Join(cfg.NASR.DownloadDir, archiveFileName(edition)),
	}

	if _, err := os.Stat(update.ArchivePath); err == nil {
		log.Printf("Service: NASR archive %s already downloaded, reusing it.\n", update.ArchivePath)
		update.Reused = true
	} else if errors.Is(err, os.ErrNotExist) {
		update.DataHash, err = scraper.DownloadFile(ctx, client, edition.ArchiveURL, update.ArchivePath)
		if err != nil {
			return nil, fmt.Errorf("failed to download NASR edition %s: %w", edition.EffectiveFrom.Format(time.DateOnly), err)
		}
	} else {
		return nil, fmt.Errorf("failed to check for %s: %w", update.ArchivePath, err)
	}

	archive, err := scraper.OpenArchive(update.ArchivePath)
	if err != nil {
		return nil, err
	}
	defer archive.Close()

	if err := archive.Extract(cfg.Input.Dir, cfg.Input.AirportFile, cfg.Input.NavaidFile, cfg.Input.FixFile); err != nil {
		return nil, fmt.Errorf("failed to unpack NASR tables: %w", err)
	}

	log.Printf("Service: NASR edition effective %s until %s is ready in %s\n",
		edition.EffectiveFrom.Format(time.DateOnly), edition.EffectiveUntil.Format(time.DateOnly), cfg.Input.Dir)
	return update, nil
}

// archiveFileName names the local copy of an edition's archive, keeping the
// published file name when the URL has one.
func archiveFileName(e *models.NASREdition) string {
	if base := path.Base(e.ArchiveURL); path.Ext(base) == ".zip" {
		return base
	}
	return "NASR_" + e.EffectiveFrom.Format(time.DateOnly) + ".zip"
}
