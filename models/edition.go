// models/edition.go
package models

import "time"

// NASREdition describes one 56-day NASR subscription as listed on the FAA
// subscription page.
type NASREdition struct {
	EffectiveFrom  time.Time `json:"effective_from"`
	EffectiveUntil time.Time `json:"effective_until"` // EffectiveFrom + 56 days
	ArchiveURL     string    `json:"archive_url"`     // zip with the fixed-width text tables
	PageURL        string    `json:"page_url"`
	LastChecked    time.Time `json:"last_checked"`
}

// NASRCycleDays is the length of a NASR publication cycle.
const NASRCycleDays = 56
