// models/api_models.go
package models

import "time"

// RefreshResponse is the JSON body returned by POST /api/admin/refresh.
type RefreshResponse struct {
	Message    string       `json:"message"`
	Count      int          `json:"count"`
	Source     string       `json:"source"`
	Edition    *NASREdition `json:"edition,omitempty"` // set when the run fetched an edition
	FinishedAt time.Time    `json:"finished_at"`
}

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error string `json:"error"`
}
