package models

import "time"

// IngestionRun is the outcome of one listing ingestion.
type IngestionRun struct {
	RequestID  string    `json:"request_id"`
	Generation uint64    `json:"generation"`
	Radius     string    `json:"radius"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Status     string    `json:"status"`   // Status is "success" or "failure".
	Listings   int       `json:"listings"` // Listings is the decoded batch size.
	Markers    int       `json:"markers"`  // Markers is the number of nodes placed.
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
