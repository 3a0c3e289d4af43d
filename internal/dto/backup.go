package dto

import "time"

// BackupResult reports a finished database snapshot.
type BackupResult struct {
	File      string    `json:"file"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
	Pruned    []string  `json:"pruned"`
}
