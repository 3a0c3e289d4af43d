package models

import "time"

// Holiday blocks visitor reservations on its date.
type Holiday struct {
	ID          int64  `db:"id" json:"id"`
	Date        string `db:"date" json:"date"`
	Description string `db:"description" json:"description"`
}

// HolidaySync records the last bulk import for a calendar year.
type HolidaySync struct {
	Year     int       `db:"year" json:"year"`
	Source   string    `db:"source" json:"source"`
	Imported int       `db:"imported" json:"imported"`
	SyncedAt time.Time `db:"synced_at" json:"synced_at"`
}
