package models

import "time"

// SelfCheck is an employee's attestation for one date.
type SelfCheck struct {
	ID        int64     `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Date      string    `db:"date" json:"date"`
	Checked   bool      `db:"checked" json:"checked"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SelfCheckSummary is one roster row of the admin rollup.
type SelfCheckSummary struct {
	UserID  string      `db:"user_id" json:"user_id"`
	Name    string      `db:"name" json:"name"`
	Dept    string      `db:"dept" json:"dept"`
	Type    Affiliation `db:"type" json:"type"`
	Checked int         `db:"checked" json:"checked"`
}
