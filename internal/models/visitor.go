package models

import "time"

// VisitorReservation books meals on behalf of guests or contractor staff.
type VisitorReservation struct {
	ID            int64       `db:"id" json:"id"`
	ApplicantID   string      `db:"applicant_id" json:"applicant_id"`
	ApplicantName string      `db:"applicant_name" json:"applicant_name"`
	Date          string      `db:"date" json:"date"`
	Type          Affiliation `db:"type" json:"type"`
	MealValues
	Reason       string    `db:"reason" json:"reason"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	LastModified time.Time `db:"last_modified" json:"last_modified"`
}

// ValidVisitorType reports whether t may key a visitor reservation.
func ValidVisitorType(t Affiliation) bool {
	return t == AffiliationVisitor || t == AffiliationContractor
}

// VisitorFilter narrows visitor listings.
type VisitorFilter struct {
	ApplicantID string
	Start       string
	End         string
}
