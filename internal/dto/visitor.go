package dto

import "github.com/noah-isme/meal-reservation-api/internal/models"

// VisitorRequest creates or resubmits a reservation keyed by
// (applicant, date, type). Type defaults to VISITOR.
type VisitorRequest struct {
	ApplicantID      string `json:"applicant_id" validate:"required"`
	ApplicantName    string `json:"applicant_name" validate:"required"`
	Date             string `json:"date" validate:"required,meal_date"`
	Type             string `json:"type" validate:"omitempty,visitor_type"`
	Reason           string `json:"reason" validate:"required"`
	RequestedByAdmin bool   `json:"requested_by_admin"`
	MealFields
}

// VisitorUpdateRequest edits an existing reservation by id. Every field is
// optional; a supplied reason must not be blank.
type VisitorUpdateRequest struct {
	Reason           *string `json:"reason,omitempty"`
	RequestedByAdmin bool    `json:"requested_by_admin"`
	MealFields
}

// VisitorCheckResponse answers whether a key is already booked.
type VisitorCheckResponse struct {
	Exists bool               `json:"exists"`
	Record *models.MealValues `json:"record,omitempty"`
}
