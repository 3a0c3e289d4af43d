package dto

import "time"

// SelfCheckRequest records an attestation. ForceUpdate also resets the
// creation timestamp.
type SelfCheckRequest struct {
	UserID      string `json:"user_id" validate:"required"`
	Date        string `json:"date" validate:"required,meal_date"`
	Checked     bool   `json:"checked"`
	ForceUpdate bool   `json:"force_update"`
}

// SelfCheckResponse is the attestation state of one employee on one date.
type SelfCheckResponse struct {
	UserID    string     `json:"user_id"`
	Date      string     `json:"date"`
	Checked   bool       `json:"checked"`
	Exists    bool       `json:"exists"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
