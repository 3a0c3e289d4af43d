package dto

import "github.com/noah-isme/meal-reservation-api/internal/models"

// EmployeeRequest creates a roster entry. Type defaults to DIRECT and
// Region to the primary site.
type EmployeeRequest struct {
	ID     string `json:"id" validate:"required"`
	Name   string `json:"name" validate:"required"`
	Dept   string `json:"dept" validate:"required"`
	Type   string `json:"type" validate:"omitempty,affiliation"`
	Region string `json:"region"`
	Rank   string `json:"rank"`
	Level  int    `json:"level" validate:"omitempty,min=1,max=3"`
}

// EmployeeUpdateRequest replaces the mutable fields of a roster entry.
type EmployeeUpdateRequest struct {
	Name   string `json:"name" validate:"required"`
	Dept   string `json:"dept" validate:"required"`
	Type   string `json:"type" validate:"omitempty,affiliation"`
	Region string `json:"region"`
	Rank   string `json:"rank"`
	Level  int    `json:"level" validate:"omitempty,min=1,max=3"`
}

// UploadFailure names a rejected sheet row (1-based, header excluded).
type UploadFailure struct {
	Row    int    `json:"row"`
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// EmployeeUploadResult reports a roster sheet import.
type EmployeeUploadResult struct {
	Processed int               `json:"processed"`
	Saved     int               `json:"saved"`
	Failed    []UploadFailure   `json:"failed"`
	Employees []models.Employee `json:"employees"`
}

// LoginCheckResponse echoes the matched profile.
type LoginCheckResponse struct {
	Valid bool   `json:"valid"`
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Dept  string `json:"dept,omitempty"`
	Rank  string `json:"rank,omitempty"`
	Type  string `json:"type,omitempty"`
	Level int    `json:"level,omitempty"`
}
