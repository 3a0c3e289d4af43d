package models

// DailyTotal sums every reservation source for one date.
type DailyTotal struct {
	Date string `db:"date" json:"date"`
	Day  string `db:"-" json:"day"`
	MealValues
}

// EmployeeMealRecord is a reservation joined with the reserving employee.
type EmployeeMealRecord struct {
	UserID string      `db:"user_id"`
	Name   string      `db:"name"`
	Dept   string      `db:"dept"`
	Type   Affiliation `db:"type"`
	Region string      `db:"region"`
	Date   string      `db:"date"`
	MealValues
}

// VisitorMealRecord is a visitor reservation joined with its applicant.
// Name and Dept come from the roster and are empty when InRoster is false;
// ApplicantName is the value captured when the reservation was written.
type VisitorMealRecord struct {
	ApplicantID   string      `db:"applicant_id"`
	ApplicantName string      `db:"applicant_name"`
	Name          string      `db:"name"`
	Dept          string      `db:"dept"`
	InRoster      bool        `db:"in_roster"`
	Type          Affiliation `db:"type"`
	Date          string      `db:"date"`
	MealValues
}

// DisplayName prefers the roster name.
func (r VisitorMealRecord) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ApplicantName
}

// WeekTrend is the chart-friendly shape of daily totals.
type WeekTrend struct {
	Labels    []string `json:"labels"`
	Breakfast []int    `json:"breakfast"`
	Lunch     []int    `json:"lunch"`
	Dinner    []int    `json:"dinner"`
}
