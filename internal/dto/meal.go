package dto

import "github.com/noah-isme/meal-reservation-api/internal/models"

// MealFields carries optional per-slot values. A nil field was absent from
// the payload, which is distinct from an explicit zero.
type MealFields struct {
	Breakfast *int `json:"breakfast,omitempty" validate:"omitempty,min=0"`
	Lunch     *int `json:"lunch,omitempty" validate:"omitempty,min=0"`
	Dinner    *int `json:"dinner,omitempty" validate:"omitempty,min=0"`
}

// Get returns the supplied value for slot, nil when absent.
func (f MealFields) Get(slot models.MealSlot) *int {
	switch slot {
	case models.SlotBreakfast:
		return f.Breakfast
	case models.SlotLunch:
		return f.Lunch
	case models.SlotDinner:
		return f.Dinner
	default:
		return nil
	}
}

// Present reports whether any slot was supplied.
func (f MealFields) Present() bool {
	return f.Breakfast != nil || f.Lunch != nil || f.Dinner != nil
}

// Merge overlays supplied values on base.
func (f MealFields) Merge(base models.MealValues) models.MealValues {
	out := base
	for _, slot := range models.MealSlots {
		if v := f.Get(slot); v != nil {
			out.Set(slot, *v)
		}
	}
	return out
}

// Values treats absent slots as zero.
func (f MealFields) Values() models.MealValues {
	return f.Merge(models.MealValues{})
}

// MealEntry is one employee/date triple of a batch submission.
type MealEntry struct {
	UserID    string `json:"user_id" validate:"required"`
	Date      string `json:"date" validate:"required,meal_date"`
	Breakfast *int   `json:"breakfast,omitempty" validate:"omitempty,min=0,max=1"`
	Lunch     *int   `json:"lunch,omitempty" validate:"omitempty,min=0,max=1"`
	Dinner    *int   `json:"dinner,omitempty" validate:"omitempty,min=0,max=1"`
}

// Values returns the full triple, absent slots as zero.
func (e MealEntry) Values() models.MealValues {
	return MealFields{Breakfast: e.Breakfast, Lunch: e.Lunch, Dinner: e.Dinner}.Values()
}

// MealBatchRequest is the body of the meal submission endpoints.
type MealBatchRequest struct {
	Meals []MealEntry `json:"meals" validate:"required,min=1,dive"`
}

// MealBatchFailure names an item that could not be stored.
type MealBatchFailure struct {
	UserID string `json:"user_id"`
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// MealBatchResult summarises a best-effort batch.
type MealBatchResult struct {
	Message   string             `json:"message"`
	Processed int                `json:"processed"`
	Saved     int                `json:"saved"`
	Logged    int                `json:"logged"`
	Failed    []MealBatchFailure `json:"failed"`
}

// MealDay is one date of an employee's own calendar.
type MealDay struct {
	Breakfast bool   `json:"breakfast"`
	Lunch     bool   `json:"lunch"`
	Dinner    bool   `json:"dinner"`
	Name      string `json:"name"`
	Dept      string `json:"dept"`
	Rank      string `json:"rank"`
}

// DateRangeQuery is the common start/end filter.
type DateRangeQuery struct {
	Start string `form:"start" validate:"required,meal_date"`
	End   string `form:"end" validate:"required,meal_date"`
}
