package models

import "time"

// MealSlot identifies breakfast, lunch or dinner.
type MealSlot string

const (
	SlotBreakfast MealSlot = "breakfast"
	SlotLunch     MealSlot = "lunch"
	SlotDinner    MealSlot = "dinner"
)

// MealSlots lists the slots in serving order.
var MealSlots = []MealSlot{SlotBreakfast, SlotLunch, SlotDinner}

// Valid returns true when the slot is a supported value.
func (s MealSlot) Valid() bool {
	switch s {
	case SlotBreakfast, SlotLunch, SlotDinner:
		return true
	default:
		return false
	}
}

// Rank orders slots within a day.
func (s MealSlot) Rank() int {
	switch s {
	case SlotBreakfast:
		return 1
	case SlotLunch:
		return 2
	case SlotDinner:
		return 3
	default:
		return 4
	}
}

// Label returns the Korean slot name used in exports.
func (s MealSlot) Label() string {
	switch s {
	case SlotBreakfast:
		return "조식"
	case SlotLunch:
		return "중식"
	case SlotDinner:
		return "석식"
	default:
		return string(s)
	}
}

// MealValues is the per-slot triple shared by every reservation kind. For
// employees the values are 0/1 flags, for visitors they are head counts.
type MealValues struct {
	Breakfast int `db:"breakfast" json:"breakfast"`
	Lunch     int `db:"lunch" json:"lunch"`
	Dinner    int `db:"dinner" json:"dinner"`
}

// Get returns the value for slot.
func (v MealValues) Get(slot MealSlot) int {
	switch slot {
	case SlotBreakfast:
		return v.Breakfast
	case SlotLunch:
		return v.Lunch
	case SlotDinner:
		return v.Dinner
	default:
		return 0
	}
}

// Set assigns the value for slot.
func (v *MealValues) Set(slot MealSlot, value int) {
	switch slot {
	case SlotBreakfast:
		v.Breakfast = value
	case SlotLunch:
		v.Lunch = value
	case SlotDinner:
		v.Dinner = value
	}
}

// Total sums all three slots.
func (v MealValues) Total() int {
	return v.Breakfast + v.Lunch + v.Dinner
}

// Add returns the slot-wise sum.
func (v MealValues) Add(o MealValues) MealValues {
	return MealValues{Breakfast: v.Breakfast + o.Breakfast, Lunch: v.Lunch + o.Lunch, Dinner: v.Dinner + o.Dinner}
}

// ChangedSlots lists the slots whose values differ between v and next.
func (v MealValues) ChangedSlots(next MealValues) []MealSlot {
	var changed []MealSlot
	for _, slot := range MealSlots {
		if v.Get(slot) != next.Get(slot) {
			changed = append(changed, slot)
		}
	}
	return changed
}

// MealReservation is an employee's attendance for one date.
type MealReservation struct {
	ID     int64  `db:"id" json:"id"`
	UserID string `db:"user_id" json:"user_id"`
	Date   string `db:"date" json:"date"`
	MealValues
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// MealReservationView joins a reservation with its roster entry.
type MealReservationView struct {
	UserID string  `db:"user_id" json:"user_id"`
	Name   string  `db:"name" json:"name"`
	Dept   string  `db:"dept" json:"dept"`
	Rank   string  `db:"rank" json:"rank"`
	Date   *string `db:"date" json:"date"`
	MealValues
}

// AdminMealMode selects the admin listing flavour.
type AdminMealMode string

const (
	// AdminMealModeAll lists every Direct employee, reserved or not.
	AdminMealModeAll AdminMealMode = "all"
	// AdminMealModeApply lists only existing reservations.
	AdminMealModeApply AdminMealMode = "apply"
)
