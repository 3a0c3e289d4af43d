package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// MealChangeLog records one slot transition of an employee reservation.
type MealChangeLog struct {
	ID           int64     `db:"id" json:"id"`
	EmpID        string    `db:"emp_id" json:"emp_id"`
	Date         string    `db:"date" json:"date"`
	MealType     MealSlot  `db:"meal_type" json:"meal_type"`
	BeforeStatus int       `db:"before_status" json:"before_status"`
	AfterStatus  int       `db:"after_status" json:"after_status"`
	ChangedAt    time.Time `db:"changed_at" json:"changed_at"`
}

// MealChangeLogView adds roster columns for reporting.
type MealChangeLogView struct {
	MealChangeLog
	Name string `db:"name" json:"name"`
	Dept string `db:"dept" json:"dept"`
}

// LogFilter narrows audit log listings. Name and Dept are substring matches.
type LogFilter struct {
	Start string
	End   string
	Name  string
	Dept  string
	Type  Affiliation
}

const deletedMarker = "deleted"

// LogValue is an "after" quantity of a visitor log entry. A deleted
// reservation is recorded with Deleted set, which is distinct from zero.
type LogValue struct {
	Qty     int
	Deleted bool
}

// Qty builds a numeric log value.
func Qty(n int) LogValue { return LogValue{Qty: n} }

// DeletedValue is the terminal marker written when a reservation is removed.
var DeletedValue = LogValue{Deleted: true}

// String renders the value for exports.
func (v LogValue) String() string {
	if v.Deleted {
		return "삭제"
	}
	return strconv.Itoa(v.Qty)
}

// Value implements driver.Valuer; values are stored as text.
func (v LogValue) Value() (driver.Value, error) {
	if v.Deleted {
		return deletedMarker, nil
	}
	return strconv.Itoa(v.Qty), nil
}

// Scan implements sql.Scanner.
func (v *LogValue) Scan(src interface{}) error {
	switch s := src.(type) {
	case nil:
		*v = LogValue{}
		return nil
	case int64:
		*v = LogValue{Qty: int(s)}
		return nil
	case []byte:
		return v.parse(string(s))
	case string:
		return v.parse(s)
	default:
		return fmt.Errorf("unsupported log value type %T", src)
	}
}

func (v *LogValue) parse(raw string) error {
	// the legacy store wrote the Korean marker
	if raw == deletedMarker || raw == "삭제" {
		*v = DeletedValue
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("parse log value %q: %w", raw, err)
	}
	*v = LogValue{Qty: n}
	return nil
}

// MarshalJSON renders deleted values as the string "deleted".
func (v LogValue) MarshalJSON() ([]byte, error) {
	if v.Deleted {
		return json.Marshal(deletedMarker)
	}
	return json.Marshal(v.Qty)
}

// UnmarshalJSON accepts a number or the deleted marker.
func (v *LogValue) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*v = LogValue{Qty: n}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return v.parse(s)
}

// VisitorChangeLog snapshots a visitor reservation before and after a change.
type VisitorChangeLog struct {
	ID              int64       `db:"id" json:"id"`
	ApplicantID     string      `db:"applicant_id" json:"applicant_id"`
	ApplicantName   string      `db:"applicant_name" json:"applicant_name"`
	Date            string      `db:"date" json:"date"`
	Reason          string      `db:"reason" json:"reason"`
	Type            Affiliation `db:"type" json:"type"`
	BeforeBreakfast int         `db:"before_breakfast" json:"before_breakfast"`
	BeforeLunch     int         `db:"before_lunch" json:"before_lunch"`
	BeforeDinner    int         `db:"before_dinner" json:"before_dinner"`
	Breakfast       LogValue    `db:"breakfast" json:"breakfast"`
	Lunch           LogValue    `db:"lunch" json:"lunch"`
	Dinner          LogValue    `db:"dinner" json:"dinner"`
	UpdatedAt       time.Time   `db:"updated_at" json:"updated_at"`
}

// Before returns the pre-change triple.
func (l VisitorChangeLog) Before() MealValues {
	return MealValues{Breakfast: l.BeforeBreakfast, Lunch: l.BeforeLunch, Dinner: l.BeforeDinner}
}

// IsDeletion reports whether the entry records a removal.
func (l VisitorChangeLog) IsDeletion() bool {
	return l.Breakfast.Deleted && l.Lunch.Deleted && l.Dinner.Deleted
}

// VisitorChangeLogView adds the applicant's department.
type VisitorChangeLogView struct {
	VisitorChangeLog
	Dept string `db:"dept" json:"dept"`
}
