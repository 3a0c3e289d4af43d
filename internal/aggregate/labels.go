// Package aggregate derives read-only report structures from reservation
// rows and the roster. Nothing here performs I/O.
package aggregate

import (
	"fmt"
	"time"

	"github.com/noah-isme/meal-reservation-api/internal/models"
)

const (
	dateLayout = "2006-01-02"

	visitorSuffix = "(방문자)"
	travelSuffix  = "(출장)"
)

var weekdays = []string{"일", "월", "화", "수", "목", "금", "토"}

// DeptLabel returns the report label of a department for an affiliation.
// Visitor bookings are grouped under the first two characters of the
// applicant's department; every other affiliation keeps the name.
func DeptLabel(dept string, t models.Affiliation) string {
	if t == models.AffiliationVisitor {
		return truncate(dept, 2) + visitorSuffix
	}
	return dept
}

// TravelLabel returns the synthetic department of Direct staff posted away
// from the primary site.
func TravelLabel(dept string) string {
	return truncate(dept, 4) + travelSuffix
}

// Weekday returns the single-character Korean weekday of t.
func Weekday(t time.Time) string {
	return weekdays[t.Weekday()]
}

// WeekdayOf parses a YYYY-MM-DD date and returns its weekday label.
func WeekdayOf(date string) (string, error) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", date, err)
	}
	return Weekday(t), nil
}

// DateRange lists every date from start to end inclusive.
func DateRange(start, end string) ([]string, error) {
	from, err := time.Parse(dateLayout, start)
	if err != nil {
		return nil, fmt.Errorf("parse start %q: %w", start, err)
	}
	to, err := time.Parse(dateLayout, end)
	if err != nil {
		return nil, fmt.Errorf("parse end %q: %w", end, err)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("end %s precedes start %s", end, start)
	}
	var dates []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(dateLayout))
	}
	return dates, nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
