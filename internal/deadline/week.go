package deadline

import "time"

// Week is the Monday..Friday window containing a reference instant.
type Week struct {
	Monday time.Time
	Friday time.Time
}

// CurrentWeek returns the working week containing now in the policy location.
// On weekends this is the week that just ended.
func (p *Policy) CurrentWeek(now time.Time) Week {
	local := now.In(p.loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, p.loc)
	offset := (int(today.Weekday()) + 6) % 7
	monday := today.AddDate(0, 0, -offset)
	return Week{Monday: monday, Friday: monday.AddDate(0, 0, 4)}
}

// Contains reports whether day (midnight in the same location) is inside the week.
func (w Week) Contains(day time.Time) bool {
	return !day.Before(w.Monday) && !day.After(w.Friday)
}

// InCurrentWeek reports whether date falls in the working week containing now.
func (p *Policy) InCurrentWeek(date string, now time.Time) (bool, error) {
	day, err := p.ParseDate(date)
	if err != nil {
		return false, err
	}
	return p.CurrentWeek(now).Contains(day), nil
}
