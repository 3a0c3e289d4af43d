// Package deadline decides whether a meal slot may still be edited.
//
// Every slot has a self-service cut-off and a later administrative one. The
// breakfast cut-offs fall on the evening before the meal, lunch and dinner
// cut-offs on the meal date itself. All instants are evaluated in a single
// organisational timezone so that results do not depend on where the server
// runs.
package deadline

import (
	"fmt"
	"time"

	"github.com/noah-isme/meal-reservation-api/internal/models"
	"github.com/noah-isme/meal-reservation-api/pkg/config"
	appErrors "github.com/noah-isme/meal-reservation-api/pkg/errors"
)

// DateLayout is the wire format of reservation dates.
const DateLayout = "2006-01-02"

// Rule is the cut-off of one slot, relative to midnight of the meal date.
type Rule struct {
	DayOffset int
	SelfHour  int
	AdminHour int
}

// DefaultRules mirrors the kitchen's standing schedule.
func DefaultRules() map[models.MealSlot]Rule {
	return map[models.MealSlot]Rule{
		models.SlotBreakfast: {DayOffset: -1, SelfHour: 15, AdminHour: 20},
		models.SlotLunch:     {SelfHour: 10, AdminHour: 12},
		models.SlotDinner:    {SelfHour: 15, AdminHour: 17},
	}
}

// Policy evaluates deadlines in a fixed location.
type Policy struct {
	loc   *time.Location
	rules map[models.MealSlot]Rule
}

// NewPolicy validates rules and builds a policy.
func NewPolicy(loc *time.Location, rules map[models.MealSlot]Rule) (*Policy, error) {
	if loc == nil {
		return nil, fmt.Errorf("deadline policy requires a location")
	}
	for _, slot := range models.MealSlots {
		rule, ok := rules[slot]
		if !ok {
			return nil, fmt.Errorf("missing deadline rule for %s", slot)
		}
		if rule.AdminHour < rule.SelfHour {
			return nil, fmt.Errorf("%s admin deadline precedes self-service deadline", slot)
		}
	}
	copied := make(map[models.MealSlot]Rule, len(rules))
	for k, v := range rules {
		copied[k] = v
	}
	return &Policy{loc: loc, rules: copied}, nil
}

// FromConfig builds the policy from application configuration.
func FromConfig(org config.OrgConfig, cfg config.DeadlineConfig) (*Policy, error) {
	return NewPolicy(org.Location(), map[models.MealSlot]Rule{
		models.SlotBreakfast: Rule(cfg.Breakfast),
		models.SlotLunch:     Rule(cfg.Lunch),
		models.SlotDinner:    Rule(cfg.Dinner),
	})
}

// Location returns the organisational timezone.
func (p *Policy) Location() *time.Location {
	return p.loc
}

// ParseDate parses a reservation date in the policy location. Malformed
// input yields a validation error.
func (p *Policy) ParseDate(raw string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, raw, p.loc)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", raw))
	}
	return d, nil
}

// Deadline returns the last instant at which slot on date may be edited.
func (p *Policy) Deadline(slot models.MealSlot, date string, isAdmin bool) (time.Time, error) {
	rule, ok := p.rules[slot]
	if !ok {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown meal slot %q", slot))
	}
	day, err := p.ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	hour := rule.SelfHour
	if isAdmin {
		hour = rule.AdminHour
	}
	anchor := day.AddDate(0, 0, rule.DayOffset)
	return time.Date(anchor.Year(), anchor.Month(), anchor.Day(), hour, 0, 0, 0, p.loc), nil
}

// IsLocked reports whether asOf is strictly after the slot's deadline for
// the given role. The deadline instant itself is still editable.
func (p *Policy) IsLocked(slot models.MealSlot, date string, asOf time.Time, isAdmin bool) (bool, error) {
	deadline, err := p.Deadline(slot, date, isAdmin)
	if err != nil {
		return false, err
	}
	return asOf.After(deadline), nil
}

// LockedSlots evaluates every slot at once.
func (p *Policy) LockedSlots(date string, asOf time.Time, isAdmin bool) (map[models.MealSlot]bool, error) {
	locked := make(map[models.MealSlot]bool, len(models.MealSlots))
	for _, slot := range models.MealSlots {
		l, err := p.IsLocked(slot, date, asOf, isAdmin)
		if err != nil {
			return nil, err
		}
		locked[slot] = l
	}
	return locked, nil
}
