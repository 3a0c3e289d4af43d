package aggregate

import (
	"fmt"
	"sort"

	"github.com/noah-isme/meal-reservation-api/internal/models"
)

// BucketKey identifies one line of the weekly roster.
type BucketKey struct {
	Label string
	Type  models.Affiliation
}

// DayRoster lists who eats which meal on one date. Count carries the
// headcount per slot: one per employee, the booked quantity per visitor entry.
type DayRoster struct {
	Breakfast []string          `json:"b"`
	Lunch     []string          `json:"l"`
	Dinner    []string          `json:"d"`
	Count     models.MealValues `json:"count"`
}

func (d *DayRoster) add(slot models.MealSlot, entry string, qty int) {
	switch slot {
	case models.SlotBreakfast:
		d.Breakfast = append(d.Breakfast, entry)
	case models.SlotLunch:
		d.Lunch = append(d.Lunch, entry)
	case models.SlotDinner:
		d.Dinner = append(d.Dinner, entry)
	}
	d.Count.Set(slot, d.Count.Get(slot)+qty)
}

// Bucket is one department line of the weekly roster view.
type Bucket struct {
	Type        models.Affiliation    `json:"type"`
	Dept        string                `json:"dept"`
	DisplayDept string                `json:"display_dept"`
	Traveling   bool                  `json:"traveling"`
	Total       int                   `json:"total"`
	Days        map[string]*DayRoster `json:"days"`
}

// Key returns the bucket identity.
func (b Bucket) Key() BucketKey {
	return BucketKey{Label: b.Dept, Type: b.Type}
}

// HasEvents reports whether anyone in the bucket booked a meal.
func (b Bucket) HasEvents() bool {
	for _, d := range b.Days {
		if d.Count.Total() > 0 {
			return true
		}
	}
	return false
}

// Totals sums the headcounts over all days.
func (b Bucket) Totals() models.MealValues {
	var v models.MealValues
	for _, d := range b.Days {
		v = v.Add(d.Count)
	}
	return v
}

// RosterInput is the raw material of the weekly roster view.
type RosterInput struct {
	Members       []models.Employee
	Meals         []models.EmployeeMealRecord
	Visitors      []models.VisitorMealRecord
	PrimaryRegion string
}

// rosterIndex is the collection phase: every bucket the roster defines and
// every bucket an event was observed in.
type rosterIndex struct {
	headcount map[BucketKey]int
	eager     map[BucketKey]bool
	traveling map[BucketKey]bool
	buckets   map[BucketKey]*Bucket
}

// WeeklyRoster builds the per-department named lists. Buckets of on-site
// roster members are always present. Traveling Direct staff and visitor
// bookings get their own buckets, which only appear when they hold at least
// one reservation in range.
func WeeklyRoster(in RosterInput) []Bucket {
	idx := collectRoster(in)
	return idx.selectBuckets()
}

func memberKey(e models.Employee, primaryRegion string) (BucketKey, bool) {
	if e.IsTraveling(primaryRegion) {
		return BucketKey{Label: TravelLabel(e.Dept), Type: models.AffiliationDirect}, true
	}
	return BucketKey{Label: DeptLabel(e.Dept, e.Type), Type: e.Type}, false
}

func collectRoster(in RosterInput) *rosterIndex {
	idx := &rosterIndex{
		headcount: make(map[BucketKey]int),
		eager:     make(map[BucketKey]bool),
		traveling: make(map[BucketKey]bool),
		buckets:   make(map[BucketKey]*Bucket),
	}
	for _, m := range in.Members {
		key, traveling := memberKey(m, in.PrimaryRegion)
		idx.headcount[key]++
		if traveling {
			idx.traveling[key] = true
		} else {
			idx.eager[key] = true
		}
	}

	meals := append([]models.EmployeeMealRecord(nil), in.Meals...)
	sort.SliceStable(meals, func(i, j int) bool {
		if meals[i].Date != meals[j].Date {
			return meals[i].Date < meals[j].Date
		}
		return meals[i].Name < meals[j].Name
	})
	for _, r := range meals {
		key, traveling := memberKey(models.Employee{Dept: r.Dept, Type: r.Type, Region: r.Region}, in.PrimaryRegion)
		if traveling {
			idx.traveling[key] = true
		}
		for _, slot := range models.MealSlots {
			if r.Get(slot) > 0 {
				idx.day(key, r.Date).add(slot, r.Name, 1)
			}
		}
	}

	visitors := append([]models.VisitorMealRecord(nil), in.Visitors...)
	sort.SliceStable(visitors, func(i, j int) bool {
		if visitors[i].Date != visitors[j].Date {
			return visitors[i].Date < visitors[j].Date
		}
		return visitors[i].DisplayName() < visitors[j].DisplayName()
	})
	for _, r := range visitors {
		if !r.InRoster || !models.ValidVisitorType(r.Type) {
			continue
		}
		key := BucketKey{Label: DeptLabel(r.Dept, r.Type), Type: r.Type}
		for _, slot := range models.MealSlots {
			if qty := r.Get(slot); qty > 0 {
				idx.day(key, r.Date).add(slot, fmt.Sprintf("%s(%d)", r.DisplayName(), qty), qty)
			}
		}
	}
	return idx
}

func (idx *rosterIndex) bucket(key BucketKey) *Bucket {
	b, ok := idx.buckets[key]
	if !ok {
		b = &Bucket{
			Type:        key.Type,
			Dept:        key.Label,
			DisplayDept: key.Label,
			Traveling:   idx.traveling[key],
			Total:       idx.headcount[key],
			Days:        make(map[string]*DayRoster),
		}
		idx.buckets[key] = b
	}
	return b
}

func (idx *rosterIndex) day(key BucketKey, date string) *DayRoster {
	b := idx.bucket(key)
	d, ok := b.Days[date]
	if !ok {
		d = &DayRoster{}
		b.Days[date] = d
	}
	return d
}

// selectBuckets is the materialisation phase: eager buckets always, lazy
// buckets only with events. Output is ordered by tier, then label.
func (idx *rosterIndex) selectBuckets() []Bucket {
	for key := range idx.eager {
		idx.bucket(key)
	}
	out := make([]Bucket, 0, len(idx.buckets))
	for key, b := range idx.buckets {
		if !idx.eager[key] && !b.HasEvents() {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].Type.Tier(), out[j].Type.Tier()
		if ti != tj {
			return ti < tj
		}
		if out[i].Traveling != out[j].Traveling {
			return !out[i].Traveling
		}
		return out[i].Dept < out[j].Dept
	})
	return out
}
