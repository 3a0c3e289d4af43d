package aggregate

import (
	"fmt"
	"time"

	"github.com/noah-isme/meal-reservation-api/internal/models"
)

// WeekBlock is one ISO week of daily totals.
type WeekBlock struct {
	Key  string
	Days []models.DailyTotal
}

// AnnotateWeekdays fills the Day label of every total.
func AnnotateWeekdays(totals []models.DailyTotal) error {
	for i := range totals {
		day, err := WeekdayOf(totals[i].Date)
		if err != nil {
			return err
		}
		totals[i].Day = day
	}
	return nil
}

// GroupByISOWeek splits totals into ISO weeks, dropping days without any
// reservation, and returns the sum of everything kept. Input must be sorted
// by date.
func GroupByISOWeek(totals []models.DailyTotal) ([]WeekBlock, models.MealValues, error) {
	var (
		blocks []WeekBlock
		sum    models.MealValues
	)
	for _, t := range totals {
		if t.Total() == 0 {
			continue
		}
		d, err := time.Parse(dateLayout, t.Date)
		if err != nil {
			return nil, models.MealValues{}, fmt.Errorf("parse date %q: %w", t.Date, err)
		}
		year, week := d.ISOWeek()
		key := fmt.Sprintf("%d-%02d주차", year, week)
		if len(blocks) == 0 || blocks[len(blocks)-1].Key != key {
			blocks = append(blocks, WeekBlock{Key: key})
		}
		if t.Day == "" {
			t.Day = Weekday(d)
		}
		blocks[len(blocks)-1].Days = append(blocks[len(blocks)-1].Days, t)
		sum = sum.Add(t.MealValues)
	}
	return blocks, sum, nil
}

// Trend converts daily totals into chart series.
func Trend(totals []models.DailyTotal) models.WeekTrend {
	trend := models.WeekTrend{
		Labels:    make([]string, 0, len(totals)),
		Breakfast: make([]int, 0, len(totals)),
		Lunch:     make([]int, 0, len(totals)),
		Dinner:    make([]int, 0, len(totals)),
	}
	for _, t := range totals {
		trend.Labels = append(trend.Labels, t.Date)
		trend.Breakfast = append(trend.Breakfast, t.Breakfast)
		trend.Lunch = append(trend.Lunch, t.Lunch)
		trend.Dinner = append(trend.Dinner, t.Dinner)
	}
	return trend
}
