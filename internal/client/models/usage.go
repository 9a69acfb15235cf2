package models

import (
	"fmt"
	"math"
	"time"
)

// Counts is an ordered counter map.
type Counts = OrderedMap[int]

// Usage holds the aggregated interaction counters.
type Usage struct {
	Daily      Counts `json:"daily"`
	Weekly     Counts `json:"weekly"`
	Categories Counts `json:"categories"`
}

func NewUsage() Usage {
	return Usage{
		Daily:      NewOrderedMap[int](),
		Weekly:     NewOrderedMap[int](),
		Categories: NewOrderedMap[int](),
	}
}

// Record adds one interaction to each of the three counters.
func (u *Usage) Record(dayKey, weekKey, category string) {
	increment(&u.Daily, dayKey)
	increment(&u.Weekly, weekKey)
	increment(&u.Categories, category)
}

func increment(c *Counts, key string) {
	n, _ := c.Get(key)
	c.Set(key, n+1)
}

// DayKey formats t the way day counters are keyed, e.g. "Mon Jan 02 2006".
func DayKey(t time.Time) string {
	return t.Format("Mon Jan 02 2006")
}

// WeekKey returns "{year}-W{n}" with n = ceil((day-weekday+1)/7) and Sunday
// as weekday 0. This is a month-relative week, not an ISO 8601 week; early
// days of a month can yield W0.
func WeekKey(t time.Time) string {
	n := math.Ceil(float64(t.Day()-int(t.Weekday())+1) / 7)
	return fmt.Sprintf("%d-W%d", t.Year(), int(n))
}

// Report is the exported usage summary.
type Report struct {
	GeneratedAt   string `json:"generatedAt"`
	DailyUsage    Counts `json:"dailyUsage"`
	WeeklyUsage   Counts `json:"weeklyUsage"`
	CategoryUsage Counts `json:"categoryUsage"`
	TotalIcons    int    `json:"totalIcons"`
}

// ISOTimestamp renders t in UTC with millisecond precision.
func ISOTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
