package calendar

import (
	"sort"
	"time"

	"practiceplan/internal/domain/practice"
)

// DaysPerWeek is the length of a calendar week.
const DaysPerWeek = 7

// DateLayout is the YYYY-MM-DD form used for day keys.
const DateLayout = "2006-01-02"

// StartOfDay returns local midnight of t's calendar day, in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns the Monday at midnight that begins t's week.
// Sunday belongs to the week that started six days earlier.
// POST: result is a Monday at 00:00 in t's location
func StartOfWeek(t time.Time) time.Time {
	day := int(t.Weekday())
	diff := 1 - day
	if day == 0 {
		diff = -6
	}
	y, m, d := t.Date()
	// time.Date normalises day overflow across month and year boundaries.
	return time.Date(y, m, d+diff, 0, 0, 0, 0, t.Location())
}

// WeekDays returns the seven consecutive midnights starting at weekStart's day.
func WeekDays(weekStart time.Time) []time.Time {
	y, m, d := weekStart.Date()
	days := make([]time.Time, DaysPerWeek)
	for i := range days {
		days[i] = time.Date(y, m, d+i, 0, 0, 0, 0, weekStart.Location())
	}
	return days
}

// IsSameDay reports whether a and b fall on the same calendar day.
// b is compared in a's location.
func IsSameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// IsSameWeek reports whether a and b fall in the same Monday-based week.
func IsSameWeek(a, b time.Time) bool {
	return StartOfWeek(a).Equal(StartOfWeek(b.In(a.Location())))
}

// DayKey formats t as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.Format(DateLayout)
}

// SortByStart orders plans by start time, then ID. The input is not modified.
func SortByStart(plans []practice.Plan) []practice.Plan {
	out := make([]practice.Plan, len(plans))
	copy(out, plans)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// DayBucket holds the plans that start on one calendar day.
type DayBucket struct {
	Date  time.Time // midnight
	Plans []practice.Plan
}

// Key returns the bucket's YYYY-MM-DD key.
func (b DayBucket) Key() string {
	return DayKey(b.Date)
}

// TotalMinutes sums the durations of the bucket's plans.
func (b DayBucket) TotalMinutes() int {
	total := 0
	for _, p := range b.Plans {
		total += p.DurationMinutes
	}
	return total
}

// GroupByDay buckets plans by the local day they start on, in loc.
// Only days with at least one plan are returned, in date order; plans inside
// a bucket are sorted by start time.
func GroupByDay(plans []practice.Plan, loc *time.Location) []DayBucket {
	var buckets []DayBucket
	index := make(map[string]int)
	for _, p := range SortByStart(plans) {
		day := StartOfDay(p.StartTime.In(loc))
		key := DayKey(day)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, DayBucket{Date: day})
		}
		buckets[i].Plans = append(buckets[i].Plans, p)
	}
	return buckets
}

// Week returns seven buckets for the week beginning at StartOfWeek(anchor),
// including empty days. Plans outside the week are ignored.
func Week(anchor time.Time, plans []practice.Plan) []DayBucket {
	days := WeekDays(StartOfWeek(anchor))
	buckets := make([]DayBucket, len(days))
	index := make(map[string]int, len(days))
	for i, d := range days {
		buckets[i] = DayBucket{Date: d}
		index[DayKey(d)] = i
	}
	for _, p := range SortByStart(plans) {
		key := DayKey(p.StartTime.In(anchor.Location()))
		if i, ok := index[key]; ok {
			buckets[i].Plans = append(buckets[i].Plans, p)
		}
	}
	return buckets
}

// WeekRange returns [start, end) covering the week containing anchor.
func WeekRange(anchor time.Time) (time.Time, time.Time) {
	start := StartOfWeek(anchor)
	y, m, d := start.Date()
	return start, time.Date(y, m, d+DaysPerWeek, 0, 0, 0, 0, start.Location())
}
