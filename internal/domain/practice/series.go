package practice

import "errors"

// MaxSeriesOccurrences caps how many plans one series request may create.
const MaxSeriesOccurrences = 52

// ErrInvalidOccurrences is returned when a series length is out of range.
var ErrInvalidOccurrences = errors.New("series occurrences must be between 1 and 52")

// RepeatWeekly copies base into occurrences plans one week apart, all sharing
// seriesID. The first plan keeps base's start time. Weeks are calendar weeks
// in base.StartTime's location, so the wall-clock start survives a DST change
// when that location is the team's zone rather than UTC.
// PRE: 1 <= occurrences <= MaxSeriesOccurrences, genID returns unique IDs
// POST: activities are deep-copied; base is not mutated
func RepeatWeekly(base Plan, seriesID string, occurrences int, genID func() string) ([]Plan, error) {
	if occurrences < 1 || occurrences > MaxSeriesOccurrences {
		return nil, ErrInvalidOccurrences
	}
	plans := make([]Plan, 0, occurrences)
	for i := 0; i < occurrences; i++ {
		p := base
		p.ID = genID()
		p.SeriesID = seriesID
		p.Activities = CloneActivities(base.Activities)
		p.Reschedule(base.StartTime.AddDate(0, 0, 7*i))
		plans = append(plans, p)
	}
	return plans, nil
}

// CloneActivities deep-copies an activity list including tag slices.
func CloneActivities(in []Activity) []Activity {
	if in == nil {
		return nil
	}
	out := make([]Activity, len(in))
	for i, a := range in {
		out[i] = a
		if a.TagIDs != nil {
			out[i].TagIDs = append([]string(nil), a.TagIDs...)
		}
	}
	return out
}
