package rehab

import (
	"fmt"
	"math"
	"time"
)

// Window lengths in days, counting the reference day.
const (
	weekWindowDays = 7
	painWindowDays = 14
)

// Stats summarises a log collection relative to a reference day.
type Stats struct {
	DaysLogged int
	ThisWeek   int
	AvgPain    PainAverage
	Streak     int
}

// PainAverage is a mean pain rating rounded to one decimal. Valid is false when there
// were no ratings to average, which is not the same as an average of 0.
type PainAverage struct {
	Value float64
	Valid bool
}

func (a PainAverage) String() string {
	if !a.Valid {
		return "–"
	}

	return fmt.Sprintf("%.1f", a.Value)
}

// ComputeStats derives the summary for collection as seen on referenceDate. Only the
// calendar date of referenceDate matters. Keys that are not valid dates count towards
// DaysLogged and nothing else.
func ComputeStats(collection Collection, referenceDate time.Time) Stats {
	today := calendarDay(referenceDate)
	weekStart := today.AddDate(0, 0, -(weekWindowDays - 1))
	painStart := today.AddDate(0, 0, -(painWindowDays - 1))

	stats := Stats{DaysLogged: len(collection)}

	painSum := 0
	painCount := 0

	for date, log := range collection {
		day, err := ParseDateKey(date)
		if err != nil || day.After(today) {
			continue
		}

		if !day.Before(weekStart) {
			stats.ThisWeek++
		}

		if !day.Before(painStart) {
			if value, ok := log.Pain.Value(); ok && value >= 0 {
				painSum += value
				painCount++
			}
		}
	}

	if painCount > 0 {
		mean := float64(painSum) / float64(painCount)
		stats.AvgPain = PainAverage{Value: math.Round(mean*10) / 10, Valid: true}
	}

	stats.Streak = computeStreak(collection, today)

	return stats
}

// computeStreak walks backwards one day at a time from the anchor day, counting logged
// days until the first gap. The anchor is today when today is logged, else the latest
// logged day.
func computeStreak(collection Collection, today time.Time) int {
	anchor, ok := streakAnchor(collection, today)
	if !ok {
		return 0
	}

	streak := 0
	for day := anchor; ; day = day.AddDate(0, 0, -1) {
		if _, logged := collection[DateKey(day)]; !logged {
			break
		}

		streak++
	}

	return streak
}

func streakAnchor(collection Collection, today time.Time) (time.Time, bool) {
	if _, ok := collection[DateKey(today)]; ok {
		return today, true
	}

	dates := collection.SortedDates()
	for i := len(dates) - 1; i >= 0; i-- {
		if day, err := ParseDateKey(dates[i]); err == nil {
			return day, true
		}
	}

	return time.Time{}, false
}
