// Package schedule turns a plan's inclusive date range into the
// week-bucketed, month-labeled day grid used by calendar rendering.
package schedule

import (
	"log/slog"
	"time"
)

const DateLayout = "2006-01-02"

type PlanDay struct {
	Date       time.Time `json:"-"`
	Key        string    `json:"date"`
	WeekIndex  int       `json:"week"`
	MonthLabel string    `json:"month_label,omitempty"`
}

type WeekBucket struct {
	Index int       `json:"week"`
	Days  []PlanDay `json:"days"`
}

// ComputeDays iterates every calendar day from start to end inclusive.
// Week indexes start at 0 and advance right after a Saturday, so the
// first bucket may be a partial week. The month label is set on the
// first day and on every month transition. Malformed input degrades to
// an empty slice with a logged warning; start after end is an empty
// slice with no warning.
func ComputeDays(start, end string) []PlanDay {
	from, err := time.Parse(DateLayout, start)
	if err != nil {
		slog.Warn("unparseable plan start date", slog.String("start", start))
		return []PlanDay{}
	}
	to, err := time.Parse(DateLayout, end)
	if err != nil {
		slog.Warn("unparseable plan end date", slog.String("end", end))
		return []PlanDay{}
	}
	if from.After(to) {
		return []PlanDay{}
	}
	days := make([]PlanDay, 0, int(to.Sub(from).Hours()/24)+1)
	week := 0
	prevMonth := time.Month(0)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		day := PlanDay{
			Date:      d,
			Key:       d.Format(DateLayout),
			WeekIndex: week,
		}
		if d.Month() != prevMonth {
			day.MonthLabel = d.Month().String()
			prevMonth = d.Month()
		}
		days = append(days, day)
		if d.Weekday() == time.Saturday {
			week++
		}
	}
	return days
}

// GroupByWeek partitions days by week index. Indexes are dense from 0,
// so bucket position equals bucket index.
func GroupByWeek(days []PlanDay) []WeekBucket {
	buckets := make([]WeekBucket, 0)
	for _, day := range days {
		if day.WeekIndex == len(buckets) {
			buckets = append(buckets, WeekBucket{Index: day.WeekIndex})
		}
		last := len(buckets) - 1
		buckets[last].Days = append(buckets[last].Days, day)
	}
	return buckets
}
