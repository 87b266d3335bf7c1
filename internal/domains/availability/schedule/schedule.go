package schedule

import (
	"slices"

	"velvet/shared/constant"
	"velvet/shared/timeslot"
)

// SlotRow is one computed availability row for a (companion, date) query,
// as served by the availability repository: recurring business-hour
// coverage (default / combined_default) or a companion-entered one-off
// window (specific).
type SlotRow struct {
	SlotType    string `db:"slot_type"  json:"slot_type"`
	StartTime   string `db:"start_time" json:"start_time"`
	EndTime     string `db:"end_time"   json:"end_time"`
	IsAvailable bool   `db:"is_available" json:"is_available"`
	IsBooked    bool   `db:"is_booked"    json:"is_booked"`
	Source      string `db:"source"       json:"source"`
}

// Outcome is the terminal state of a resolution.
type Outcome string

const (
	// OutcomeCompanionUnavailable: the companion-wide kill switch is off.
	OutcomeCompanionUnavailable Outcome = "companion_unavailable"
	// OutcomeDayUnavailable: no slot rows exist for the date at all. This is
	// distinct from OutcomeNoFit and must never be collapsed into it.
	OutcomeDayUnavailable Outcome = "day_unavailable"
	// OutcomeNoFit: the day has slots but none accommodate the duration.
	OutcomeNoFit Outcome = "no_fit"
	// OutcomeOffering: at least one start time is bookable.
	OutcomeOffering Outcome = "offering"
)

// Resolution is the answer to "when can this companion be booked on this
// date for this duration". StartTimes is sorted ascending and only
// populated for OutcomeOffering.
type Resolution struct {
	Outcome    Outcome  `json:"outcome"`
	StartTimes []string `json:"start_times,omitempty"`
}

// Resolve computes the bookable start times for a requested duration from
// a snapshot of slot rows. It is a pure function of its inputs: re-running
// it on an unchanged snapshot yields an identical resolution.
//
// Specific slots are curated one-off windows: each offers at most its own
// start time, and only when the whole window fits the duration. Default and
// combined_default slots are open coverage: maximal runs of back-to-back
// slots are merged and every start on the stepMinutes grid that still fits
// the duration inside the run is offered.
func Resolve(rows []SlotRow, durationHours, stepMinutes int) Resolution {
	if len(rows) == 0 {
		return Resolution{Outcome: OutcomeDayUnavailable}
	}

	open := bookable(rows)
	if len(open) == 0 {
		return Resolution{Outcome: OutcomeNoFit}
	}

	durationMinutes := timeslot.HoursToMinutes(durationHours)

	var starts []string
	if specificOnly(open) {
		starts = specificStarts(open, durationMinutes)
	} else {
		starts = gridStarts(open, durationMinutes, stepMinutes)
	}

	starts = dedupeSorted(starts)
	if len(starts) == 0 {
		return Resolution{Outcome: OutcomeNoFit}
	}

	return Resolution{Outcome: OutcomeOffering, StartTimes: starts}
}

// bookable keeps only rows that are opted in and not already taken.
func bookable(rows []SlotRow) []SlotRow {
	open := make([]SlotRow, 0, len(rows))

	for _, row := range rows {
		if row.IsAvailable && !row.IsBooked {
			open = append(open, row)
		}
	}

	return open
}

func specificOnly(rows []SlotRow) bool {
	for _, row := range rows {
		if row.SlotType != constant.SlotTypeSpecific {
			return false
		}
	}

	return true
}

// specificStarts offers each curated window's own start time when the
// window spans the duration. No sub-window scanning happens here.
func specificStarts(rows []SlotRow, durationMinutes int) []string {
	starts := []string{}

	for _, row := range rows {
		interval, err := timeslot.NewInterval(row.StartTime, row.EndTime)
		if err != nil {
			continue
		}

		if interval.Span() >= durationMinutes {
			starts = append(starts, timeslot.FromMinutes(interval.Start))
		}
	}

	return starts
}

// gridStarts merges back-to-back coverage into maximal periods and emits
// every grid-aligned start from periodStart through periodEnd-duration.
func gridStarts(rows []SlotRow, durationMinutes, stepMinutes int) []string {
	starts := []string{}

	for _, period := range MergeConsecutive(intervalsOf(rows)) {
		if period.Span() < durationMinutes {
			continue
		}

		for minute := period.Start; minute <= period.End-durationMinutes; minute += stepMinutes {
			starts = append(starts, timeslot.FromMinutes(minute))
		}
	}

	return starts
}

func intervalsOf(rows []SlotRow) []timeslot.Interval {
	intervals := make([]timeslot.Interval, 0, len(rows))

	for _, row := range rows {
		interval, err := timeslot.NewInterval(row.StartTime, row.EndTime)
		if err != nil {
			continue
		}

		intervals = append(intervals, interval)
	}

	return intervals
}

// MergeConsecutive unions runs of adjacent intervals, where adjacency means
// one interval ends exactly where the next starts. Input order is not
// trusted: intervals are sorted by start before merging. Overlapping rows
// (undefined input per the storage layer) are normalized into the covering
// period rather than rejected.
func MergeConsecutive(intervals []timeslot.Interval) []timeslot.Interval {
	if len(intervals) == 0 {
		return nil
	}

	sorted := slices.Clone(intervals)
	slices.SortFunc(sorted, func(a, b timeslot.Interval) int {
		return a.Start - b.Start
	})

	merged := []timeslot.Interval{sorted[0]}

	for _, interval := range sorted[1:] {
		last := &merged[len(merged)-1]

		if interval.Start <= last.End {
			if interval.End > last.End {
				last.End = interval.End
			}

			continue
		}

		merged = append(merged, interval)
	}

	return merged
}

func dedupeSorted(starts []string) []string {
	slices.Sort(starts)

	return slices.Compact(starts)
}
