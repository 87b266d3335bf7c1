package timeslot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"velvet/config"
	"velvet/shared/constant"
)

const (
	minutesPerHour = 60
	minutesPerDay  = 24 * 60
)

// ToMinutes converts a wall-clock "HH:MM" string to minutes since midnight.
// Values must describe a moment within a single 24-hour day.
func ToMinutes(clock string) (int, error) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed clock value %q", clock)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("malformed clock value %q: %w", clock, err)
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("malformed clock value %q: %w", clock, err)
	}

	total := hours*minutesPerHour + minutes
	if hours < 0 || minutes < 0 || minutes >= minutesPerHour || total >= minutesPerDay {
		return 0, fmt.Errorf("clock value %q outside a 24-hour day", clock)
	}

	return total, nil
}

// FromMinutes is the exact inverse of ToMinutes for values in [0, 1440).
func FromMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/minutesPerHour, minutes%minutesPerHour)
}

// HoursToMinutes converts a whole-hour duration to minutes.
func HoursToMinutes(hours int) int {
	return hours * minutesPerHour
}

// FormatClock12 renders "HH:MM" in 12-hour display form, e.g. "14:30" -> "2:30 PM".
func FormatClock12(clock string) string {
	total, err := ToMinutes(clock)
	if err != nil {
		return clock
	}

	hours := total / minutesPerHour
	minutes := total % minutesPerHour

	period := "AM"
	if hours >= 12 {
		period = "PM"
	}

	display := hours % 12
	if display == 0 {
		display = 12
	}

	return fmt.Sprintf("%d:%02d %s", display, minutes, period)
}

// Interval is a half-open [Start, End) range in minutes since midnight.
type Interval struct {
	Start int
	End   int
}

func NewInterval(startClock, endClock string) (Interval, error) {
	start, err := ToMinutes(startClock)
	if err != nil {
		return Interval{}, err
	}

	end, err := ToMinutes(endClock)
	if err != nil {
		return Interval{}, err
	}

	if start >= end {
		return Interval{}, fmt.Errorf("interval %s-%s: end must be after start", startClock, endClock)
	}

	return Interval{Start: start, End: end}, nil
}

func (i Interval) Span() int {
	return i.End - i.Start
}

// Overlaps reports whether two half-open intervals intersect. The relation
// is symmetric: i.Overlaps(o) == o.Overlaps(i).
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && i.End > other.Start
}

// Adjoins reports whether other begins exactly where i ends.
func (i Interval) Adjoins(other Interval) bool {
	return i.End == other.Start
}

// Policy captures the scheduling rules every booking must satisfy.
type Policy struct {
	OpenMinutes      int
	CloseMinutes     int
	StepMinutes      int
	CutoffHour       int
	MinDurationHours int
	MaxDurationHours int
}

// PolicyFromConfig builds the active policy from service configuration.
// Unparseable business-hour values fall back to the 08:00-20:00 defaults.
func PolicyFromConfig(cfg *config.Config) Policy {
	open, err := ToMinutes(cfg.Booking.BusinessOpen)
	if err != nil {
		open = 8 * minutesPerHour
	}

	closeAt, err := ToMinutes(cfg.Booking.BusinessClose)
	if err != nil {
		closeAt = 20 * minutesPerHour
	}

	return Policy{
		OpenMinutes:      open,
		CloseMinutes:     closeAt,
		StepMinutes:      cfg.Booking.SlotStepMinutes,
		CutoffHour:       cfg.Booking.CutoffHour,
		MinDurationHours: cfg.Booking.MinDurationHrs,
		MaxDurationHours: cfg.Booking.MaxDurationHrs,
	}
}

func (p Policy) WithinBusinessHours(interval Interval) bool {
	return interval.Start >= p.OpenMinutes && interval.End <= p.CloseMinutes
}

func (p Policy) ValidDuration(hours int) bool {
	return hours >= p.MinDurationHours && hours <= p.MaxDurationHours
}

func (p Policy) BusinessHoursDisplay() string {
	return fmt.Sprintf("%s - %s", FormatClock12(FromMinutes(p.OpenMinutes)), FormatClock12(FromMinutes(p.CloseMinutes)))
}

// CutoffReached reports whether a booking for date (YYYY-MM-DD) must be
// refused at the given wall-clock moment. Past dates are always refused,
// the current date is refused from CutoffHour onward, future dates never.
func (p Policy) CutoffReached(date string, now time.Time) bool {
	today := now.Format(constant.DateOnlyFormat)

	switch {
	case date == constant.Empty:
		return now.Hour() >= p.CutoffHour
	case date > today:
		return false
	case date < today:
		return true
	default:
		return now.Hour() >= p.CutoffHour
	}
}

// CutoffMessage explains a CutoffReached refusal for the given date.
func (p Policy) CutoffMessage(date string, now time.Time) string {
	cutoffDisplay := FormatClock12(FromMinutes(p.CutoffHour * minutesPerHour))
	today := now.Format(constant.DateOnlyFormat)

	switch {
	case date != constant.Empty && date < today:
		return "cannot book for past dates, please select a future date"
	case date == today:
		return fmt.Sprintf("bookings for today are not accepted after %s, you can still book for future dates", cutoffDisplay)
	default:
		return fmt.Sprintf("bookings are not accepted after %s, please try again tomorrow", cutoffDisplay)
	}
}
