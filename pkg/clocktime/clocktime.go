// Package clocktime parses the date, time-of-day and slot strings used by
// appointment scheduling. Every parser returns an error instead of guessing.
package clocktime

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

var (
	ErrInvalidDate    = errors.New("invalid date, use YYYY-MM-DD")
	ErrInvalidTime    = errors.New("invalid time")
	ErrInvalidSlot    = errors.New("invalid time slot")
	ErrInvalidWeekday = errors.New("invalid weekday")
)

// timeLayouts are tried in order after the input is upper-cased.
var timeLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04 PM",
	"3:04PM",
	"3:04:05 PM",
	"3:04:05PM",
	"3 PM",
	"3PM",
}

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// Equal compares hour, minute and second.
func (t TimeOfDay) Equal(other TimeOfDay) bool {
	return t.Hour == other.Hour && t.Minute == other.Minute && t.Second == other.Second
}

// On combines the time of day with the calendar date of d in loc.
func (t TimeOfDay) On(d time.Time, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour, t.Minute, t.Second, 0, loc)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

// ParseTimeOfDay accepts 24-hour ("14:30", "14:30:00"), 12-hour ("2:30 PM",
// "2:30pm") and bare "H:M" forms such as "9:5".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	raw := strings.ToUpper(strings.TrimSpace(s))
	if raw == "" {
		return TimeOfDay{}, fmt.Errorf("%w: empty", ErrInvalidTime)
	}

	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return TimeOfDay{Hour: parsed.Hour(), Minute: parsed.Minute(), Second: parsed.Second()}, nil
		}
	}

	return parseBare(raw)
}

func parseBare(raw string) (TimeOfDay, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, raw)
	}

	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, raw)
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, raw)
	}

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// ParseSlot splits a "<start> - <end>" slot string. En dashes and " to " are
// accepted as separators.
func ParseSlot(slot string) (TimeOfDay, TimeOfDay, error) {
	normalized := strings.NewReplacer("\u2013", "-", "\u2014", "-", " to ", "-", " TO ", "-").Replace(slot)

	parts := strings.Split(normalized, "-")
	if len(parts) != 2 {
		return TimeOfDay{}, TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}

	start, err := ParseTimeOfDay(parts[0])
	if err != nil {
		return TimeOfDay{}, TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}
	end, err := ParseTimeOfDay(parts[1])
	if err != nil {
		return TimeOfDay{}, TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}

	return start, end, nil
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday accepts full English weekday names or their three-letter
// abbreviations, in any case.
func ParseWeekday(name string) (time.Weekday, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if day, ok := weekdays[key]; ok {
		return day, nil
	}
	if len(key) == 3 {
		for full, day := range weekdays {
			if strings.HasPrefix(full, key) {
				return day, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, name)
}
