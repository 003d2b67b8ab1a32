// Package schedule implements the temporal rules for events: parsing the
// free-text start time of a range like "3pm - 5pm", deciding whether a
// single-day event is still upcoming in a given timezone, and checking
// date-range containment.
//
// The parsing path is fail-open on purpose: an event whose time string cannot
// be understood stays visible rather than silently disappearing from
// listings. Keep that policy when touching this package.
package schedule

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"eventfinder/internal/model"
)

// startTimeRe matches the leading time token of a range: hour, optional
// minutes, optional am/pm marker directly attached ("3pm", "4", "5p", "12:30am").
var startTimeRe = regexp.MustCompile(`^(\d{1,2})(:(\d{2}))?\s*(am|pm|a|p)?`)

// ParseStartTime extracts the start of a free-text time range as a 24h
// hour/minute pair. Supported shapes include "3pm - 5pm", "4-6pm", "5p-7p"
// and "12-2pm". When the leading token carries no am/pm marker the rest of
// the string is consulted, so the trailing marker of "4-6pm" applies to the
// 4 as well. 12pm stays hour 12; 12am becomes hour 0.
//
// ok is false when the string does not start with a numeric hour or the hour
// is out of range.
func ParseStartTime(text string) (hour, minute int, ok bool) {
	s := strings.ToLower(strings.TrimSpace(text))
	m := startTimeRe.FindStringSubmatch(s)
	if m == nil || m[1] == "" {
		return 0, 0, false
	}
	hour, _ = strconv.Atoi(m[1])
	if m[3] != "" {
		minute, _ = strconv.Atoi(m[3])
	}
	if hour < 1 || hour > 12 || minute > 59 {
		return 0, 0, false
	}

	var pm bool
	if m[4] != "" {
		pm = strings.HasPrefix(m[4], "p")
	} else {
		// No marker on the start token; any pm/p later in the string (the
		// end time's marker) decides, e.g. "4-6pm".
		pm = strings.Contains(s, "pm") || strings.Contains(s, "p")
	}

	if pm && hour != 12 {
		hour += 12
	} else if !pm && hour == 12 {
		hour = 0
	}
	return hour, minute, true
}

// locationOrUTC resolves an IANA timezone id, falling back to UTC when the
// id is empty or unknown.
func locationOrUTC(tzID string) *time.Location {
	if tzID == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tzID)
	if err != nil {
		zap.L().Warn("unknown timezone id, falling back to UTC", zap.String("tz", tzID))
		return time.UTC
	}
	return loc
}

// NowIn returns the given instant expressed in the timezone, UTC fallback.
func NowIn(tzID string, now time.Time) time.Time {
	return now.In(locationOrUTC(tzID))
}

// IsUpcoming reports whether a single-day event starting at date+timeRange is
// strictly in the future relative to now in the given timezone. An event
// starting exactly now is not upcoming.
//
// Unparsable dates or time ranges default to true (fail-open) and are logged.
func IsUpcoming(date, timeRange, tzID string, now time.Time) bool {
	loc := locationOrUTC(tzID)

	day, err := time.ParseInLocation(model.DateLayout, strings.TrimSpace(date), loc)
	if err != nil {
		zap.L().Warn("unparsable event date, keeping event visible",
			zap.String("date", date), zap.Error(err))
		return true
	}

	hour, minute, ok := ParseStartTime(timeRange)
	if !ok {
		zap.L().Warn("unparsable event time, keeping event visible",
			zap.String("time", timeRange))
		return true
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc)
	return start.After(now.In(loc))
}

// RangeActive reports whether "today" in the timezone falls within
// [start, end] inclusive. Unparsable bounds fail open.
func RangeActive(start, end, tzID string, now time.Time) bool {
	loc := locationOrUTC(tzID)

	from, err := time.ParseInLocation(model.DateLayout, strings.TrimSpace(start), loc)
	if err != nil {
		zap.L().Warn("unparsable range start, keeping event visible",
			zap.String("start_date", start), zap.Error(err))
		return true
	}
	to, err := time.ParseInLocation(model.DateLayout, strings.TrimSpace(end), loc)
	if err != nil {
		zap.L().Warn("unparsable range end, keeping event visible",
			zap.String("end_date", end), zap.Error(err))
		return true
	}

	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return !today.Before(from) && !today.After(to)
}

// EventIsActive applies the schedule-variant rules: range mode is active
// while today falls in [start, end]; single mode is active while the parsed
// start instant is strictly ahead of now. Rows with no dates at all are
// never active.
func EventIsActive(e *model.Event, tzID string, now time.Time) bool {
	s := e.Schedule()
	switch s.Kind {
	case model.ScheduleRange:
		return RangeActive(s.Start, s.End, tzID, now)
	case model.ScheduleSingle:
		return IsUpcoming(s.Date, s.TimeRange, tzID, now)
	default:
		return false
	}
}

// earthRadiusMiles matches the constant used in the SQL ranking expression.
const earthRadiusMiles = 3959.0

// Haversine returns the great-circle distance between two coordinate pairs
// in miles. Symmetric, and zero for identical points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMiles * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
