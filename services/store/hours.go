// File: services/store/hours.go
//
// Pure calendar policy for stores. All functions interpret wall-clock
// operating hours in the store's IANA zone; instants handed back to callers
// are absolute, so DST days keep their real length (23 or 25 hours).
package store

import (
	"strconv"
	"strings"
	"time"

	"mendly/models"
	"mendly/utils"
)

// Location resolves the store's IANA timezone.
func Location(st *models.Store) (*time.Location, error) {
	loc, err := time.LoadLocation(st.Timezone)
	if err != nil {
		return nil, utils.Invalidf("unknown timezone %q", st.Timezone)
	}
	return loc, nil
}

// ParseLocalDate parses "YYYY-MM-DD" as midnight in the store's zone.
func ParseLocalDate(st *models.Store, date string) (time.Time, error) {
	loc, err := Location(st)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.ParseInLocation(utils.DateLayout, date, loc)
	if err != nil {
		return time.Time{}, utils.Invalidf("invalid date %q, want YYYY-MM-DD", date)
	}
	return t, nil
}

// parseClock splits "HH:MM" into hour and minute.
func parseClock(s string) (int, int, bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}

// HoursForDate returns the operating window for the weekday of localDate,
// or nil when the store is closed that day. Day-of-week is computed in the
// store's zone: localDate must already be zone-local (see ParseLocalDate).
func HoursForDate(st *models.Store, localDate time.Time) *models.DayHours {
	day, ok := st.OperatingHours[models.DayKey(localDate.Weekday())]
	if !ok || day.Closed {
		return nil
	}
	if _, _, ok := parseClock(day.Open); !ok {
		return nil
	}
	if _, _, ok := parseClock(day.Close); !ok {
		return nil
	}
	return &day
}

// IsOpenOnDate reports whether the store has any window on that local date.
func IsOpenOnDate(st *models.Store, localDate time.Time) bool {
	return HoursForDate(st, localDate) != nil
}

// DayWindow resolves the operating window of localDate to absolute
// instants. ok is false when the store is closed. Wall-clock times falling
// into a DST gap normalize forward, matching what a clock on the wall does.
func DayWindow(st *models.Store, localDate time.Time) (open, close time.Time, ok bool) {
	day := HoursForDate(st, localDate)
	if day == nil {
		return time.Time{}, time.Time{}, false
	}
	oh, om, _ := parseClock(day.Open)
	ch, cm, _ := parseClock(day.Close)

	loc := localDate.Location()
	y, m, d := localDate.Date()
	open = time.Date(y, m, d, oh, om, 0, 0, loc)
	close = time.Date(y, m, d, ch, cm, 0, 0, loc)
	if !open.Before(close) {
		return time.Time{}, time.Time{}, false
	}
	return open, close, true
}

// IsOpenNow reports whether the store is open at the given instant,
// inclusive of the closing minute.
func IsOpenNow(st *models.Store, now time.Time) bool {
	loc, err := Location(st)
	if err != nil {
		return false
	}
	local := now.In(loc)
	open, close, ok := DayWindow(st, local)
	if !ok {
		return false
	}
	return !local.Before(open) && !local.After(close)
}

// LocalDayBounds returns the UTC half-open window [00:00, next 00:00) of
// the store-local day containing localDate. DST days come out shorter or
// longer than 24h, which is exactly what daily quota counting needs.
func LocalDayBounds(st *models.Store, localDate time.Time) (time.Time, time.Time) {
	loc := localDate.Location()
	y, m, d := localDate.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	end := time.Date(y, m, d+1, 0, 0, 0, 0, loc)
	return start.UTC(), end.UTC()
}

// LocalDateOf formats an instant as the store-local calendar date.
func LocalDateOf(st *models.Store, instant time.Time) (string, error) {
	loc, err := Location(st)
	if err != nil {
		return "", err
	}
	return instant.In(loc).Format(utils.DateLayout), nil
}
