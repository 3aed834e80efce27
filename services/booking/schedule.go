package booking

import (
	"fmt"
	"strings"
	"time"

	"plantco/models"
	"plantco/utils"
)

// ParseSchedule merges a YYYY-MM-DD date and an HH:MM time into a UTC instant.
func ParseSchedule(date, clock string) (time.Time, error) {
	day, err := time.Parse("2006-01-02", strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, utils.NewValidationError(utils.CodeInvalidInput, fmt.Sprintf("invalid scheduledDate %q, want YYYY-MM-DD", date))
	}
	mins, err := clockMinutes(clock)
	if err != nil {
		return time.Time{}, utils.NewValidationError(utils.CodeInvalidInput, fmt.Sprintf("invalid scheduledTime %q, want HH:MM", clock))
	}
	return day.UTC().Add(time.Duration(mins) * time.Minute), nil
}

func clockMinutes(clock string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(clock))
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// CheckWorkingWindow reports whether start falls on a working day inside the
// working hours. When End <= Start the window wraps past midnight, and an
// early-morning start belongs to the previous day's shift.
func CheckWorkingWindow(av models.Availability, start time.Time) error {
	from, err := clockMinutes(av.WorkingHours.Start)
	if err != nil {
		return utils.NewInternal("provider working hours are malformed", err)
	}
	to, err := clockMinutes(av.WorkingHours.End)
	if err != nil {
		return utils.NewInternal("provider working hours are malformed", err)
	}

	m := start.Hour()*60 + start.Minute()
	shiftDay := start.Weekday()
	inside := false
	if to > from {
		inside = m >= from && m < to
	} else {
		switch {
		case m >= from:
			inside = true
		case m < to:
			inside = true
			shiftDay = (shiftDay + 6) % 7
		}
	}
	if !inside {
		return utils.NewValidationError(utils.CodeOutsideHours,
			fmt.Sprintf("provider works %s-%s", av.WorkingHours.Start, av.WorkingHours.End))
	}
	if !worksOn(av.WorkingDays, shiftDay) {
		return utils.NewValidationError(utils.CodeOutsideHours,
			fmt.Sprintf("provider does not work on %s", strings.ToLower(shiftDay.String())))
	}
	return nil
}

func worksOn(days []string, d time.Weekday) bool {
	name := strings.ToLower(d.String())
	for _, day := range days {
		day = strings.ToLower(strings.TrimSpace(day))
		if day == name || (len(day) == 3 && strings.HasPrefix(name, day)) {
			return true
		}
	}
	return false
}

func hours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}
