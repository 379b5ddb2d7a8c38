package booking

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ValidationError names the offending field and carries a user-facing message
// that always includes the rejected value and the expected format.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

var (
	emailRE     = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	timeShapeRE = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	phoneStrip  = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "+", "")
)

const maxBookingHorizonDays = 365

// ValidateField checks a single candidate value against format and temporal
// rules. The draft supplies cross-field context (an already-known date for the
// time-in-the-past check). It returns the canonical form of the value, which
// callers must store instead of the raw input.
func ValidateField(field, value string, draft Draft, now time.Time) (string, *ValidationError) {
	switch field {
	case FieldEmail:
		if !emailRE.MatchString(value) {
			return "", &ValidationError{FieldEmail, fmt.Sprintf("'%s' is not valid. Use format: name@example.com", value)}
		}
		return value, nil

	case FieldPhone:
		stripped := phoneStrip.Replace(value)
		if !digitsOnly(stripped) || len(stripped) < 10 || len(stripped) > 15 {
			return "", &ValidationError{FieldPhone, fmt.Sprintf("'%s' is not valid. Provide 10-15 digits", stripped)}
		}
		return value, nil

	case FieldDate:
		parsed, err := time.ParseInLocation("2006-01-02", value, now.Location())
		if err != nil {
			return "", &ValidationError{FieldDate, fmt.Sprintf("'%s' is invalid. Use YYYY-MM-DD (e.g., 2025-01-25)", value)}
		}
		today := startOfDay(now)
		if parsed.Before(today) {
			days := daysBetween(parsed, today)
			return "", &ValidationError{FieldDate, fmt.Sprintf("'%s' is %d day(s) in the past. Choose a future date", value, days)}
		}
		if parsed.After(today.AddDate(0, 0, maxBookingHorizonDays)) {
			return "", &ValidationError{FieldDate, fmt.Sprintf("'%s' is too far ahead. Book within the next year", value)}
		}
		return value, nil

	case FieldTime:
		m := timeShapeRE.FindStringSubmatch(value)
		if m == nil {
			return "", &ValidationError{FieldTime, fmt.Sprintf("'%s' is invalid. Use HH:MM (e.g., 14:30)", value)}
		}
		hours, _ := strconv.Atoi(m[1])
		mins, _ := strconv.Atoi(m[2])
		if hours < 0 || hours > 23 {
			return "", &ValidationError{FieldTime, fmt.Sprintf("'%s' has invalid hours. Use 00-23", value)}
		}
		if mins < 0 || mins > 59 {
			return "", &ValidationError{FieldTime, fmt.Sprintf("'%s' has invalid minutes. Use 00-59", value)}
		}
		canonical := fmt.Sprintf("%02d:%02d", hours, mins)
		// The "has passed" rule only fires when the booking date is known and
		// is today. A time supplied before the date is accepted as-is.
		if draft.Date != "" {
			if bookingDate, err := time.ParseInLocation("2006-01-02", draft.Date, now.Location()); err == nil {
				if startOfDay(bookingDate).Equal(startOfDay(now)) {
					if hours*60+mins < now.Hour()*60+now.Minute() {
						return "", &ValidationError{FieldTime, fmt.Sprintf("'%s' has passed. Choose a future time", canonical)}
					}
				}
			}
		}
		return canonical, nil

	case FieldName:
		name := strings.TrimSpace(value)
		if len(name) < 2 {
			return "", &ValidationError{FieldName, "Name is too short. Provide your full name"}
		}
		if len(name) > 100 {
			return "", &ValidationError{FieldName, "Name is too long"}
		}
		return name, nil
	}
	return value, nil
}

// validationOrder fixes the order fields are checked within one turn. All
// failures are collected; the caller surfaces the first one but keeps the rest.
var validationOrder = []string{FieldEmail, FieldPhone, FieldDate, FieldTime, FieldName}

// ValidateAll validates a batch of freshly extracted fields against the
// existing draft. It returns the canonicalized fields and every validation
// error found. A date extracted this turn participates in the time check even
// though it has not been merged yet.
func ValidateAll(fields map[string]string, draft Draft, now time.Time) (map[string]string, []ValidationError) {
	clean := make(map[string]string, len(fields))
	var errs []ValidationError

	// Cross-field context: a newly extracted date counts for the time check.
	timeCtx := draft
	if d, ok := fields[FieldDate]; ok {
		timeCtx.Date = d
	}

	for _, field := range validationOrder {
		value, ok := fields[field]
		if !ok {
			continue
		}
		ctx := draft
		if field == FieldTime {
			ctx = timeCtx
		}
		canonical, verr := ValidateField(field, value, ctx, now)
		if verr != nil {
			errs = append(errs, *verr)
			continue
		}
		clean[field] = canonical
	}

	// Pass through fields outside the validation order untouched.
	for field, value := range fields {
		if _, tracked := clean[field]; tracked {
			continue
		}
		if field == FieldServiceType {
			clean[field] = value
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return clean, nil
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b. Both dates are re-anchored in
// UTC so a DST transition inside the interval cannot skew the count.
func daysBetween(a, b time.Time) int {
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au) / (24 * time.Hour))
}
