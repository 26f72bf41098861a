package validation

import "time"

// MinimumRegistrationAge is the youngest age allowed to register.
const MinimumRegistrationAge = 13

// Age computes a calendar age from a date of birth: full years elapsed,
// decremented when the birthday has not yet occurred this year. The
// comparison is on calendar fields, not elapsed seconds, so a Feb 29
// birthday "turns" on Mar 1 in non-leap years.
func Age(dateOfBirth, now time.Time) int {
	age := now.Year() - dateOfBirth.Year()
	monthDiff := int(now.Month()) - int(dateOfBirth.Month())
	if monthDiff < 0 || (monthDiff == 0 && now.Day() < dateOfBirth.Day()) {
		age--
	}
	return age
}
