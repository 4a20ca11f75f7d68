package ledger

import (
	"regexp"
	"time"
)

// phonePattern matches Saudi mobile numbers as entered locally: a leading
// 05 followed by eight digits. This is the only regional rule the core
// enforces; landlines and international formats are rejected.
var phonePattern = regexp.MustCompile(`^05\d{8}$`)

// emailPattern is deliberately loose: one @, a dot somewhere in the domain,
// no whitespace. Full RFC 5322 validation buys nothing for a local tool.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidPhone reports whether s is a syntactically valid customer phone.
func ValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// ValidEmail reports whether s is a syntactically plausible email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ValidDate reports whether s is a well-formed YYYY-MM-DD date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// AddMonths returns date shifted by the given number of calendar months,
// in wire format. Returns "" if date does not parse.
func AddMonths(date string, months int) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, months, 0).Format(DateLayout)
}
