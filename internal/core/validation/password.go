package validation

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const minPasswordLength = 10

// passwordSymbols is the fixed punctuation set that satisfies the
// special-character rule.
const passwordSymbols = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

// weakPasswords is the blocklist of common weak passwords, matched
// case-insensitively.
var weakPasswords = map[string]struct{}{
	"password123":  {},
	"password1234": {},
	"qwerty12345":  {},
	"123456789a":   {},
	"letmein123":   {},
	"welcome123":   {},
	"admin12345":   {},
	"iloveyou123":  {},
	"sunshine123":  {},
	"princess123":  {},
	"football123":  {},
	"monkey12345":  {},
	"shadow12345":  {},
	"master12345":  {},
	"dragon12345":  {},
	"michael123":   {},
	"jennifer123":  {},
	"trustno123":   {},
	"hunter12345":  {},
	"password!23":  {},
	"password@123": {},
	"abcd1234567":  {},
	"qwertyuiop1":  {},
	"1234567890!":  {},
}

// ValidatePassword evaluates the full password policy and returns every
// violation (empty slice means the password is acceptable). Unlike the
// uniqueness validators there is no short-circuit: all rules are checked
// independently so the caller can report them all at once.
//
// email and phoneNumber are optional context: the password must not contain
// the email's local part (when it is at least 3 characters) nor the last 6
// digits of the phone number (when the phone has at least 6 digits).
func ValidatePassword(password, email, phoneNumber string) []string {
	var violations []string

	if utf8.RuneCountInString(password) < minPasswordLength {
		violations = append(violations, "Password must be at least 10 characters")
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r) && r <= unicode.MaxASCII:
			hasUpper = true
		case unicode.IsLower(r) && r <= unicode.MaxASCII:
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}
	if !hasUpper {
		violations = append(violations, "Password must contain at least one uppercase letter")
	}
	if !hasLower {
		violations = append(violations, "Password must contain at least one lowercase letter")
	}
	if !hasDigit {
		violations = append(violations, "Password must contain at least one number")
	}
	if !hasSymbol {
		violations = append(violations, "Password must contain at least one special character")
	}

	if email != "" {
		localPart := strings.ToLower(strings.SplitN(email, "@", 2)[0])
		if len(localPart) >= 3 && strings.Contains(strings.ToLower(password), localPart) {
			violations = append(violations, "Password must not contain your email username")
		}
	}

	if phoneNumber != "" {
		digits := digitsOnly(phoneNumber)
		if len(digits) >= 6 {
			last6 := digits[len(digits)-6:]
			if strings.Contains(password, last6) {
				violations = append(violations, "Password must not contain digits from your phone number")
			}
		}
	}

	if _, weak := weakPasswords[strings.ToLower(password)]; weak {
		violations = append(violations, "Password is too common, please choose a stronger password")
	}

	return violations
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
