// Package validation holds the field predicates shared by the login,
// registration and contact forms, plus struct-level form validation that
// reports the user-facing messages for each failing field.
package validation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf16"
)

const (
	MsgName     = "Please enter a valid name (2-50 characters, letters only)"
	MsgEmail    = "Please enter a valid email address"
	MsgMessage  = "Message must be at least 10 characters long"
	MsgPassword = "Password must be at least 6 characters long"
	MsgMismatch = "Passwords do not match"
	MsgRequired = "Please fill in all fields"
)

const (
	minMessageLength  = 10
	minPasswordLength = 6
)

// space is the browser whitespace set: ASCII \s plus \v, BOM and every
// Unicode separator.
const space = `\s\v\x{FEFF}\p{Z}`

var (
	// local@domain.tld with no whitespace and exactly one @ per part.
	emailPattern = regexp.MustCompile(`^[^` + space + `@]+@[^` + space + `@]+\.[^` + space + `@]+$`)
	namePattern  = regexp.MustCompile(`^[a-zA-Z` + space + `]{2,50}$`)
)

// TrimSpace strips leading and trailing whitespace as a browser form's
// trim() does. Unlike strings.TrimSpace it strips U+FEFF and keeps U+0085.
func TrimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}

func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\uFEFF':
		return true
	}
	return unicode.In(r, unicode.Z)
}

// textLength counts UTF-16 code units, so characters outside the BMP count
// twice.
func textLength(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}

// ValidateEmail reports whether email has the shape local@domain.tld.
// It is not RFC 5322 complete.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidateName reports whether the trimmed name is 2-50 ASCII letters or
// whitespace characters.
func ValidateName(name string) bool {
	return namePattern.MatchString(TrimSpace(name))
}

// ValidateMessage reports whether the trimmed message has at least 10
// characters, counted in UTF-16 code units.
func ValidateMessage(message string) bool {
	return textLength(TrimSpace(message)) >= minMessageLength
}

// ValidatePassword reports whether password has at least 6 characters,
// counted in UTF-16 code units. Passwords are not trimmed.
func ValidatePassword(password string) bool {
	return textLength(password) >= minPasswordLength
}
