package utils

import (
	"html"
	"regexp"
	"strings"
	"unicode"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	htmlTag    = regexp.MustCompile(`<[^>]*>`)
)

// IsValidEmail checks the address shape only. Deliverability is not verified.
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// SanitizeString trims whitespace and escapes HTML
func SanitizeString(input string) string {
	return html.EscapeString(strings.TrimSpace(input))
}

// SanitizeIdentifier trims a username or email used for lookup. Case is preserved
// so that lookups match what was stored at registration.
func SanitizeIdentifier(input string) string {
	return removeControlChars(stripHTML(strings.TrimSpace(input)))
}

// SanitizeEmail sanitizes email input
func SanitizeEmail(email string) string {
	email = strings.TrimSpace(email)
	email = stripHTML(email)
	return removeControlChars(email)
}

// SanitizePhone keeps digits and the usual phone punctuation
func SanitizePhone(phone string) string {
	phone = stripHTML(strings.TrimSpace(phone))

	var result strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) || r == '+' || r == '-' || r == ' ' || r == '(' || r == ')' {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// SanitizeAttributes applies SanitizeString to every string value of a role_data map.
func SanitizeAttributes(attrs map[string]any) map[string]any {
	if attrs == nil {
		return nil
	}
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		if s, ok := v.(string); ok {
			out[k] = SanitizeString(s)
			continue
		}
		out[k] = v
	}
	return out
}

func stripHTML(input string) string {
	return htmlTag.ReplaceAllString(input, "")
}

func removeControlChars(input string) string {
	var result strings.Builder
	for _, r := range input {
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}
