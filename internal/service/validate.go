package service

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MaxTitleLen is the server-side limit for task and subtask titles.
	MaxTitleLen = 200

	MinUsernameLen = 3
	MaxUsernameLen = 50
	MinPasswordLen = 6
)

// deadlineLayouts are tried in order. Zone-less layouts use the caller's location.
var deadlineLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParsePriority parses a priority name (case-insensitive).
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return p, nil
	}
	return "", fmt.Errorf("invalid priority: %s (want high, medium or low)", s)
}

// ParseCategory parses a category name (case-insensitive).
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid category: %s (want work, personal, study or sport)", s)
}

// ParseDeadline parses a deadline and returns it in UTC.
func ParseDeadline(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range deadlineLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid deadline: %s (want YYYY-MM-DD[THH:MM])", s)
}

// ValidateTitle trims a title and checks it against the server limits.
func ValidateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("title required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLen {
		return "", fmt.Errorf("title too long (max %d characters)", MaxTitleLen)
	}
	return title, nil
}

// ValidateRegistration checks a registration before it is sent.
// Username and email are trimmed in place.
func ValidateRegistration(r *Registration) error {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	if r.Username == "" || r.Email == "" || r.Password == "" {
		return fmt.Errorf("username, email and password are required")
	}
	if n := utf8.RuneCountInString(r.Username); n < MinUsernameLen || n > MaxUsernameLen {
		return fmt.Errorf("username must be %d to %d characters", MinUsernameLen, MaxUsernameLen)
	}
	if utf8.RuneCountInString(r.Password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLen)
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return fmt.Errorf("invalid email: %s", r.Email)
	}
	return nil
}
