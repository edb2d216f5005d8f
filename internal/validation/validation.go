package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"watchnest/internal/models"
)

// Error marks a failure of input validation so callers can distinguish bad
// input from internal faults.
type Error struct {
	msg string
}

func (e *Error) Error() string {
	return e.msg
}

func fail(format string, args ...any) error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

const (
	MinNameLength     = 2
	MaxNameLength     = 100
	MinPasswordLength = 8
	MaxPasswordLength = 128
	MaxTitleLength    = 300
	MaxNotesLength    = 2000
	MinRating         = 1
	MaxRating         = 10
	MinYear           = 1870
	MaxYear           = 2100
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks that an email address is well-formed
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fail("email is required")
	}
	if !emailRegex.MatchString(email) {
		return fail("email address is not valid")
	}
	return nil
}

// ValidateName checks that a display name is a reasonable length
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fail("name is required")
	}
	length := utf8.RuneCountInString(name)
	if length < MinNameLength {
		return fail("name must be at least %d characters", MinNameLength)
	}
	if length > MaxNameLength {
		return fail("name must be at most %d characters", MaxNameLength)
	}
	return nil
}

// ValidatePassword enforces the minimum password policy
func ValidatePassword(password string) error {
	if password == "" {
		return fail("password is required")
	}
	length := utf8.RuneCountInString(password)
	if length < MinPasswordLength {
		return fail("password must be at least %d characters", MinPasswordLength)
	}
	if length > MaxPasswordLength {
		return fail("password must be at most %d characters", MaxPasswordLength)
	}
	return nil
}

// ValidateGroupName checks a family group name
func ValidateGroupName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fail("group name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return fail("group name must be at most %d characters", MaxNameLength)
	}
	return nil
}

// ValidateTitle checks a watchlist item title
func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fail("title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return fail("title must be at most %d characters", MaxTitleLength)
	}
	return nil
}

// ValidateMediaType checks that a media type is one of the known values
func ValidateMediaType(mediaType string) error {
	if !models.ValidMediaType(mediaType) {
		return fail("media type must be %q or %q", models.MediaTypeMovie, models.MediaTypeTV)
	}
	return nil
}

// ValidateStatus checks that a watch status is one of the known values
func ValidateStatus(status string) error {
	if !models.ValidStatus(status) {
		return fail("status must be %q, %q or %q",
			models.StatusWantToWatch, models.StatusWatching, models.StatusWatched)
	}
	return nil
}

// ValidateRating checks an optional 1-10 rating
func ValidateRating(rating *int) error {
	if rating == nil {
		return nil
	}
	if *rating < MinRating || *rating > MaxRating {
		return fail("rating must be between %d and %d", MinRating, MaxRating)
	}
	return nil
}

// ValidateYear checks an optional release year
func ValidateYear(year *int) error {
	if year == nil {
		return nil
	}
	if *year < MinYear || *year > MaxYear {
		return fail("year must be between %d and %d", MinYear, MaxYear)
	}
	return nil
}

// ValidateNotes checks optional free-text notes
func ValidateNotes(notes string) error {
	if utf8.RuneCountInString(notes) > MaxNotesLength {
		return fail("notes must be at most %d characters", MaxNotesLength)
	}
	return nil
}
