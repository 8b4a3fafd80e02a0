package submission

import (
	"fmt"
	"net/url"
	"regexp"
)

// Chosen status values accepted from a reviewer.
const (
	ChosenWorking    = "working"
	ChosenNotWorking = "not working"
	ChosenPartial    = "partial"
)

var (
	// iosVersionPattern requires a leading digit followed by digits and dots.
	iosVersionPattern = regexp.MustCompile(`^[0-9][0-9.]*$`)

	// deviceIDPattern requires the tablet/phone suffix after the separator.
	deviceIDPattern = regexp.MustCompile(`\|iPad$|\|iPhone$`)
)

// Violation describes a single failed field predicate.
type Violation struct {
	Field   string
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// Validate checks a candidate change record against the required-field
// schema and returns every violation found. An empty result means the
// change is valid. Extra fields are tolerated by the decoder, so only the
// required fields are checked here.
func Validate(c *Change) []Violation {
	var violations []Violation

	required := []struct {
		field string
		value string
	}{
		{"author", c.Author},
		{"latest", c.Latest},
		{"name", c.Name},
		{"packageName", c.PackageName},
		{"id", c.ID},
		{"packageId", c.PackageID},
		{"repository", c.Repository},
	}
	for _, r := range required {
		if r.value == "" {
			violations = append(violations, Violation{Field: r.field, Message: "is required"})
		}
	}

	if c.IOSVersion == "" {
		violations = append(violations, Violation{Field: "iOSVersion", Message: "is required"})
	} else if !iosVersionPattern.MatchString(c.IOSVersion) {
		violations = append(violations, Violation{Field: "iOSVersion", Message: "must be a dotted numeric version"})
	}

	if c.URL == "" {
		violations = append(violations, Violation{Field: "url", Message: "is required"})
	} else if u, err := url.Parse(c.URL); err != nil || u.Scheme == "" || u.Host == "" {
		violations = append(violations, Violation{Field: "url", Message: "must be a well-formed URL"})
	}

	if c.DeviceID == "" {
		violations = append(violations, Violation{Field: "deviceId", Message: "is required"})
	} else if !deviceIDPattern.MatchString(c.DeviceID) {
		violations = append(violations, Violation{Field: "deviceId", Message: "must end in |iPad or |iPhone"})
	}

	// userNotes must be present but may be empty; the decoder always
	// yields a string, so there is nothing to check beyond the status.
	switch c.UserChosenStatus {
	case ChosenWorking, ChosenNotWorking, ChosenPartial:
	default:
		violations = append(violations, Violation{
			Field:   "userChosenStatus",
			Message: fmt.Sprintf("must be one of %q, %q, %q", ChosenNotWorking, ChosenWorking, ChosenPartial),
		})
	}

	return violations
}

// Valid reports whether the change passes every field predicate.
func Valid(c *Change) bool {
	return len(Validate(c)) == 0
}
