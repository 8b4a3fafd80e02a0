package submission

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/tweaklab/compatdex/pkg/logging"
)

const (
	// bodyFence is the marker an eligible issue body must begin with.
	bodyFence = "```"

	// eligibilityMarker must appear somewhere in an eligible issue body.
	eligibilityMarker = "packageStatusExplaination"
)

// IssueMeta carries the issue metadata stamped onto a parsed change.
type IssueMeta struct {
	ID        int64
	Number    int
	Title     string
	CreatedAt time.Time
	Author    string
}

// envelope is the plaintext JSON wrapper inside the fenced issue body.
type envelope struct {
	Base64       string `json:"base64"`
	Notes        string `json:"notes"`
	ChosenStatus string `json:"chosenStatus"`
}

// Parse decodes a raw issue body into a candidate change record.
//
// Only bodies that begin with the fence marker and contain the eligibility
// marker are considered; anything else returns (nil, false). The fenced
// content is parsed as a JSON envelope whose base64 field is decoded and
// parsed again as the change payload. A decode failure at either stage is
// a skip, never an error: the issue simply produces no change.
func Parse(body string, meta IssueMeta) (*Change, bool) {
	if len(body) < len(bodyFence) || body[:len(bodyFence)] != bodyFence {
		return nil, false
	}
	if !strings.Contains(body, eligibilityMarker) {
		return nil, false
	}

	var env envelope
	if err := json.Unmarshal([]byte(stripFences(body)), &env); err != nil {
		logging.Debug().Int("issue", meta.Number).Err(err).Msg("submission envelope is not valid JSON")
		return nil, false
	}

	payload, err := base64.StdEncoding.DecodeString(env.Base64)
	if err != nil {
		logging.Debug().Int("issue", meta.Number).Err(err).Msg("submission payload is not valid base64")
		return nil, false
	}

	var change Change
	if err := json.Unmarshal(payload, &change); err != nil {
		logging.Debug().Int("issue", meta.Number).Err(err).Msg("submission payload is not valid JSON")
		return nil, false
	}

	change.IssueID = meta.ID
	change.IssueNumber = meta.Number
	change.IssueTitle = meta.Title
	change.Date = meta.CreatedAt.UTC().Format(time.RFC3339)
	change.UserNotes = env.Notes
	change.UserChosenStatus = env.ChosenStatus
	change.UserName = meta.Author

	return &change, true
}

// stripFences removes every fence marker from the body, including any
// language hint directly after the opening fence.
func stripFences(body string) string {
	stripped := strings.ReplaceAll(body, bodyFence+"json", "")
	return strings.ReplaceAll(stripped, bodyFence, "")
}
