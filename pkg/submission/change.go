// Package submission decodes and validates crowd-sourced compatibility
// reports submitted as structured issue bodies.
//
// A submission arrives as an issue whose body is a fenced JSON envelope.
// The envelope carries a base64-encoded payload (the change record proper)
// plus the reviewer's plaintext notes and chosen status. Parsing is a pure
// transform over the supplied issue data; validation is an explicit set of
// per-field predicates returning structured violations.
package submission

// Change is a candidate change record decoded from a submission payload
// and stamped with the originating issue's metadata.
//
// The payload fields keep the wire names used by the submission schema.
// Unknown extra fields in the payload are tolerated and dropped.
type Change struct {
	// Payload fields (decoded from the base64 envelope field).
	Author      string `json:"author"`
	IOSVersion  string `json:"iOSVersion"`
	URL         string `json:"url"`
	Latest      string `json:"latest"`
	Name        string `json:"name"`
	PackageName string `json:"packageName"`
	ID          string `json:"id"`
	PackageID   string `json:"packageId"`
	Repository  string `json:"repository"`
	DeviceID    string `json:"deviceId"`
	Device      string `json:"device"`
	Status      string `json:"status"`
	Depiction   string `json:"depiction,omitempty"`

	ShortDescription string `json:"shortDescription,omitempty"`

	// Envelope fields (plaintext alongside the base64 payload).
	UserNotes        string `json:"userNotes"`
	UserChosenStatus string `json:"userChosenStatus"`

	// Issue metadata stamped by Parse.
	IssueID     int64  `json:"issueId"`
	IssueNumber int    `json:"issueNumber"`
	IssueTitle  string `json:"issueTitle"`
	Date        string `json:"date"`
	UserName    string `json:"userName"`
}

// Description returns the package description carried by the change,
// preferring the depiction over the short description.
func (c *Change) Description() string {
	if c.Depiction != "" {
		return c.Depiction
	}
	return c.ShortDescription
}
