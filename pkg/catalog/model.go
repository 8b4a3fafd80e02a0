// Package catalog provides the normalized package/version/review tree and
// the two core operations over it: merging validated change records
// (insert-or-update keyed by package, then version, then reviewer) and
// recomputing the derived compatibility outcome for every version.
//
// All persisted and emitted JSON keeps the wire field names of the tweak
// list documents, so shards written by this package stay byte-compatible
// with existing consumers.
package catalog

import "github.com/tweaklab/compatdex/pkg/submission"

// Review status values as they appear in submission payloads. The chosen
// status on the envelope uses "not working" with a space; the payload
// status does not.
const (
	StatusWorking    = "working"
	StatusPartial    = "partial"
	StatusNotWorking = "notworking"
)

// Calculated status values derived from a version's review set.
const (
	CalculatedUnknown       = "Unknown"
	CalculatedNotWorking    = "Not working"
	CalculatedLikelyWorking = "Likely working"
	CalculatedWorking       = "Working"
)

// TweakList is the persisted catalog document: the full package tree, the
// sorted list of distinct iOS versions, and the read-only device table.
type TweakList struct {
	Packages    []*Package `json:"packages"`
	IOSVersions []string   `json:"iOSVersions"`
	Devices     Devices    `json:"devices"`
}

// Package is a third-party tweak identified by its stable package id.
// Name, latest and description follow the newest change that references
// the package (last write wins).
type Package struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Latest           string     `json:"latest"`
	ShortDescription string     `json:"shortDescription"`
	Repository       string     `json:"repository"`
	Versions         []*Version `json:"versions"`
}

// Version is one iOS version a package has been reviewed on. The review
// order is stable across writes but carries no meaning.
type Version struct {
	IOSVersion string  `json:"iOSVersion"`
	Latest     string  `json:"latest"`
	Users      []*User `json:"users,omitempty"`
	Outcome    Outcome `json:"outcome"`
}

// User is a single reviewer's verdict for a package version, identified by
// (userName, deviceId) within the version.
type User struct {
	UserName    string `json:"userName"`
	DeviceID    string `json:"deviceId"`
	Device      string `json:"device"`
	Status      string `json:"status"`
	UserNotes   string `json:"userNotes"`
	Author      string `json:"author"`
	Date        string `json:"date"`
	IssueID     int64  `json:"issueId,omitempty"`
	IssueNumber int    `json:"issueNumber,omitempty"`
}

// Stats is one set of derived compatibility counters.
type Stats struct {
	Total            int    `json:"total"`
	Good             int    `json:"good"`
	Bad              int    `json:"bad"`
	Percentage       int    `json:"percentage"`
	CalculatedStatus string `json:"calculatedStatus"`
}

// Outcome is a version's derived compatibility record: the overall stats
// plus the sub-aggregate restricted to 32-bit devices. It is recomputed in
// full on every aggregation pass, never updated incrementally.
type Outcome struct {
	Stats
	Arch32 Stats `json:"arch32"`
}

// NewPackage constructs a package from a change record. The package id is
// the change's package identifier; an empty id makes the merge fail.
func NewPackage(c *submission.Change) *Package {
	return &Package{
		ID:               c.PackageID,
		Name:             c.Name,
		Latest:           c.Latest,
		ShortDescription: c.Description(),
		Repository:       c.Repository,
		Versions:         []*Version{NewVersion(c)},
	}
}

// NewVersion constructs a version, with its first review, from a change.
func NewVersion(c *submission.Change) *Version {
	return &Version{
		IOSVersion: c.IOSVersion,
		Latest:     c.Latest,
		Users:      []*User{NewUser(c)},
	}
}

// NewUser constructs a review from a change.
func NewUser(c *submission.Change) *User {
	return &User{
		UserName:    c.UserName,
		DeviceID:    c.DeviceID,
		Device:      c.Device,
		Status:      c.Status,
		UserNotes:   c.UserNotes,
		Author:      c.Author,
		Date:        c.Date,
		IssueID:     c.IssueID,
		IssueNumber: c.IssueNumber,
	}
}

// PackageByID returns the package with the given id, or nil.
func PackageByID(packages []*Package, id string) *Package {
	for _, p := range packages {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// VersionByIOS returns the package's version for the given iOS version
// string, or nil.
func (p *Package) VersionByIOS(iosVersion string) *Version {
	for _, v := range p.Versions {
		if v.IOSVersion == iosVersion {
			return v
		}
	}
	return nil
}

// Review returns the version's review for the given reviewer and device
// id, or nil.
func (v *Version) Review(userName, deviceID string) *User {
	for _, u := range v.Users {
		if u.UserName == userName && u.DeviceID == deviceID {
			return u
		}
	}
	return nil
}
