package catalog

import (
	"github.com/tweaklab/compatdex/pkg/errors"
	"github.com/tweaklab/compatdex/pkg/submission"
)

// Effect classifies what a merge did to the catalog.
type Effect int

// Merge effects, in order of decreasing granularity of the insert.
// EffectNone is only returned alongside a merge error.
const (
	EffectNone Effect = iota
	EffectNewPackage
	EffectNewVersion
	EffectNewReview
	EffectDuplicate
)

// String returns the effect's label, which doubles as the issue label
// applied by the tracker collaborator.
func (e Effect) String() string {
	switch e {
	case EffectNewPackage:
		return "new-package"
	case EffectNewVersion:
		return "new-version"
	case EffectNewReview:
		return "new-review"
	case EffectDuplicate:
		return "duplicate"
	default:
		return "none"
	}
}

// Merge applies one validated change to the package collection and
// classifies the result. At most one insert happens per change: a new
// package (with its first version and review), a new version (with its
// first review), a new review, or nothing at all for a duplicate.
//
// An existing package's latest and description are overwritten with the
// change's values before the version lookup; the newest submission always
// wins, with no authorship or timestamp comparison.
//
// A change for an unknown package whose package identifier is empty fails
// the merge and leaves the collection exactly as it was. Merge returns the
// (possibly reallocated) collection rather than relying on aliasing, so a
// failed merge can never leak a partial insert.
func Merge(packages []*Package, c *submission.Change) ([]*Package, Effect, error) {
	pkg := PackageByID(packages, c.PackageID)
	if pkg == nil {
		created := NewPackage(c)
		if created.ID == "" {
			return packages, EffectNone, &errors.MergeError{
				PackageID: c.PackageID,
				Issue:     c.IssueNumber,
				Message:   "empty package id",
			}
		}
		return append(packages, created), EffectNewPackage, nil
	}

	// Last write wins on package metadata.
	pkg.Latest = c.Latest
	pkg.ShortDescription = c.Description()

	version := pkg.VersionByIOS(c.IOSVersion)
	if version == nil {
		pkg.Versions = append(pkg.Versions, NewVersion(c))
		return packages, EffectNewVersion, nil
	}

	if review := version.Review(c.UserName, c.DeviceID); review == nil {
		version.Users = append(version.Users, NewUser(c))
		return packages, EffectNewReview, nil
	}

	return packages, EffectDuplicate, nil
}
