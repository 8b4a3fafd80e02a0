package catalog

import (
	"sort"

	goversion "github.com/hashicorp/go-version"
	"golang.org/x/text/cases"
)

// Recalculate recomputes every version's outcome across the whole package
// collection and returns the distinct iOS version strings, sorted
// ascending by semantic version comparison.
//
// The pass is total and idempotent: outcomes are pure functions of the
// review set and the device table, so running it twice yields identical
// results. Packages are re-sorted into case-insensitive ascending order by
// name as part of the pass.
func Recalculate(packages []*Package, devices Devices) []string {
	// Caseless fold keys; a cases.Caser is not safe for concurrent use,
	// so build one per pass.
	fold := cases.Fold()
	sort.SliceStable(packages, func(i, j int) bool {
		return fold.String(packages[i].Name) < fold.String(packages[j].Name)
	})

	seen := make(map[string]struct{})
	var iosVersions []string

	for _, pkg := range packages {
		for _, version := range pkg.Versions {
			if _, ok := seen[version.IOSVersion]; !ok {
				seen[version.IOSVersion] = struct{}{}
				iosVersions = append(iosVersions, version.IOSVersion)
			}

			version.Outcome = Outcome{
				Stats: computeStats(version.Users, func(*User) bool { return true }),
				Arch32: computeStats(version.Users, func(u *User) bool {
					return devices.Is32Bit(u.Device)
				}),
			}
		}
	}

	sortVersions(iosVersions)
	return iosVersions
}

// computeStats derives one set of counters over the reviews selected by
// the include predicate.
func computeStats(users []*User, include func(*User) bool) Stats {
	var stats Stats
	for _, u := range users {
		if !include(u) {
			continue
		}
		stats.Total++
		switch u.Status {
		case StatusWorking, StatusPartial:
			stats.Good++
		case StatusNotWorking:
			stats.Bad++
		}
	}

	if stats.Total > 0 {
		stats.Percentage = stats.Good * 100 / stats.Total
	}

	// Thresholds apply in order; later overrides earlier.
	stats.CalculatedStatus = CalculatedNotWorking
	if stats.Total == 0 {
		stats.CalculatedStatus = CalculatedUnknown
	}
	if stats.Percentage > 40 {
		stats.CalculatedStatus = CalculatedLikelyWorking
	}
	if stats.Percentage > 75 {
		stats.CalculatedStatus = CalculatedWorking
	}

	return stats
}

// sortVersions orders dotted version strings ascending by semantic
// comparison, falling back to lexical order for strings that do not parse.
func sortVersions(versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		vi, erri := goversion.NewVersion(versions[i])
		vj, errj := goversion.NewVersion(versions[j])
		if erri != nil || errj != nil {
			return versions[i] < versions[j]
		}
		return vi.LessThan(vj)
	})
}
