// Package shard projects an aggregated tweak list into the output
// documents published for consumers: one document per package with the
// full review tree, and one document per iOS version with reviewer detail
// stripped.
package shard

import "github.com/tweaklab/compatdex/pkg/catalog"

// IOSVersionDoc is the cross-package summary for one iOS version.
// Versions inside it carry aggregate outcomes only, never reviews.
type IOSVersionDoc struct {
	Packages []*catalog.Package `json:"packages"`
}

// ByPackage returns the per-package documents of the primary store: each
// package's full version/review tree, in catalog order.
func ByPackage(list *catalog.TweakList) []*catalog.Package {
	return list.Packages
}

// ByIOSVersion builds one document per distinct iOS version, keyed by the
// version string and ordered by list.IOSVersions. Each document contains a
// shallow copy of every package that has at least one version matching
// that iOS version, reduced to the matching version(s) with reviewer
// detail removed. Versions without a match are omitted; so are iOS
// versions whose document would be empty.
func ByIOSVersion(list *catalog.TweakList) (map[string]*IOSVersionDoc, []string) {
	docs := make(map[string]*IOSVersionDoc)
	var order []string

	for _, iosVersion := range list.IOSVersions {
		doc := &IOSVersionDoc{}

		for _, pkg := range list.Packages {
			shallow := *pkg
			shallow.Versions = nil

			for _, version := range pkg.Versions {
				if version.IOSVersion != iosVersion {
					continue
				}
				stripped := *version
				stripped.Users = nil
				shallow.Versions = append(shallow.Versions, &stripped)
			}

			if len(shallow.Versions) > 0 {
				doc.Packages = append(doc.Packages, &shallow)
			}
		}

		if len(doc.Packages) > 0 {
			docs[iosVersion] = doc
			order = append(order, iosVersion)
		}
	}

	return docs, order
}
