package shard

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tweaklab/compatdex/pkg/catalog"
)

func testList() *catalog.TweakList {
	return &catalog.TweakList{
		Packages: []*catalog.Package{
			{
				ID:   "com.acme.tweak",
				Name: "Acme Tweak",
				Versions: []*catalog.Version{
					{
						IOSVersion: "13.5",
						Users:      []*catalog.User{{UserName: "reviewer1", DeviceID: "abc|iPhone", Status: catalog.StatusWorking}},
					},
					{
						IOSVersion: "14.0",
						Users:      []*catalog.User{{UserName: "reviewer2", DeviceID: "def|iPad", Status: catalog.StatusPartial}},
					},
				},
			},
			{
				ID:   "org.other.widget",
				Name: "Widget",
				Versions: []*catalog.Version{
					{
						IOSVersion: "14.0",
						Users:      []*catalog.User{{UserName: "reviewer3", DeviceID: "ghi|iPhone", Status: catalog.StatusNotWorking}},
					},
				},
			},
		},
		IOSVersions: []string{"13.5", "14.0"},
	}
}

func TestByPackageKeepsFullTree(t *testing.T) {
	docs := ByPackage(testList())

	require.Len(t, docs, 2)
	require.Len(t, docs[0].Versions, 2)
	assert.NotEmpty(t, docs[0].Versions[0].Users)
}

func TestByIOSVersionStripsReviewerDetail(t *testing.T) {
	docs, order := ByIOSVersion(testList())

	assert.Equal(t, []string{"13.5", "14.0"}, order)
	require.Contains(t, docs, "14.0")
	for _, doc := range docs {
		for _, pkg := range doc.Packages {
			for _, version := range pkg.Versions {
				assert.Nil(t, version.Users)
			}
		}
	}

	// The users field must not even appear in the emitted JSON.
	raw, err := json.Marshal(docs["14.0"])
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"users"`)
	assert.NotContains(t, string(raw), "reviewer2")
}

func TestByIOSVersionOmitsPackagesWithoutMatchingVersion(t *testing.T) {
	docs, _ := ByIOSVersion(testList())

	require.Contains(t, docs, "13.5")
	require.Len(t, docs["13.5"].Packages, 1)
	assert.Equal(t, "com.acme.tweak", docs["13.5"].Packages[0].ID)

	require.Len(t, docs["14.0"].Packages, 2)
}

func TestByIOSVersionSkipsEmptyDocuments(t *testing.T) {
	list := testList()
	list.IOSVersions = append(list.IOSVersions, "99.0")

	docs, order := ByIOSVersion(list)

	assert.NotContains(t, docs, "99.0")
	assert.Equal(t, []string{"13.5", "14.0"}, order)
}

func TestByIOSVersionDoesNotMutateSource(t *testing.T) {
	list := testList()
	ByIOSVersion(list)

	// Shallow copies must leave the primary tree's reviews in place.
	require.Len(t, list.Packages[0].Versions[0].Users, 1)
}
