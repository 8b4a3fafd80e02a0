package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tweaklab/compatdex/pkg/catalog"
	"github.com/tweaklab/compatdex/pkg/shard"
)

func testList() *catalog.TweakList {
	return &catalog.TweakList{
		Packages: []*catalog.Package{{
			ID:   "com.acme.tweak",
			Name: "Acme Tweak",
			Versions: []*catalog.Version{{
				IOSVersion: "14.0",
				Users:      []*catalog.User{{UserName: "reviewer1", DeviceID: "abc|iPhone", Status: catalog.StatusWorking}},
			}},
		}},
		IOSVersions: []string{"14.0"},
		Devices:     catalog.Devices{{DeviceID: "iPhone4,1", Arch32Bit: true}},
	}
}

func TestTweakListRoundTrip(t *testing.T) {
	s := New(t.TempDir())

	require.NoError(t, s.WriteTweakList(testList()))

	got, err := s.TweakList()
	require.NoError(t, err)
	require.Len(t, got.Packages, 1)
	assert.Equal(t, "com.acme.tweak", got.Packages[0].ID)
	assert.Equal(t, []string{"14.0"}, got.IOSVersions)
	assert.True(t, got.Devices.Is32Bit("iPhone4,1"))
}

func TestTweakListMissingFileIsEmpty(t *testing.T) {
	s := New(t.TempDir())

	got, err := s.TweakList()
	require.NoError(t, err)
	assert.Empty(t, got.Packages)
	assert.Empty(t, got.Devices)
}

func TestTweakListMissingFileLoadsDeviceSeed(t *testing.T) {
	dir := t.TempDir()
	seed := "devices:\n  - deviceId: iPhone4,1\n    name: iPhone 4S\n    arch32bit: true\n  - deviceId: iPhone9,1\n    arch32bit: false\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "devices.yaml"), []byte(seed), 0o644))

	s := New(dir)
	got, err := s.TweakList()
	require.NoError(t, err)

	require.Len(t, got.Devices, 2)
	assert.True(t, got.Devices.Is32Bit("iPhone4,1"))
	assert.False(t, got.Devices.Is32Bit("iPhone9,1"))
}

func TestWipePackagesKeepsDevices(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.WriteTweakList(testList()))

	require.NoError(t, s.WipePackages())

	got, err := s.TweakList()
	require.NoError(t, err)
	assert.Empty(t, got.Packages)
	assert.Empty(t, got.IOSVersions)
	assert.True(t, got.Devices.Is32Bit("iPhone4,1"))
}

func TestOutputDocumentsAndWipe(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	list := testList()

	require.NoError(t, s.WritePackage(list.Packages[0]))
	docs, _ := shard.ByIOSVersion(list)
	require.NoError(t, s.WriteByIOSVersion("14.0", docs["14.0"]))

	pkgPath := filepath.Join(dir, "packages", "com.acme.tweak.json")
	iosPath := filepath.Join(dir, "ios", "14.0.json")
	assert.FileExists(t, pkgPath)
	assert.FileExists(t, iosPath)

	raw, err := os.ReadFile(iosPath)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "reviewer1")

	require.NoError(t, s.WipeOutput())
	assert.NoFileExists(t, pkgPath)
	assert.NoFileExists(t, iosPath)
}

func TestFileNameSanitizesSeparators(t *testing.T) {
	assert.Equal(t, "a_b.json", fileName("a"+string(os.PathSeparator)+"b"))
	assert.Equal(t, "_secret.json", fileName(".."+"secret"))
}
