// Package store is the persistence collaborator: file-backed JSON storage
// for the tweak list document and the emitted per-package and
// per-iOS-version output documents.
//
// Layout under the data directory:
//
//	tweaklist.json     the full catalog (packages, iOS versions, devices)
//	devices.yaml       optional device reference table seed
//	packages/<id>.json one document per package
//	ios/<version>.json one document per iOS version
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/tweaklab/compatdex/pkg/catalog"
	"github.com/tweaklab/compatdex/pkg/errors"
	"github.com/tweaklab/compatdex/pkg/logging"
	"github.com/tweaklab/compatdex/pkg/shard"
)

const (
	tweakListFile  = "tweaklist.json"
	deviceSeedFile = "devices.yaml"
	packagesDir    = "packages"
	iosDir         = "ios"

	filePermissions = 0o644
	dirPermissions  = 0o755
)

// Store reads and writes the pipeline's documents under one data
// directory.
type Store struct {
	dir string
}

// New creates a store rooted at the given data directory.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// TweakList reads the persisted tweak list. A missing file yields an
// empty list seeded with the device reference table, so a first run (or a
// rebuild after a wipe) starts from a clean catalog without failing.
func (s *Store) TweakList() (*catalog.TweakList, error) {
	path := filepath.Join(s.dir, tweakListFile)

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &catalog.TweakList{Devices: s.deviceSeed()}, nil
	}
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var list catalog.TweakList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}

	if len(list.Devices) == 0 {
		list.Devices = s.deviceSeed()
	}

	return &list, nil
}

// WriteTweakList persists the tweak list document.
func (s *Store) WriteTweakList(list *catalog.TweakList) error {
	return s.writeJSON(filepath.Join(s.dir, tweakListFile), list)
}

// WipePackages clears all persisted package data from the tweak list,
// preserving the device reference table. Used only in full-rebuild mode.
func (s *Store) WipePackages() error {
	list, err := s.TweakList()
	if err != nil {
		return err
	}
	list.Packages = nil
	list.IOSVersions = nil
	return s.WriteTweakList(list)
}

// WipeOutput removes all emitted output documents. Run before every
// output-sharding pass.
func (s *Store) WipeOutput() error {
	for _, sub := range []string{packagesDir, iosDir} {
		path := filepath.Join(s.dir, sub)
		if err := os.RemoveAll(path); err != nil {
			return errors.WrapIO("delete", path, err)
		}
	}
	return nil
}

// WritePackage emits one per-package output document.
func (s *Store) WritePackage(pkg *catalog.Package) error {
	return s.writeJSON(filepath.Join(s.dir, packagesDir, fileName(pkg.ID)), pkg)
}

// WriteByIOSVersion emits one per-iOS-version output document.
func (s *Store) WriteByIOSVersion(iosVersion string, doc *shard.IOSVersionDoc) error {
	return s.writeJSON(filepath.Join(s.dir, iosDir, fileName(iosVersion)), doc)
}

// deviceSeed loads the device reference table from the optional YAML seed
// file. A missing or unreadable seed yields an empty table.
func (s *Store) deviceSeed() catalog.Devices {
	path := filepath.Join(s.dir, deviceSeedFile)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var seed struct {
		Devices catalog.Devices `yaml:"devices"`
	}
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		logging.Warn().Str("path", path).Err(err).Msg("ignoring malformed device seed")
		return nil
	}
	return seed.Devices
}

// writeJSON marshals a document with indentation and writes it, creating
// parent directories as needed.
func (s *Store) writeJSON(path string, doc any) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.WrapParse("json", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, raw, filePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// fileName maps a package id or iOS version to a safe document name.
func fileName(id string) string {
	id = strings.ReplaceAll(id, string(os.PathSeparator), "_")
	id = strings.ReplaceAll(id, "..", "_")
	return id + ".json"
}
