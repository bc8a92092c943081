// Package manifest reads crate manifests (Cargo.toml) into the snapshot
// form used by release detection and publish planning.
//
// A manifest is read once per run and the resulting [Package] is treated
// as immutable for the duration of that run.
package manifest

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/crateops/operator/pkg/errors"
)

// ManifestFilename is the manifest file expected in every crate directory.
const ManifestFilename = "Cargo.toml"

// Package is an immutable snapshot of one crate's manifest.
type Package struct {
	Name         string            // Crate name from [package]
	Path         string            // Directory the manifest was read from
	Version      string            // Version from [package]
	Dependencies []string          // Dependency crate names, sorted (dev deps excluded)
	Requirements map[string]string // Dependency name -> declared version requirement ("" for path-only deps)
}

// DependsOn reports whether the package declares a dependency on name.
func (p *Package) DependsOn(name string) bool {
	for _, dep := range p.Dependencies {
		if dep == name {
			return true
		}
	}
	return false
}

// cargoFile mirrors the subset of Cargo.toml the operator needs.
type cargoFile struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
	Dependencies      map[string]any `toml:"dependencies"`
	BuildDependencies map[string]any `toml:"build-dependencies"`
}

// Load reads the Cargo.toml in dir and returns the package snapshot.
//
// Normal and build dependencies are included (both constrain publish
// order); dev-dependencies are excluded because the registry does not
// require them to resolve at publish time. Renamed dependencies use the
// registry name from their `package` key.
//
// Returns an METADATA_ERROR when the manifest is missing or unreadable,
// and an INVALID_MANIFEST error when it parses but lacks a name or version.
func Load(dir string) (*Package, error) {
	path := filepath.Join(dir, ManifestFilename)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMetadata, err, "read manifest %s", path)
	}

	var cargo cargoFile
	if err := toml.Unmarshal(data, &cargo); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMetadata, err, "parse manifest %s", path)
	}

	if cargo.Package.Name == "" {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "manifest %s has no package name", path)
	}
	if cargo.Package.Version == "" {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "manifest %s has no package version", path)
	}
	if err := errors.ValidateCrateName(cargo.Package.Name); err != nil {
		return nil, err
	}

	reqs := make(map[string]string)
	collectDeps(cargo.Dependencies, reqs)
	collectDeps(cargo.BuildDependencies, reqs)

	names := make([]string, 0, len(reqs))
	for name := range reqs {
		names = append(names, name)
	}
	sort.Strings(names)

	return &Package{
		Name:         cargo.Package.Name,
		Path:         dir,
		Version:      strings.TrimSpace(cargo.Package.Version),
		Dependencies: names,
		Requirements: reqs,
	}, nil
}

// collectDeps extracts dependency crate names and version requirements
// from a Cargo dependency table. Entries are either a version string
// ("1.0") or a table that may carry a `version` key and may rename the
// dependency via its `package` key. Path-only dependencies have an empty
// requirement.
func collectDeps(table map[string]any, out map[string]string) {
	for name, spec := range table {
		req := ""
		switch v := spec.(type) {
		case string:
			req = v
		case map[string]any:
			if renamed, ok := v["package"].(string); ok && renamed != "" {
				name = renamed
			}
			if version, ok := v["version"].(string); ok {
				req = version
			}
		}
		out[name] = req
	}
}
