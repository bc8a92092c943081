package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/crateops/operator/pkg/errors"
)

// writeManifest creates a crate directory containing the given Cargo.toml.
func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ManifestFilename), []byte(content), 0644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeManifest(t, `
[package]
name = "fj-math"
version = "0.8.0"
edition = "2021"

[dependencies]
nalgebra = "0.31"
parry3d-f64 = { version = "0.9", features = ["simd"] }
fj-interop = { version = "0.8.0", path = "../fj-interop" }

[dev-dependencies]
approx = "0.5"

[build-dependencies]
cc = "1.0"
`)

	pkg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if pkg.Name != "fj-math" {
		t.Errorf("Name = %q", pkg.Name)
	}
	if pkg.Version != "0.8.0" {
		t.Errorf("Version = %q", pkg.Version)
	}
	if pkg.Path != dir {
		t.Errorf("Path = %q, want %q", pkg.Path, dir)
	}

	want := []string{"cc", "fj-interop", "nalgebra", "parry3d-f64"}
	if len(pkg.Dependencies) != len(want) {
		t.Fatalf("Dependencies = %v, want %v", pkg.Dependencies, want)
	}
	for i := range want {
		if pkg.Dependencies[i] != want[i] {
			t.Errorf("Dependencies[%d] = %q, want %q", i, pkg.Dependencies[i], want[i])
		}
	}

	// Dev dependencies are excluded.
	if pkg.DependsOn("approx") {
		t.Error("dev dependency should be excluded")
	}
	if !pkg.DependsOn("fj-interop") {
		t.Error("DependsOn(fj-interop) = false")
	}

	// Version requirements are captured from both forms.
	if pkg.Requirements["nalgebra"] != "0.31" {
		t.Errorf("Requirements[nalgebra] = %q", pkg.Requirements["nalgebra"])
	}
	if pkg.Requirements["parry3d-f64"] != "0.9" {
		t.Errorf("Requirements[parry3d-f64] = %q", pkg.Requirements["parry3d-f64"])
	}
}

func TestLoad_RenamedDependency(t *testing.T) {
	dir := writeManifest(t, `
[package]
name = "app"
version = "1.0.0"

[dependencies]
local-name = { package = "registry-name", version = "2.0" }
`)

	pkg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !pkg.DependsOn("registry-name") {
		t.Errorf("Dependencies = %v, want registry-name", pkg.Dependencies)
	}
	if pkg.DependsOn("local-name") {
		t.Error("renamed dependency should use registry name")
	}
}

func TestLoad_MissingManifest(t *testing.T) {
	_, err := Load(t.TempDir())
	if err == nil {
		t.Fatal("expected error for missing manifest")
	}
	if errors.GetCode(err) != errors.ErrCodeMetadata {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeMetadata)
	}
}

func TestLoad_MalformedManifest(t *testing.T) {
	dir := writeManifest(t, `[package
name = broken`)

	_, err := Load(dir)
	if err == nil {
		t.Fatal("expected error for malformed manifest")
	}
	if errors.GetCode(err) != errors.ErrCodeMetadata {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeMetadata)
	}
}

func TestLoad_MissingFields(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no name", "[package]\nversion = \"1.0.0\"\n"},
		{"no version", "[package]\nname = \"foo\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeManifest(t, tt.content)
			_, err := Load(dir)
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.GetCode(err) != errors.ErrCodeInvalidManifest {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidManifest)
			}
		})
	}
}

func TestLoad_NoDependencies(t *testing.T) {
	dir := writeManifest(t, `
[package]
name = "leaf"
version = "0.1.0"
`)

	pkg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(pkg.Dependencies) != 0 {
		t.Errorf("Dependencies = %v, want empty", pkg.Dependencies)
	}
}
