package crates

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/crateops/operator/pkg/manifest"
)

// ErrAlreadyPublished is returned by [Client.Publish] when the registry
// reports that the exact version is already uploaded. Callers treat this
// as success: the publish goal is already met.
var ErrAlreadyPublished = errors.New("version already published")

// Publish uploads a new version of the crate rooted at pkg.Path.
//
// The request body follows the registry publish envelope: a length-prefixed
// metadata JSON document followed by a length-prefixed .crate tarball of the
// package directory. The token authenticates the request; it is sent in the
// Authorization header and never logged.
//
// Publish performs exactly one attempt; retry policy belongs to the caller.
// An "already uploaded" response maps to [ErrAlreadyPublished].
func (c *Client) Publish(ctx context.Context, pkg *manifest.Package, token string) error {
	meta, err := publishMetadata(pkg)
	if err != nil {
		return err
	}

	tarball, err := packageTarball(pkg)
	if err != nil {
		return fmt.Errorf("package crate %s: %w", pkg.Name, err)
	}

	body := publishEnvelope(meta, tarball)

	headers := map[string]string{
		"Authorization": token,
		"Content-Type":  "application/octet-stream",
	}

	resp, err := c.Put(ctx, c.baseURL+"/crates/new", body, headers)
	if err != nil {
		if strings.Contains(err.Error(), "already uploaded") {
			return ErrAlreadyPublished
		}
		return err
	}

	// A 200 response can still carry non-fatal warnings.
	var result struct {
		Warnings struct {
			InvalidCategories []string `json:"invalid_categories"`
			InvalidBadges     []string `json:"invalid_badges"`
			Other             []string `json:"other"`
		} `json:"warnings"`
	}
	_ = json.Unmarshal(resp, &result)

	return nil
}

// publishDep mirrors the registry's dependency metadata schema.
type publishDep struct {
	Name            string   `json:"name"`
	VersionReq      string   `json:"version_req"`
	Features        []string `json:"features"`
	Optional        bool     `json:"optional"`
	DefaultFeatures bool     `json:"default_features"`
	Target          *string  `json:"target"`
	Kind            string   `json:"kind"`
}

// publishMeta mirrors the registry's crate metadata schema. Fields the
// operator does not track are sent empty; the registry fills them from
// the manifest inside the tarball.
type publishMeta struct {
	Name     string              `json:"name"`
	Vers     string              `json:"vers"`
	Deps     []publishDep        `json:"deps"`
	Features map[string][]string `json:"features"`
	Authors  []string            `json:"authors"`
	Keywords []string            `json:"keywords"`
	Badges   map[string]string   `json:"badges"`
}

func publishMetadata(pkg *manifest.Package) ([]byte, error) {
	deps := make([]publishDep, 0, len(pkg.Dependencies))
	for _, name := range pkg.Dependencies {
		req := pkg.Requirements[name]
		if req == "" {
			// Path-only dependency: the packaged manifest carries the
			// resolved version, any requirement satisfies the schema.
			req = "*"
		}
		deps = append(deps, publishDep{
			Name:            name,
			VersionReq:      req,
			Features:        []string{},
			DefaultFeatures: true,
			Kind:            "normal",
		})
	}

	return json.Marshal(publishMeta{
		Name:     pkg.Name,
		Vers:     pkg.Version,
		Deps:     deps,
		Features: map[string][]string{},
		Authors:  []string{},
		Keywords: []string{},
		Badges:   map[string]string{},
	})
}

// publishEnvelope assembles the binary request body: little-endian u32
// length prefixes around the metadata JSON and the tarball.
func publishEnvelope(meta, tarball []byte) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(meta)))
	buf.Write(meta)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(tarball)))
	buf.Write(tarball)
	return buf.Bytes()
}

// packageTarball builds the .crate payload: a gzipped tarball of the
// package directory with every path prefixed by "<name>-<version>/".
// Build output and VCS directories are excluded.
func packageTarball(pkg *manifest.Package) ([]byte, error) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)

	prefix := fmt.Sprintf("%s-%s", pkg.Name, pkg.Version)

	err := filepath.WalkDir(pkg.Path, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if skipDir(d.Name()) && path != pkg.Path {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(pkg.Path, path)
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		hdr := &tar.Header{
			Name: prefix + "/" + filepath.ToSlash(rel),
			Mode: int64(info.Mode().Perm()),
			Size: info.Size(),
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := tw.Close(); err != nil {
		return nil, err
	}
	if err := gw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// skipDir reports whether a directory is excluded from the crate tarball.
func skipDir(name string) bool {
	return name == "target" || strings.HasPrefix(name, ".")
}
