package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Manifest lists the region boundaries to build. Files are Overpass JSON
// documents saved next to the manifest.
type Manifest struct {
	Source  string        `json:"source"`
	Regions []RegionEntry `json:"regions"`
}

// RegionEntry is one boundary to build. Mode "relation" (the default)
// assembles the first relation in File; "hull" buffers the convex hull of
// every node in File by BufferM metres.
type RegionEntry struct {
	Slug    string  `json:"slug"`
	Name    string  `json:"name"`
	Mode    string  `json:"mode,omitempty"`
	File    string  `json:"file"`
	BufferM float64 `json:"buffer_m,omitempty"`
}

const (
	modeRelation = "relation"
	modeHull     = "hull"
)

// loadManifest reads and validates the manifest at path. The returned
// directory is where relative entry files resolve.
func loadManifest(path string) (*Manifest, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, "", fmt.Errorf("parse manifest: %w", err)
	}

	var errs []error
	seen := make(map[string]bool, len(m.Regions))
	for i := range m.Regions {
		e := &m.Regions[i]
		if e.Mode == "" {
			e.Mode = modeRelation
		}
		switch {
		case e.Slug == "":
			errs = append(errs, fmt.Errorf("region %d: slug is required", i))
		case seen[e.Slug]:
			errs = append(errs, fmt.Errorf("region %s: duplicate slug", e.Slug))
		case e.File == "":
			errs = append(errs, fmt.Errorf("region %s: file is required", e.Slug))
		case e.Mode != modeRelation && e.Mode != modeHull:
			errs = append(errs, fmt.Errorf("region %s: unknown mode %q", e.Slug, e.Mode))
		case e.BufferM < 0:
			errs = append(errs, fmt.Errorf("region %s: buffer_m must not be negative", e.Slug))
		}
		seen[e.Slug] = true
	}
	if err := errors.Join(errs...); err != nil {
		return nil, "", err
	}

	return &m, filepath.Dir(path), nil
}

// filter keeps the entries whose slug is in only; an empty only keeps all.
func filter(entries []RegionEntry, only []string) []RegionEntry {
	if len(only) == 0 {
		return entries
	}
	keep := make(map[string]bool, len(only))
	for _, s := range only {
		keep[s] = true
	}
	var out []RegionEntry
	for _, e := range entries {
		if keep[e.Slug] {
			out = append(out, e)
		}
	}
	return out
}
