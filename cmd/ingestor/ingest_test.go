package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/samirrijal/gridsquare/internal/adapters/osmfile"
	"github.com/samirrijal/gridsquare/internal/core/domain"
	"github.com/samirrijal/gridsquare/internal/core/usecases"
)

type memRegionRepo struct {
	mu      sync.Mutex
	regions map[string]domain.Region
}

func (m *memRegionRepo) Upsert(ctx context.Context, region *domain.Region) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.regions == nil {
		m.regions = map[string]domain.Region{}
	}
	m.regions[region.Slug] = *region
	return nil
}

func (m *memRegionRepo) GetBySlug(ctx context.Context, slug string) (*domain.Region, error) {
	return nil, domain.ErrNotFound
}

func (m *memRegionRepo) List(ctx context.Context) ([]domain.Region, error) {
	return nil, nil
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const relationDoc = `{"elements":[{"type":"relation","id":42,"tags":{"name":"Test Area"},"members":[
  {"type":"way","ref":1,"role":"outer","geometry":[{"lat":51.50,"lon":-0.13},{"lat":51.50,"lon":-0.12},{"lat":51.51,"lon":-0.12}]},
  {"type":"way","ref":2,"role":"outer","geometry":[{"lat":51.51,"lon":-0.12},{"lat":51.51,"lon":-0.13},{"lat":51.50,"lon":-0.13}]}
]}]}`

const nodesDoc = `{"elements":[
  {"type":"node","id":1,"lat":51.50,"lon":-0.13},
  {"type":"node","id":2,"lat":51.50,"lon":-0.12},
  {"type":"node","id":3,"lat":51.51,"lon":-0.125}
]}`

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "manifest.json", `{"source":"test","regions":[
	  {"slug":"a","file":"a.json"},
	  {"slug":"b","mode":"hull","file":"b.json","buffer_m":250}
	]}`)

	m, base, err := loadManifest(path)
	if err != nil {
		t.Fatal(err)
	}
	if base != dir {
		t.Errorf("expected base dir %s, got %s", dir, base)
	}
	if len(m.Regions) != 2 || m.Regions[0].Mode != modeRelation || m.Regions[1].Mode != modeHull {
		t.Errorf("unexpected regions %+v", m.Regions)
	}
}

func TestLoadManifest_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "manifest.json", `{"regions":[
	  {"file":"a.json"},
	  {"slug":"b","file":"b.json"},
	  {"slug":"b","file":"c.json"},
	  {"slug":"d"},
	  {"slug":"e","mode":"circle","file":"e.json"}
	]}`)

	_, _, err := loadManifest(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"slug is required", "duplicate slug", "file is required", "unknown mode"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
}

func TestFilter(t *testing.T) {
	entries := []RegionEntry{{Slug: "a"}, {Slug: "b"}, {Slug: "c"}}
	if got := filter(entries, nil); len(got) != 3 {
		t.Errorf("expected all entries, got %d", len(got))
	}
	got := filter(entries, []string{"c", "a"})
	if len(got) != 2 || got[0].Slug != "a" || got[1].Slug != "c" {
		t.Errorf("unexpected filter result %+v", got)
	}
}

func TestIngestorRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "area.json", relationDoc)
	writeFile(t, dir, "stations.json", nodesDoc)
	writeFile(t, dir, "nodes-only.json", nodesDoc)

	repo := &memRegionRepo{}
	in := &ingestor{
		source:     osmfile.NewSource(dir),
		boundaries: usecases.NewBoundaryService(500),
		regions:    usecases.NewRegionService(repo, nil, nil),
	}

	failed := in.run(context.Background(), []RegionEntry{
		{Slug: "area", Mode: modeRelation, File: "area.json"},
		{Slug: "stations", Name: "Stations", Mode: modeHull, File: "stations.json", BufferM: 250},
		{Slug: "no-relation", Mode: modeRelation, File: "nodes-only.json"},
		{Slug: "missing", Mode: modeRelation, File: "missing.json"},
	}, 2)

	if failed != 2 {
		t.Errorf("expected 2 failures, got %d", failed)
	}
	if len(repo.regions) != 2 {
		t.Fatalf("expected 2 saved regions, got %d", len(repo.regions))
	}

	area := repo.regions["area"]
	if area.Name != "Test Area" || area.Source != domain.SourceOSM || area.OSMRelationID != 42 {
		t.Errorf("unexpected area region %+v", area)
	}
	hull := repo.regions["stations"]
	if hull.Source != domain.SourceHull || len(hull.Boundary) != 4 {
		t.Errorf("unexpected hull region %+v", hull)
	}
}
