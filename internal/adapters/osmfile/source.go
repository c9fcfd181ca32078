// Package osmfile reads Overpass JSON documents saved on disk.
package osmfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samirrijal/gridsquare/internal/core/domain"
)

// ErrNoRelation is returned when a document holds no relation element.
var ErrNoRelation = errors.New("document contains no relation")

// Source implements ports.RelationSource. Relative locations resolve
// against Dir.
type Source struct {
	Dir string
}

func NewSource(dir string) *Source {
	return &Source{Dir: dir}
}

// LoadRelation returns the first relation in the document at location.
func (s *Source) LoadRelation(ctx context.Context, location string) (*domain.OSMElement, error) {
	doc, err := s.LoadDocument(ctx, location)
	if err != nil {
		return nil, err
	}
	for i := range doc.Elements {
		if doc.Elements[i].Type == "relation" {
			return &doc.Elements[i], nil
		}
	}
	return nil, fmt.Errorf("%s: %w", location, ErrNoRelation)
}

// LoadDocument decodes the whole document at location.
func (s *Source) LoadDocument(ctx context.Context, location string) (*domain.OSMDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := location
	if !filepath.IsAbs(path) && s.Dir != "" {
		path = filepath.Join(s.Dir, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open osm document: %w", err)
	}
	defer f.Close()

	var doc domain.OSMDocument
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", location, err)
	}
	return &doc, nil
}
