package usecases

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/gridsquare/internal/core/domain"
	"github.com/samirrijal/gridsquare/internal/pkg/geospatial"
	"github.com/samirrijal/gridsquare/internal/pkg/telemetry"
)

// PlaceService classifies OSM features against a grid square.
type PlaceService struct{}

// NewPlaceService creates a new PlaceService.
func NewPlaceService() *PlaceService {
	return &PlaceService{}
}

// Classify turns elements into places of the given kind, measuring each
// against square. Elements without a location or a usable name are dropped.
// Places inside the square come first; the rest are ordered by distance.
func (s *PlaceService) Classify(ctx context.Context, square *domain.Square, elements []domain.OSMElement, kind domain.PlaceKind) []domain.Place {
	_, span := telemetry.StartSpan(ctx, telemetry.SpanClassify,
		attribute.String("places.kind", string(kind)), attribute.Int("places.input", len(elements)))
	defer span.End()

	corners := cornersOf(square)
	places := make([]domain.Place, 0, len(elements))

	for _, el := range elements {
		loc, geom, ok := elementLocation(el)
		if !ok {
			continue
		}

		p := domain.Place{
			Kind:     kind,
			Location: loc,
			Geometry: geom,
			OSMType:  el.Type,
			OSMID:    el.ID,
			Tags:     el.Tags,
		}

		switch kind {
		case domain.PlaceStation:
			p.Name = el.Tags["name"]
			p.Category = StationType(el.Tags)
			p.Metadata = StationMetadata(el.Tags)
		default:
			p.Name = el.Tags["name"]
			if p.Name == "" {
				p.Name = DefaultName(el.Tags)
			}
			p.Metadata = TagMetadata(el.Tags)
		}
		if p.Name == "" {
			continue
		}

		p.Distance = geospatial.DistanceToSquareEdge(loc.Lat, loc.Lon, corners)
		p.Inside = p.Distance == 0
		places = append(places, p)
	}

	sort.SliceStable(places, func(i, j int) bool {
		a, b := places[i], places[j]
		if a.Inside != b.Inside {
			return a.Inside
		}
		if a.Inside && kind != domain.PlaceStation {
			return a.Metadata < b.Metadata
		}
		return a.Distance < b.Distance
	})

	span.SetAttributes(attribute.Int("places.output", len(places)))
	return places
}

// elementLocation returns a node's position, or the vertex mean of a way's
// geometry along with the geometry itself.
func elementLocation(el domain.OSMElement) (domain.GeoPoint, []domain.GeoPoint, bool) {
	if el.Type == "way" && len(el.Geometry) > 0 {
		var lat, lon float64
		for _, p := range el.Geometry {
			lat += p.Lat
			lon += p.Lon
		}
		n := float64(len(el.Geometry))
		return domain.GeoPoint{Lat: lat / n, Lon: lon / n}, el.Geometry, true
	}
	if el.Lat != nil && el.Lon != nil {
		return domain.GeoPoint{Lat: *el.Lat, Lon: *el.Lon}, nil, true
	}
	return domain.GeoPoint{}, nil, false
}

func cornersOf(sq *domain.Square) geospatial.Corners {
	conv := func(p domain.GeoPoint) geospatial.LatLon { return geospatial.LatLon{Lat: p.Lat, Lon: p.Lon} }
	return geospatial.Corners{
		SW: conv(sq.Corners.SW),
		NE: conv(sq.Corners.NE),
		NW: conv(sq.Corners.NW),
		SE: conv(sq.Corners.SE),
	}
}

// StationType names the kind of rail station from its tags.
func StationType(tags map[string]string) string {
	switch tags["station"] {
	case "subway":
		return "Underground"
	case "light_rail":
		return "Light Rail"
	}
	return "Train"
}

// StationMetadata picks the line, else the operator for National Rail
// stations, else the network.
func StationMetadata(tags map[string]string) string {
	line := tags["line"]
	if line == "" {
		line = tags["line:name"]
	}
	switch {
	case line != "":
		return FormatLineName(line)
	case tags["operator"] != "" && tags["network"] == "National Rail":
		return tags["operator"]
	default:
		return tags["network"]
	}
}

// FormatLineName turns "metropolitan;piccadilly" into "Metropolitan, Piccadilly".
func FormatLineName(line string) string {
	var lines []string
	for _, l := range strings.Split(line, ";") {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		words := strings.Split(l, " ")
		for i, w := range words {
			words[i] = capitalize(strings.ToLower(w))
		}
		lines = append(lines, strings.Join(words, " "))
	}
	return strings.Join(lines, ", ")
}

// metadataKeys lists the tags shown for POIs and amenities, in display order.
var metadataKeys = []string{
	"leisure", "natural", "waterway", "tourism", "historic", "amenity",
	"railway", "man_made", "building", "aeroway", "bridge",
}

// TagMetadata summarises the descriptive tags of a feature, e.g. "Park • Playground".
func TagMetadata(tags map[string]string) string {
	var parts []string
	for _, k := range metadataKeys {
		v := tags[k]
		if v == "" {
			continue
		}
		// building=yes and bridge=yes say nothing.
		if (k == "building" || k == "bridge") && v == "yes" {
			continue
		}
		parts = append(parts, formatTagValue(v))
	}
	return strings.Join(parts, " • ")
}

// DefaultName names common unnamed amenities, or returns "".
func DefaultName(tags map[string]string) string {
	switch tags["railway"] {
	case "level_crossing":
		return "Railway Level Crossing"
	case "crossing":
		return "Railway Crossing"
	}
	switch tags["amenity"] {
	case "drinking_water":
		return "Drinking Water"
	case "water_point":
		return "Water Point"
	case "toilets":
		return "Public Toilets"
	case "fountain":
		return "Fountain"
	case "public_bookcase":
		return "Public Bookcase"
	case "cafe":
		return "Cafe"
	case "hotel":
		return "Hotel"
	}
	if tags["tourism"] == "hotel" {
		return "Hotel"
	}
	return ""
}

// FormatDistance renders kilometres as "350 m" below 1 km and "1.4 km" above.
func FormatDistance(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%d m", int(math.Round(km*1000)))
	}
	return fmt.Sprintf("%.1f km", km)
}

func formatTagValue(v string) string {
	words := strings.Split(strings.ReplaceAll(v, "_", " "), " ")
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func capitalize(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if size == 0 {
		return w
	}
	return string(unicode.ToUpper(r)) + w[size:]
}
