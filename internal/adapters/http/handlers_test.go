package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	handler "github.com/samirrijal/gridsquare/internal/adapters/http"
	"github.com/samirrijal/gridsquare/internal/core/domain"
	"github.com/samirrijal/gridsquare/internal/core/usecases"
)

// ---- Mock repositories ----

type mockRegionRepo struct {
	upsertFn    func(ctx context.Context, region *domain.Region) error
	getBySlugFn func(ctx context.Context, slug string) (*domain.Region, error)
	listFn      func(ctx context.Context) ([]domain.Region, error)
}

func (m *mockRegionRepo) Upsert(ctx context.Context, region *domain.Region) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, region)
	}
	return nil
}
func (m *mockRegionRepo) GetBySlug(ctx context.Context, slug string) (*domain.Region, error) {
	if m.getBySlugFn != nil {
		return m.getBySlugFn(ctx, slug)
	}
	return nil, domain.ErrNotFound
}
func (m *mockRegionRepo) List(ctx context.Context) ([]domain.Region, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

type mockViewRepo struct {
	topFn func(ctx context.Context, limit int) ([]domain.SquareViewCount, error)
}

func (m *mockViewRepo) Record(ctx context.Context, event *domain.SquareViewed) error { return nil }
func (m *mockViewRepo) Top(ctx context.Context, limit int) ([]domain.SquareViewCount, error) {
	if m.topFn != nil {
		return m.topFn(ctx, limit)
	}
	return nil, nil
}

// ---- Test helpers ----

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

func makeDeps(opts ...func(*handler.Dependencies)) *handler.Dependencies {
	d := &handler.Dependencies{
		Grid:       usecases.NewGridService(nil, nil, usecases.GridOptions{Rand: func() float64 { return 0.5 }}),
		Regions:    usecases.NewRegionService(&mockRegionRepo{}, nil, nil),
		Boundaries: usecases.NewBoundaryService(500),
		Places:     usecases.NewPlaceService(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string) (int, []byte, map[string]string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	headers := map[string]string{}
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}
	return resp.StatusCode, b, headers
}

func decodeAPIError(t *testing.T, body []byte) handler.APIError {
	t.Helper()
	var apiErr handler.APIError
	if err := json.Unmarshal(body, &apiErr); err != nil {
		t.Fatalf("decode error body %s: %v", body, err)
	}
	return apiErr
}

func ptr(v float64) *float64 { return &v }

// ---- Grid handler tests ----

func TestGridRef_Success(t *testing.T) {
	app := setupApp(makeDeps())

	status, body, headers := doRequest(t, app, "GET", "/v1/grid/tq3080", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}

	var result struct {
		Reference domain.GridReference `json:"reference"`
		Square    domain.Square        `json:"square"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatal(err)
	}
	if result.Reference.Text != "TQ3080" || result.Reference.Hectad != "TQ38" {
		t.Errorf("unexpected reference %+v", result.Reference)
	}
	if result.Square.Ref.Text != "TQ3080" || result.Square.Size != 1000 {
		t.Errorf("unexpected square %+v", result.Square.Ref)
	}
	if result.Square.Origin.Easting != 530000 || result.Square.Origin.Northing != 180000 {
		t.Errorf("unexpected origin %+v", result.Square.Origin)
	}
	if cc := headers["Cache-Control"]; cc != "public, max-age=86400" {
		t.Errorf("expected day-long caching, got %q", cc)
	}
}

func TestGridRef_Malformed(t *testing.T) {
	app := setupApp(makeDeps())

	for _, ref := range []string{"TQ308", "IA1234", "T3080", "TQ30a0"} {
		status, body, _ := doRequest(t, app, "GET", "/v1/grid/"+ref, "")
		if status != 400 {
			t.Errorf("%s: expected 400, got %d", ref, status)
			continue
		}
		if apiErr := decodeAPIError(t, body); apiErr.Code != "bad_request" {
			t.Errorf("%s: expected bad_request, got %s", ref, apiErr.Code)
		}
	}
}

func TestGridRef_LegacyRouteIsDeprecated(t *testing.T) {
	app := setupApp(makeDeps())

	status, _, headers := doRequest(t, app, "GET", "/v1/gridref/TQ3080", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	if headers["Deprecation"] != "true" {
		t.Error("expected Deprecation header")
	}
	if !strings.Contains(headers["Link"], "/v1/grid/{ref}") {
		t.Errorf("expected successor link, got %q", headers["Link"])
	}
}

func TestSquare_Success(t *testing.T) {
	app := setupApp(makeDeps())

	status, body, _ := doRequest(t, app, "GET", "/v1/squares?easting=530500&northing=180999", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var sq domain.Square
	if err := json.Unmarshal(body, &sq); err != nil {
		t.Fatal(err)
	}
	if sq.Ref.Text != "TQ3080" {
		t.Errorf("expected TQ3080, got %s", sq.Ref.Text)
	}
	if !(sq.Corners.SW.Lat < sq.Center.Lat && sq.Center.Lat < sq.Corners.NE.Lat) {
		t.Errorf("expected centre between SW and NE corners, got %+v", sq)
	}
}

func TestSquare_BadParams(t *testing.T) {
	app := setupApp(makeDeps())

	for _, q := range []string{
		"/v1/squares",
		"/v1/squares?easting=abc&northing=1",
		"/v1/squares?easting=800000&northing=100000",
		"/v1/squares?easting=1&northing=1&size=-5",
	} {
		if status, _, _ := doRequest(t, app, "GET", q, ""); status != 400 {
			t.Errorf("%s: expected 400, got %d", q, status)
		}
	}
}

func TestLocate(t *testing.T) {
	app := setupApp(makeDeps())

	status, body, _ := doRequest(t, app, "GET", "/v1/locate?lat=51.5080&lon=-0.1281", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var sq domain.Square
	if err := json.Unmarshal(body, &sq); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(sq.Ref.Text, "TQ") {
		t.Errorf("expected a TQ square, got %s", sq.Ref.Text)
	}

	for _, q := range []string{"/v1/locate?lat=51.5", "/v1/locate?lat=95&lon=0", "/v1/locate?lat=40.7&lon=-74.0"} {
		if status, _, _ := doRequest(t, app, "GET", q, ""); status != 400 {
			t.Errorf("%s: expected 400, got %d", q, status)
		}
	}
}

func TestPopularSquares(t *testing.T) {
	app := setupApp(makeDeps())
	if status, _, _ := doRequest(t, app, "GET", "/v1/squares/popular", ""); status != 503 {
		t.Errorf("expected 503 without view stats, got %d", status)
	}

	var gotLimit int
	app = setupApp(makeDeps(func(d *handler.Dependencies) {
		d.Views = usecases.NewViewService(&mockViewRepo{
			topFn: func(ctx context.Context, limit int) ([]domain.SquareViewCount, error) {
				gotLimit = limit
				return []domain.SquareViewCount{{Ref: "TQ3080", Views: 7}}, nil
			},
		})
	}))

	status, body, _ := doRequest(t, app, "GET", "/v1/squares/popular?limit=3", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	var counts []domain.SquareViewCount
	if err := json.Unmarshal(body, &counts); err != nil {
		t.Fatal(err)
	}
	if gotLimit != 3 || len(counts) != 1 || counts[0].Views != 7 {
		t.Errorf("unexpected result %v (limit %d)", counts, gotLimit)
	}
}

// ---- Region handler tests ----

func TestListRegions(t *testing.T) {
	app := setupApp(makeDeps())

	status, body, headers := doRequest(t, app, "GET", "/v1/regions?limit=2", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}

	var result struct {
		Data []struct {
			Slug   string `json:"slug"`
			Points int    `json:"points"`
		} `json:"data"`
		Pagination handler.Pagination `json:"pagination"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatal(err)
	}
	if result.Pagination.Total != 5 || len(result.Data) != 2 {
		t.Fatalf("expected 2 of 5 regions, got %d of %d", len(result.Data), result.Pagination.Total)
	}
	if result.Data[0].Slug != "zone-1-2" || result.Data[0].Points == 0 {
		t.Errorf("unexpected first region %+v", result.Data[0])
	}
	if !strings.Contains(headers["Link"], `rel="next"`) {
		t.Errorf("expected next link, got %q", headers["Link"])
	}
}

func TestGetRegion(t *testing.T) {
	app := setupApp(makeDeps())

	status, body, _ := doRequest(t, app, "GET", "/v1/regions/city-of-london", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	var region domain.Region
	if err := json.Unmarshal(body, &region); err != nil {
		t.Fatal(err)
	}
	if region.Kind != domain.RegionPolygon || len(region.Boundary) < 4 {
		t.Errorf("unexpected region %+v", region)
	}

	status, body, _ = doRequest(t, app, "GET", "/v1/regions/atlantis", "")
	if status != 404 {
		t.Fatalf("expected 404, got %d", status)
	}
	if apiErr := decodeAPIError(t, body); apiErr.Code != "not_found" {
		t.Errorf("expected not_found, got %s", apiErr.Code)
	}
}

func TestRegionGeoJSON(t *testing.T) {
	app := setupApp(makeDeps())

	status, body, headers := doRequest(t, app, "GET", "/v1/regions/united-kingdom/geojson", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.HasPrefix(headers["Content-Type"], "application/geo+json") {
		t.Errorf("unexpected content type %q", headers["Content-Type"])
	}

	var f struct {
		Type     string `json:"type"`
		Geometry struct {
			Type        string         `json:"type"`
			Coordinates [][][2]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties map[string]interface{} `json:"properties"`
	}
	if err := json.Unmarshal(body, &f); err != nil {
		t.Fatal(err)
	}
	if f.Type != "Feature" || f.Geometry.Type != "Polygon" {
		t.Fatalf("unexpected feature %s/%s", f.Type, f.Geometry.Type)
	}
	if len(f.Geometry.Coordinates) != 1 || len(f.Geometry.Coordinates[0]) != 5 {
		t.Errorf("expected a closed rectangle, got %v", f.Geometry.Coordinates)
	}
	if f.Properties["slug"] != "united-kingdom" || f.Properties["kind"] != "bbox" {
		t.Errorf("unexpected properties %v", f.Properties)
	}
}

func TestRandomSquare(t *testing.T) {
	app := setupApp(makeDeps())

	status, body, headers := doRequest(t, app, "GET", "/v1/regions/city-of-london/random", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var sq domain.Square
	if err := json.Unmarshal(body, &sq); err != nil {
		t.Fatal(err)
	}
	if sq.Ref.Text != "TQ3280" {
		t.Errorf("expected TQ3280, got %s", sq.Ref.Text)
	}
	if headers["Cache-Control"] != "no-store" {
		t.Errorf("expected no-store, got %q", headers["Cache-Control"])
	}

	if status, _, _ := doRequest(t, app, "GET", "/v1/regions/atlantis/random", ""); status != 404 {
		t.Errorf("expected 404 for unknown region, got %d", status)
	}
}

func TestRandomSquare_EmptyRegion(t *testing.T) {
	app := setupApp(makeDeps(func(d *handler.Dependencies) {
		d.Regions = usecases.NewRegionService(&mockRegionRepo{
			getBySlugFn: func(ctx context.Context, slug string) (*domain.Region, error) {
				return &domain.Region{Slug: slug, Kind: domain.RegionPolygon}, nil
			},
		}, nil, nil)
	}))

	status, body, _ := doRequest(t, app, "GET", "/v1/regions/empty/random", "")
	if status != 422 {
		t.Fatalf("expected 422, got %d", status)
	}
	if apiErr := decodeAPIError(t, body); apiErr.Code != "unprocessable" {
		t.Errorf("expected unprocessable, got %s", apiErr.Code)
	}
}

func TestPutRegion(t *testing.T) {
	var saved *domain.Region
	app := setupApp(makeDeps(func(d *handler.Dependencies) {
		d.Regions = usecases.NewRegionService(&mockRegionRepo{
			upsertFn: func(ctx context.Context, region *domain.Region) error {
				saved = region
				return nil
			},
		}, nil, nil)
	}))

	body := `{"name":"Square Mile Box","kind":"bbox","boundary":[[531000,180000],[534000,182000]]}`
	status, resp, _ := doRequest(t, app, "PUT", "/v1/regions/square-mile", body)
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, resp)
	}
	if saved == nil || saved.Slug != "square-mile" || saved.Kind != domain.RegionBBox {
		t.Fatalf("unexpected saved region %+v", saved)
	}
	if saved.UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt to be set")
	}

	status, _, _ = doRequest(t, app, "PUT", "/v1/regions/bad", `{"kind":"circle","boundary":[[0,0]]}`)
	if status != 400 {
		t.Errorf("expected 400 for invalid region, got %d", status)
	}
}

// ---- Boundary handler tests ----

const relationDoc = `{"elements":[
  {"type":"relation","id":99,"tags":{"name":"Test Area"},"members":[
    {"type":"way","ref":1,"role":"outer","geometry":[{"lat":51.50,"lon":-0.13},{"lat":51.50,"lon":-0.12},{"lat":51.51,"lon":-0.12}]},
    {"type":"node","ref":5,"role":"admin_centre"},
    {"type":"way","ref":2,"role":"outer","geometry":[{"lat":51.50,"lon":-0.13},{"lat":51.51,"lon":-0.13},{"lat":51.51,"lon":-0.12}]}
  ]}
]}`

func TestAssembleBoundary(t *testing.T) {
	app := setupApp(makeDeps())

	status, body, headers := doRequest(t, app, "POST", "/v1/boundaries/assemble?slug=test-area", relationDoc)
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if !strings.HasPrefix(headers["Content-Type"], "application/geo+json") {
		t.Errorf("unexpected content type %q", headers["Content-Type"])
	}

	var f struct {
		Properties map[string]interface{} `json:"properties"`
	}
	if err := json.Unmarshal(body, &f); err != nil {
		t.Fatal(err)
	}
	if f.Properties["name"] != "Test Area" || f.Properties["source"] != "osm" {
		t.Errorf("unexpected properties %v", f.Properties)
	}
	if f.Properties["grid_points"] != float64(5) {
		t.Errorf("expected 4 corners plus closing point, got %v", f.Properties["grid_points"])
	}
	if f.Properties["osm_relation_id"] != float64(99) {
		t.Errorf("expected relation id 99, got %v", f.Properties["osm_relation_id"])
	}
}

func TestAssembleBoundary_Save(t *testing.T) {
	var saved *domain.Region
	app := setupApp(makeDeps(func(d *handler.Dependencies) {
		d.Regions = usecases.NewRegionService(&mockRegionRepo{
			upsertFn: func(ctx context.Context, region *domain.Region) error {
				saved = region
				return nil
			},
		}, nil, nil)
	}))

	if status, _, _ := doRequest(t, app, "POST", "/v1/boundaries/assemble?save=true", relationDoc); status != 400 {
		t.Errorf("expected 400 without slug, got %d", status)
	}

	status, _, _ := doRequest(t, app, "POST", "/v1/boundaries/assemble?save=true&slug=test-area", relationDoc)
	if status != 201 {
		t.Fatalf("expected 201, got %d", status)
	}
	if saved == nil || saved.Slug != "test-area" || saved.OSMRelationID != 99 {
		t.Errorf("unexpected saved region %+v", saved)
	}
}

func TestAssembleBoundary_Unusable(t *testing.T) {
	app := setupApp(makeDeps())

	cases := map[string]string{
		"no relation": `{"elements":[{"type":"node","id":1,"lat":51.5,"lon":-0.1}]}`,
		"no outer":    `{"elements":[{"type":"relation","id":1,"members":[{"type":"way","ref":1,"role":"inner","geometry":[{"lat":51.5,"lon":-0.1}]}]}]}`,
	}
	for name, doc := range cases {
		if status, _, _ := doRequest(t, app, "POST", "/v1/boundaries/assemble", doc); status != 422 {
			t.Errorf("%s: expected 422, got %d", name, status)
		}
	}

	if status, _, _ := doRequest(t, app, "POST", "/v1/boundaries/assemble", `{"elements":`); status != 400 {
		t.Errorf("expected 400 for malformed JSON, got %d", status)
	}
}

func TestHullBoundary(t *testing.T) {
	app := setupApp(makeDeps())

	doc := `{"elements":[
	  {"type":"node","id":1,"lat":51.50,"lon":-0.13},
	  {"type":"node","id":2,"lat":51.50,"lon":-0.12},
	  {"type":"node","id":3,"lat":51.51,"lon":-0.125},
	  {"type":"way","id":4}
	]}`
	status, body, _ := doRequest(t, app, "POST", "/v1/boundaries/hull?slug=stations&buffer_m=250", doc)
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var f struct {
		Properties map[string]interface{} `json:"properties"`
	}
	if err := json.Unmarshal(body, &f); err != nil {
		t.Fatal(err)
	}
	if f.Properties["source"] != "hull" || f.Properties["grid_points"] != float64(4) {
		t.Errorf("unexpected properties %v", f.Properties)
	}

	two := `{"elements":[{"type":"node","id":1,"lat":51.50,"lon":-0.13},{"type":"node","id":2,"lat":51.50,"lon":-0.12}]}`
	if status, _, _ := doRequest(t, app, "POST", "/v1/boundaries/hull", two); status != 422 {
		t.Errorf("expected 422 for two points, got %d", status)
	}
	if status, _, _ := doRequest(t, app, "POST", "/v1/boundaries/hull?buffer_m=-1", two); status != 400 {
		t.Errorf("expected 400 for negative buffer, got %d", status)
	}
}

// ---- Place handler tests ----

func TestClassifyPlaces(t *testing.T) {
	app := setupApp(makeDeps())
	sq, err := usecases.NewGridService(nil, nil, usecases.GridOptions{}).Square(context.Background(), 530000, 180000, 1000)
	if err != nil {
		t.Fatal(err)
	}

	req := map[string]interface{}{
		"ref":  "TQ3080",
		"kind": "station",
		"elements": []domain.OSMElement{
			{Type: "node", ID: 1, Lat: ptr(sq.Center.Lat + 0.02), Lon: ptr(sq.Center.Lon), Tags: map[string]string{"name": "Far", "station": "subway"}},
			{Type: "node", ID: 2, Lat: ptr(sq.Center.Lat), Lon: ptr(sq.Center.Lon), Tags: map[string]string{"name": "Near", "network": "DLR"}},
		},
	}
	data, _ := json.Marshal(req)

	status, body, _ := doRequest(t, app, "POST", "/v1/places/classify", string(data))
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}

	var result struct {
		Square domain.Square `json:"square"`
		Places []struct {
			Name         string  `json:"name"`
			Inside       bool    `json:"inside"`
			Distance     float64 `json:"distance_km"`
			DistanceText string  `json:"distance_text"`
			Category     string  `json:"category"`
		} `json:"places"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatal(err)
	}
	if result.Square.Ref.Text != "TQ3080" {
		t.Errorf("unexpected square %s", result.Square.Ref.Text)
	}
	if len(result.Places) != 2 {
		t.Fatalf("expected 2 places, got %d", len(result.Places))
	}
	if p := result.Places[0]; p.Name != "Near" || !p.Inside || p.DistanceText != "0 m" {
		t.Errorf("unexpected first place %+v", p)
	}
	if p := result.Places[1]; p.Name != "Far" || p.Category != "Underground" || p.DistanceText != usecases.FormatDistance(p.Distance) {
		t.Errorf("unexpected second place %+v", p)
	}
}

func TestClassifyPlaces_BadInput(t *testing.T) {
	app := setupApp(makeDeps())

	cases := []string{
		`{"ref":"TQ3080","kind":"castle"}`,
		`{"ref":"XX","kind":"poi"}`,
		`not json`,
	}
	for _, body := range cases {
		if status, _, _ := doRequest(t, app, "POST", "/v1/places/classify", body); status != 400 {
			t.Errorf("%s: expected 400, got %d", body, status)
		}
	}
}

// ---- GraphQL ----

func TestGraphQL(t *testing.T) {
	app := setupApp(makeDeps())

	query := `{"query":"{ gridRef(ref: \"TQ3080\") { text hectad easting } regions { slug kind } square(easting: 530500, northing: 180500) { size_meters ref { text } } }"}`
	status, body, _ := doRequest(t, app, "POST", "/graphql", query)
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}

	var result struct {
		Data struct {
			GridRef struct {
				Text    string  `json:"text"`
				Hectad  string  `json:"hectad"`
				Easting float64 `json:"easting"`
			} `json:"gridRef"`
			Regions []struct {
				Slug string `json:"slug"`
				Kind string `json:"kind"`
			} `json:"regions"`
			Square struct {
				Size float64 `json:"size_meters"`
				Ref  struct {
					Text string `json:"text"`
				} `json:"ref"`
			} `json:"square"`
		} `json:"data"`
		Errors []interface{} `json:"errors"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatal(err)
	}
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors %v", result.Errors)
	}
	if result.Data.GridRef.Hectad != "TQ38" || result.Data.GridRef.Easting != 530000 {
		t.Errorf("unexpected gridRef %+v", result.Data.GridRef)
	}
	if len(result.Data.Regions) != 5 || result.Data.Regions[4].Kind != "bbox" {
		t.Errorf("unexpected regions %+v", result.Data.Regions)
	}
	if result.Data.Square.Size != 1000 || result.Data.Square.Ref.Text != "TQ3080" {
		t.Errorf("unexpected square %+v", result.Data.Square)
	}
}

func TestGraphQL_InvalidReference(t *testing.T) {
	app := setupApp(makeDeps())

	status, body, _ := doRequest(t, app, "POST", "/graphql", `{"query":"{ gridRef(ref: \"TQ308\") { text } }"}`)
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.Contains(string(body), "invalid grid reference") {
		t.Errorf("expected grid reference error in %s", body)
	}

	if status, _, _ := doRequest(t, app, "POST", "/graphql", `{}`); status != 400 {
		t.Errorf("expected 400 for empty query, got %d", status)
	}
}

// ---- System endpoints ----

func TestHealth_Returns200(t *testing.T) {
	app := setupApp(makeDeps())

	status, body, _ := doRequest(t, app, "GET", "/v1/health", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.Contains(string(body), `"healthy"`) {
		t.Errorf("unexpected body %s", body)
	}
}

func TestReady_NothingConfigured(t *testing.T) {
	app := setupApp(makeDeps())

	status, body, _ := doRequest(t, app, "GET", "/v1/ready", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	var result struct {
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"database", "nats", "cache"} {
		if result.Checks[k] != "not configured" {
			t.Errorf("%s: expected not configured, got %q", k, result.Checks[k])
		}
	}
}

func TestAPIVersionHeader(t *testing.T) {
	app := setupApp(makeDeps())

	_, _, headers := doRequest(t, app, "GET", "/v1/health", "")
	if headers["X-Api-Version"] != "1.0.0" {
		t.Errorf("expected X-API-Version 1.0.0, got %q", headers["X-Api-Version"])
	}
	if headers["X-Request-Id"] == "" {
		t.Error("expected a request ID")
	}
}

func TestAccessLogMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(handler.AccessLogMiddleware())
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
	})

	status, body, _ := doRequest(t, app, "GET", "/test", "")
	if status != fiber.StatusOK {
		t.Errorf("expected 200, got %d", status)
	}
	if !strings.Contains(string(body), "ok") {
		t.Errorf("expected response body to contain 'ok', got %s", body)
	}
}
