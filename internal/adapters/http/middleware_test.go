package http

import "testing"

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		path, pattern string
		want          bool
	}{
		{"/v1/gridref/TQ3080", "/v1/gridref/:ref", true},
		{"/v1/gridref/", "/v1/gridref/:ref", false},
		{"/v1/gridref/TQ3080/extra", "/v1/gridref/:ref", false},
		{"/v1/grid/TQ3080", "/v1/gridref/:ref", false},
		{"/v1/regions/london/random", "/v1/regions/:slug/random", true},
	}
	for _, tt := range tests {
		if got := matchPattern(tt.path, tt.pattern); got != tt.want {
			t.Errorf("matchPattern(%q, %q) = %v, want %v", tt.path, tt.pattern, got, tt.want)
		}
	}
}

func TestCacheControlFor(t *testing.T) {
	tests := map[string]string{
		"/v1/health":                  "public, max-age=10",
		"/metrics":                    "no-cache",
		"/graphql":                    "private, max-age=0",
		"/v1/regions/zone-1-2/random": "no-store",
		"/v1/grid/TQ3080":             "public, max-age=86400",
		"/v1/squares":                 "public, max-age=86400",
		"/v1/regions/zone-1-2":        "public, max-age=300",
		"/v1/squares/popular":         "public, max-age=60",
		"/docs":                       "",
	}
	for path, want := range tests {
		if got := cacheControlFor(path); got != want {
			t.Errorf("cacheControlFor(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestWSSubject(t *testing.T) {
	tests := []struct {
		name string
		msg  wsMessage
		want string
		ok   bool
	}{
		{"all squares", wsMessage{}, "grid.square.>", true},
		{"one square", wsMessage{Channel: "squares", Ref: "tq 30 80"}, "grid.square.TQ3080", true},
		{"bad ref", wsMessage{Channel: "squares", Ref: "TQ308"}, "", false},
		{"all regions", wsMessage{Channel: "regions"}, "grid.region.>", true},
		{"one region", wsMessage{Channel: "regions", Region: "city.of london"}, "grid.region.city_of_london", true},
		{"unknown channel", wsMessage{Channel: "trains"}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := wsSubject(tt.msg)
			if got != tt.want || ok != tt.ok {
				t.Errorf("wsSubject() = %q, %v; want %q, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestETagMatches(t *testing.T) {
	etag := `W/"abc"`
	cases := []struct {
		header string
		want   bool
	}{
		{"", false},
		{`W/"abc"`, true},
		{`W/"x", W/"abc"`, true},
		{"*", true},
		{`W/"other"`, false},
	}
	for _, tc := range cases {
		if got := etagMatches(tc.header, etag); got != tc.want {
			t.Errorf("etagMatches(%q) = %v, want %v", tc.header, got, tc.want)
		}
	}
}

func TestPaginationBounds(t *testing.T) {
	cases := []struct {
		p          Pagination
		start, end int
	}{
		{Pagination{Offset: 0, Limit: 2, Total: 5}, 0, 2},
		{Pagination{Offset: 4, Limit: 2, Total: 5}, 4, 5},
		{Pagination{Offset: 9, Limit: 2, Total: 5}, 5, 5},
		{Pagination{Offset: 0, Limit: 50, Total: 0}, 0, 0},
	}
	for _, tc := range cases {
		start, end := tc.p.Bounds()
		if start != tc.start || end != tc.end {
			t.Errorf("%+v.Bounds() = %d, %d, want %d, %d", tc.p, start, end, tc.start, tc.end)
		}
	}
}
