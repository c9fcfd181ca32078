package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_CountsByRoutePattern(t *testing.T) {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(Middleware())
	app.Get("/v1/grid/:ref", func(c *fiber.Ctx) error { return c.SendString("ok") })

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/v1/grid/:ref", "200"))

	for _, ref := range []string{"TQ3080", "SU3715"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/v1/grid/"+ref, nil), -1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		resp.Body.Close()
	}

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/v1/grid/:ref", "200"))
	if after-before != 2 {
		t.Errorf("expected 2 requests recorded under the route pattern, got %v", after-before)
	}
}

func TestHandler_ServesDomainMetrics(t *testing.T) {
	SquaresServed.WithLabelValues("lookup").Inc()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/metrics", Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil), -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "gridsquare_grid_squares_served_total") {
		t.Error("expected squares_served counter in exposition")
	}
}

type fakeStat struct{}

func (fakeStat) AcquiredConns() int32     { return 3 }
func (fakeStat) IdleConns() int32         { return 7 }
func (fakeStat) TotalConns() int32        { return 10 }
func (fakeStat) EmptyAcquireCount() int64 { return 4 }

func TestUpdateDBPoolMetrics(t *testing.T) {
	UpdateDBPoolMetrics(fakeStat{})
	if got := testutil.ToFloat64(DBPoolConnsOpen); got != 10 {
		t.Errorf("expected 10 open conns, got %v", got)
	}
	if got := testutil.ToFloat64(DBPoolConnsIdle); got != 7 {
		t.Errorf("expected 7 idle conns, got %v", got)
	}

	// Unknown types are ignored.
	UpdateDBPoolMetrics("not a stat")
	if got := testutil.ToFloat64(DBPoolConnsOpen); got != 10 {
		t.Errorf("expected gauge unchanged, got %v", got)
	}
}
