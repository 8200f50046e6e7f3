package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	_ "github.com/Sternrassler/steam-inventory-client/pkg/cache"
	_ "github.com/Sternrassler/steam-inventory-client/pkg/client"
	_ "github.com/Sternrassler/steam-inventory-client/pkg/inventory"
	_ "github.com/Sternrassler/steam-inventory-client/pkg/ratelimit"
)

func TestRegistry(t *testing.T) {
	if Registry == nil {
		t.Error("Registry should not be nil")
	}

	if Registry != prometheus.DefaultRegisterer {
		t.Error("Registry should be the default Prometheus registerer")
	}

	if Gatherer != prometheus.DefaultGatherer {
		t.Error("Gatherer should be the default Prometheus gatherer")
	}
}

func TestHandler_ExposesPackageMetrics(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	// Metrics without labels are exported before their first observation.
	for _, name := range []string{
		"inventory_fetch_duration_seconds",
		"inventory_pages_total",
		"inventory_retries_total",
		"steam_inventory_request_duration_seconds",
		"inventory_cache_misses_total",
		"steam_rate_limit_penalties_total",
	} {
		if !strings.Contains(string(body), name) {
			t.Errorf("metric %s not exposed", name)
		}
	}
}
