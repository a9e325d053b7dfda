package prometheus

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	goGuard "github.com/MrEthical07/goGuard"
	"github.com/MrEthical07/goGuard/access"
	"github.com/MrEthical07/goGuard/identity"
)

type fakeSource struct {
	snapshot goGuard.MetricsSnapshot
	dropped  uint64
}

func (f fakeSource) MetricsSnapshot() goGuard.MetricsSnapshot { return f.snapshot }
func (f fakeSource) AuditDropped() uint64                     { return f.dropped }

func TestRenderEmptyWhenMetricsDisabled(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goGuard.MetricsSnapshot{
			Counters:   map[goGuard.MetricID]uint64{},
			Histograms: map[goGuard.MetricID][]uint64{},
		},
	})

	if got := exp.Render(); got != "" {
		t.Fatalf("expected empty output for disabled metrics, got:\n%s", got)
	}
	if got := NewPrometheusExporter(nil).Render(); got != "" {
		t.Fatalf("expected empty output for nil authenticator, got:\n%s", got)
	}
}

func TestRenderDeterministicIncludesCounterAndHistogram(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goGuard.MetricsSnapshot{
			Counters: map[goGuard.MetricID]uint64{
				goGuard.MetricLoginSuccess: 7,
			},
			Histograms: map[goGuard.MetricID][]uint64{
				goGuard.MetricResolveLatency: {1, 2, 3, 4, 5, 6, 7, 8},
			},
		},
		dropped: 2,
	})

	out := exp.Render()
	if out != exp.Render() {
		t.Fatal("expected deterministic output")
	}
	if !strings.Contains(out, "goguard_login_success_total 7") {
		t.Fatalf("expected login_success counter in output, got:\n%s", out)
	}
	if !strings.Contains(out, "goguard_access_denied_total 0") {
		t.Fatalf("expected zero-valued counters in output, got:\n%s", out)
	}
	if !strings.Contains(out, `goguard_resolve_latency_seconds_bucket{le="0.005"} 1`) {
		t.Fatalf("expected first histogram bucket in output, got:\n%s", out)
	}
	if !strings.Contains(out, `goguard_resolve_latency_seconds_bucket{le="+Inf"} 36`) {
		t.Fatalf("expected +Inf cumulative bucket in output, got:\n%s", out)
	}
	if !strings.Contains(out, "goguard_audit_dropped_total 2") {
		t.Fatalf("expected audit dropped counter in output, got:\n%s", out)
	}
}

func TestHandlerServesAuthenticatorMetrics(t *testing.T) {
	opts := goGuard.DefaultOptions()
	opts.Cookie.Secrets = []string{"prometheus-test-secret"}
	auth, err := goGuard.New().
		WithOptions(opts).
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer auth.Close()

	if _, err := auth.LoginAndRedirect(context.Background(), &identity.User{ID: "u-1"}, "/"); err != nil {
		t.Fatalf("login: %v", err)
	}
	auth.CheckAccess(nil, access.Rule{Roles: []string{"admin"}})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	NewPrometheusExporter(auth).Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "text/plain") {
		t.Fatalf("expected prometheus content type, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"goguard_login_success_total 1", "goguard_access_denied_total 1"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, body)
		}
	}
}

func BenchmarkRender(b *testing.B) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goGuard.MetricsSnapshot{
			Counters: map[goGuard.MetricID]uint64{
				goGuard.MetricLoginSuccess:    1000,
				goGuard.MetricLoginFailure:    40,
				goGuard.MetricSessionResolved: 8000,
				goGuard.MetricSessionMissing:  120,
				goGuard.MetricLogout:          800,
				goGuard.MetricAccessDenied:    3,
			},
			Histograms: map[goGuard.MetricID][]uint64{
				goGuard.MetricResolveLatency: {10, 20, 30, 40, 50, 60, 70, 80},
			},
		},
	})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = exp.Render()
	}
}
