package internaldefs

import (
	goGuard "github.com/MrEthical07/goGuard"
)

// CounterDef names one authenticator counter for exporters.
type CounterDef struct {
	ID   goGuard.MetricID
	Name string
	Help string
}

// HistogramDef names one authenticator histogram for exporters.
type HistogramDef struct {
	ID   goGuard.MetricID
	Name string
	Help string
}

// AuditDroppedName is the counter of audit events dropped on backpressure.
const AuditDroppedName = "goguard_audit_dropped_total"

var CounterDefs = []CounterDef{
	{ID: goGuard.MetricLoginSuccess, Name: "goguard_login_success_total", Help: "Sessions started by LoginAndRedirect."},
	{ID: goGuard.MetricLoginFailure, Name: "goguard_login_failure_total", Help: "Logins aborted by validation or adapter failures."},
	{ID: goGuard.MetricSessionResolved, Name: "goguard_session_resolved_total", Help: "Requests carrying an active session."},
	{ID: goGuard.MetricSessionMissing, Name: "goguard_session_missing_total", Help: "Requests without a usable session cookie."},
	{ID: goGuard.MetricSessionExpired, Name: "goguard_session_expired_total", Help: "Requests whose session expired or was superseded."},
	{ID: goGuard.MetricLogout, Name: "goguard_logout_total", Help: "Completed logouts."},
	{ID: goGuard.MetricAdapterFailure, Name: "goguard_adapter_failure_total", Help: "Storage adapter failures surfaced as 500 errors."},
	{ID: goGuard.MetricAccessGranted, Name: "goguard_access_granted_total", Help: "Access checks that passed."},
	{ID: goGuard.MetricAccessDenied, Name: "goguard_access_denied_total", Help: "Access checks that failed."},
}

var HistogramDefs = []HistogramDef{
	{ID: goGuard.MetricResolveLatency, Name: "goguard_resolve_latency_seconds", Help: "Session resolve latency histogram."},
}

// HistogramBounds are the upper bounds, in seconds, of the snapshot buckets.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix renders HistogramBounds as metric name suffixes.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates raw snapshot buckets to eight entries.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into cumulative counts.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
