package metrics

import "time"

// Upstream records the latency of one outbound provider call, plus an
// error count when it failed.
func Upstream(provider string, start time.Time, err error) {
	r := New(Namespace).
		Dimension("Provider", provider).
		Since("UpstreamLatencyMs", start)
	if err != nil {
		r.Count("UpstreamErrors")
	}
	r.Flush()
}
