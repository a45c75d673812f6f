package middleware

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"
)

// Metrics counter request HTTP + pipeline laporan
type Metrics struct {
	RequestsTotal      atomic.Uint64
	RequestsInProgress atomic.Int64
	RequestsSuccess    atomic.Uint64
	RequestsFailed     atomic.Uint64

	ReportsSubmitted atomic.Uint64
	ReportsAccepted  atomic.Uint64
	ReportsRejected  atomic.Uint64
	ReportsFailed    atomic.Uint64

	Dispatches       atomic.Uint64
	DispatchesFailed atomic.Uint64
	Exports          atomic.Uint64

	StartTime time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{StartTime: time.Now()}
}

// Snapshot nilai counter saat ini
func (m *Metrics) Snapshot() map[string]any {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return map[string]any{
		"requests_total":       m.RequestsTotal.Load(),
		"requests_in_progress": m.RequestsInProgress.Load(),
		"requests_success":     m.RequestsSuccess.Load(),
		"requests_failed":      m.RequestsFailed.Load(),
		"reports": map[string]uint64{
			"submitted": m.ReportsSubmitted.Load(),
			"accepted":  m.ReportsAccepted.Load(),
			"rejected":  m.ReportsRejected.Load(),
			"failed":    m.ReportsFailed.Load(),
		},
		"dispatches": map[string]uint64{
			"total":   m.Dispatches.Load(),
			"failed":  m.DispatchesFailed.Load(),
			"exports": m.Exports.Load(),
		},
		"uptime_seconds": time.Since(m.StartTime).Seconds(),
		"memory": map[string]any{
			"alloc_bytes": mem.Alloc,
			"sys_bytes":   mem.Sys,
			"num_gc":      mem.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}
}

// Middleware tracks request metrics
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.RequestsTotal.Add(1)
		m.RequestsInProgress.Add(1)
		defer m.RequestsInProgress.Add(-1)

		wrapped := wrapWriter(w)
		next.ServeHTTP(wrapped, r)

		if wrapped.statusCode >= 200 && wrapped.statusCode < 400 {
			m.RequestsSuccess.Add(1)
		} else {
			m.RequestsFailed.Add(1)
		}
	})
}

// Handler returns metrics as JSON
func (m *Metrics) Handler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(m.Snapshot())
}
