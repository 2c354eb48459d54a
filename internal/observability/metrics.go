package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64
	authDenied   int64
	authAnon     int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordAnonymousSession counts tokens downgraded or issued as anonymous.
func (m *Metrics) RecordAnonymousSession() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authAnon++
}

// RecordAuthorizationDenied counts 401 responses from the authorizer.
func (m *Metrics) RecordAuthorizationDenied() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authDenied++
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	Requests            map[string]int64 `json:"requests"`
	Errors              map[string]int64 `json:"errors"`
	AnonymousSessions   int64            `json:"anonymous_sessions"`
	AuthorizationDenied int64            `json:"authorization_denied"`
}

// Snapshot returns copies of the counters for the health metrics endpoint.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := MetricsSnapshot{
		Requests:            make(map[string]int64, len(m.requestCount)),
		Errors:              make(map[string]int64, len(m.errorCount)),
		AnonymousSessions:   m.authAnon,
		AuthorizationDenied: m.authDenied,
	}
	for k, v := range m.requestCount {
		snapshot.Requests[k] = v
	}
	for k, v := range m.errorCount {
		snapshot.Errors[k] = v
	}
	return snapshot
}
