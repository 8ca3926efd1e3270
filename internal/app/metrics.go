package app

import (
	"math"
	"sync/atomic"
	"time"
)

// Metrics tracks what a session has done: scripts run and documents
// opened, saved and reloaded. All methods are safe for concurrent use.
type Metrics struct {
	// Script timing
	scriptCount    atomic.Uint64
	scriptErrors   atomic.Uint64
	scriptTimeouts atomic.Uint64
	scriptTotalNs  atomic.Int64
	scriptMinNs    atomic.Int64
	scriptMaxNs    atomic.Int64
	lastScriptNs   atomic.Int64

	// Documents
	opened atomic.Uint64
	saved  atomic.Uint64

	configReloads atomic.Uint64

	startTime atomic.Int64
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{}
	m.Reset()
	return m
}

// RecordScript records one script run. A non-nil err counts as a failure.
func (m *Metrics) RecordScript(duration time.Duration, err error) {
	ns := duration.Nanoseconds()

	m.scriptCount.Add(1)
	m.scriptTotalNs.Add(ns)
	m.lastScriptNs.Store(ns)
	if err != nil {
		m.scriptErrors.Add(1)
	}

	for {
		old := m.scriptMinNs.Load()
		if ns >= old || m.scriptMinNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.scriptMaxNs.Load()
		if ns <= old || m.scriptMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordScriptTimeout records a script stopped by its deadline.
func (m *Metrics) RecordScriptTimeout() {
	m.scriptTimeouts.Add(1)
}

// RecordOpen records a document read from disk.
func (m *Metrics) RecordOpen() {
	m.opened.Add(1)
}

// RecordSave records a document written to disk.
func (m *Metrics) RecordSave() {
	m.saved.Add(1)
}

// RecordConfigReload records an applied config reload.
func (m *Metrics) RecordConfigReload() {
	m.configReloads.Add(1)
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	count := m.scriptCount.Load()

	var avg int64
	if count > 0 {
		avg = m.scriptTotalNs.Load() / int64(count)
	}

	minNs := m.scriptMinNs.Load()
	if minNs == math.MaxInt64 {
		minNs = 0
	}

	return MetricsSnapshot{
		Uptime:          time.Since(time.Unix(0, m.startTime.Load())),
		ScriptCount:     count,
		ScriptErrors:    m.scriptErrors.Load(),
		ScriptTimeouts:  m.scriptTimeouts.Load(),
		AvgScriptNs:     avg,
		MinScriptNs:     minNs,
		MaxScriptNs:     m.scriptMaxNs.Load(),
		LastScriptNs:    m.lastScriptNs.Load(),
		DocumentsOpened: m.opened.Load(),
		DocumentsSaved:  m.saved.Load(),
		ConfigReloads:   m.configReloads.Load(),
	}
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.scriptCount.Store(0)
	m.scriptErrors.Store(0)
	m.scriptTimeouts.Store(0)
	m.scriptTotalNs.Store(0)
	m.scriptMinNs.Store(math.MaxInt64)
	m.scriptMaxNs.Store(0)
	m.lastScriptNs.Store(0)
	m.opened.Store(0)
	m.saved.Store(0)
	m.configReloads.Store(0)
	m.startTime.Store(time.Now().UnixNano())
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime          time.Duration
	ScriptCount     uint64
	ScriptErrors    uint64
	ScriptTimeouts  uint64
	AvgScriptNs     int64
	MinScriptNs     int64
	MaxScriptNs     int64
	LastScriptNs    int64
	DocumentsOpened uint64
	DocumentsSaved  uint64
	ConfigReloads   uint64
}

// ErrorRate returns the percentage of scripts that failed.
func (s MetricsSnapshot) ErrorRate() float64 {
	if s.ScriptCount == 0 {
		return 0
	}
	return float64(s.ScriptErrors) / float64(s.ScriptCount) * 100
}

// AvgScriptTime returns the mean script duration.
func (s MetricsSnapshot) AvgScriptTime() time.Duration {
	return time.Duration(s.AvgScriptNs)
}

// Timer provides a simple way to measure elapsed time.
type Timer struct {
	start time.Time
}

// StartTimer creates a new timer.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the elapsed time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Stop returns the elapsed time and resets the timer.
func (t *Timer) Stop() time.Duration {
	elapsed := t.Elapsed()
	t.start = time.Now()
	return elapsed
}
