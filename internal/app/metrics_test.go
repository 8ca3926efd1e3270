package app

import (
	"errors"
	"testing"
	"time"
)

func TestMetricsEmpty(t *testing.T) {
	snap := NewMetrics().Snapshot()

	if snap.ScriptCount != 0 || snap.MinScriptNs != 0 || snap.AvgScriptNs != 0 {
		t.Errorf("empty snapshot = %+v", snap)
	}
	if snap.ErrorRate() != 0 {
		t.Errorf("ErrorRate() = %v, want 0", snap.ErrorRate())
	}
}

func TestMetricsRecordScript(t *testing.T) {
	m := NewMetrics()

	m.RecordScript(10*time.Millisecond, nil)
	m.RecordScript(30*time.Millisecond, errors.New("boom"))
	m.RecordScript(20*time.Millisecond, nil)
	m.RecordScriptTimeout()

	snap := m.Snapshot()
	if snap.ScriptCount != 3 {
		t.Errorf("ScriptCount = %d, want 3", snap.ScriptCount)
	}
	if snap.ScriptErrors != 1 || snap.ScriptTimeouts != 1 {
		t.Errorf("errors = %d, timeouts = %d", snap.ScriptErrors, snap.ScriptTimeouts)
	}
	if snap.MinScriptNs != (10 * time.Millisecond).Nanoseconds() {
		t.Errorf("MinScriptNs = %d", snap.MinScriptNs)
	}
	if snap.MaxScriptNs != (30 * time.Millisecond).Nanoseconds() {
		t.Errorf("MaxScriptNs = %d", snap.MaxScriptNs)
	}
	if snap.LastScriptNs != (20 * time.Millisecond).Nanoseconds() {
		t.Errorf("LastScriptNs = %d", snap.LastScriptNs)
	}
	if snap.AvgScriptTime() != 20*time.Millisecond {
		t.Errorf("AvgScriptTime() = %v", snap.AvgScriptTime())
	}
	if rate := snap.ErrorRate(); rate < 33 || rate > 34 {
		t.Errorf("ErrorRate() = %v", rate)
	}
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.RecordOpen()
	m.RecordOpen()
	m.RecordSave()
	m.RecordConfigReload()

	snap := m.Snapshot()
	if snap.DocumentsOpened != 2 || snap.DocumentsSaved != 1 || snap.ConfigReloads != 1 {
		t.Errorf("snapshot = %+v", snap)
	}

	m.Reset()
	snap = m.Snapshot()
	if snap.DocumentsOpened != 0 || snap.ScriptCount != 0 {
		t.Errorf("after Reset = %+v", snap)
	}
}

func TestTimer(t *testing.T) {
	timer := StartTimer()
	time.Sleep(5 * time.Millisecond)

	if timer.Elapsed() < 5*time.Millisecond {
		t.Error("Elapsed() shorter than sleep")
	}
	if timer.Stop() < 5*time.Millisecond {
		t.Error("Stop() shorter than sleep")
	}
}
