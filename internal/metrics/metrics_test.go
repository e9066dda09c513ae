package metrics

import "testing"

type recordingBackend struct {
	counters   map[string]float64
	histograms map[string][]float64
	flushed    int
}

func (r *recordingBackend) IncCounter(name string, delta float64, labels Labels) {
	r.counters[name+"|"+labels["kind"]] += delta
}

func (r *recordingBackend) ObserveHistogram(name string, value float64, _ Labels) {
	r.histograms[name] = append(r.histograms[name], value)
}

func (r *recordingBackend) Flush() error {
	r.flushed++
	return nil
}

func TestPackageLevelForwarding(t *testing.T) {
	rec := &recordingBackend{
		counters:   map[string]float64{},
		histograms: map[string][]float64{},
	}
	SetBackend(rec)
	defer SetBackend(nil)

	IncCounter(RecordsTotal, 2, Labels{"kind": "parsed"})
	ObserveHistogram(RunDurationSeconds, 0.5, nil)
	if err := Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if rec.counters[RecordsTotal+"|parsed"] != 2 {
		t.Fatalf("counter not forwarded: %v", rec.counters)
	}
	if len(rec.histograms[RunDurationSeconds]) != 1 {
		t.Fatalf("histogram not forwarded: %v", rec.histograms)
	}
	if rec.flushed != 1 {
		t.Fatalf("flushed = %d, want 1", rec.flushed)
	}
}

func TestNopDefaultDoesNothing(t *testing.T) {
	SetBackend(nil)
	IncCounter(RecordsTotal, 1, nil)
	ObserveHistogram(RunDurationSeconds, 1, nil)
	if err := Flush(); err != nil {
		t.Fatalf("nop Flush: %v", err)
	}
}
