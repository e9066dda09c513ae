package datadog

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/DataDog/datadog-api-client-go/v2/api/datadogV2"

	"github.com/santuchal/sdf-to-smiles/internal/metrics"
)

type fakeSubmitter struct {
	mu       sync.Mutex
	payloads []datadogV2.MetricPayload
}

func (f *fakeSubmitter) SubmitMetrics(_ context.Context, body datadogV2.MetricPayload, _ ...datadogV2.SubmitMetricsOptionalParameters) (datadogV2.IntakePayloadAccepted, *http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, body)
	return datadogV2.IntakePayloadAccepted{}, nil, nil
}

func newTestBackend(t *testing.T, fake *fakeSubmitter) *Backend {
	t.Helper()
	b, err := NewBackend(context.Background(), Options{
		JobName:    "test",
		FlushEvery: time.Hour, // keep the loop quiet during the test
		now:        func() time.Time { return time.Unix(1700000000, 0) },
		newTicker:  time.NewTicker,
		submitter:  fake,
	})
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	return b
}

func TestBackend_FlushSubmitsRecordCounts(t *testing.T) {
	t.Parallel()

	fake := &fakeSubmitter{}
	b := newTestBackend(t, fake)

	b.IncCounter(metrics.RecordsTotal, 3, metrics.Labels{"kind": "parsed"})
	b.IncCounter(metrics.RecordsTotal, 1, metrics.Labels{"kind": "smiles_failed"})
	b.IncCounter("unrelated_metric", 1, metrics.Labels{"kind": "parsed"})
	b.ObserveHistogram(metrics.RunDurationSeconds, 1.25, nil)

	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if len(fake.payloads) != 1 {
		t.Fatalf("got %d payloads, want 1", len(fake.payloads))
	}
	series := fake.payloads[0].Series

	byMetric := map[string]datadogV2.MetricSeries{}
	for _, s := range series {
		byMetric[s.Metric+tagOf(s.Tags, "kind:")] = s
	}

	parsed, ok := byMetric["sdf2smiles.records.totalkind:parsed"]
	if !ok {
		t.Fatalf("missing parsed record series; series = %v", names(series))
	}
	if *parsed.Points[0].Value != 3 {
		t.Fatalf("parsed count = %v, want 3", *parsed.Points[0].Value)
	}
	if *parsed.Points[0].Timestamp != 1700000000 {
		t.Fatalf("timestamp = %d, want injected clock", *parsed.Points[0].Timestamp)
	}

	if _, ok := byMetric["sdf2smiles.records.totalkind:smiles_failed"]; !ok {
		t.Fatalf("missing smiles_failed series; series = %v", names(series))
	}
	if _, ok := byMetric["sdf2smiles.run.duration_seconds.p50"]; !ok {
		t.Fatalf("missing duration p50 series; series = %v", names(series))
	}
}

func TestBackend_FlushWithNothingBufferedSubmitsNothing(t *testing.T) {
	t.Parallel()

	fake := &fakeSubmitter{}
	b := newTestBackend(t, fake)
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(fake.payloads) != 0 {
		t.Fatalf("got %d payloads, want 0", len(fake.payloads))
	}
}

func TestParseTagsCSV(t *testing.T) {
	t.Parallel()

	got := ParseTagsCSV(" env:prod , team:chem ,,")
	if len(got) != 2 || got[0] != "env:prod" || got[1] != "team:chem" {
		t.Fatalf("ParseTagsCSV = %v", got)
	}
	if ParseTagsCSV("") != nil {
		t.Fatal("empty input should return nil")
	}
}

func tagOf(tags []string, prefix string) string {
	for _, t := range tags {
		if len(t) >= len(prefix) && t[:len(prefix)] == prefix {
			return t
		}
	}
	return ""
}

func names(series []datadogV2.MetricSeries) []string {
	out := make([]string, 0, len(series))
	for _, s := range series {
		out = append(out, s.Metric)
	}
	return out
}
